package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/maxborn/loan_management_app/internal/apperrors"
)

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

const (
	StatusPending  LoanStatus = "Pending"
	StatusVerified LoanStatus = "Verified"
	StatusApproved LoanStatus = "Approved"
	StatusActive   LoanStatus = "Active"
	StatusOverdue  LoanStatus = "Overdue"
	StatusPaid     LoanStatus = "Paid"
	StatusRejected LoanStatus = "Rejected"
)

// ValidLoanStatus reports whether s is a known lifecycle state.
func ValidLoanStatus(s LoanStatus) bool {
	switch s {
	case StatusPending, StatusVerified, StatusApproved, StatusActive, StatusOverdue, StatusPaid, StatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s LoanStatus) IsTerminal() bool {
	return s == StatusPaid || s == StatusRejected
}

// IsPayable reports whether payment collection is allowed from s.
//
// The two legacy panels disagreed on this set: one allowed
// {Active, Overdue, Approved}, the other additionally allowed Verified. We
// keep the permissive variant so a payment recorded against a verified loan
// activates it, matching the collections panel's behaviour.
func (s LoanStatus) IsPayable() bool {
	switch s {
	case StatusActive, StatusOverdue, StatusApproved, StatusVerified:
		return true
	}
	return false
}

// statusTransitions is the explicit table of direct status changes allowed
// through UpdateStatus. Ledger-driven states (Active, Overdue, Paid) are not
// reachable here; they are only set by RecordPayment / RecordPenalty.
var statusTransitions = map[LoanStatus][]LoanStatus{
	StatusPending:  {StatusVerified, StatusRejected},
	StatusVerified: {StatusApproved, StatusRejected},
}

// CanTransition reports whether a direct status change from -> to is in the
// transition table.
func CanTransition(from, to LoanStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ApplyStatusChange performs a direct lifecycle transition on the loan:
// stamps the transition date, records the comment fields and the acting
// role, and returns the notifications the transition emits. The loan is not
// modified when the transition is rejected.
func ApplyStatusChange(loan *Loan, to LoanStatus, comment string, actor Actor, now time.Time) ([]Notification, error) {
	if !ValidLoanStatus(to) {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, to)
	}
	if !CanTransition(loan.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, loan.Status, to)
	}

	stamp := DateStamp(now)
	loan.Status = to
	loan.UpdatedBy = string(actor.Role)

	switch to {
	case StatusVerified:
		loan.VerifiedDate = stamp
		if comment != "" {
			loan.VerifierComment = comment
		}
	case StatusApproved:
		loan.ApprovedDate = stamp
		if comment != "" {
			loan.AdminComment = comment
		}
	case StatusRejected:
		// An empty rejection reason is tolerated (legacy behaviour); the
		// handler flags it as a validation warning but does not fail.
		loan.RejectedDate = stamp
		loan.RejectionReason = comment
	}

	if comment != "" {
		loan.StatusComment = comment
		loan.CommentDate = &now
	}

	loan.LastUpdatedAt = now
	loan.LastUpdatedBy = actor.UserID

	return transitionNotifications(loan, to), nil
}

// transitionNotifications builds the fire-and-forget notifications emitted by
// a direct transition. Delivery failures never roll back the transition.
func transitionNotifications(loan *Loan, to LoanStatus) []Notification {
	switch to {
	case StatusVerified:
		return []Notification{{
			Type:       NotificationInfo,
			Title:      "KYC Verification Required",
			Message:    fmt.Sprintf("KYC verification needed for %s (Loan ID: %s)", loan.Applicant.Name, loan.LoanID),
			Severity:   SeverityMedium,
			TargetRole: RoleAdmin,
			LoanID:     loan.LoanID,
			ClientID:   loan.Applicant.Phone,
		}}
	case StatusApproved:
		return []Notification{{
			Type:     NotificationSuccess,
			Title:    "Loan Approved",
			Message:  fmt.Sprintf("Loan for %s (ID: %s) has been approved", loan.Applicant.Name, loan.LoanID),
			Severity: SeverityMedium,
			LoanID:   loan.LoanID,
			ClientID: loan.Applicant.Phone,
		}}
	}
	return nil
}

// RecordPayment appends a payment entry to the ledger and moves the loan to
// Active, or Paid when the last installment is collected. It fails without
// mutating the loan when the current status does not permit collection or
// the entry is invalid.
func (l *Loan) RecordPayment(entry PaymentEntry, now time.Time) error {
	if !l.Status.IsPayable() {
		return fmt.Errorf("%w: loan %s is %s, not active for payment collection", apperrors.ErrInvalidTransition, l.LoanID, l.Status)
	}
	if entry.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}
	if !ValidPaymentMode(entry.PaymentMode) {
		return fmt.Errorf("%w: unknown payment mode %q", apperrors.ErrValidation, entry.PaymentMode)
	}
	if l.EMIsRemaining <= 0 {
		return fmt.Errorf("%w: no installments remaining on loan %s", apperrors.ErrInvalidTransition, l.LoanID)
	}

	l.Payments = append(l.Payments, entry)
	l.EMIsPaid++
	l.EMIsRemaining--
	l.LastPaymentDate = entry.PaymentDate

	if l.EMIsRemaining == 0 {
		l.Status = StatusPaid
	} else {
		l.Status = StatusActive
	}

	l.LastUpdatedAt = now
	return nil
}

// RecordPenalty appends a penalty entry, accumulates the cached total and
// moves an Active loan to Overdue. Applying a penalty to an already Overdue
// loan appends the entry without changing status.
func (l *Loan) RecordPenalty(entry PenaltyEntry, now time.Time) error {
	if entry.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: penalty amount must be positive", apperrors.ErrValidation)
	}

	l.Penalties = append(l.Penalties, entry)
	l.TotalPenalty = l.TotalPenalty.Add(entry.Amount)

	if l.Status == StatusActive {
		l.Status = StatusOverdue
	}

	l.LastUpdatedAt = now
	return nil
}
