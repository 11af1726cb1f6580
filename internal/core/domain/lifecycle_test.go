package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxborn/loan_management_app/internal/apperrors"
	"github.com/maxborn/loan_management_app/internal/core/domain"
)

func newTestLoan(status domain.LoanStatus, tenure, paid int) *domain.Loan {
	return &domain.Loan{
		ID:            "b0a3b3f2-0000-0000-0000-000000000001",
		LoanID:        "LN12345678",
		Applicant:     domain.Applicant{Name: "Ravi Kumar", Phone: "9876543210", AadharNumber: "123412341234"},
		LoanAmount:    decimal.NewFromInt(40000),
		InterestRate:  decimal.NewFromFloat(0.0375),
		Tenure:        tenure,
		Status:        status,
		KYCStatus:     domain.KYCPending,
		AppliedDate:   "2025-01-15",
		EMIsPaid:      paid,
		EMIsRemaining: tenure - paid,
		TotalPenalty:  decimal.Zero,
	}
}

func paymentEntry(amount int64) domain.PaymentEntry {
	return domain.PaymentEntry{
		EntryID:     "pay-1",
		Amount:      decimal.NewFromInt(amount),
		PaymentMode: domain.PaymentCash,
		PaymentDate: "2025-02-15",
		CollectedBy: "Collections Agent",
		CreatedAt:   time.Now(),
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from domain.LoanStatus
		to   domain.LoanStatus
		want bool
	}{
		{"pending to verified", domain.StatusPending, domain.StatusVerified, true},
		{"pending to rejected", domain.StatusPending, domain.StatusRejected, true},
		{"verified to approved", domain.StatusVerified, domain.StatusApproved, true},
		{"verified to rejected", domain.StatusVerified, domain.StatusRejected, true},
		{"pending to approved skips verification", domain.StatusPending, domain.StatusApproved, false},
		{"approved to rejected", domain.StatusApproved, domain.StatusRejected, false},
		{"rejected is terminal", domain.StatusRejected, domain.StatusVerified, false},
		{"paid is terminal", domain.StatusPaid, domain.StatusActive, false},
		{"no direct activation", domain.StatusApproved, domain.StatusActive, false},
		{"no direct paid", domain.StatusActive, domain.StatusPaid, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.CanTransition(tt.from, tt.to))
		})
	}
}

func TestIsPayable(t *testing.T) {
	payable := []domain.LoanStatus{domain.StatusActive, domain.StatusOverdue, domain.StatusApproved, domain.StatusVerified}
	for _, s := range payable {
		assert.True(t, s.IsPayable(), "expected %s to be payable", s)
	}
	notPayable := []domain.LoanStatus{domain.StatusPending, domain.StatusRejected, domain.StatusPaid}
	for _, s := range notPayable {
		assert.False(t, s.IsPayable(), "expected %s to not be payable", s)
	}
}

func TestApplyStatusChange_Verify(t *testing.T) {
	loan := newTestLoan(domain.StatusPending, 12, 0)
	actor := domain.Actor{UserID: "u-1", Role: domain.RoleVerifier}
	now := time.Date(2025, 2, 1, 10, 30, 0, 0, time.UTC)

	notifs, err := domain.ApplyStatusChange(loan, domain.StatusVerified, "documents look fine", actor, now)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusVerified, loan.Status)
	assert.Equal(t, "2025-02-01", loan.VerifiedDate)
	assert.Equal(t, "documents look fine", loan.VerifierComment)
	assert.Equal(t, "documents look fine", loan.StatusComment)
	require.NotNil(t, loan.CommentDate)
	assert.Equal(t, "verifier", loan.UpdatedBy)

	require.Len(t, notifs, 1)
	assert.Equal(t, domain.NotificationInfo, notifs[0].Type)
	assert.Equal(t, domain.RoleAdmin, notifs[0].TargetRole)
	assert.Contains(t, notifs[0].Message, "LN12345678")
}

func TestApplyStatusChange_Approve(t *testing.T) {
	loan := newTestLoan(domain.StatusVerified, 12, 0)
	actor := domain.Actor{UserID: "u-2", Role: domain.RoleAdmin}

	notifs, err := domain.ApplyStatusChange(loan, domain.StatusApproved, "", actor, time.Now())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusApproved, loan.Status)
	assert.NotEmpty(t, loan.ApprovedDate)
	assert.Empty(t, loan.AdminComment)
	assert.Empty(t, loan.StatusComment)
	assert.Nil(t, loan.CommentDate)

	require.Len(t, notifs, 1)
	assert.Equal(t, domain.NotificationSuccess, notifs[0].Type)
}

func TestApplyStatusChange_RejectRecordsReason(t *testing.T) {
	loan := newTestLoan(domain.StatusVerified, 12, 0)
	actor := domain.Actor{UserID: "u-2", Role: domain.RoleAdmin}

	notifs, err := domain.ApplyStatusChange(loan, domain.StatusRejected, "Docs insufficient", actor, time.Now())
	require.NoError(t, err)
	assert.Empty(t, notifs)

	assert.Equal(t, domain.StatusRejected, loan.Status)
	assert.Equal(t, "Docs insufficient", loan.RejectionReason)
	assert.NotEmpty(t, loan.RejectedDate)
	assert.True(t, loan.Status.IsTerminal())

	// Terminal: a later payment attempt must fail and leave no trace.
	err = loan.RecordPayment(paymentEntry(1000), time.Now())
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Empty(t, loan.Payments)
	assert.Equal(t, 0, loan.EMIsPaid)
}

func TestApplyStatusChange_RejectWithoutComment(t *testing.T) {
	loan := newTestLoan(domain.StatusPending, 12, 0)

	_, err := domain.ApplyStatusChange(loan, domain.StatusRejected, "", domain.Actor{Role: domain.RoleVerifier}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, loan.Status)
	assert.Empty(t, loan.RejectionReason)
}

func TestApplyStatusChange_InvalidTransitionLeavesLoanUntouched(t *testing.T) {
	loan := newTestLoan(domain.StatusPending, 12, 0)

	_, err := domain.ApplyStatusChange(loan, domain.StatusApproved, "skip the queue", domain.Actor{Role: domain.RoleAdmin}, time.Now())
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Equal(t, domain.StatusPending, loan.Status)
	assert.Empty(t, loan.ApprovedDate)
	assert.Empty(t, loan.StatusComment)
}

func TestRecordPayment_DecrementsCountersAndActivates(t *testing.T) {
	tests := []struct {
		name string
		from domain.LoanStatus
	}{
		{"from approved", domain.StatusApproved},
		{"from verified", domain.StatusVerified},
		{"from active", domain.StatusActive},
		{"from overdue", domain.StatusOverdue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan := newTestLoan(tt.from, 12, 0)
			err := loan.RecordPayment(paymentEntry(3500), time.Now())
			require.NoError(t, err)

			assert.Equal(t, domain.StatusActive, loan.Status)
			assert.Equal(t, 1, loan.EMIsPaid)
			assert.Equal(t, 11, loan.EMIsRemaining)
			assert.Equal(t, "2025-02-15", loan.LastPaymentDate)
			assert.True(t, loan.CountersConsistent())
			require.Len(t, loan.Payments, 1)
		})
	}
}

func TestRecordPayment_LastInstallmentMarksPaid(t *testing.T) {
	for _, from := range []domain.LoanStatus{domain.StatusActive, domain.StatusOverdue, domain.StatusApproved, domain.StatusVerified} {
		loan := newTestLoan(from, 12, 11)
		err := loan.RecordPayment(paymentEntry(1000), time.Now())
		require.NoError(t, err)

		assert.Equal(t, domain.StatusPaid, loan.Status, "final payment from %s", from)
		assert.Equal(t, 0, loan.EMIsRemaining)
		assert.Equal(t, 12, loan.EMIsPaid)
		assert.True(t, loan.CountersConsistent())
	}
}

func TestRecordPayment_RejectedStates(t *testing.T) {
	for _, from := range []domain.LoanStatus{domain.StatusPending, domain.StatusRejected, domain.StatusPaid} {
		loan := newTestLoan(from, 12, 0)
		err := loan.RecordPayment(paymentEntry(1000), time.Now())

		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, "payment from %s must be rejected", from)
		assert.Empty(t, loan.Payments)
		assert.Equal(t, 0, loan.EMIsPaid)
		assert.Equal(t, 12, loan.EMIsRemaining)
		assert.Equal(t, from, loan.Status)
	}
}

func TestRecordPayment_InvalidEntry(t *testing.T) {
	loan := newTestLoan(domain.StatusActive, 12, 0)

	bad := paymentEntry(0)
	assert.ErrorIs(t, loan.RecordPayment(bad, time.Now()), apperrors.ErrValidation)

	bad = paymentEntry(100)
	bad.PaymentMode = "barter"
	assert.ErrorIs(t, loan.RecordPayment(bad, time.Now()), apperrors.ErrValidation)

	assert.Empty(t, loan.Payments)
	assert.Equal(t, domain.StatusActive, loan.Status)
}

func TestRecordPenalty_ActiveBecomesOverdue(t *testing.T) {
	loan := newTestLoan(domain.StatusActive, 12, 3)

	entry := domain.PenaltyEntry{EntryID: "pen-1", Amount: decimal.NewFromInt(500), Reason: "EMI Overdue", AppliedDate: "2025-03-01"}
	require.NoError(t, loan.RecordPenalty(entry, time.Now()))

	assert.Equal(t, domain.StatusOverdue, loan.Status)
	assert.True(t, loan.TotalPenalty.Equal(decimal.NewFromInt(500)))

	// A second penalty while already overdue appends but does not change status.
	entry2 := domain.PenaltyEntry{EntryID: "pen-2", Amount: decimal.NewFromInt(250), Reason: "EMI Overdue", AppliedDate: "2025-03-08"}
	require.NoError(t, loan.RecordPenalty(entry2, time.Now()))

	assert.Equal(t, domain.StatusOverdue, loan.Status)
	assert.Len(t, loan.Penalties, 2)
	assert.True(t, loan.TotalPenalty.Equal(decimal.NewFromInt(750)))
	assert.True(t, loan.TotalPenalty.Equal(loan.RecomputeTotalPenalty()))
}

func TestRecomputeTotalPenaltyMatchesCachedCounter(t *testing.T) {
	loan := newTestLoan(domain.StatusActive, 12, 0)
	amounts := []int64{500, 500, 250, 125}
	for i, a := range amounts {
		entry := domain.PenaltyEntry{
			EntryID:     "pen",
			Amount:      decimal.NewFromInt(a),
			Reason:      domain.DefaultPenaltyReason,
			AppliedDate: "2025-03-01",
		}
		require.NoError(t, loan.RecordPenalty(entry, time.Now()), "entry %d", i)
		assert.True(t, loan.TotalPenalty.Equal(loan.RecomputeTotalPenalty()))
	}
}
