package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/maxborn/loan_management_app/internal/core/domain"
	"github.com/maxborn/loan_management_app/internal/models"
)

// ToModelLoan converts a domain Loan to its database row. The nested
// application blocks are serialized to JSONB documents.
func ToModelLoan(d domain.Loan) (models.Loan, error) {
	applicant, err := json.Marshal(d.Applicant)
	if err != nil {
		return models.Loan{}, fmt.Errorf("failed to marshal applicant: %w", err)
	}
	product, err := json.Marshal(d.Product)
	if err != nil {
		return models.Loan{}, fmt.Errorf("failed to marshal product: %w", err)
	}
	bank, err := json.Marshal(d.Bank)
	if err != nil {
		return models.Loan{}, fmt.Errorf("failed to marshal bank details: %w", err)
	}
	var guarantor []byte
	if d.Guarantor != nil {
		guarantor, err = json.Marshal(d.Guarantor)
		if err != nil {
			return models.Loan{}, fmt.Errorf("failed to marshal guarantor: %w", err)
		}
	}

	return models.Loan{
		ID:              d.ID,
		LoanID:          d.LoanID,
		Applicant:       applicant,
		Guarantor:       guarantor,
		Product:         product,
		Bank:            bank,
		LoanAmount:      d.LoanAmount,
		InterestRate:    d.InterestRate,
		Tenure:          d.Tenure,
		EMIAmount:       d.EMIAmount,
		Status:          string(d.Status),
		KYCStatus:       string(d.KYCStatus),
		AppliedDate:     d.AppliedDate,
		EMIStartDate:    d.EMIStartDate,
		VerifiedDate:    d.VerifiedDate,
		ApprovedDate:    d.ApprovedDate,
		RejectedDate:    d.RejectedDate,
		NextDueDate:     d.NextDueDate,
		LastPaymentDate: d.LastPaymentDate,
		KYCVerifiedBy:   d.KYCVerifiedBy,
		KYCVerifiedDate: d.KYCVerifiedDate,
		VerifierComment: d.VerifierComment,
		AdminComment:    d.AdminComment,
		RejectionReason: d.RejectionReason,
		StatusComment:   d.StatusComment,
		CommentDate:     d.CommentDate,
		UpdatedBy:       d.UpdatedBy,
		EMIsPaid:        d.EMIsPaid,
		EMIsRemaining:   d.EMIsRemaining,
		TotalPenalty:    d.TotalPenalty,
		ShopkeeperID:    d.ShopkeeperID,
		CustomerID:      d.CustomerID,
		SubmittedBy:     d.SubmittedBy,
		ApplicationMode: string(d.ApplicationMode),
		Version:         d.Version,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainLoan converts a database row to a domain Loan. The ledger slices
// are loaded separately by the repository.
func ToDomainLoan(m models.Loan) (domain.Loan, error) {
	var applicant domain.Applicant
	if len(m.Applicant) > 0 {
		if err := json.Unmarshal(m.Applicant, &applicant); err != nil {
			return domain.Loan{}, fmt.Errorf("failed to unmarshal applicant: %w", err)
		}
	}
	var product domain.Product
	if len(m.Product) > 0 {
		if err := json.Unmarshal(m.Product, &product); err != nil {
			return domain.Loan{}, fmt.Errorf("failed to unmarshal product: %w", err)
		}
	}
	var bank domain.BankDetails
	if len(m.Bank) > 0 {
		if err := json.Unmarshal(m.Bank, &bank); err != nil {
			return domain.Loan{}, fmt.Errorf("failed to unmarshal bank details: %w", err)
		}
	}
	var guarantor *domain.Guarantor
	if len(m.Guarantor) > 0 {
		guarantor = &domain.Guarantor{}
		if err := json.Unmarshal(m.Guarantor, guarantor); err != nil {
			return domain.Loan{}, fmt.Errorf("failed to unmarshal guarantor: %w", err)
		}
	}

	return domain.Loan{
		ID:              m.ID,
		LoanID:          m.LoanID,
		Applicant:       applicant,
		Guarantor:       guarantor,
		Product:         product,
		Bank:            bank,
		LoanAmount:      m.LoanAmount,
		InterestRate:    m.InterestRate,
		Tenure:          m.Tenure,
		EMIAmount:       m.EMIAmount,
		Status:          domain.LoanStatus(m.Status),
		KYCStatus:       domain.KYCStatus(m.KYCStatus),
		AppliedDate:     m.AppliedDate,
		EMIStartDate:    m.EMIStartDate,
		VerifiedDate:    m.VerifiedDate,
		ApprovedDate:    m.ApprovedDate,
		RejectedDate:    m.RejectedDate,
		NextDueDate:     m.NextDueDate,
		LastPaymentDate: m.LastPaymentDate,
		KYCVerifiedBy:   m.KYCVerifiedBy,
		KYCVerifiedDate: m.KYCVerifiedDate,
		VerifierComment: m.VerifierComment,
		AdminComment:    m.AdminComment,
		RejectionReason: m.RejectionReason,
		StatusComment:   m.StatusComment,
		CommentDate:     m.CommentDate,
		UpdatedBy:       m.UpdatedBy,
		EMIsPaid:        m.EMIsPaid,
		EMIsRemaining:   m.EMIsRemaining,
		TotalPenalty:    m.TotalPenalty,
		ShopkeeperID:    m.ShopkeeperID,
		CustomerID:      m.CustomerID,
		SubmittedBy:     m.SubmittedBy,
		ApplicationMode: domain.ApplicationMode(m.ApplicationMode),
		Version:         m.Version,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToModelPaymentEntry converts a domain PaymentEntry to its database row.
func ToModelPaymentEntry(d domain.PaymentEntry) models.PaymentEntry {
	return models.PaymentEntry{
		EntryID:       d.EntryID,
		LoanID:        d.LoanID,
		Amount:        d.Amount,
		PaymentMode:   string(d.PaymentMode),
		PaymentDate:   d.PaymentDate,
		CollectedBy:   d.CollectedBy,
		TransactionID: d.TransactionID,
		PaymentProof:  d.PaymentProof,
		Penalty:       d.Penalty,
		CreatedAt:     d.CreatedAt,
	}
}

// ToDomainPaymentEntry converts a database row to a domain PaymentEntry.
func ToDomainPaymentEntry(m models.PaymentEntry) domain.PaymentEntry {
	return domain.PaymentEntry{
		EntryID:       m.EntryID,
		LoanID:        m.LoanID,
		Amount:        m.Amount,
		PaymentMode:   domain.PaymentMode(m.PaymentMode),
		PaymentDate:   m.PaymentDate,
		CollectedBy:   m.CollectedBy,
		TransactionID: m.TransactionID,
		PaymentProof:  m.PaymentProof,
		Penalty:       m.Penalty,
		CreatedAt:     m.CreatedAt,
	}
}

// ToModelPenaltyEntry converts a domain PenaltyEntry to its database row.
func ToModelPenaltyEntry(d domain.PenaltyEntry) models.PenaltyEntry {
	return models.PenaltyEntry{
		EntryID:     d.EntryID,
		LoanID:      d.LoanID,
		Amount:      d.Amount,
		Reason:      d.Reason,
		AppliedDate: d.AppliedDate,
		CreatedAt:   d.CreatedAt,
	}
}

// ToDomainPenaltyEntry converts a database row to a domain PenaltyEntry.
func ToDomainPenaltyEntry(m models.PenaltyEntry) domain.PenaltyEntry {
	return domain.PenaltyEntry{
		EntryID:     m.EntryID,
		LoanID:      m.LoanID,
		Amount:      m.Amount,
		Reason:      m.Reason,
		AppliedDate: m.AppliedDate,
		CreatedAt:   m.CreatedAt,
	}
}
