package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan is the database row for a loan. The nested application blocks
// (applicant, guarantor, product, bank) are stored as JSONB documents; the
// lifecycle and ledger counters are scalar columns so they can be filtered
// and aggregated in SQL.
type Loan struct {
	ID     string `db:"id"`
	LoanID string `db:"loan_id"`

	Applicant []byte `db:"applicant"` // JSONB
	Guarantor []byte `db:"guarantor"` // JSONB, nullable
	Product   []byte `db:"product"`   // JSONB
	Bank      []byte `db:"bank"`      // JSONB

	LoanAmount   decimal.Decimal `db:"loan_amount"`
	InterestRate decimal.Decimal `db:"interest_rate"`
	Tenure       int             `db:"tenure"`
	EMIAmount    decimal.Decimal `db:"emi_amount"`

	Status    string `db:"status"`
	KYCStatus string `db:"kyc_status"`

	AppliedDate     string `db:"applied_date"`
	EMIStartDate    string `db:"emi_start_date"`
	VerifiedDate    string `db:"verified_date"`
	ApprovedDate    string `db:"approved_date"`
	RejectedDate    string `db:"rejected_date"`
	NextDueDate     string `db:"next_due_date"`
	LastPaymentDate string `db:"last_payment_date"`
	KYCVerifiedBy   string `db:"kyc_verified_by"`
	KYCVerifiedDate string `db:"kyc_verified_date"`

	VerifierComment string     `db:"verifier_comment"`
	AdminComment    string     `db:"admin_comment"`
	RejectionReason string     `db:"rejection_reason"`
	StatusComment   string     `db:"status_comment"`
	CommentDate     *time.Time `db:"comment_date"`
	UpdatedBy       string     `db:"updated_by"`

	EMIsPaid      int             `db:"emis_paid"`
	EMIsRemaining int             `db:"emis_remaining"`
	TotalPenalty  decimal.Decimal `db:"total_penalty"`

	ShopkeeperID    string `db:"shopkeeper_id"`
	CustomerID      string `db:"customer_id"`
	SubmittedBy     string `db:"submitted_by"`
	ApplicationMode string `db:"application_mode"`

	Version int64 `db:"version"`
	AuditFields
}

// PaymentEntry is the database row for one collected installment.
type PaymentEntry struct {
	EntryID       string          `db:"entry_id"`
	LoanID        string          `db:"loan_id"`
	Amount        decimal.Decimal `db:"amount"`
	PaymentMode   string          `db:"payment_mode"`
	PaymentDate   string          `db:"payment_date"`
	CollectedBy   string          `db:"collected_by"`
	TransactionID string          `db:"transaction_id"`
	PaymentProof  string          `db:"payment_proof"`
	Penalty       decimal.Decimal `db:"penalty"`
	CreatedAt     time.Time       `db:"created_at"`
}

// PenaltyEntry is the database row for one applied late fee.
type PenaltyEntry struct {
	EntryID     string          `db:"entry_id"`
	LoanID      string          `db:"loan_id"`
	Amount      decimal.Decimal `db:"amount"`
	Reason      string          `db:"reason"`
	AppliedDate string          `db:"applied_date"`
	CreatedAt   time.Time       `db:"created_at"`
}
