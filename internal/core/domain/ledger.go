package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMode enumerates the accepted payment channels.
type PaymentMode string

const (
	PaymentCash         PaymentMode = "cash"
	PaymentUPI          PaymentMode = "upi"
	PaymentBankTransfer PaymentMode = "bank_transfer"
	PaymentCheque       PaymentMode = "cheque"
)

// ValidPaymentMode reports whether m is one of the accepted channels.
func ValidPaymentMode(m PaymentMode) bool {
	switch m {
	case PaymentCash, PaymentUPI, PaymentBankTransfer, PaymentCheque:
		return true
	}
	return false
}

// PaymentEntry is one collected EMI installment. Entries are append-only:
// once recorded they are never updated or removed; corrections are made with
// a new compensating entry.
type PaymentEntry struct {
	EntryID       string          `json:"entryID"` // Primary Key (UUID)
	LoanID        string          `json:"loanID"`
	Amount        decimal.Decimal `json:"amount"` // > 0
	PaymentMode   PaymentMode     `json:"paymentMode"`
	PaymentDate   string          `json:"paymentDate"` // display date stamp
	CollectedBy   string          `json:"collectedBy"` // full name of the collecting actor
	TransactionID string          `json:"transactionId,omitempty"`
	PaymentProof  string          `json:"paymentProof,omitempty"` // storage reference, stored verbatim
	Penalty       decimal.Decimal `json:"penalty"`                // amount offset, zero by default
	CreatedAt     time.Time       `json:"createdAt"`
}

// PenaltyEntry is one applied late fee. Append-only, like PaymentEntry.
type PenaltyEntry struct {
	EntryID     string          `json:"entryID"` // Primary Key (UUID)
	LoanID      string          `json:"loanID"`
	Amount      decimal.Decimal `json:"amount"` // > 0
	Reason      string          `json:"reason"`
	AppliedDate string          `json:"appliedDate"` // display date stamp
	CreatedAt   time.Time       `json:"createdAt"`
}

// DefaultPenaltyAmount is applied when a penalty request carries no amount.
var DefaultPenaltyAmount = decimal.NewFromInt(500)

// DefaultPenaltyReason is used when a penalty request carries no reason.
const DefaultPenaltyReason = "EMI Overdue"
