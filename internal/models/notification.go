package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Notification is the database row for one feed entry. ReadBy is a JSONB
// array of read receipts.
type Notification struct {
	NotificationID string          `db:"notification_id"`
	Type           string          `db:"type"`
	Title          string          `db:"title"`
	Message        string          `db:"message"`
	Severity       string          `db:"severity"`
	TargetRole     string          `db:"target_role"`
	LoanID         string          `db:"loan_id"`
	ClientName     string          `db:"client_name"`
	ClientID       string          `db:"client_id"`
	LoanAmount     decimal.Decimal `db:"loan_amount"`
	Read           bool            `db:"read"`
	ReadBy         []byte          `db:"read_by"` // JSONB
	CreatedAt      time.Time       `db:"created_at"`
}
