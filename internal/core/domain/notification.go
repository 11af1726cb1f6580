package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// NotificationType classifies a notification for the receiving panel.
type NotificationType string

const (
	NotificationNewLoanApplication NotificationType = "new_loan_application"
	NotificationKYCRequired        NotificationType = "kyc_required"
	NotificationPaymentDue         NotificationType = "payment_due"
	NotificationPaymentOverdue     NotificationType = "payment_overdue"
	NotificationLoanApproved       NotificationType = "loan_approved"
	NotificationLoanRejected       NotificationType = "loan_rejected"
	NotificationInfo               NotificationType = "info"
	NotificationSuccess            NotificationType = "success"
	NotificationWarning            NotificationType = "warning"
	NotificationError              NotificationType = "error"
)

// Severity grades a notification.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// ReadReceipt records one user having read a notification.
type ReadReceipt struct {
	UserID string    `json:"userId"`
	ReadAt time.Time `json:"readAt"`
}

// Notification is an outbound message to a panel role. Loan transitions emit
// these as values; a separate dispatcher persists and delivers them so a
// delivery failure never aborts the loan mutation that produced it.
type Notification struct {
	NotificationID string           `json:"notificationID"`
	Type           NotificationType `json:"type"`
	Title          string           `json:"title"`
	Message        string           `json:"message"`
	Severity       Severity         `json:"severity"`
	TargetRole     Role             `json:"targetRole,omitempty"`
	LoanID         string           `json:"loanId,omitempty"` // the human-readable loan id
	ClientName     string           `json:"clientName,omitempty"`
	ClientID       string           `json:"clientId,omitempty"`
	LoanAmount     decimal.Decimal  `json:"loanAmount"`
	Read           bool             `json:"read"`
	ReadBy         []ReadReceipt    `json:"readBy,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
}
