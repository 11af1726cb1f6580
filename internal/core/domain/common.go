package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// dateStampLayout is the display format used for lifecycle date stamps
// (appliedDate, verifiedDate, paymentDate, ...). The front-ends render these
// strings verbatim, so the format is part of the API contract.
const dateStampLayout = "2006-01-02"

// DateStamp formats t as a display date stamp (YYYY-MM-DD).
func DateStamp(t time.Time) string {
	return t.UTC().Format(dateStampLayout)
}
