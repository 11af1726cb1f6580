package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/maxborn/loan_management_app/internal/core/domain"
	"github.com/maxborn/loan_management_app/internal/models"
)

// ToModelNotification converts a domain Notification to its database row.
func ToModelNotification(d domain.Notification) (models.Notification, error) {
	var readBy []byte
	if len(d.ReadBy) > 0 {
		var err error
		readBy, err = json.Marshal(d.ReadBy)
		if err != nil {
			return models.Notification{}, fmt.Errorf("failed to marshal read receipts: %w", err)
		}
	}
	return models.Notification{
		NotificationID: d.NotificationID,
		Type:           string(d.Type),
		Title:          d.Title,
		Message:        d.Message,
		Severity:       string(d.Severity),
		TargetRole:     string(d.TargetRole),
		LoanID:         d.LoanID,
		ClientName:     d.ClientName,
		ClientID:       d.ClientID,
		LoanAmount:     d.LoanAmount,
		Read:           d.Read,
		ReadBy:         readBy,
		CreatedAt:      d.CreatedAt,
	}, nil
}

// ToDomainNotification converts a database row to a domain Notification.
func ToDomainNotification(m models.Notification) (domain.Notification, error) {
	var readBy []domain.ReadReceipt
	if len(m.ReadBy) > 0 {
		if err := json.Unmarshal(m.ReadBy, &readBy); err != nil {
			return domain.Notification{}, fmt.Errorf("failed to unmarshal read receipts: %w", err)
		}
	}
	return domain.Notification{
		NotificationID: m.NotificationID,
		Type:           domain.NotificationType(m.Type),
		Title:          m.Title,
		Message:        m.Message,
		Severity:       domain.Severity(m.Severity),
		TargetRole:     domain.Role(m.TargetRole),
		LoanID:         m.LoanID,
		ClientName:     m.ClientName,
		ClientID:       m.ClientID,
		LoanAmount:     m.LoanAmount,
		Read:           m.Read,
		ReadBy:         readBy,
		CreatedAt:      m.CreatedAt,
	}, nil
}
