package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/maxborn/loan_management_app/internal/core/domain"
)

// CreateNotificationRequest defines the data for manually creating a
// notification.
type CreateNotificationRequest struct {
	Type       domain.NotificationType `json:"type" binding:"required"`
	Title      string                  `json:"title" binding:"required"`
	Message    string                  `json:"message" binding:"required"`
	Severity   domain.Severity         `json:"severity" binding:"omitempty,oneof=low medium high"`
	TargetRole domain.Role             `json:"targetRole"`
	LoanID     string                  `json:"loanId"`
	ClientName string                  `json:"clientName"`
	ClientID   string                  `json:"clientId"`
}

// ListNotificationsParams defines query parameters for the notification feed.
type ListNotificationsParams struct {
	UnreadOnly bool `form:"unreadOnly"`
	Limit      int  `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Offset     int  `form:"offset,default=0" binding:"omitempty,min=0"`
}

// NotificationResponse defines the data returned for a notification.
type NotificationResponse struct {
	NotificationID string          `json:"notificationID"`
	Type           string          `json:"type"`
	Title          string          `json:"title"`
	Message        string          `json:"message"`
	Severity       string          `json:"severity"`
	TargetRole     string          `json:"targetRole,omitempty"`
	LoanID         string          `json:"loanId,omitempty"`
	ClientName     string          `json:"clientName,omitempty"`
	ClientID       string          `json:"clientId,omitempty"`
	LoanAmount     decimal.Decimal `json:"loanAmount"`
	Read           bool            `json:"read"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// ListNotificationsResponse wraps a page of notifications with the unread
// count for the same filter.
type ListNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unreadCount"`
	Limit         int                    `json:"limit"`
	Offset        int                    `json:"offset"`
}

// ToNotificationResponse converts a domain.Notification to its DTO.
func ToNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		NotificationID: n.NotificationID,
		Type:           string(n.Type),
		Title:          n.Title,
		Message:        n.Message,
		Severity:       string(n.Severity),
		TargetRole:     string(n.TargetRole),
		LoanID:         n.LoanID,
		ClientName:     n.ClientName,
		ClientID:       n.ClientID,
		LoanAmount:     n.LoanAmount,
		Read:           n.Read,
		CreatedAt:      n.CreatedAt,
	}
}

// ToListNotificationsResponse converts a page of notifications to the list
// DTO.
func ToListNotificationsResponse(ns []domain.Notification, unread int64, limit, offset int) *ListNotificationsResponse {
	res := make([]NotificationResponse, len(ns))
	for i := range ns {
		res[i] = ToNotificationResponse(&ns[i])
	}
	return &ListNotificationsResponse{Notifications: res, UnreadCount: unread, Limit: limit, Offset: offset}
}
