package repositories

import (
	"context"
	"time"

	"github.com/maxborn/loan_management_app/internal/core/domain"
)

// NotificationListFilter narrows ListNotifications. TargetRole restricts the
// feed to notifications addressed to that panel (plus broadcasts).
type NotificationListFilter struct {
	TargetRole domain.Role
	UnreadOnly bool
	Limit      int
	Offset     int
}

// NotificationReader defines read operations for the notification feed
type NotificationReader interface {
	// FindNotificationByID retrieves a single notification.
	FindNotificationByID(ctx context.Context, notificationID string) (*domain.Notification, error)

	// ListNotifications retrieves a filtered page, newest first, plus the
	// unread count for the same filter.
	ListNotifications(ctx context.Context, filter NotificationListFilter) ([]domain.Notification, int64, error)
}

// NotificationWriter defines write operations for the notification feed
type NotificationWriter interface {
	// SaveNotification persists a new notification.
	SaveNotification(ctx context.Context, n domain.Notification) error

	// MarkRead records a read receipt for one notification.
	MarkRead(ctx context.Context, notificationID string, userID string, readAt time.Time) error

	// MarkAllRead records read receipts for every unread notification
	// visible to the role, returning how many were marked.
	MarkAllRead(ctx context.Context, role domain.Role, userID string, readAt time.Time) (int64, error)

	// DeleteNotification removes a notification.
	DeleteNotification(ctx context.Context, notificationID string) error
}

// NotificationRepositoryFacade combines all notification repository interfaces
type NotificationRepositoryFacade interface {
	NotificationReader
	NotificationWriter
}
