package services

import (
	"context"

	"github.com/maxborn/loan_management_app/internal/core/domain"
	"github.com/maxborn/loan_management_app/internal/dto"
)

// NotificationReaderSvc defines read operations for the notification feed
type NotificationReaderSvc interface {
	// ListNotifications retrieves the feed visible to the actor's role,
	// newest first.
	ListNotifications(ctx context.Context, params dto.ListNotificationsParams, actor domain.Actor) (*dto.ListNotificationsResponse, error)
}

// NotificationWriterSvc defines write operations for the notification feed
type NotificationWriterSvc interface {
	// CreateNotification persists a notification directly (manual/system).
	CreateNotification(ctx context.Context, req dto.CreateNotificationRequest, actor domain.Actor) (*domain.Notification, error)

	// MarkRead records a read receipt for one notification.
	MarkRead(ctx context.Context, notificationID string, actor domain.Actor) error

	// MarkAllRead marks every unread notification visible to the actor as
	// read, returning how many were marked.
	MarkAllRead(ctx context.Context, actor domain.Actor) (int64, error)

	// DeleteNotification removes a notification. Admin only.
	DeleteNotification(ctx context.Context, notificationID string, actor domain.Actor) error
}

// NotificationDispatcher accepts notifications emitted by loan operations
// and delivers them off the request path. Enqueueing never blocks and never
// fails the caller; a full queue drops the notification with a log line.
type NotificationDispatcher interface {
	// Enqueue hands notifications to the background dispatcher.
	Enqueue(notifications ...domain.Notification)

	// Close drains the queue and stops the dispatcher.
	Close()
}

// NotificationSvcFacade combines all notification service interfaces
type NotificationSvcFacade interface {
	NotificationReaderSvc
	NotificationWriterSvc
	NotificationDispatcher
}
