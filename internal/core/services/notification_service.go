package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/maxborn/loan_management_app/internal/apperrors"
	"github.com/maxborn/loan_management_app/internal/core/domain"
	portsrepo "github.com/maxborn/loan_management_app/internal/core/ports/repositories"
	portssvc "github.com/maxborn/loan_management_app/internal/core/ports/services"
	"github.com/maxborn/loan_management_app/internal/dto"
)

// dispatchQueueSize bounds the in-flight notification buffer. When the queue
// is full new notifications are dropped with a log line rather than blocking
// the loan operation that emitted them.
const dispatchQueueSize = 256

// notificationService persists the feed and runs the background dispatcher
// that consumes notifications emitted by loan transitions.
type notificationService struct {
	repo   portsrepo.NotificationRepositoryFacade
	logger *slog.Logger

	queue chan domain.Notification
	done  chan struct{}
	once  sync.Once
}

// NewNotificationService creates the notification service and starts its
// dispatcher goroutine. Callers must Close it on shutdown.
func NewNotificationService(repo portsrepo.NotificationRepositoryFacade, logger *slog.Logger) portssvc.NotificationSvcFacade {
	if logger == nil {
		logger = slog.Default()
	}
	s := &notificationService{
		repo:   repo,
		logger: logger,
		queue:  make(chan domain.Notification, dispatchQueueSize),
		done:   make(chan struct{}),
	}
	go s.dispatchLoop()
	return s
}

// Ensure notificationService implements the portssvc.NotificationSvcFacade interface
var _ portssvc.NotificationSvcFacade = (*notificationService)(nil)

// Enqueue hands notifications to the background dispatcher. Never blocks.
// Implements portssvc.NotificationDispatcher
func (s *notificationService) Enqueue(notifications ...domain.Notification) {
	for _, n := range notifications {
		select {
		case s.queue <- n:
		default:
			s.logger.Warn("Notification queue full, dropping notification",
				slog.String("type", string(n.Type)),
				slog.String("loan_id", n.LoanID))
		}
	}
}

// Close drains the queue and stops the dispatcher.
// Implements portssvc.NotificationDispatcher
func (s *notificationService) Close() {
	s.once.Do(func() {
		close(s.queue)
		<-s.done
	})
}

// dispatchLoop consumes queued notifications and persists them. A failed
// save is logged and the notification is lost; delivery is best effort.
func (s *notificationService) dispatchLoop() {
	defer close(s.done)
	for n := range s.queue {
		if n.NotificationID == "" {
			n.NotificationID = uuid.NewString()
		}
		if n.Severity == "" {
			n.Severity = domain.SeverityLow
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = time.Now().UTC()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.repo.SaveNotification(ctx, n); err != nil {
			s.logger.Error("Failed to persist notification",
				slog.String("type", string(n.Type)),
				slog.String("loan_id", n.LoanID),
				slog.String("error", err.Error()))
		}
		cancel()
	}
}

// ListNotifications retrieves the feed visible to the actor's role.
// Implements portssvc.NotificationSvcFacade
func (s *notificationService) ListNotifications(ctx context.Context, params dto.ListNotificationsParams, actor domain.Actor) (*dto.ListNotificationsResponse, error) {
	filter := portsrepo.NotificationListFilter{
		UnreadOnly: params.UnreadOnly,
		Limit:      params.Limit,
		Offset:     params.Offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	// Admins see everything; other roles see their own feed plus broadcasts.
	if actor.Role != domain.RoleAdmin {
		filter.TargetRole = actor.Role
	}

	notifications, unread, err := s.repo.ListNotifications(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return dto.ToListNotificationsResponse(notifications, unread, filter.Limit, filter.Offset), nil
}

// CreateNotification persists a notification directly.
// Implements portssvc.NotificationSvcFacade
func (s *notificationService) CreateNotification(ctx context.Context, req dto.CreateNotificationRequest, actor domain.Actor) (*domain.Notification, error) {
	severity := req.Severity
	if severity == "" {
		severity = domain.SeverityLow
	}
	n := domain.Notification{
		NotificationID: uuid.NewString(),
		Type:           req.Type,
		Title:          req.Title,
		Message:        req.Message,
		Severity:       severity,
		TargetRole:     req.TargetRole,
		LoanID:         req.LoanID,
		ClientName:     req.ClientName,
		ClientID:       req.ClientID,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.SaveNotification(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to save notification: %w", err)
	}
	return &n, nil
}

// MarkRead records a read receipt for one notification.
// Implements portssvc.NotificationSvcFacade
func (s *notificationService) MarkRead(ctx context.Context, notificationID string, actor domain.Actor) error {
	err := s.repo.MarkRead(ctx, notificationID, actor.UserID, time.Now().UTC())
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return err
}

// MarkAllRead marks every unread notification visible to the actor as read.
// Implements portssvc.NotificationSvcFacade
func (s *notificationService) MarkAllRead(ctx context.Context, actor domain.Actor) (int64, error) {
	role := actor.Role
	if role == domain.RoleAdmin {
		role = "" // no role filter, admins mark the whole feed
	}
	n, err := s.repo.MarkAllRead(ctx, role, actor.UserID, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return n, nil
}

// DeleteNotification removes a notification. Admin only.
// Implements portssvc.NotificationSvcFacade
func (s *notificationService) DeleteNotification(ctx context.Context, notificationID string, actor domain.Actor) error {
	if actor.Role != domain.RoleAdmin {
		return fmt.Errorf("%w: only admins may delete notifications", apperrors.ErrForbidden)
	}
	return s.repo.DeleteNotification(ctx, notificationID)
}
