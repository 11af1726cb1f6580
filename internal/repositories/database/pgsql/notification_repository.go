package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxborn/loan_management_app/internal/apperrors"
	"github.com/maxborn/loan_management_app/internal/core/domain"
	portsrepo "github.com/maxborn/loan_management_app/internal/core/ports/repositories"
	"github.com/maxborn/loan_management_app/internal/models"
	"github.com/maxborn/loan_management_app/internal/utils/mapping"
)

type PgxNotificationRepository struct {
	BaseRepository
}

func newPgxNotificationRepository(db *pgxpool.Pool) portsrepo.NotificationRepositoryFacade {
	return &PgxNotificationRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxNotificationRepository implements portsrepo.NotificationRepositoryFacade
var _ portsrepo.NotificationRepositoryFacade = (*PgxNotificationRepository)(nil)

const notificationColumns = `
	notification_id, type, title, message, severity, target_role,
	loan_id, client_name, client_id, loan_amount, read, read_by, created_at`

func scanNotificationRow(row pgx.Row) (models.Notification, error) {
	var m models.Notification
	err := row.Scan(
		&m.NotificationID, &m.Type, &m.Title, &m.Message, &m.Severity, &m.TargetRole,
		&m.LoanID, &m.ClientName, &m.ClientID, &m.LoanAmount, &m.Read, &m.ReadBy, &m.CreatedAt,
	)
	return m, err
}

func (r *PgxNotificationRepository) SaveNotification(ctx context.Context, n domain.Notification) error {
	m, err := mapping.ToModelNotification(n)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.NotificationID, m.Type, m.Title, m.Message, m.Severity, m.TargetRole,
		m.LoanID, m.ClientName, m.ClientID, m.LoanAmount, m.Read, m.ReadBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	return nil
}

func (r *PgxNotificationRepository) FindNotificationByID(ctx context.Context, notificationID string) (*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE notification_id = $1;`
	m, err := scanNotificationRow(r.Pool.QueryRow(ctx, query, notificationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find notification %s: %w", notificationID, err)
	}
	n, err := mapping.ToDomainNotification(m)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// roleFilterClause limits the feed to notifications addressed to the role
// plus broadcasts (empty target_role). An empty role sees everything.
func roleFilterClause(role domain.Role, args *[]any) string {
	if role == "" {
		return ""
	}
	*args = append(*args, string(role))
	return fmt.Sprintf(" AND (target_role = $%d OR target_role = '')", len(*args))
}

func (r *PgxNotificationRepository) ListNotifications(ctx context.Context, filter portsrepo.NotificationListFilter) ([]domain.Notification, int64, error) {
	args := []any{}
	where := " WHERE 1=1" + roleFilterClause(filter.TargetRole, &args)

	var unread int64
	if err := r.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM notifications"+where+" AND read = FALSE", args...).Scan(&unread); err != nil {
		return nil, 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	if filter.UnreadOnly {
		where += " AND read = FALSE"
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(
		"SELECT %s FROM notifications%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		notificationColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, filter.Offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var items []domain.Notification
	for rows.Next() {
		m, err := scanNotificationRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification row: %w", err)
		}
		n, err := mapping.ToDomainNotification(m)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, n)
	}
	return items, unread, rows.Err()
}

func (r *PgxNotificationRepository) MarkRead(ctx context.Context, notificationID string, userID string, readAt time.Time) error {
	receipt, err := json.Marshal(domain.ReadReceipt{UserID: userID, ReadAt: readAt})
	if err != nil {
		return fmt.Errorf("failed to marshal read receipt: %w", err)
	}
	query := `
		UPDATE notifications
		SET read = TRUE,
		    read_by = COALESCE(read_by, '[]'::jsonb) || $2::jsonb
		WHERE notification_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, notificationID, receipt)
	if err != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", notificationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxNotificationRepository) MarkAllRead(ctx context.Context, role domain.Role, userID string, readAt time.Time) (int64, error) {
	receipt, err := json.Marshal(domain.ReadReceipt{UserID: userID, ReadAt: readAt})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal read receipt: %w", err)
	}
	args := []any{receipt}
	where := " WHERE read = FALSE"
	if role != "" {
		args = append(args, string(role))
		where += fmt.Sprintf(" AND (target_role = $%d OR target_role = '')", len(args))
	}
	query := `
		UPDATE notifications
		SET read = TRUE,
		    read_by = COALESCE(read_by, '[]'::jsonb) || $1::jsonb` + where + `;`
	tag, err := r.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PgxNotificationRepository) DeleteNotification(ctx context.Context, notificationID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM notifications WHERE notification_id = $1`, notificationID)
	if err != nil {
		return fmt.Errorf("failed to delete notification %s: %w", notificationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
