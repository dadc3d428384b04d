package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"moey-backend/internal/domain"
)

type NotificationRepository interface {
	Create(ctx context.Context, notif *domain.Notification) error
	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter domain.NotificationFilter, params domain.PaginationParams) ([]domain.Notification, int64, error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID, at time.Time) (bool, error)
	MarkAllAsRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id, userID uuid.UUID) (bool, error)
}

type notificationRepository struct {
	db DB
}

func NewNotificationRepository(db DB) NotificationRepository {
	return &notificationRepository{db: db}
}

const notificationColumns = `id, user_id, order_id, type, title, message, data, is_read, read_at, created_at`

func (r *notificationRepository) Create(ctx context.Context, notif *domain.Notification) error {
	query := r.db.Rebind(`
		INSERT INTO notifications (id, user_id, order_id, type, title, message, data, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, FALSE, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		notif.ID, notif.UserID, notif.OrderID, notif.Type, notif.Title, notif.Message, notif.Data, notif.CreatedAt,
	)
	return err
}

// GetByIDForUser returns nil when the notification is absent or owned by someone else.
func (r *notificationRepository) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Notification, error) {
	var notif domain.Notification
	query := r.db.Rebind(`SELECT ` + notificationColumns + ` FROM notifications WHERE id = ? AND user_id = ?`)

	err := r.db.GetContext(ctx, &notif, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &notif, nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter domain.NotificationFilter, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	params.Validate()

	where := `WHERE user_id = ?`
	switch filter {
	case domain.FilterUnread:
		where += ` AND is_read = FALSE`
	case domain.FilterRead:
		where += ` AND is_read = TRUE`
	}

	var total int64
	countQuery := r.db.Rebind(`SELECT COUNT(*) FROM notifications ` + where)
	if err := r.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, err
	}

	notifications := []domain.Notification{}
	query := r.db.Rebind(`
		SELECT ` + notificationColumns + ` FROM notifications
		` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`)
	err := r.db.SelectContext(ctx, &notifications, query, userID, params.PageSize, params.Offset())
	return notifications, total, err
}

// MarkAsRead reports whether a row changed. Already-read rows keep their read_at.
func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID uuid.UUID, at time.Time) (bool, error) {
	query := r.db.Rebind(`UPDATE notifications SET is_read = TRUE, read_at = ? WHERE id = ? AND user_id = ? AND is_read = FALSE`)
	result, err := r.db.ExecContext(ctx, query, at, id, userID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	query := r.db.Rebind(`UPDATE notifications SET is_read = TRUE, read_at = ? WHERE user_id = ? AND is_read = FALSE`)
	result, err := r.db.ExecContext(ctx, query, at, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	query := r.db.Rebind(`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = FALSE`)
	err := r.db.GetContext(ctx, &count, query, userID)
	return count, err
}

func (r *notificationRepository) Delete(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	query := r.db.Rebind(`DELETE FROM notifications WHERE id = ? AND user_id = ?`)
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}
