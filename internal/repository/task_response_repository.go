package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"moey-backend/internal/domain"
)

type TaskResponseRepository interface {
	Create(ctx context.Context, task *domain.TaskResponse) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskResponse, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.TaskResponse, error)
	GetLatest(ctx context.Context, orderID uuid.UUID, tahap string, marketingOnly bool) (*domain.TaskResponse, error)
	FindOpenForUser(ctx context.Context, orderID uuid.UUID, tahap string, userID uuid.UUID) (*domain.TaskResponse, error)
	Update(ctx context.Context, task *domain.TaskResponse) error
	ListDueForReminder(ctx context.Context, now time.Time) ([]domain.TaskResponse, error)
	MarkReminderSent(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
	CountByStatus(ctx context.Context) (map[domain.TaskStatus]int64, error)

	CreateExtension(ctx context.Context, log *domain.TaskResponseExtendLog) error
	GetExtension(ctx context.Context, id uuid.UUID) (*domain.TaskResponseExtendLog, error)
	ListExtensions(ctx context.Context, taskResponseID uuid.UUID) ([]domain.TaskResponseExtendLog, error)
	ListPendingExtensions(ctx context.Context) ([]domain.TaskResponseExtendLog, error)
	UpdateExtensionStatus(ctx context.Context, id uuid.UUID, status domain.ExtensionStatus, reviewedBy uuid.UUID, at time.Time) (bool, error)
	HasPendingExtension(ctx context.Context, taskResponseID uuid.UUID) (bool, error)
}

type taskResponseRepository struct {
	db DB
}

func NewTaskResponseRepository(db DB) TaskResponseRepository {
	return &taskResponseRepository{db: db}
}

const taskResponseColumns = `id, order_id, user_id, tahap, start_time, response_time, update_data_time, notif_time,
	deadline, duration, duration_actual, extend_time, extend_reason, status, is_marketing, reminder_sent_at,
	created_at, updated_at`

const extendLogColumns = `id, task_response_id, user_id, extend_time, extend_reason, request_time, status,
	reviewed_by, reviewed_at, created_at`

func (r *taskResponseRepository) Create(ctx context.Context, task *domain.TaskResponse) error {
	query := r.db.Rebind(`
		INSERT INTO task_responses (id, order_id, user_id, tahap, start_time, notif_time, deadline, duration,
			extend_time, status, is_marketing, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.OrderID, task.UserID, task.Tahap, task.StartTime, task.NotifTime, task.Deadline, task.Duration,
		task.ExtendTime, task.Status, task.IsMarketing, task.CreatedAt, task.UpdatedAt,
	)
	return err
}

func (r *taskResponseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskResponse, error) {
	var task domain.TaskResponse
	query := r.db.Rebind(`SELECT ` + taskResponseColumns + ` FROM task_responses WHERE id = ?`)

	err := r.db.GetContext(ctx, &task, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskResponseRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.TaskResponse, error) {
	tasks := []domain.TaskResponse{}
	query := r.db.Rebind(`SELECT ` + taskResponseColumns + ` FROM task_responses WHERE order_id = ? ORDER BY start_time ASC, id ASC`)
	err := r.db.SelectContext(ctx, &tasks, query, orderID)
	return tasks, err
}

// GetLatest returns the most recently started task of the stage, or nil.
func (r *taskResponseRepository) GetLatest(ctx context.Context, orderID uuid.UUID, tahap string, marketingOnly bool) (*domain.TaskResponse, error) {
	where := `WHERE order_id = ? AND tahap = ?`
	order := `ORDER BY start_time DESC, id DESC`
	if marketingOnly {
		where += ` AND is_marketing = TRUE`
		order = `ORDER BY extend_time DESC, updated_at DESC, id DESC`
	}

	var task domain.TaskResponse
	query := r.db.Rebind(`SELECT ` + taskResponseColumns + ` FROM task_responses ` + where + ` ` + order + ` LIMIT 1`)

	err := r.db.GetContext(ctx, &task, query, orderID, tahap)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// FindOpenForUser prefers the user's own open task and falls back to an unassigned one.
func (r *taskResponseRepository) FindOpenForUser(ctx context.Context, orderID uuid.UUID, tahap string, userID uuid.UUID) (*domain.TaskResponse, error) {
	var task domain.TaskResponse
	query := r.db.Rebind(`
		SELECT ` + taskResponseColumns + ` FROM task_responses
		WHERE order_id = ? AND tahap = ? AND is_marketing = FALSE
			AND status IN (?, ?)
			AND (user_id = ? OR user_id IS NULL)
		ORDER BY CASE WHEN user_id IS NULL THEN 1 ELSE 0 END, start_time DESC, id DESC
		LIMIT 1`)

	err := r.db.GetContext(ctx, &task, query, orderID, tahap, domain.TaskMenungguResponse, domain.TaskTelat, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskResponseRepository) Update(ctx context.Context, task *domain.TaskResponse) error {
	query := r.db.Rebind(`
		UPDATE task_responses SET
			user_id = ?, response_time = ?, update_data_time = ?, deadline = ?, duration = ?, duration_actual = ?,
			extend_time = ?, extend_reason = ?, status = ?, reminder_sent_at = ?, updated_at = ?
		WHERE id = ?`)

	_, err := r.db.ExecContext(ctx, query,
		task.UserID, task.ResponseTime, task.UpdateDataTime, task.Deadline, task.Duration, task.DurationActual,
		task.ExtendTime, task.ExtendReason, task.Status, task.ReminderSentAt, task.UpdatedAt, task.ID,
	)
	return err
}

// ListDueForReminder returns open tasks whose deadline falls within the next 24 hours
// and that have not been reminded since their deadline last moved.
func (r *taskResponseRepository) ListDueForReminder(ctx context.Context, now time.Time) ([]domain.TaskResponse, error) {
	tasks := []domain.TaskResponse{}
	query := r.db.Rebind(`
		SELECT ` + taskResponseColumns + ` FROM task_responses
		WHERE status IN (?, ?) AND reminder_sent_at IS NULL AND deadline > ? AND deadline <= ?
		ORDER BY deadline ASC`)

	err := r.db.SelectContext(ctx, &tasks, query,
		domain.TaskMenungguResponse, domain.TaskMenungguInput, now, now.Add(24*time.Hour),
	)
	return tasks, err
}

func (r *taskResponseRepository) MarkReminderSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := r.db.Rebind(`UPDATE task_responses SET reminder_sent_at = ?, updated_at = ? WHERE id = ?`)
	_, err := r.db.ExecContext(ctx, query, at, at, id)
	return err
}

func (r *taskResponseRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	query := r.db.Rebind(`
		UPDATE task_responses SET status = ?, updated_at = ?
		WHERE status IN (?, ?) AND deadline < ?`)

	result, err := r.db.ExecContext(ctx, query, domain.TaskTelat, now, domain.TaskMenungguResponse, domain.TaskMenungguInput, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *taskResponseRepository) CountByStatus(ctx context.Context) (map[domain.TaskStatus]int64, error) {
	var rows []struct {
		Status domain.TaskStatus `db:"status"`
		Total  int64             `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, `SELECT status, COUNT(*) AS total FROM task_responses GROUP BY status`); err != nil {
		return nil, err
	}

	counts := make(map[domain.TaskStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

func (r *taskResponseRepository) CreateExtension(ctx context.Context, log *domain.TaskResponseExtendLog) error {
	query := r.db.Rebind(`
		INSERT INTO task_response_extend_logs (id, task_response_id, user_id, extend_time, extend_reason, request_time, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		log.ID, log.TaskResponseID, log.UserID, log.ExtendTime, log.ExtendReason, log.RequestTime, log.Status, log.CreatedAt,
	)
	return err
}

func (r *taskResponseRepository) GetExtension(ctx context.Context, id uuid.UUID) (*domain.TaskResponseExtendLog, error) {
	var log domain.TaskResponseExtendLog
	query := r.db.Rebind(`SELECT ` + extendLogColumns + ` FROM task_response_extend_logs WHERE id = ?`)

	err := r.db.GetContext(ctx, &log, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *taskResponseRepository) ListExtensions(ctx context.Context, taskResponseID uuid.UUID) ([]domain.TaskResponseExtendLog, error) {
	logs := []domain.TaskResponseExtendLog{}
	query := r.db.Rebind(`SELECT ` + extendLogColumns + ` FROM task_response_extend_logs WHERE task_response_id = ? ORDER BY request_time DESC`)
	err := r.db.SelectContext(ctx, &logs, query, taskResponseID)
	return logs, err
}

func (r *taskResponseRepository) ListPendingExtensions(ctx context.Context) ([]domain.TaskResponseExtendLog, error) {
	logs := []domain.TaskResponseExtendLog{}
	query := r.db.Rebind(`SELECT ` + extendLogColumns + ` FROM task_response_extend_logs WHERE status = ? ORDER BY request_time ASC`)
	err := r.db.SelectContext(ctx, &logs, query, domain.ExtensionPending)
	return logs, err
}

// UpdateExtensionStatus only moves a pending request; false when it was already reviewed.
func (r *taskResponseRepository) UpdateExtensionStatus(ctx context.Context, id uuid.UUID, status domain.ExtensionStatus, reviewedBy uuid.UUID, at time.Time) (bool, error) {
	query := r.db.Rebind(`
		UPDATE task_response_extend_logs SET status = ?, reviewed_by = ?, reviewed_at = ?
		WHERE id = ? AND status = ?`)

	result, err := r.db.ExecContext(ctx, query, status, reviewedBy, at, id, domain.ExtensionPending)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

func (r *taskResponseRepository) HasPendingExtension(ctx context.Context, taskResponseID uuid.UUID) (bool, error) {
	var count int
	query := r.db.Rebind(`SELECT COUNT(*) FROM task_response_extend_logs WHERE task_response_id = ? AND status = ?`)
	if err := r.db.GetContext(ctx, &count, query, taskResponseID, domain.ExtensionPending); err != nil {
		return false, err
	}
	return count > 0, nil
}
