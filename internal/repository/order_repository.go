package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"moey-backend/internal/domain"
)

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Order, error)
	UpdateStage(ctx context.Context, id uuid.UUID, stage domain.ProjectStage, status *domain.ProjectStatus, at time.Time) error
	StampPMSurvey(ctx context.Context, id uuid.UUID, by string, at time.Time) (bool, error)
	CountByStage(ctx context.Context) (map[domain.ProjectStage]int64, error)
}

type orderRepository struct {
	db DB
}

func NewOrderRepository(db DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, nama_project, customer_name, tahapan_proyek, project_status, pm_survey_response_by, pm_survey_response_time, created_at, updated_at`

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	if order.TahapanProyek == "" {
		order.TahapanProyek = domain.StageNotStart
	}
	if order.ProjectStatus == "" {
		order.ProjectStatus = domain.ProjectPending
	}

	query := r.db.Rebind(`
		INSERT INTO orders (id, nama_project, customer_name, tahapan_proyek, project_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		order.ID, order.NamaProject, order.CustomerName, order.TahapanProyek, order.ProjectStatus, order.CreatedAt, order.UpdatedAt,
	)
	return err
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var order domain.Order
	query := r.db.Rebind(`SELECT ` + orderColumns + ` FROM orders WHERE id = ?`)

	err := r.db.GetContext(ctx, &order, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Order, error) {
	orders := []domain.Order{}
	if len(ids) == 0 {
		return orders, nil
	}

	query, args, err := sqlx.In(`SELECT `+orderColumns+` FROM orders WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &orders, r.db.Rebind(query), args...)
	return orders, err
}

func (r *orderRepository) UpdateStage(ctx context.Context, id uuid.UUID, stage domain.ProjectStage, status *domain.ProjectStatus, at time.Time) error {
	if status != nil {
		query := r.db.Rebind(`UPDATE orders SET tahapan_proyek = ?, project_status = ?, updated_at = ? WHERE id = ?`)
		_, err := r.db.ExecContext(ctx, query, stage, *status, at, id)
		return err
	}

	query := r.db.Rebind(`UPDATE orders SET tahapan_proyek = ?, updated_at = ? WHERE id = ?`)
	_, err := r.db.ExecContext(ctx, query, stage, at, id)
	return err
}

// StampPMSurvey sets the PM survey-schedule slot once; false when already set.
func (r *orderRepository) StampPMSurvey(ctx context.Context, id uuid.UUID, by string, at time.Time) (bool, error) {
	query := r.db.Rebind(`
		UPDATE orders SET pm_survey_response_by = ?, pm_survey_response_time = ?, updated_at = ?
		WHERE id = ? AND pm_survey_response_time IS NULL`)
	result, err := r.db.ExecContext(ctx, query, by, at, at, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

func (r *orderRepository) CountByStage(ctx context.Context) (map[domain.ProjectStage]int64, error) {
	var rows []struct {
		Stage domain.ProjectStage `db:"tahapan_proyek"`
		Total int64               `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, `SELECT tahapan_proyek, COUNT(*) AS total FROM orders GROUP BY tahapan_proyek`); err != nil {
		return nil, err
	}

	counts := make(map[domain.ProjectStage]int64, len(rows))
	for _, row := range rows {
		counts[row.Stage] = row.Total
	}
	return counts, nil
}
