package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"moey-backend/internal/domain"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	List(ctx context.Context, params domain.PaginationParams) ([]domain.AuditLog, int64, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID, params domain.PaginationParams) ([]domain.AuditLog, int64, error)
}

type auditLogRepository struct {
	db DB
}

func NewAuditLogRepository(db DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	query := r.db.Rebind(`
		INSERT INTO audit_logs (id, user_id, action, entity_type, entity_id, order_id, new_value, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		log.ID, log.UserID, log.Action, log.EntityType, log.EntityID, log.OrderID, log.NewValue, log.CreatedAt,
	)
	return err
}

const auditLogSelect = `
	SELECT al.id, al.user_id, u.full_name AS user_name, al.action, al.entity_type, al.entity_id,
		al.order_id, al.new_value, al.created_at
	FROM audit_logs al
	LEFT JOIN users u ON al.user_id = u.id`

func (r *auditLogRepository) List(ctx context.Context, params domain.PaginationParams) ([]domain.AuditLog, int64, error) {
	params.Validate()

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM audit_logs`); err != nil {
		return nil, 0, err
	}

	logs := []domain.AuditLog{}
	query := r.db.Rebind(auditLogSelect + ` ORDER BY al.created_at DESC, al.id DESC LIMIT ? OFFSET ?`)
	err := r.db.SelectContext(ctx, &logs, query, params.PageSize, params.Offset())
	return logs, total, err
}

func (r *auditLogRepository) ListByOrder(ctx context.Context, orderID uuid.UUID, params domain.PaginationParams) ([]domain.AuditLog, int64, error) {
	params.Validate()

	var total int64
	countQuery := r.db.Rebind(`SELECT COUNT(*) FROM audit_logs WHERE order_id = ?`)
	if err := r.db.GetContext(ctx, &total, countQuery, orderID); err != nil {
		return nil, 0, err
	}

	logs := []domain.AuditLog{}
	query := r.db.Rebind(auditLogSelect + ` WHERE al.order_id = ? ORDER BY al.created_at DESC, al.id DESC LIMIT ? OFFSET ?`)
	err := r.db.SelectContext(ctx, &logs, query, orderID, params.PageSize, params.Offset())
	return logs, total, err
}

func CreateAuditLog(repo AuditLogRepository, ctx context.Context, input domain.CreateAuditLogInput, at time.Time) error {
	newValueJSON, err := json.Marshal(input.NewValue)
	if err != nil {
		return err
	}

	log := &domain.AuditLog{
		ID:         uuid.New(),
		UserID:     input.UserID,
		Action:     input.Action,
		EntityType: input.EntityType,
		EntityID:   input.EntityID,
		OrderID:    input.OrderID,
		NewValue:   newValueJSON,
		CreatedAt:  at,
	}

	return repo.Create(ctx, log)
}
