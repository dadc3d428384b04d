package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"moey-backend/internal/domain"
	"moey-backend/internal/repository"
)

type Service interface {
	Record(ctx context.Context, input domain.CreateAuditLogInput)
	GetRecentActivities(ctx context.Context, limit int) ([]domain.AuditLog, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.AuditLog], error)
}

type service struct {
	auditRepo repository.AuditLogRepository
	now       func() time.Time
}

func NewService(auditRepo repository.AuditLogRepository) Service {
	return &service{
		auditRepo: auditRepo,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Record writes an audit entry. Failures are logged and never reach the caller.
func (s *service) Record(ctx context.Context, input domain.CreateAuditLogInput) {
	if err := repository.CreateAuditLog(s.auditRepo, ctx, input, s.now()); err != nil {
		log.Printf("audit: failed to record %s on %s %s: %v", input.Action, input.EntityType, input.EntityID, err)
	}
}

func (s *service) GetRecentActivities(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	params := domain.PaginationParams{
		Page:     1,
		PageSize: limit,
	}

	logs, _, err := s.auditRepo.List(ctx, params)
	return logs, err
}

func (s *service) ListByOrder(ctx context.Context, orderID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.AuditLog], error) {
	params.Validate()
	logs, total, err := s.auditRepo.ListByOrder(ctx, orderID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.AuditLog]{}, err
	}
	return domain.NewPaginatedResponse(logs, params.Page, params.PageSize, total), nil
}
