package workplan

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"moey-backend/internal/domain"
	"moey-backend/internal/repository"
	"moey-backend/internal/service/audit"
)

type Service interface {
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.WorkplanItem, error)
	UpdateItem(ctx context.Context, id uuid.UUID, input domain.UpdateWorkplanItemInput, actor *domain.User) (*domain.WorkplanItem, error)
}

type service struct {
	workplanRepo repository.WorkplanRepository
	orderRepo    repository.OrderRepository
	auditSvc     audit.Service
	now          func() time.Time
}

func NewService(workplanRepo repository.WorkplanRepository, orderRepo repository.OrderRepository, auditSvc audit.Service) Service {
	return &service{
		workplanRepo: workplanRepo,
		orderRepo:    orderRepo,
		auditSvc:     auditSvc,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.WorkplanItem, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	return s.workplanRepo.ListItemsByOrder(ctx, orderID)
}

// UpdateItem applies a partial schedule edit. Omitted dates keep their stored value.
func (s *service) UpdateItem(ctx context.Context, id uuid.UUID, input domain.UpdateWorkplanItemInput, actor *domain.User) (*domain.WorkplanItem, error) {
	item, err := s.workplanRepo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrWorkplanItemNotFound
	}

	start, end := item.StartDate, item.EndDate
	if input.StartDate != nil {
		start = input.StartDate
	}
	if input.EndDate != nil {
		end = input.EndDate
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, domain.ErrInvalidDateRange
	}

	item.SetDates(start, end)
	if input.Status != nil {
		item.Status = *input.Status
	}
	if input.Catatan != nil {
		item.Catatan = input.Catatan
	}
	item.UpdatedAt = s.now()

	if err := s.workplanRepo.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update workplan item: %w", err)
	}

	var orderID *uuid.UUID
	if id, err := s.workplanRepo.GetItemOrderID(ctx, item.ID); err == nil {
		orderID = &id
	}
	s.auditSvc.Record(ctx, domain.CreateAuditLogInput{
		UserID:     actor.ID,
		Action:     domain.AuditWorkplanUpdate,
		EntityType: "workplan_item",
		EntityID:   item.ID,
		OrderID:    orderID,
		NewValue: map[string]interface{}{
			"start_date":    item.StartDate,
			"end_date":      item.EndDate,
			"duration_days": item.DurationDays,
			"status":        item.Status,
		},
	})

	return item, nil
}
