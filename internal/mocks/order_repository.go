package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"moey-backend/internal/domain"
)

type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *OrderRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Order, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *OrderRepository) UpdateStage(ctx context.Context, id uuid.UUID, stage domain.ProjectStage, status *domain.ProjectStatus, at time.Time) error {
	args := m.Called(ctx, id, stage, status, at)
	return args.Error(0)
}

func (m *OrderRepository) StampPMSurvey(ctx context.Context, id uuid.UUID, by string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, by, at)
	return args.Bool(0), args.Error(1)
}

func (m *OrderRepository) CountByStage(ctx context.Context) (map[domain.ProjectStage]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[domain.ProjectStage]int64), args.Error(1)
}
