package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"moey-backend/internal/domain"
)

type WorkplanRepository struct {
	mock.Mock
}

func (m *WorkplanRepository) ListProduks(ctx context.Context, orderID uuid.UUID) ([]domain.ProdukWorkplan, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]domain.ProdukWorkplan), args.Error(1)
}

func (m *WorkplanRepository) CreateItems(ctx context.Context, items []domain.WorkplanItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *WorkplanRepository) ListItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.WorkplanItem, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]domain.WorkplanItem), args.Error(1)
}

func (m *WorkplanRepository) GetItem(ctx context.Context, id uuid.UUID) (*domain.WorkplanItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkplanItem), args.Error(1)
}

func (m *WorkplanRepository) GetItemOrderID(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *WorkplanRepository) UpdateItem(ctx context.Context, item *domain.WorkplanItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *WorkplanRepository) StampPMForOrder(ctx context.Context, orderID uuid.UUID, by string, at time.Time) (int64, error) {
	args := m.Called(ctx, orderID, by, at)
	return args.Get(0).(int64), args.Error(1)
}
