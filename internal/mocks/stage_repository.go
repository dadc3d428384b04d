package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"moey-backend/internal/domain"
)

type StageRepository struct {
	mock.Mock
}

func (m *StageRepository) LoadSnapshot(ctx context.Context, orderID uuid.UUID) (*domain.StageSnapshot, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StageSnapshot), args.Error(1)
}

func (m *StageRepository) LoadSnapshots(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]*domain.StageSnapshot, error) {
	args := m.Called(ctx, orderIDs)
	return args.Get(0).(map[uuid.UUID]*domain.StageSnapshot), args.Error(1)
}

func (m *StageRepository) Insert(ctx context.Context, entity domain.StageEntity, parentID uuid.UUID, slot domain.ResponseSlot, by string, at time.Time) (bool, error) {
	args := m.Called(ctx, entity, parentID, slot, by, at)
	return args.Bool(0), args.Error(1)
}

func (m *StageRepository) Stamp(ctx context.Context, entity domain.StageEntity, id uuid.UUID, slot domain.ResponseSlot, by string, at time.Time) (bool, error) {
	args := m.Called(ctx, entity, id, slot, by, at)
	return args.Bool(0), args.Error(1)
}

func (m *StageRepository) StampFinal(ctx context.Context, moodboardID uuid.UUID, slot domain.ResponseSlot, by string, at time.Time) (bool, error) {
	args := m.Called(ctx, moodboardID, slot, by, at)
	return args.Bool(0), args.Error(1)
}
