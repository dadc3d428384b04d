package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"moey-backend/internal/domain"
)

type TaskResponseRepository struct {
	mock.Mock
}

func (m *TaskResponseRepository) Create(ctx context.Context, task *domain.TaskResponse) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *TaskResponseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaskResponse), args.Error(1)
}

func (m *TaskResponseRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.TaskResponse, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]domain.TaskResponse), args.Error(1)
}

func (m *TaskResponseRepository) GetLatest(ctx context.Context, orderID uuid.UUID, tahap string, marketingOnly bool) (*domain.TaskResponse, error) {
	args := m.Called(ctx, orderID, tahap, marketingOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaskResponse), args.Error(1)
}

func (m *TaskResponseRepository) FindOpenForUser(ctx context.Context, orderID uuid.UUID, tahap string, userID uuid.UUID) (*domain.TaskResponse, error) {
	args := m.Called(ctx, orderID, tahap, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaskResponse), args.Error(1)
}

func (m *TaskResponseRepository) Update(ctx context.Context, task *domain.TaskResponse) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *TaskResponseRepository) ListDueForReminder(ctx context.Context, now time.Time) ([]domain.TaskResponse, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]domain.TaskResponse), args.Error(1)
}

func (m *TaskResponseRepository) MarkReminderSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *TaskResponseRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TaskResponseRepository) CreateExtension(ctx context.Context, log *domain.TaskResponseExtendLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *TaskResponseRepository) GetExtension(ctx context.Context, id uuid.UUID) (*domain.TaskResponseExtendLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaskResponseExtendLog), args.Error(1)
}

func (m *TaskResponseRepository) ListExtensions(ctx context.Context, taskResponseID uuid.UUID) ([]domain.TaskResponseExtendLog, error) {
	args := m.Called(ctx, taskResponseID)
	return args.Get(0).([]domain.TaskResponseExtendLog), args.Error(1)
}

func (m *TaskResponseRepository) ListPendingExtensions(ctx context.Context) ([]domain.TaskResponseExtendLog, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.TaskResponseExtendLog), args.Error(1)
}

func (m *TaskResponseRepository) UpdateExtensionStatus(ctx context.Context, id uuid.UUID, status domain.ExtensionStatus, reviewedBy uuid.UUID, at time.Time) (bool, error) {
	args := m.Called(ctx, id, status, reviewedBy, at)
	return args.Bool(0), args.Error(1)
}

func (m *TaskResponseRepository) HasPendingExtension(ctx context.Context, taskResponseID uuid.UUID) (bool, error) {
	args := m.Called(ctx, taskResponseID)
	return args.Bool(0), args.Error(1)
}

func (m *TaskResponseRepository) CountByStatus(ctx context.Context) (map[domain.TaskStatus]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[domain.TaskStatus]int64), args.Error(1)
}
