package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"moey-backend/internal/domain"
	"moey-backend/internal/service/push"
)

type NotificationService struct {
	mock.Mock
}

func (m *NotificationService) List(ctx context.Context, userID uuid.UUID, filter domain.NotificationFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.NotificationView], error) {
	args := m.Called(ctx, userID, filter, params)
	return args.Get(0).(domain.PaginatedResponse[domain.NotificationView]), args.Error(1)
}

func (m *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationService) MarkAsRead(ctx context.Context, id, userID uuid.UUID) (*domain.Notification, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *NotificationService) Dispatch(ctx context.Context, input domain.DispatchInput) ([]domain.Notification, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

type DeadlineService struct {
	mock.Mock
}

func (m *DeadlineService) Start(ctx context.Context, input domain.StartTaskInput) (*domain.TaskResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaskResponse), args.Error(1)
}

func (m *DeadlineService) MarkResponded(ctx context.Context, orderID uuid.UUID, tahap string, userID uuid.UUID) error {
	args := m.Called(ctx, orderID, tahap, userID)
	return args.Error(0)
}

func (m *DeadlineService) CompleteLatestMarketing(ctx context.Context, orderID uuid.UUID, tahap string, actorID uuid.UUID) error {
	args := m.Called(ctx, orderID, tahap, actorID)
	return args.Error(0)
}

func (m *DeadlineService) Complete(ctx context.Context, id uuid.UUID, actor *domain.User) (*domain.TaskResponse, error) {
	args := m.Called(ctx, id, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaskResponse), args.Error(1)
}

func (m *DeadlineService) RequestExtension(ctx context.Context, id uuid.UUID, actor *domain.User, input domain.ExtensionRequestInput) (*domain.TaskResponseExtendLog, error) {
	args := m.Called(ctx, id, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaskResponseExtendLog), args.Error(1)
}

func (m *DeadlineService) ApproveExtension(ctx context.Context, logID uuid.UUID, reviewer *domain.User) (*domain.TaskResponse, error) {
	args := m.Called(ctx, logID, reviewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaskResponse), args.Error(1)
}

func (m *DeadlineService) RejectExtension(ctx context.Context, logID uuid.UUID, reviewer *domain.User) (*domain.TaskResponseExtendLog, error) {
	args := m.Called(ctx, logID, reviewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaskResponseExtendLog), args.Error(1)
}

func (m *DeadlineService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.TaskResponse, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]domain.TaskResponse), args.Error(1)
}

func (m *DeadlineService) GetByOrderAndTahap(ctx context.Context, orderID uuid.UUID, tahap string) (*domain.TaskResponse, error) {
	args := m.Called(ctx, orderID, tahap)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaskResponse), args.Error(1)
}

func (m *DeadlineService) ListExtensions(ctx context.Context, taskID uuid.UUID) ([]domain.TaskResponseExtendLog, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).([]domain.TaskResponseExtendLog), args.Error(1)
}

func (m *DeadlineService) ListPendingExtensions(ctx context.Context) ([]domain.TaskResponseExtendLog, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.TaskResponseExtendLog), args.Error(1)
}

func (m *DeadlineService) Sweep(ctx context.Context) (*domain.SweepReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SweepReport), args.Error(1)
}

type AuditService struct {
	mock.Mock
}

func (m *AuditService) Record(ctx context.Context, input domain.CreateAuditLogInput) {
	m.Called(ctx, input)
}

func (m *AuditService) GetRecentActivities(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.AuditLog), args.Error(1)
}

func (m *AuditService) ListByOrder(ctx context.Context, orderID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.AuditLog], error) {
	args := m.Called(ctx, orderID, params)
	return args.Get(0).(domain.PaginatedResponse[domain.AuditLog]), args.Error(1)
}

type PushService struct {
	mock.Mock
}

func (m *PushService) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *PushService) SendToUser(ctx context.Context, user *domain.User, msg push.Message) error {
	args := m.Called(ctx, user, msg)
	return args.Error(0)
}

func (m *PushService) SendToUsers(ctx context.Context, users []domain.User, msg push.Message) int {
	args := m.Called(ctx, users, msg)
	return args.Int(0)
}

func (m *PushService) RegisterToken(ctx context.Context, userID uuid.UUID, input domain.FCMTokenInput) error {
	args := m.Called(ctx, userID, input)
	return args.Error(0)
}

func (m *PushService) RemoveToken(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *PushService) Stats(ctx context.Context) (*domain.FCMStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FCMStats), args.Error(1)
}

func (m *PushService) SendTest(ctx context.Context, input domain.PushTestInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendStageRequestEmail(ctx context.Context, toEmail, recipientName, title, message, actionURL string) error {
	args := m.Called(ctx, toEmail, recipientName, title, message, actionURL)
	return args.Error(0)
}

func (m *EmailService) SendDeadlineReminderEmail(ctx context.Context, toEmail, recipientName, projectName, tahap string, deadline time.Time) error {
	args := m.Called(ctx, toEmail, recipientName, projectName, tahap, deadline)
	return args.Error(0)
}

func (m *EmailService) SendExtensionStatusEmail(ctx context.Context, toEmail, recipientName, projectName, tahap, status, reviewerName string) error {
	args := m.Called(ctx, toEmail, recipientName, projectName, tahap, status, reviewerName)
	return args.Error(0)
}
