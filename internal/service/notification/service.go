package notification

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"moey-backend/internal/domain"
	"moey-backend/internal/pkg/i18n"
	"moey-backend/internal/repository"
	"moey-backend/internal/service/deadline"
	"moey-backend/internal/service/email"
	"moey-backend/internal/service/push"
)

type Service interface {
	List(ctx context.Context, userID uuid.UUID, filter domain.NotificationFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.NotificationView], error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) (*domain.Notification, error)
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	Dispatch(ctx context.Context, input domain.DispatchInput) ([]domain.Notification, error)
}

type Options struct {
	Locale         string
	UnreadCacheTTL time.Duration
}

type service struct {
	notifRepo   repository.NotificationRepository
	orderRepo   repository.OrderRepository
	stageRepo   repository.StageRepository
	userRepo    repository.UserRepository
	deadlineSvc deadline.Service
	pushSvc     push.Service
	emailSvc    email.Service
	redis       *redis.Client
	opts        Options
	now         func() time.Time
	async       func(fn func())
}

func NewService(
	notifRepo repository.NotificationRepository,
	orderRepo repository.OrderRepository,
	stageRepo repository.StageRepository,
	userRepo repository.UserRepository,
	deadlineSvc deadline.Service,
	pushSvc push.Service,
	emailSvc email.Service,
	redis *redis.Client,
	opts Options,
) Service {
	if opts.UnreadCacheTTL <= 0 {
		opts.UnreadCacheTTL = time.Minute
	}
	return &service{
		notifRepo:   notifRepo,
		orderRepo:   orderRepo,
		stageRepo:   stageRepo,
		userRepo:    userRepo,
		deadlineSvc: deadlineSvc,
		pushSvc:     pushSvc,
		emailSvc:    emailSvc,
		redis:       redis,
		opts:        opts,
		now:         func() time.Time { return time.Now().UTC() },
		async:       func(fn func()) { go fn() },
	}
}

func unreadKey(userID uuid.UUID) string {
	return "notifications:unread:" + userID.String()
}

func (s *service) invalidateUnread(ctx context.Context, userID uuid.UUID) {
	if s.redis != nil {
		_ = s.redis.Del(ctx, unreadKey(userID)).Err()
	}
}

// List attaches each notification's order and stage snapshot using one query per stage table for the page.
func (s *service) List(ctx context.Context, userID uuid.UUID, filter domain.NotificationFilter, params domain.PaginationParams) (domain.PaginatedResponse[domain.NotificationView], error) {
	params.Validate()

	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, filter, params)
	if err != nil {
		return domain.PaginatedResponse[domain.NotificationView]{}, fmt.Errorf("failed to list notifications: %w", err)
	}

	seen := make(map[uuid.UUID]bool)
	orderIDs := make([]uuid.UUID, 0, len(notifications))
	for _, n := range notifications {
		if n.OrderID != nil && !seen[*n.OrderID] {
			seen[*n.OrderID] = true
			orderIDs = append(orderIDs, *n.OrderID)
		}
	}

	orders, err := s.orderRepo.ListByIDs(ctx, orderIDs)
	if err != nil {
		return domain.PaginatedResponse[domain.NotificationView]{}, fmt.Errorf("failed to load orders: %w", err)
	}
	orderByID := make(map[uuid.UUID]*domain.Order, len(orders))
	for i := range orders {
		orderByID[orders[i].ID] = &orders[i]
	}

	snapshots, err := s.stageRepo.LoadSnapshots(ctx, orderIDs)
	if err != nil {
		return domain.PaginatedResponse[domain.NotificationView]{}, fmt.Errorf("failed to load stages: %w", err)
	}

	views := make([]domain.NotificationView, 0, len(notifications))
	for _, n := range notifications {
		view := domain.NotificationView{Notification: n}
		if n.OrderID != nil {
			view.Order = orderByID[*n.OrderID]
			view.Stages = snapshots[*n.OrderID]
		}
		views = append(views, view)
	}

	return domain.NewPaginatedResponse(views, params.Page, params.PageSize, total), nil
}

func (s *service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	key := unreadKey(userID)
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, key).Result(); err == nil {
			if count, err := strconv.ParseInt(cached, 10, 64); err == nil {
				return count, nil
			}
		}
	}

	count, err := s.notifRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}

	if s.redis != nil {
		_ = s.redis.Set(ctx, key, count, s.opts.UnreadCacheTTL).Err()
	}
	return count, nil
}

// MarkAsRead is idempotent: an already read notification keeps its read_at.
func (s *service) MarkAsRead(ctx context.Context, id, userID uuid.UUID) (*domain.Notification, error) {
	notif, err := s.notifRepo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if notif == nil {
		return nil, domain.ErrNotificationNotFound
	}
	if notif.IsRead {
		return notif, nil
	}

	now := s.now()
	changed, err := s.notifRepo.MarkAsRead(ctx, id, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to mark notification as read: %w", err)
	}
	if changed {
		notif.IsRead = true
		notif.ReadAt = &now
		s.invalidateUnread(ctx, userID)
	}
	return notif, nil
}

func (s *service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	updated, err := s.notifRepo.MarkAllAsRead(ctx, userID, s.now())
	if err != nil {
		return 0, err
	}
	s.invalidateUnread(ctx, userID)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	deleted, err := s.notifRepo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotificationNotFound
	}
	s.invalidateUnread(ctx, userID)
	return nil
}

// Dispatch writes one notification per recipient, opens the stage TaskResponse
// and fans out push and email in the background.
func (s *service) Dispatch(ctx context.Context, input domain.DispatchInput) ([]domain.Notification, error) {
	rt, ok := routes[input.Type]
	if !ok {
		return nil, domain.ErrUnknownNotificationType
	}

	order, err := s.orderRepo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}

	recipients, err := s.resolveRecipients(ctx, order.ID, rt, input.UserIDs)
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return nil, domain.ErrNoRecipients
	}

	vars := map[string]string{"project": order.NamaProject}
	title := i18n.Format(s.opts.Locale, string(input.Type)+".title", vars)
	message := i18n.Format(s.opts.Locale, string(input.Type)+".message", vars)

	data, err := sonic.Marshal(domain.NotificationData{
		OrderName:    order.NamaProject,
		CustomerName: order.CustomerName,
		ActionURL:    rt.actionURL,
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	created := make([]domain.Notification, 0, len(recipients))
	for _, user := range recipients {
		notif := domain.Notification{
			ID:        uuid.New(),
			UserID:    user.ID,
			OrderID:   &order.ID,
			Type:      input.Type,
			Title:     title,
			Message:   message,
			Data:      data,
			CreatedAt: now,
		}
		if err := s.notifRepo.Create(ctx, &notif); err != nil {
			return created, fmt.Errorf("failed to create notification for user %s: %w", user.ID, err)
		}
		s.invalidateUnread(ctx, user.ID)
		created = append(created, notif)
	}

	if err := s.startTasks(ctx, order.ID, input, recipients); err != nil {
		return created, err
	}

	s.fanOut(created, recipients, rt.actionURL)

	return created, nil
}

func (s *service) resolveRecipients(ctx context.Context, orderID uuid.UUID, rt route, userIDs []uuid.UUID) ([]domain.User, error) {
	if len(userIDs) > 0 {
		return s.userRepo.ListByIDs(ctx, userIDs)
	}
	if rt.team {
		return s.userRepo.ListTeamByRoles(ctx, orderID, rt.roles)
	}
	return s.userRepo.ListByRoles(ctx, rt.roles)
}

// startTasks opens the staff task, pre-assigned when there is a single recipient,
// and the marketing task when requested.
func (s *service) startTasks(ctx context.Context, orderID uuid.UUID, input domain.DispatchInput, recipients []domain.User) error {
	tahap := input.Type.Tahap()

	var assignee *uuid.UUID
	if len(recipients) == 1 {
		id := recipients[0].ID
		assignee = &id
	}

	if _, err := s.deadlineSvc.Start(ctx, domain.StartTaskInput{
		OrderID:      orderID,
		UserID:       assignee,
		Tahap:        tahap,
		DeadlineDays: input.DeadlineDays,
	}); err != nil {
		return err
	}

	if input.IsMarketing {
		if _, err := s.deadlineSvc.Start(ctx, domain.StartTaskInput{
			OrderID:      orderID,
			Tahap:        tahap,
			DeadlineDays: input.DeadlineDays,
			IsMarketing:  true,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) fanOut(notifications []domain.Notification, recipients []domain.User, actionURL string) {
	s.async(func() {
		ctx := context.Background()
		for i, notif := range notifications {
			user := recipients[i]

			if s.pushSvc.Enabled() && user.FCMToken != nil {
				err := s.pushSvc.SendToUser(ctx, &user, push.Message{
					Title: notif.Title,
					Body:  notif.Message,
					Data: map[string]string{
						"notification_id": notif.ID.String(),
						"type":            string(notif.Type),
						"order_id":        notif.OrderID.String(),
					},
				})
				if err != nil {
					log.Printf("notification: push to user %s failed: %v", user.ID, err)
				}
			}

			if user.Email != "" {
				if err := s.emailSvc.SendStageRequestEmail(ctx, user.Email, user.FullName, notif.Title, notif.Message, actionURL); err != nil {
					log.Printf("notification: email to %s failed: %v", user.Email, err)
				}
			}
		}
	})
}
