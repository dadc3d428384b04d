package stage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"moey-backend/internal/domain"
	"moey-backend/internal/repository"
	"moey-backend/internal/service/audit"
	"moey-backend/internal/service/deadline"
	"moey-backend/internal/service/notification"
)

type Service interface {
	// Respond records the staff response to a stage request notification.
	Respond(ctx context.Context, notificationID uuid.UUID, actor *domain.User) (*domain.StageResult, error)
	// PMRespond records the Project Manager response on the same stage entity.
	PMRespond(ctx context.Context, notificationID uuid.UUID, actor *domain.User) (*domain.StageResult, error)
}

// stageContext is everything a handler may read. Handlers never look up the actor themselves.
type stageContext struct {
	notif     *domain.Notification
	order     *domain.Order
	snapshot  *domain.StageSnapshot
	actorID   uuid.UUID
	actorName string
	now       time.Time
}

type handler func(ctx context.Context, sc *stageContext) (*domain.StageResult, error)

type stage struct {
	staff handler
	pm    handler
}

type service struct {
	orderRepo   repository.OrderRepository
	stageRepo   repository.StageRepository
	tx          repository.Transactor
	ledger      notification.Service
	deadlineSvc deadline.Service
	auditSvc    audit.Service
	locker      Locker
	registry    map[domain.NotificationType]stage
	now         func() time.Time
}

func NewService(
	orderRepo repository.OrderRepository,
	stageRepo repository.StageRepository,
	tx repository.Transactor,
	ledger notification.Service,
	deadlineSvc deadline.Service,
	auditSvc audit.Service,
	redisClient *redis.Client,
	lockTTL time.Duration,
) Service {
	s := &service{
		orderRepo:   orderRepo,
		stageRepo:   stageRepo,
		tx:          tx,
		ledger:      ledger,
		deadlineSvc: deadlineSvc,
		auditSvc:    auditSvc,
		locker:      NewRedisLocker(redisClient, lockTTL),
		now:         func() time.Time { return time.Now().UTC() },
	}
	s.registry = s.buildRegistry()
	return s
}

func (s *service) Respond(ctx context.Context, notificationID uuid.UUID, actor *domain.User) (*domain.StageResult, error) {
	return s.run(ctx, notificationID, actor, false)
}

func (s *service) PMRespond(ctx context.Context, notificationID uuid.UUID, actor *domain.User) (*domain.StageResult, error) {
	if !actor.IsProjectManager() {
		return nil, domain.ErrPMRoleRequired
	}
	return s.run(ctx, notificationID, actor, true)
}

func (s *service) run(ctx context.Context, notificationID uuid.UUID, actor *domain.User, pm bool) (*domain.StageResult, error) {
	notif, err := s.ledger.MarkAsRead(ctx, notificationID, actor.ID)
	if err != nil {
		return nil, err
	}

	st, ok := s.registry[notif.Type]
	if !ok {
		return nil, domain.ErrUnknownNotificationType
	}

	if notif.OrderID == nil {
		return nil, domain.ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByID(ctx, *notif.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}

	unlock, err := s.locker.Lock(ctx, lockKey(order.ID, notif.Type))
	if err != nil {
		return nil, err
	}
	defer unlock()

	snapshot, err := s.stageRepo.LoadSnapshot(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stages: %w", err)
	}

	sc := &stageContext{
		notif:     notif,
		order:     order,
		snapshot:  snapshot,
		actorID:   actor.ID,
		actorName: actor.FullName,
		now:       s.now(),
	}

	h := st.staff
	if pm {
		h = st.pm
	}

	result, err := h(ctx, sc)
	if err != nil {
		var domainErr *domain.Error
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to handle %s: %w", notif.Type, err)
	}

	if result.Success {
		s.afterResponse(ctx, sc, result, pm)
	}
	return result, nil
}

// afterResponse updates deadline tracking and the audit trail. Failures are logged only.
func (s *service) afterResponse(ctx context.Context, sc *stageContext, result *domain.StageResult, pm bool) {
	tahap := sc.notif.Type.Tahap()

	action := domain.AuditStageResponse
	if pm {
		action = domain.AuditPMResponse
		if err := s.deadlineSvc.CompleteLatestMarketing(ctx, sc.order.ID, tahap, sc.actorID); err != nil {
			log.Printf("stage: failed to complete marketing task for order %s tahap %s: %v", sc.order.ID, tahap, err)
		}
	} else if result.Status == domain.OutcomeCreated || result.Status == domain.OutcomeAlreadyExists {
		if err := s.deadlineSvc.MarkResponded(ctx, sc.order.ID, tahap, sc.actorID); err != nil {
			log.Printf("stage: failed to mark task responded for order %s tahap %s: %v", sc.order.ID, tahap, err)
		}
	}

	if result.Status == domain.OutcomeView {
		return
	}

	s.auditSvc.Record(ctx, domain.CreateAuditLogInput{
		UserID:     sc.actorID,
		Action:     action,
		EntityType: "notification",
		EntityID:   sc.notif.ID,
		OrderID:    &sc.order.ID,
		NewValue: map[string]interface{}{
			"type":    sc.notif.Type,
			"status":  result.Status,
			"message": result.Message,
		},
	})
}
