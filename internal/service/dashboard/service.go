package dashboard

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"moey-backend/internal/domain"
	"moey-backend/internal/repository"
)

const cacheKey = "dashboard:stats"

type Stats struct {
	OrdersByStage     map[domain.ProjectStage]int64 `json:"orders_by_stage"`
	TotalOrders       int64                         `json:"total_orders"`
	TasksByStatus     map[domain.TaskStatus]int64   `json:"tasks_by_status"`
	OpenTasks         int64                         `json:"open_tasks"`
	OverdueTasks      int64                         `json:"overdue_tasks"`
	PendingExtensions int64                         `json:"pending_extensions"`
	LastActivityAt    *time.Time                    `json:"last_activity_at"`
}

type Service interface {
	GetStats(ctx context.Context) (*Stats, error)
	Invalidate(ctx context.Context)
}

type service struct {
	orderRepo repository.OrderRepository
	taskRepo  repository.TaskResponseRepository
	auditRepo repository.AuditLogRepository
	redis     *redis.Client
	ttl       time.Duration
}

func NewService(orderRepo repository.OrderRepository, taskRepo repository.TaskResponseRepository, auditRepo repository.AuditLogRepository, redis *redis.Client) Service {
	return &service{
		orderRepo: orderRepo,
		taskRepo:  taskRepo,
		auditRepo: auditRepo,
		redis:     redis,
		ttl:       5 * time.Minute,
	}
}

func (s *service) GetStats(ctx context.Context) (*Stats, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var stats Stats
			if sonic.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		}
	}

	byStage, err := s.orderRepo.CountByStage(ctx)
	if err != nil {
		return nil, err
	}

	byStatus, err := s.taskRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	pending, err := s.taskRepo.ListPendingExtensions(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		OrdersByStage:     byStage,
		TasksByStatus:     byStatus,
		OverdueTasks:      byStatus[domain.TaskTelat],
		PendingExtensions: int64(len(pending)),
	}
	for _, n := range byStage {
		stats.TotalOrders += n
	}
	for status, n := range byStatus {
		if !status.IsTerminal() {
			stats.OpenTasks += n
		}
	}

	latest, _, err := s.auditRepo.List(ctx, domain.PaginationParams{Page: 1, PageSize: 1})
	if err == nil && len(latest) > 0 {
		stats.LastActivityAt = &latest[0].CreatedAt
	}

	if s.redis != nil {
		if statsJSON, err := sonic.Marshal(stats); err == nil {
			_ = s.redis.Set(ctx, cacheKey, statsJSON, s.ttl).Err()
		}
	}

	return stats, nil
}

// Invalidate drops the cached stats after the deadline sweep changes task states.
func (s *service) Invalidate(ctx context.Context) {
	if s.redis != nil {
		_ = s.redis.Del(ctx, cacheKey).Err()
	}
}
