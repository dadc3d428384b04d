package service

import (
	"firebase.google.com/go/v4/messaging"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"moey-backend/internal/config"
	"moey-backend/internal/repository"
	"moey-backend/internal/service/audit"
	"moey-backend/internal/service/auth"
	"moey-backend/internal/service/dashboard"
	"moey-backend/internal/service/deadline"
	"moey-backend/internal/service/email"
	"moey-backend/internal/service/export"
	"moey-backend/internal/service/notification"
	"moey-backend/internal/service/push"
	"moey-backend/internal/service/stage"
	"moey-backend/internal/service/workplan"
)

type Services struct {
	Auth         auth.Service
	Email        email.Service
	Push         push.Service
	Audit        audit.Service
	Deadline     deadline.Service
	Notification notification.Service
	Stage        stage.Service
	Workplan     workplan.Service
	Export       export.Service
	Dashboard    dashboard.Service
}

// NewServices wires every service. redis, minioClient and fcm may each be nil;
// the dependent features then degrade instead of failing.
func NewServices(repos *repository.Repositories, redis *redis.Client, minioClient *minio.Client, fcm *messaging.Client, cfg *config.Config) *Services {
	var sender push.Sender
	if fcm != nil {
		sender = fcm
	}

	emailService := email.NewService(cfg)
	pushService := push.NewService(sender, repos.User)
	auditService := audit.NewService(repos.AuditLog)
	authService := auth.NewService(repos.User, repos.Session, cfg)

	deadlineService := deadline.NewService(
		repos.TaskResponse,
		repos.User,
		repos.Order,
		repos,
		pushService,
		emailService,
		auditService,
		cfg.DefaultDeadlineDays,
		cfg.DefaultLocale,
	)

	notificationService := notification.NewService(
		repos.Notification,
		repos.Order,
		repos.Stage,
		repos.User,
		deadlineService,
		pushService,
		emailService,
		redis,
		notification.Options{Locale: cfg.DefaultLocale, UnreadCacheTTL: cfg.UnreadCacheTTL},
	)

	stageService := stage.NewService(
		repos.Order,
		repos.Stage,
		repos,
		notificationService,
		deadlineService,
		auditService,
		redis,
		cfg.StageLockTTL,
	)

	return &Services{
		Auth:         authService,
		Email:        emailService,
		Push:         pushService,
		Audit:        auditService,
		Deadline:     deadlineService,
		Notification: notificationService,
		Stage:        stageService,
		Workplan:     workplan.NewService(repos.Workplan, repos.Order, auditService),
		Export:       export.NewService(repos.Order, repos.TaskResponse, repos.User, auditService, minioClient, cfg.MinIOBucket, cfg.ReportURLTTL),
		Dashboard:    dashboard.NewService(repos.Order, repos.TaskResponse, repos.AuditLog, redis),
	}
}
