package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"

	"moey-backend/internal/config"
	"moey-backend/internal/domain"
	"moey-backend/internal/handler"
	"moey-backend/internal/middleware"
	"moey-backend/internal/pkg/i18n"
	"moey-backend/internal/pkg/scheduler"
	"moey-backend/internal/repository"
	"moey-backend/internal/service"
	"moey-backend/internal/service/auth"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	if err := i18n.LoadTranslations(cfg.LocalesPath); err != nil {
		log.Fatalf("Failed to load translations: %v", err)
	}

	db, err := config.NewDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := repository.Migrate(context.Background(), db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	redis, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v (caching and stage locks disabled)", err)
	} else {
		defer redis.Close()
	}

	minioClient, err := config.NewMinIOClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to MinIO: %v (report archiving will not work)", err)
	}

	fcm, err := config.NewMessagingClient(context.Background(), cfg)
	if err != nil {
		log.Printf("Warning: Failed to initialise Firebase: %v (push notifications disabled)", err)
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, redis, minioClient, fcm, cfg)
	handlers := handler.NewHandlers(services)

	jobs := scheduler.New(5 * time.Minute)
	registerJobs(jobs, services, cfg)
	jobs.Start()

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: !cfg.IsProduction()}))
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))

	setupRoutes(app, handlers, services.Auth)

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	jobs.Stop(ctx)
}

func registerJobs(jobs *scheduler.Scheduler, services *service.Services, cfg *config.Config) {
	err := jobs.Register("deadline-sweep", cfg.DeadlineSweepSpec, func(ctx context.Context) error {
		report, err := services.Deadline.Sweep(ctx)
		if err != nil {
			return err
		}
		log.Printf("[DEADLINE] sweep reminded=%d overdue=%d", report.Reminded, report.Overdue)
		services.Dashboard.Invalidate(ctx)
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to schedule deadline sweep: %v", err)
	}

	err = jobs.Register("session-purge", cfg.SessionPurgeSpec, func(ctx context.Context) error {
		purged, err := services.Auth.PurgeSessions(ctx)
		if err != nil {
			return err
		}
		log.Printf("[AUTH] purged %d expired sessions", purged)
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to schedule session purge: %v", err)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService auth.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.Post("/login", middleware.RateLimit(5, time.Minute), h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.RefreshToken)
	authGroup.Post("/logout", h.Auth.Logout)

	protected := v1.Group("", middleware.AuthRequired(authService))
	protected.Get("/auth/me", h.Auth.Me)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Post("/mark-all-as-read", h.Notification.MarkAllAsRead)
	notifications.Post("/:id/mark-as-read", h.Notification.MarkAsRead)
	notifications.Post("/:id/response", h.Notification.Respond)
	notifications.Post("/:id/pm-response", h.Notification.PMRespond)
	notifications.Delete("/:id", h.Notification.Delete)

	orders := protected.Group("/orders/:orderId")
	orders.Post("/stage-requests", middleware.RequireAnyRole(domain.StageRequestRoles...), h.StageRequest.Dispatch)
	orders.Get("/task-responses", h.TaskResponse.ListByOrder)
	orders.Get("/task-responses/export", h.Export.TaskResponses)
	orders.Post("/task-responses/export/archive", h.Export.ArchiveTaskResponses)
	orders.Get("/task-responses/:tahap", h.TaskResponse.GetByTahap)
	orders.Get("/workplan", h.Workplan.ListByOrder)
	orders.Get("/audit", h.Audit.ListByOrder)

	tasks := protected.Group("/task-responses")
	tasks.Post("/:id/complete", h.TaskResponse.Complete)
	tasks.Post("/:id/extensions", h.TaskResponse.RequestExtension)
	tasks.Get("/:id/extensions", h.TaskResponse.ListExtensions)

	extensions := protected.Group("/task-extensions", middleware.RequireRole(domain.RoleProjectManager))
	extensions.Get("/pending", h.TaskResponse.ListPendingExtensions)
	extensions.Post("/:id/approve", h.TaskResponse.ApproveExtension)
	extensions.Post("/:id/reject", h.TaskResponse.RejectExtension)

	protected.Patch("/workplan-items/:id", h.Workplan.UpdateItem)

	mobile := protected.Group("/mobile")
	mobile.Post("/fcm-token", h.User.RegisterFCMToken)
	mobile.Delete("/fcm-token", h.User.RemoveFCMToken)

	admin := protected.Group("/admin", middleware.RequireRole(domain.RoleAdmin))
	admin.Get("/fcm/stats", h.User.FCMStats)
	admin.Post("/fcm/test", h.User.SendTestPush)
	admin.Get("/dashboard", h.Dashboard.GetStats)

	audit := protected.Group("/audit")
	audit.Get("/recent", h.Audit.GetRecentActivities)
}
