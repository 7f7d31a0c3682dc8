package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hireflow/ats-platform/internal/handlers"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP API, worker and scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApplication(true, serve)
		},
	}
}

func serve(ctx context.Context, a *application) error {
	log := a.log

	if seeded, err := a.templates.SeedGlobal(ctx); err != nil {
		log.Warn("⚠️  Failed to seed interview templates", zap.Error(err))
	} else if seeded > 0 {
		log.Info("✅ Interview templates seeded", zap.Int("count", seeded))
	}

	// Start worker
	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()
	a.worker.Start(workerCtx)
	log.Info("✅ Worker started successfully")

	if err := a.scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	log.Info("✅ Scheduler started", zap.String("spec", a.cfg.Scheduler.MaintenanceSpec))

	app := newFiberApp(a)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("🛑 Shutting down server...")

		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.Error("❌ Server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", a.cfg.Server.Port)
	log.Info("🚀 Server starting", zap.String("addr", addr))

	err := app.Listen(addr)

	a.worker.Stop()
	cancelWorker()
	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.scheduler.Stop(stopCtx)
	a.notifications.Wait()
	log.Info("👋 Shutdown complete")

	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func newFiberApp(a *application) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "HireFlow ATS API",
		ReadTimeout:  a.cfg.Server.RequestTimeout,
		WriteTimeout: a.cfg.Server.RequestTimeout,
		BodyLimit:    int(a.cfg.Storage.MaxFileSize) * 10,
		ErrorHandler: handlers.NewErrorHandler(a.log),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(helmet.New())
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: a.cfg.Server.AllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, auth-token",
	}))
	app.Use(healthcheck.New(healthcheck.Config{
		ReadinessProbe: func(c *fiber.Ctx) bool {
			sqlDB, err := a.db.DB()
			if err != nil {
				return false
			}
			return sqlDB.PingContext(c.UserContext()) == nil
		},
	}))

	handlers.RegisterRoutes(app, handlers.Handlers{
		Auth:          handlers.NewAuthHandler(a.auth),
		Admin:         handlers.NewAdminHandler(a.organizations, a.users, a.matchingCfg),
		Jobs:          handlers.NewJobHandler(a.jobs, a.matcher),
		Resumes:       handlers.NewResumeHandler(a.resumes),
		Matches:       handlers.NewMatchHandler(a.matcher),
		Interviews:    handlers.NewInterviewHandler(a.interviews),
		Templates:     handlers.NewTemplateHandler(a.templates),
		Notifications: handlers.NewNotificationHandler(a.notifications),
		Analytics:     handlers.NewAnalyticsHandler(a.analytics),
	}, handlers.RouteOptions{
		Verifier:   a.auth,
		RateLimit:  a.cfg.RateLimit.Max,
		RateWindow: a.cfg.RateLimit.Window,
	})

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "HireFlow ATS API",
			"version": "1.0.0",
			"health":  []string{"/livez", "/readyz"},
		})
	})

	return app
}
