package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"complytrack/docs"
	"complytrack/internal/config"
	"complytrack/internal/database"
	"complytrack/internal/database/migration"
	handlers "complytrack/internal/http/handler"
	"complytrack/internal/http/middleware"
	"complytrack/internal/logger"
	"complytrack/internal/mailer"
	"complytrack/internal/metrics"
	"complytrack/internal/otel"
	"complytrack/internal/repository/postgres"
	"complytrack/internal/scheduler"
	"complytrack/internal/service"
	"complytrack/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title ComplyTrack API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	zl, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server_exited", zap.Error(err))
	}
}

func run(cfg *config.AppConfig, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc := cfg.Location()

	shutdownTracing, err := otel.Init(ctx, zl)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(ctx, cfg.Database, zl)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, zl, cfg.Database.Host); err != nil {
		return err
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(ctx, cfg.MinIO, zl)
	if err != nil {
		return err
	}

	sender, err := mailer.NewSMTP(cfg.Mail)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics, err := metrics.New(reg)
	if err != nil {
		return err
	}
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg, "/health", "/healthz")
	if err != nil {
		return err
	}

	// Initialize repositories and services
	requirementRepo := postgres.NewRequirementPostgres(db)
	documentRepo := postgres.NewDocumentPostgres(db)
	reminderLogRepo := postgres.NewReminderLogPostgres(db)
	orgRepo := postgres.NewOrganizationPostgres(db)
	jobRunRepo := postgres.NewJobRunPostgres(db)

	opts := []service.Option{
		service.WithLocation(loc),
		service.WithLogger(zl),
		service.WithMetrics(appMetrics),
	}
	statusSync := service.NewStatusSyncService(requirementRepo, opts...)
	services := handlers.Services{
		Requirements: service.NewRequirementService(requirementRepo, documentRepo, objStore, statusSync, opts...),
		Documents:    service.NewDocumentService(objStore, documentRepo, requirementRepo, statusSync, opts...),
		Reminders:    service.NewReminderDispatcher(requirementRepo, orgRepo, reminderLogRepo, sender, cfg.BaseURL, opts...),
	}

	jobs := scheduler.New(jobRunRepo,
		scheduler.WithInterval(cfg.Scheduler.TickInterval()),
		scheduler.WithLocation(loc),
		scheduler.WithLogger(zl),
		scheduler.WithMetrics(appMetrics),
	)
	if err := scheduler.RegisterComplianceJobs(jobs, cfg.Scheduler, statusSync, services.Reminders); err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(zl))
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	handlers.RegisterRoutes(app, db, services)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		addr := ":" + cfg.Port
		zl.Info("server_started", zap.String("event", "startup"), zap.String("addr", addr))
		return app.Listen(addr)
	})

	if cfg.Scheduler.Enabled {
		g.Go(func() error {
			return jobs.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		zl.Info("server_stopping", zap.String("event", "shutdown"))
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	zl.Info("server_stopped", zap.String("event", "shutdown"))
	return nil
}
