package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tripdesk_backend/internal/adapters"
	"tripdesk_backend/internal/assignment"
	"tripdesk_backend/internal/auth"
	"tripdesk_backend/internal/bookings"
	"tripdesk_backend/internal/directory"
	"tripdesk_backend/internal/events"
	apphttp "tripdesk_backend/internal/http"
	"tripdesk_backend/internal/http/router"
	"tripdesk_backend/internal/leads"
	"tripdesk_backend/internal/notification"
	"tripdesk_backend/internal/packages"
	"tripdesk_backend/internal/scheduler"
	"tripdesk_backend/platform/config"
	"tripdesk_backend/platform/db"
	"tripdesk_backend/platform/logger"
	"tripdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	taskClient, closeTaskClient := initTaskClient(cfg, log)
	if closeTaskClient != nil {
		defer closeTaskClient()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	directoryModule := directory.NewModule(pool, val, log)
	authModule := auth.NewModule(directoryModule.Repository(), cfg, val, log)

	// The engine reads the directory through its own port, never directly.
	agentReader := adapters.NewDirectoryAgentReader(directoryModule.Repository())
	assignmentModule := assignment.NewModule(pool, agentReader, val, log)

	leadsModule := leads.NewModule(pool, assignmentModule.Engine(), directoryModule.Repository(), eventBus, val, log)
	packagesModule := packages.NewModule(pool, val, log)
	bookingsModule := bookings.NewModule(pool, leadsModule.Repository(), assignmentModule.Engine(), directoryModule.Repository(), packagesModule.Repository(), eventBus, val, log)

	// Notification subscribes to domain events (not HTTP-facing)
	notificationService := notification.New(taskClient, leadsModule.Repository(), bookingsModule.Repository(), log)
	notificationService.RegisterSubscribers(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			directoryModule,
			assignmentModule,
			leadsModule,
			bookingsModule,
			packagesModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initTaskClient(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; email notifications disabled")
		return nil, nil
	}

	taskClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize task queue client", "error", err)
		return nil, nil
	}

	return taskClient, func() {
		_ = taskClient.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
