package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderbot_backend/internal/bot"
	"orderbot_backend/internal/catalog"
	"orderbot_backend/internal/feedback"
	"orderbot_backend/internal/gateway"
	apphttp "orderbot_backend/internal/http"
	"orderbot_backend/internal/http/router"
	"orderbot_backend/internal/match"
	"orderbot_backend/internal/notify"
	"orderbot_backend/internal/orders"
	"orderbot_backend/internal/scheduler"
	"orderbot_backend/internal/session"
	"orderbot_backend/internal/textmatch"
	"orderbot_backend/internal/webhook"
	"orderbot_backend/platform/config"
	"orderbot_backend/platform/db"
	"orderbot_backend/platform/logger"
	"orderbot_backend/platform/validator"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting bot", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	directory, err := loadDirectory(ctx, cfg, log)
	if err != nil {
		log.Error("failed to load directories", "error", err)
		panic("failed to load directories: " + err.Error())
	}
	log.DirectoryLoaded("suppliers", len(directory.Suppliers()), directorySource(cfg))
	log.DirectoryLoaded("locations", len(directory.LocationKeys()), directorySource(cfg))

	gatewayClient := gateway.NewClient(cfg, log)
	if gatewayClient == nil {
		log.Warn("GATEWAY_URL not configured; outbound messages are dropped")
	}

	var mail notify.Notifier
	if sender := notify.NewMailSender(cfg); sender != nil {
		mail = sender
		log.Info("email channel enabled", "host", cfg.SMTPHost)
	}
	notifier := notify.NewRouter(gatewayClient, mail, log)

	sessions, closeSessions := initSessionStore(cfg, log)
	if closeSessions != nil {
		defer closeSessions()
	}

	reminderClient, closeReminders := initReminderScheduler(cfg, log)
	if closeReminders != nil {
		defer closeReminders()
	}

	val := validator.New()

	// ========================================================================
	// Domain Layer (Composition Root)
	// ========================================================================

	matcher := match.New(directory, textmatch.EditDistance{})
	orderStore := orders.NewMemoryStore()

	// The concrete *scheduler.Client must not reach the orders service as a
	// typed nil inside the interface.
	var reminders orders.ReminderScheduler
	if reminderClient != nil {
		reminders = reminderClient
	}

	orderService := orders.NewService(orderStore, matcher, directory, notifier, reminders, cfg, log)
	feedbackService := feedback.NewService(orderService, notifier, textmatch.EditDistance{}, cfg, log)
	botRouter := bot.NewRouter(directory, sessions, orderService, feedbackService, notifier, log)

	// ========================================================================
	// HTTP Layer + Reminder Worker
	// ========================================================================

	engine := router.New(cfg, log, []apphttp.Module{
		webhook.NewModule(botRouter, gatewayClient, cfg.WebhookAPIKey, val, log),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.IsSchedulerEnabled() {
		worker, err := scheduler.NewWorker(cfg, orderService, notifier, log)
		if err != nil {
			log.Error("failed to initialize reminder worker", "error", err)
			panic("failed to initialize reminder worker: " + err.Error())
		}
		g.Go(func() error {
			worker.Run(gctx)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
	log.Info("shutdown complete")
}

// loadDirectory reads the supplier/location/employee directories from
// Postgres when DATABASE_URL is set, otherwise from the YAML files.
func loadDirectory(ctx context.Context, cfg *config.Config, log *logger.Logger) (*catalog.Catalog, error) {
	if !cfg.IsDatabaseEnabled() {
		return catalog.LoadFromFiles(cfg)
	}

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		return nil, err
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	return catalog.LoadFromDB(ctx, pool)
}

func directorySource(cfg *config.Config) string {
	if cfg.IsDatabaseEnabled() {
		return "postgres"
	}
	return "files"
}

// initSessionStore uses Redis when configured so conversations survive a
// restart, falling back to the in-memory store otherwise.
func initSessionStore(cfg *config.Config, log *logger.Logger) (session.Store, func()) {
	if cfg.RedisURL == "" {
		return session.NewMemoryStore(), nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Error("invalid REDIS_URL; using in-memory sessions", "error", err)
		return session.NewMemoryStore(), nil
	}
	client := redis.NewClient(opt)

	return session.NewRedisStore(client, cfg.GetSessionTTL()), func() {
		_ = client.Close()
	}
}

func initReminderScheduler(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if !cfg.IsSchedulerEnabled() {
		log.Warn("REDIS_URL not configured; approval reminders disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize reminder scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
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
