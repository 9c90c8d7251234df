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

	"magnetlab_backend/internal/adapters"
	"magnetlab_backend/internal/adapters/storage"
	"magnetlab_backend/internal/auth"
	"magnetlab_backend/internal/events"
	"magnetlab_backend/internal/exports"
	"magnetlab_backend/internal/funnels"
	apphttp "magnetlab_backend/internal/http"
	"magnetlab_backend/internal/http/router"
	"magnetlab_backend/internal/leads"
	"magnetlab_backend/internal/library"
	libsvc "magnetlab_backend/internal/library/service"
	"magnetlab_backend/internal/notification"
	"magnetlab_backend/internal/qualification"
	"magnetlab_backend/internal/scheduler"
	"magnetlab_backend/internal/search"
	"magnetlab_backend/internal/webhooks"
	"magnetlab_backend/platform/config"
	"magnetlab_backend/platform/db"
	"magnetlab_backend/platform/logger"
	"magnetlab_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg)
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

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	objectStore := initObjectStore(ctx, cfg, log)

	queue, closeQueue := initTaskQueue(cfg, log)
	if closeQueue != nil {
		defer closeQueue()
	}

	// ========================================================================
	// Domain Modules
	// ========================================================================

	authModule, err := auth.NewModule(pool, val, cfg, log)
	if err != nil {
		log.Error("failed to initialize auth module", "error", err)
		panic("failed to initialize auth module: " + err.Error())
	}

	qualificationModule, err := qualification.NewModule(pool, val, log)
	if err != nil {
		log.Error("failed to initialize qualification module", "error", err)
		panic("failed to initialize qualification module: " + err.Error())
	}

	funnelsModule := funnels.NewModule(pool, val, cfg, authModule.Users, qualificationModule.Service, log)

	// Funnel pages answer ownership and routing lookups for the other domains.
	funnelDirectory := adapters.NewFunnelDirectory(funnelsModule.Service)
	qualificationModule.Service.SetFunnelLookup(funnelDirectory)

	leadsModule := leads.NewModule(pool, val, funnelDirectory, qualificationModule.Service, eventBus, log)
	funnelsModule.Service.SetLeadCounter(adapters.NewFunnelLeadCounter(leadsModule.Service))

	libraryModule := library.NewModule(pool, val, objectStore, cfg.GetMinioBucketResources(), log)

	exportsModule := exports.NewModule(pool)
	searchModule := search.NewModule(pool, val)

	webhooksModule := webhooks.NewModule(pool, leadsModule.Service, cfg.GetInboundWebhookSecret(), val, log)

	notificationModule := notification.New(queue, authModule.Users, funnelDirectory, webhooksModule.Service, cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: db.NewPoolAdapter(pool),
		Modules: []apphttp.Module{
			authModule,
			funnelsModule,
			qualificationModule,
			leadsModule,
			libraryModule,
			exportsModule,
			searchModule,
			webhooksModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initObjectStore returns nil when MinIO is not configured; the resource
// library then accepts links only.
func initObjectStore(ctx context.Context, cfg *config.Config, log *logger.Logger) libsvc.ObjectStore {
	if !cfg.IsMinIOEnabled() {
		log.Warn("MINIO_ENDPOINT not configured; file uploads disabled")
		return nil
	}

	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}

	bucket := cfg.GetMinioBucketResources()
	if err := withRetry(ctx, log, "ensure resources bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
	log.Info("storage service initialized", "resourcesBucket", bucket)

	return storageSvc
}

func initTaskQueue(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.TaskEnqueuer, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; owner emails and webhook deliveries disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize task queue client", "error", err)
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
