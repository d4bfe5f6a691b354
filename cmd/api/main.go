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

	"propscout_backend/internal/adapters"
	"propscout_backend/internal/analysis"
	"propscout_backend/internal/energylabel"
	apphttp "propscout_backend/internal/http"
	"propscout_backend/internal/http/router"
	"propscout_backend/platform/cache"
	"propscout_backend/platform/config"
	"propscout_backend/platform/db"
	"propscout_backend/platform/logger"
	"propscout_backend/platform/metrics"
	"propscout_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
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

	var pool *pgxpool.Pool
	if cfg.IsDatabaseEnabled() {
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

		if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
			return db.RunMigrations(ctx, pool, log)
		}); err != nil {
			log.Error("failed to run database migrations", "error", err)
			panic("failed to run database migrations: " + err.Error())
		}
		log.Info("database migrations complete")
	} else {
		log.Warn("DATABASE_URL not configured; analyses will not be stored")
	}

	var remoteCache redis.UniversalClient
	if cfg.IsRedisEnabled() {
		client, err := cache.NewRedisClient(ctx, cfg)
		if err != nil {
			// Fall back to the in-process cache.
			log.Error("failed to connect to redis, using local cache only", "error", err)
		} else {
			remoteCache = client
			defer func() { _ = client.Close() }()
			log.Info("redis cache connected")
		}
	}

	var registry *metrics.Registry
	if cfg.IsMetricsEnabled() {
		registry = metrics.New()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	energyLabelModule := energylabel.NewModule(cfg, remoteCache, registry, val, log)
	defer energyLabelModule.Close()

	deps := analysis.Deps{
		Pool:    pool,
		Metrics: registry,
	}
	if energyLabelModule.IsEnabled() {
		deps.EnergyLabel = adapters.NewEnergyLabelAdapter(energyLabelModule.Service())
	}

	analysisModule, err := analysis.NewModule(cfg, deps, val, log)
	if err != nil {
		log.Error("failed to initialize analysis module", "error", err)
		panic("failed to initialize analysis module: " + err.Error())
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:  cfg,
		Logger:  log,
		Metrics: registry,
		Modules: []apphttp.Module{
			analysisModule,
			energyLabelModule,
		},
	}
	if pool != nil {
		app.Health = db.NewPoolAdapter(pool)
	}

	srv := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
		close(srvErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
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
