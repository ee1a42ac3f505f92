// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Rank Everything HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the Item Store (PostgreSQL with migrations, or SQLite).
//  4. Connect to Redis when configured (image probe cache).
//  5. Wire the image prober, metrics and ranking engine.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/rankeverything/internal/api"
	"github.com/taibuivan/rankeverything/internal/platform/config"
	"github.com/taibuivan/rankeverything/internal/platform/constants"
	"github.com/taibuivan/rankeverything/internal/platform/imageprobe"
	"github.com/taibuivan/rankeverything/internal/platform/metrics"
	"github.com/taibuivan/rankeverything/internal/platform/migration"
	pgstore "github.com/taibuivan/rankeverything/internal/platform/postgres"
	redisstore "github.com/taibuivan/rankeverything/internal/platform/redis"
	"github.com/taibuivan/rankeverything/internal/platform/sqlite"
	"github.com/taibuivan/rankeverything/internal/thing"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("store_driver", cfg.StoreDriver),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Item Store ─────────────────────────────────────────────────────
	repository, closeStore, err := openStore(startupCtx, cfg, log)
	must(log, err, "open item store")
	defer closeStore()

	// ── 4. Redis (optional) ───────────────────────────────────────────────
	var rdb *goredis.Client
	if cfg.RedisURL != "" {
		rdb, err = redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_failed", slog.Any("error", cerr))
			}
		}()
	} else {
		log.Warn("redis_disabled", slog.String("reason", "REDIS_URL not set; image probes are not cached"))
	}

	// ── 5. Image Prober ───────────────────────────────────────────────────
	var prober imageprobe.Prober = imageprobe.NewHTTPProber(cfg.ProbeTimeout, cfg.ProbeRatePerSec, cfg.ProbeBurst)
	if rdb != nil {
		prober = imageprobe.NewCachingProber(prober, redisstore.NewProbeCache(rdb, cfg.ProbeCacheTTL))
	}

	// ── 6. Health handlers (wired with real dependency checkers) ──────────
	healthDeps := api.HealthDependencies{CheckStore: repository.Ping}
	if rdb != nil {
		healthDeps.CheckCache = func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}
	}
	liveness, readiness := api.NewHealthHandlers(healthDeps, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	collector := metrics.New()
	thingService := thing.NewService(repository, prober, collector, log)
	thingHandler := thing.NewHandler(thingService)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(cfg, log, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Metrics:   collector.Handler(),
		Thing:     thingHandler,
	})

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		return
	}

	log.Info("server_stopped_cleanly")
}

// newLogger builds the JSON logger every entry of which carries the app name.
func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})).With(slog.String(constants.FieldApp, constants.AppName))
}

// openStore opens the configured Item Store and brings its schema up to date.
// The returned func releases the underlying connections.
func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (thing.Repository, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath, log)
		if err != nil {
			return nil, nil, err
		}

		repository := thing.NewSQLiteRepository(db)
		if err := repository.Migrate(ctx); err != nil {
			_ = sqlite.Close(db)
			return nil, nil, err
		}

		return repository, func() {
			log.Info("closing_sqlite_database")
			if err := sqlite.Close(db); err != nil {
				log.Error("sqlite_close_failed", slog.Any("error", err))
			}
		}, nil

	default:
		if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
			return nil, nil, err
		}

		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, nil, err
		}

		return thing.NewPostgresRepository(pool), func() {
			log.Info("closing_postgres_pool")
			pool.Close()
		}, nil
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
