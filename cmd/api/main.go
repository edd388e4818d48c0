// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the knowledge base HTTP API server.
//
// # Startup Sequence
//
//  1. Load a local .env file when present.
//  2. Initialize structured logger.
//  3. Load configuration from environment variables.
//  4. Run database migrations (idempotent).
//  5. Connect to PostgreSQL (pgxpool).
//  6. Connect to Redis when REDIS_URL is set.
//  7. Wire HTTP handlers.
//  8. Serve until SIGINT/SIGTERM, then drain in-flight requests.
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

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/confkb/internal/api"
	"github.com/taibuivan/confkb/internal/article"
	"github.com/taibuivan/confkb/internal/auth"
	"github.com/taibuivan/confkb/internal/platform/config"
	"github.com/taibuivan/confkb/internal/platform/constants"
	"github.com/taibuivan/confkb/internal/platform/migration"
	pgstore "github.com/taibuivan/confkb/internal/platform/postgres"
	redisstore "github.com/taibuivan/confkb/internal/platform/redis"
	"github.com/taibuivan/confkb/internal/platform/sec"
	"github.com/taibuivan/confkb/internal/render"
)

func main() {
	// ── 1. Local environment ──────────────────────────────────────────────
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	// ── 2. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 3. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("cache_enabled", cfg.CacheEnabled()),
	)

	// Startup has a deadline so misconfiguration fails fast.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 4. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 5. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	healthDeps := api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
	}

	// ── 6. Redis (optional) ───────────────────────────────────────────────
	var (
		articleCache article.Cache = article.NoopCache{}
		attempts     auth.AttemptStore
	)

	if cfg.CacheEnabled() {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer closeRedis(log, rdb)

		articleCache = article.NewRedisCache(rdb, cfg.CacheTTL)
		attempts = auth.NewRedisAttemptStore(rdb, constants.LoginLockoutWindow)
		healthDeps.CheckCache = func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}
	} else {
		log.Warn("redis_disabled", slog.String("reason", "REDIS_URL not set"))
		attempts = auth.NewMemoryAttemptStore(constants.LoginLockoutWindow, nil)
	}

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	tokens := sec.NewTokenService(cfg.JWTSecret, constants.AuthIssuer, cfg.TokenTTL)

	authService := auth.NewService(cfg.AdminPasswordHash, tokens, attempts, log)
	articleService := article.NewService(article.NewPostgresRepository(pool), articleCache, log)

	liveness, readiness := api.NewHealthHandlers(healthDeps, log)
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		Article:   article.NewHandler(articleService, render.NewSanitizer()),
	}

	// ── 8. Serve & Graceful Shutdown ──────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(ctx, cfg, log, tokens, handlers)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String(constants.FieldApp, constants.AppName))
	slog.SetDefault(log)
	return log
}

func closeRedis(log *slog.Logger, client *redis.Client) {
	log.Info("closing_redis_client")
	if err := client.Close(); err != nil {
		log.Error("redis_close_error", slog.Any("error", err))
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// Only for startup wiring. After startup, errors are returned and handled.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
