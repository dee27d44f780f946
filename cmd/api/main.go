// Copyright (c) 2026 Kinora. All rights reserved.

// Command api is the entry point for the Kinora HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the selected storage backend (PostgreSQL pool + migrations,
//     or process-local memory stores).
//  4. Connect to Redis when a cache URL is configured.
//  5. Wire HTTP handlers.
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

	"github.com/kinora/kinora/internal/api"
	"github.com/kinora/kinora/internal/core/film"
	"github.com/kinora/kinora/internal/core/genre"
	"github.com/kinora/kinora/internal/core/mpa"
	"github.com/kinora/kinora/internal/core/user"
	"github.com/kinora/kinora/internal/platform/config"
	"github.com/kinora/kinora/internal/platform/constants"
	"github.com/kinora/kinora/internal/platform/migration"
	pgstore "github.com/kinora/kinora/internal/platform/postgres"
	redisstore "github.com/kinora/kinora/internal/platform/redis"
)

// repositories groups the storage implementations behind the domain
// interfaces, whichever driver produced them.
type repositories struct {
	films   film.Repository
	users   user.Repository
	genres  genre.Repository
	ratings mpa.Repository
}

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "kinora"))
	slog.SetDefault(log)

	log.Info("[Kinora] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "kinora"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("storage_driver", cfg.StorageDriver),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Storage ────────────────────────────────────────────────────────
	var repos repositories
	var checkDatabase func() error

	switch cfg.StorageDriver {
	case config.DriverPostgres:
		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing postgres pool")
			pool.Close()
		}()

		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

		repos = repositories{
			films:   film.NewPostgresRepository(pool),
			users:   user.NewPostgresRepository(pool),
			genres:  genre.NewPostgresRepository(pool),
			ratings: mpa.NewPostgresRepository(pool),
		}
		checkDatabase = func() error {
			return pgstore.Ping(context.Background(), pool)
		}

	case config.DriverMemory:
		genres := genre.NewMemoryRepository()
		ratings := mpa.NewMemoryRepository()
		repos = repositories{
			films:   film.NewMemoryRepository(genres, ratings),
			users:   user.NewMemoryRepository(),
			genres:  genres,
			ratings: ratings,
		}

	default:
		must(log, errors.New("unknown STORAGE_DRIVER: "+cfg.StorageDriver), "select storage driver")
	}

	// ── 4. Redis (optional popular-films cache) ───────────────────────────
	var popularCache *film.Cache
	var checkCache func() error

	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		popularCache = film.NewCache(rdb, log)
		checkCache = func() error {
			return redisstore.Ping(context.Background(), rdb)
		}
	} else {
		log.Info("popular_cache_disabled")
	}

	// ── 5. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: checkDatabase,
		CheckCache:    checkCache,
	}, log)

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	userService := user.NewService(repos.users, log)
	filmService := film.NewService(repos.films, repos.users, popularCache, log)
	genreService := genre.NewService(repos.genres, log)
	mpaService := mpa.NewService(repos.ratings, log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Film:      film.NewHandler(filmService),
		User:      user.NewHandler(userService),
		Genre:     genre.NewHandler(genreService),
		Mpa:       mpa.NewHandler(mpaService),
	}

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	// The server context outlives startup: it bounds background middleware
	// work (rate limiter cleanup) for the life of the process.
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, handlers)

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
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
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
