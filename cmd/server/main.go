// Package main is the entrypoint for the NewsCheck API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kiranshivaraju/newscheck/internal/api"
	"github.com/kiranshivaraju/newscheck/internal/api/handler"
	mw "github.com/kiranshivaraju/newscheck/internal/api/middleware"
	"github.com/kiranshivaraju/newscheck/internal/api/response"
	"github.com/kiranshivaraju/newscheck/internal/cache"
	"github.com/kiranshivaraju/newscheck/internal/config"
	"github.com/kiranshivaraju/newscheck/internal/factcheck"
	"github.com/kiranshivaraju/newscheck/internal/scrape"
	"github.com/kiranshivaraju/newscheck/internal/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config — fail fast on invalid config
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Select cache: Redis when configured, no-op otherwise
	resultCache, err := newCache(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rc, ok := resultCache.(*cache.RedisCache); ok {
		defer rc.Close()
	}

	// 5. Build the verification pipeline
	pgStore := store.NewPostgresStore(pool)
	checker := factcheck.NewChecker(
		factcheck.NewPerplexityClient(cfg.Perplexity),
		factcheck.NewGeminiClient(cfg.Gemini),
		scrape.NewExtractor(),
		pgStore,
		resultCache,
	)

	// 6. Build router with dependencies
	deps := api.Dependencies{
		RateLimit:      mw.NewRateLimit(resultCache, cfg.Server.RateLimitPerMinute),
		FrontendOrigin: cfg.Server.FrontendOrigin,

		HealthHandler:        healthHandler(pgStore, resultCache),
		CheckClaimHandler:    handler.NewCheckClaimHandler(checker),
		ListHistoryHandler:   handler.NewListHistoryHandler(pgStore),
		DeleteHistoryHandler: handler.NewDeleteHistoryHandler(pgStore),
	}

	router := api.NewRouter(deps)

	// 7. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// newCache picks the cache variant once at startup: results and rate-limit
// counters live in Redis when REDIS_URL is set; otherwise every lookup
// misses and the limiter is disarmed.
func newCache(ctx context.Context, cfg config.RedisConfig) (cache.Cache, error) {
	if cfg.URL == "" {
		slog.Info("REDIS_URL not set, caching disabled")
		return cache.NewNoopCache(), nil
	}

	redisCache, err := cache.NewRedisCache(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("create redis cache: %w", err)
	}
	if err := redisCache.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")
	return redisCache, nil
}

// healthHandler checks database and cache connectivity.
func healthHandler(s store.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
		}

		if err := s.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := c.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}

		degraded := checks["database"] != "ok" || checks["cache"] != "ok"
		if degraded {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
