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

	"microblog/internal/auth"
	"microblog/internal/cache"
	"microblog/internal/config"
	"microblog/internal/database"
	"microblog/internal/feed"
	"microblog/internal/ratelimiter"
	"microblog/internal/scheduler"
	"microblog/internal/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	start := time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.LoadConfig()

	db, err := database.New(ctx, cfg.DBPath, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize db",
			"error", err,
			"dbPath", cfg.DBPath)

		return
	}
	defer func() {
		if err = db.Close(); err != nil {
			log.ErrorContext(ctx, "Failed to close db",
				"error", err,
				"dbPath", cfg.DBPath)
		}
	}()
	log.InfoContext(ctx, "DB is initialized",
		"dbPath", cfg.DBPath)

	listingCache, err := initCache(ctx, cfg, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize cache",
			"error", err,
			"redisURL", cfg.RedisURL)

		return
	}

	authService := auth.New(db, cfg.SessionLifetime, log)
	composer := feed.New(db, log)
	limiter := ratelimiter.New(ctx, cfg.LoginRateWindow, cfg.LoginRateLimit)

	sched := scheduler.New(ctx, authService, log)
	if err = sched.Start(); err != nil {
		log.ErrorContext(ctx, "Failed to start scheduler",
			"error", err,
			"spec", scheduler.HourlyPruneSpec)

		return
	}
	defer sched.Stop()
	log.InfoContext(ctx, "Scheduler is started",
		"spec", scheduler.HourlyPruneSpec)

	server := web.NewServer(db, composer, listingCache, authService, limiter, cfg, log)
	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.Handler(),
	}

	go func() {
		if serveErr := httpServer.ListenAndServe(); serveErr != nil &&
			!errors.Is(serveErr, http.ErrServerClosed) {
			log.ErrorContext(ctx, "Server failed",
				"error", serveErr,
				"addr", cfg.Addr)
			cancel()
		}
	}()
	log.InfoContext(ctx, "Server is started",
		"addr", cfg.Addr)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-c:
		log.InfoContext(ctx, "Shutdown signal is received",
			"signal", sig.String())
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err = httpServer.Shutdown(shutdownCtx); err != nil {
		log.ErrorContext(shutdownCtx, "Failed to shut down server",
			"error", err)
	}

	log.InfoContext(ctx, "Exiting...",
		"uptimeSeconds", time.Since(start).Seconds())
}

func initCache(ctx context.Context, cfg config.Config, log *slog.Logger) (cache.Cache, error) {
	if cfg.RedisURL == "" {
		log.InfoContext(ctx, "Using in-memory listing cache")

		return cache.NewMemory(), nil
	}

	redisCache, err := cache.NewRedis(ctx, cfg.RedisURL, log)
	if err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "Using redis listing cache")

	return redisCache, nil
}
