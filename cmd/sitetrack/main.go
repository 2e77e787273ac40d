package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/terra-clan/sitetrack/internal/api"
	"github.com/terra-clan/sitetrack/internal/config"
	"github.com/terra-clan/sitetrack/internal/health"
	"github.com/terra-clan/sitetrack/internal/phases"
	"github.com/terra-clan/sitetrack/internal/schedule"
	"github.com/terra-clan/sitetrack/internal/snapshots"
	"github.com/terra-clan/sitetrack/internal/storage"
	"github.com/terra-clan/sitetrack/internal/tracker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Log.Level,
	}))
	slog.SetDefault(logger)

	slog.Info("starting sitetrack",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"database", cfg.Database.Driver,
	)

	// Create context for initialization
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	repo, err := openRepository(initCtx, cfg.Database)
	if err != nil {
		slog.Error("failed to open repository", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	registry := health.NewRegistry()
	registry.Register("database", health.CheckerFunc(repo.Ping))

	// Load phase table
	phaseLoader := phases.NewLoader()
	if cfg.Phases.File != "" {
		if err := phaseLoader.LoadFromFile(cfg.Phases.File); err != nil {
			slog.Warn("failed to load phases, using builtin table", "file", cfg.Phases.File, "error", err)
		}
	}

	manager := tracker.NewService(repo, phaseLoader, tracker.Options{
		Fallbacks: schedule.Fallbacks{ProjectSpanMonths: cfg.Schedule.ProjectSpanMonths},
	})

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Snapshot history lives in Redis; without it the history endpoint is disabled
	var history snapshots.Store
	if cfg.Snapshots.Enabled && cfg.Redis.Address != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		store := snapshots.NewRedisStore(rdb, cfg.Snapshots.Retain)
		if err := store.Ping(initCtx); err != nil {
			slog.Warn("redis not reachable at startup", "addr", cfg.Redis.Address, "error", err)
		}
		registry.Register("redis", health.CheckerFunc(store.Ping))
		history = store

		job := snapshots.NewJob(manager, store, cfg.Snapshots.Cron, cfg.Snapshots.Timeout)
		if err := job.Start(ctx); err != nil {
			slog.Error("failed to start snapshot job", "error", err)
			os.Exit(1)
		}
	}

	// Setup HTTP server
	server := api.NewServer(cfg.Server, manager, history, registry)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down gracefully...")

	// Cancel context to stop the snapshot job
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("sitetrack stopped")
}

// openRepository runs migrations and connects to PostgreSQL, or returns an
// in-memory repository for local runs
func openRepository(ctx context.Context, cfg config.DatabaseConfig) (storage.Repository, error) {
	if cfg.Driver == "memory" {
		slog.Warn("using in-memory storage, data is lost on restart")
		return storage.NewMemoryRepository(), nil
	}

	slog.Info("running database migrations", "dir", cfg.MigrationsDir)
	if err := storage.MigrateFromDSN(ctx, cfg.DSN, cfg.MigrationsDir); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	repo, err := storage.NewPostgresRepository(ctx, storage.PostgresConfig{
		DSN:          cfg.DSN,
		MaxOpenConns: int32(cfg.MaxOpenConns),
		MaxIdleConns: int32(cfg.MaxIdleConns),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create database repository: %w", err)
	}
	slog.Info("database connected successfully")
	return repo, nil
}
