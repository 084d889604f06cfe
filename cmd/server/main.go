package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/UTurtleDev/gcl/internal/config"
	"github.com/UTurtleDev/gcl/internal/db"
	"github.com/UTurtleDev/gcl/internal/logger"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	zl, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	conn, err := db.Connect(cfg.Database, zl)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	seedOpts := db.SeedOptions{
		Cabinets:      cfg.App.SeedCabinets,
		AdminEmail:    cfg.App.AdminEmail,
		AdminPassword: cfg.App.AdminPassword,
	}

	if *migrateOnlyFlag {
		if err := db.Migrate(conn, cfg, zl); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		zl.Info("Migrations completed successfully")
		return nil
	}
	if *seedOnlyFlag {
		if err := db.Seed(context.Background(), conn, seedOpts); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		zl.Info("Seeding completed successfully")
		return nil
	}

	if err := db.Migrate(conn, cfg, zl); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := db.Seed(context.Background(), conn, seedOpts); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	rdb, err := connectRedis(cfg)
	if err != nil {
		return err
	}
	// A nil *redis.Client must not reach NewApp as a non-nil interface.
	var shared redis.UniversalClient
	if rdb != nil {
		defer rdb.Close()
		shared = rdb
	}

	app, err := NewApp(cfg, conn, shared, zl)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("Server starting",
			zap.String("port", cfg.Server.Port),
			zap.Bool("dev", cfg.App.Dev),
			zap.String("cache", cfg.Cache.Backend),
			zap.String("sessions", cfg.Session.Backend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
		zl.Info("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	zl.Info("Server stopped gracefully")
	return nil
}

// connectRedis returns nil when neither the cache nor the sessions use Redis.
func connectRedis(cfg *config.Config) (*redis.Client, error) {
	if cfg.Cache.Backend != "redis" && cfg.Session.Backend != "redis" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.Cache.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}
