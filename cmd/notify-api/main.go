package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/notify-admin-api/api/swagger"
	"github.com/noah-isme/notify-admin-api/internal/events"
	"github.com/noah-isme/notify-admin-api/internal/handler"
	"github.com/noah-isme/notify-admin-api/internal/middleware"
	"github.com/noah-isme/notify-admin-api/internal/repository"
	"github.com/noah-isme/notify-admin-api/internal/router"
	"github.com/noah-isme/notify-admin-api/internal/service"
	"github.com/noah-isme/notify-admin-api/pkg/config"
	"github.com/noah-isme/notify-admin-api/pkg/database"
	"github.com/noah-isme/notify-admin-api/pkg/logger"
	"github.com/noah-isme/notify-admin-api/pkg/redis"
)

// @title Notify Admin API
// @version 1.0.0
// @description Announcement management for the admin console
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server exited", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db.DB, logr); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	bus := events.NewBus(events.Config{
		Workers:    cfg.Events.Workers,
		BufferSize: cfg.Events.BufferSize,
		MaxRetries: cfg.Events.MaxRetries,
		RetryDelay: cfg.Events.RetryDelay,
		Logger:     logr.Named("events"),
	})
	bus.Subscribe("log", events.LogSubscriber(logr.Named("announcements")))
	if cfg.Events.RedisEnabled {
		client, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer client.Close()
		bus.Subscribe("redis", events.NewRedisForwarder(client, cfg.Events.RedisChannel).Handle)
		logr.Info("redis forwarding enabled", zap.String("addr", redis.Addr(cfg.Redis)), zap.String("channel", cfg.Events.RedisChannel))
	}
	// The bus outlives request cancellation; it is stopped explicitly below.
	bus.Start(context.WithoutCancel(ctx))

	metrics := service.NewMetricsService()
	tokens := service.NewTokenService(service.TokenConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		Expiry: cfg.JWT.Expiration,
	})
	announcements := service.NewAnnouncementService(
		repository.NewAnnouncementRepository(db),
		bus,
		validator.New(),
		metrics,
		logr.Named("announcement_service"),
	)

	engine := router.New(router.Dependencies{
		Config:        cfg,
		Logger:        logr,
		Auth:          middleware.JWT(tokens),
		Metrics:       metrics,
		Announcements: handler.NewAnnouncementHandler(announcements),
		Observability: handler.NewMetricsHandler(metrics, db),
		Audit:         repository.NewAuditRepository(db),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}

	serveErr := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logr.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("http shutdown", zap.Error(err))
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		logr.Warn("event bus did not drain", zap.Error(err))
	}
	logr.Info("server stopped")
	return nil
}
