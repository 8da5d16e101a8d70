// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

// Command api is the Vidora user-account backend server.
//
// All wiring happens here: configuration, logging, database and queue
// clients, the media host, the domain services, and the HTTP server with
// graceful shutdown. No package below this one reaches for globals.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/vidorahq/vidora/internal/api"
	"github.com/vidorahq/vidora/internal/library/history"
	"github.com/vidorahq/vidora/internal/media"
	"github.com/vidorahq/vidora/internal/platform/cloudinary"
	"github.com/vidorahq/vidora/internal/platform/config"
	"github.com/vidorahq/vidora/internal/platform/constants"
	"github.com/vidorahq/vidora/internal/platform/mongodb"
	"github.com/vidorahq/vidora/internal/platform/redis"
	"github.com/vidorahq/vidora/internal/platform/sec"
	"github.com/vidorahq/vidora/internal/social/subscription"
	"github.com/vidorahq/vidora/internal/users/account"
	"github.com/vidorahq/vidora/internal/users/auth"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── 1. Configuration and logging ──
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)
	logger.Info("starting",
		slog.String("app", constants.AppName),
		slog.String("version", constants.AppVersion),
		slog.String("environment", cfg.Environment),
	)

	// ── 2. Infrastructure clients ──
	mongoClient, database, err := mongodb.Connect(ctx, cfg.MongoURL, cfg.MongoDatabase, logger)
	if err != nil {
		return err
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	if err := mongodb.EnsureIndexes(ctx, database, logger); err != nil {
		return err
	}

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL, logger)
	if err != nil {
		return err
	}
	defer func() { _ = redisClient.Close() }()

	mediaHost, err := cloudinary.New(cfg.MediaURL, cfg.MediaFolder)
	if err != nil {
		return err
	}

	staging, err := media.NewStaging(cfg.StagingDir)
	if err != nil {
		return err
	}

	// The janitor outlives individual requests; it stops with the process.
	janitor := media.NewJanitor(media.NewRedisQueue(redisClient), mediaHost, logger)
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go janitor.Run(janitorCtx)

	tokens, err := sec.NewTokenService(
		cfg.AccessTokenSecret, cfg.RefreshTokenSecret,
		constants.AuthIssuer,
		cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
	)
	if err != nil {
		return err
	}

	// ── 3. Domain wiring ──
	userRepository := auth.NewRepository(database)
	authService := auth.NewService(userRepository, tokens, mediaHost, janitor)
	authHandler := auth.NewHandler(authService, staging, tokens.AccessTTL(), tokens.RefreshTTL())

	accountService := account.NewService(account.NewRepository(database), mediaHost, janitor)
	accountHandler := account.NewHandler(accountService, staging)

	subscriptionService := subscription.NewService(subscription.NewRepository(database), userRepository)
	subscriptionHandler := subscription.NewHandler(subscriptionService)

	historyService := history.NewService(history.NewRepository(database))
	historyHandler := history.NewHandler(historyService)

	server := api.NewServer(api.Dependencies{
		Config:   cfg,
		Logger:   logger,
		Mongo:    mongoClient,
		Redis:    redisClient,
		Verifier: tokens,

		Auth:         authHandler,
		Account:      accountHandler,
		Subscription: subscriptionHandler,
		History:      historyHandler,
	})

	// ── 4. Serve until signalled ──
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("shutdown complete")
	return nil
}

// newLogger builds the process-wide JSON logger.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(
		slog.String("app", constants.AppName),
		slog.String("env", cfg.Environment),
	)
}
