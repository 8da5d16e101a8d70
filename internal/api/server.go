// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

/*
Package api composes the HTTP surface of the Vidora server.

It owns the router, the middleware chain, and the health probes; the feature
packages contribute their own routes via RegisterRoutes.

# Route map (/api/v1)

  - /users    — registration, session lifecycle, account management
  - /channel  — channel profiles and subscription edges
  - /history  — watch history
*/
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vidorahq/vidora/internal/library/history"
	"github.com/vidorahq/vidora/internal/platform/config"
	"github.com/vidorahq/vidora/internal/platform/constants"
	"github.com/vidorahq/vidora/internal/platform/middleware"
	"github.com/vidorahq/vidora/internal/social/subscription"
	"github.com/vidorahq/vidora/internal/users/account"
	"github.com/vidorahq/vidora/internal/users/auth"
)

// Dependencies carries everything the router needs, wired in main.
type Dependencies struct {
	Config   *config.Config
	Logger   *slog.Logger
	Mongo    *mongo.Client
	Redis    *goredis.Client
	Verifier middleware.TokenVerifier

	Auth         *auth.Handler
	Account      *account.Handler
	Subscription *subscription.Handler
	History      *history.Handler
}

// NewServer builds the configured HTTP server around the composed router.
func NewServer(deps Dependencies) *http.Server {
	return &http.Server{
		Addr:              ":" + deps.Config.ServerPort,
		Handler:           NewRouter(deps),
		ReadTimeout:       constants.DefaultReadTimeout,
		WriteTimeout:      constants.DefaultWriteTimeout,
		IdleTimeout:       constants.DefaultIdleTimeout,
		ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
	}
}

// NewRouter assembles the middleware chain and mounts all features.
//
// # Chain order
//
// RequestID first so every later stage can correlate; logging before the
// timeout so timed-out requests still get a final log line; Authenticate
// before the routes so RequireAuth guards see the claims.
func NewRouter(deps Dependencies) chi.Router {
	router := chi.NewRouter()

	router.Use(chimiddleware.CleanPath)
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(deps.Logger))
	router.Use(chimiddleware.Timeout(constants.GlobalRequestTimeout))
	router.Use(middleware.PanicRecovery(deps.Logger))
	router.Use(middleware.CORS(deps.Config))
	router.Use(middleware.Authenticate(deps.Verifier))

	health := NewHealth(deps.Mongo, deps.Redis)
	router.Get("/health", health.Liveness)
	router.Get("/ready", health.Readiness)

	router.Route("/api/v1", func(apiRouter chi.Router) {
		apiRouter.Route("/users", func(usersRouter chi.Router) {
			deps.Auth.RegisterRoutes(usersRouter)
			deps.Account.RegisterRoutes(usersRouter)
		})
		apiRouter.Route("/channel", deps.Subscription.RegisterRoutes)
		apiRouter.Route("/history", deps.History.RegisterRoutes)
	})

	return router
}
