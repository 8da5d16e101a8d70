// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

// Package mongodb provides a managed MongoDB client for the Vidora application.
//
// # Architecture
//
// This package is part of the Infrastructure layer. It manages the physical
// database connection and owns index bootstrap, so every repository can rely
// on the unique constraints being in place before the server accepts traffic.
package mongodb

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vidorahq/vidora/internal/platform/constants"
)

// Opinionated default timeouts for MongoDB operations.
const (
	connectTimeout = 10 * time.Second
	pingTimeout    = 2 * time.Second
)

// Connect establishes a MongoDB connection and returns the application database.
//
// # Parameters
//   - context: Context for the initial connect/ping.
//   - mongoURL: Connection string (mongodb:// or mongodb+srv://).
//   - databaseName: Name of the logical database.
//   - logger: Structured logger for connection events.
func Connect(context stdctx.Context, mongoURL, databaseName string, logger *slog.Logger) (*mongo.Client, *mongo.Database, error) {
	connectCtx, cancel := stdctx.WithTimeout(context, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(mongoURL))
	if err != nil {
		return nil, nil, fmt.Errorf("mongodb: connect failed: %w", err)
	}

	// Validate connectivity immediately at startup.
	if err := Ping(context, client); err != nil {
		_ = client.Disconnect(context)
		return nil, nil, err
	}

	logger.Info("mongodb client connected", slog.String("database", databaseName))

	return client, client.Database(databaseName), nil
}

// Ping verifies that the MongoDB client is healthy.
func Ping(context stdctx.Context, client *mongo.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		return fmt.Errorf("mongodb: ping failed: %w", err)
	}

	return nil
}

// EnsureIndexes creates the indexes the domain invariants depend on.
//
// Index creation is idempotent, so this runs unconditionally on every boot —
// it is the document-store equivalent of running migrations.
//
// # Invariants backed by these indexes
//   - users: globally unique username and email.
//   - subscriptions: one edge per (subscriber, channel) ordered pair.
//   - watchhistory: recency scans per user.
func EnsureIndexes(context stdctx.Context, database *mongo.Database, logger *slog.Logger) error {
	users := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	subscriptions := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "subscriber", Value: 1}, {Key: "channel", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "channel", Value: 1}}},
	}

	watchHistory := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "watchedat", Value: -1}}},
		{Keys: bson.D{{Key: "video", Value: 1}}},
	}

	collections := map[string][]mongo.IndexModel{
		constants.CollectionUsers:         users,
		constants.CollectionSubscriptions: subscriptions,
		constants.CollectionWatchHistory:  watchHistory,
	}

	for name, models := range collections {
		if _, err := database.Collection(name).Indexes().CreateMany(context, models); err != nil {
			return fmt.Errorf("mongodb: ensure indexes for %s failed: %w", name, err)
		}
		logger.Debug("mongodb indexes ensured", slog.String("collection", name), slog.Int("count", len(models)))
	}

	return nil
}
