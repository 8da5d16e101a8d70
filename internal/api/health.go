// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package api

import (
	"net/http"

	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vidorahq/vidora/internal/platform/constants"
	"github.com/vidorahq/vidora/internal/platform/mongodb"
	"github.com/vidorahq/vidora/internal/platform/redis"
	"github.com/vidorahq/vidora/internal/platform/respond"
)

// Health serves the liveness and readiness probes.
type Health struct {
	mongo *mongo.Client
	redis *goredis.Client
}

// NewHealth wires the probe dependencies.
func NewHealth(mongoClient *mongo.Client, redisClient *goredis.Client) *Health {
	return &Health{mongo: mongoClient, redis: redisClient}
}

// Liveness reports that the process is up. It never touches dependencies, so
// a broken database does not get the process restarted.
func (health *Health) Liveness(writer http.ResponseWriter, request *http.Request) {
	respond.JSON(writer, http.StatusOK, map[string]string{
		constants.FieldStatus: "ok",
		"name":                constants.AppName,
		"version":             constants.AppVersion,
	})
}

// Readiness pings the document store and the cleanup queue. Any failing
// dependency flips the probe to 503 so load balancers drain this instance.
func (health *Health) Readiness(writer http.ResponseWriter, request *http.Request) {
	checks := map[string]string{
		"mongodb": "ok",
		"redis":   "ok",
	}
	healthy := true

	if err := mongodb.Ping(request.Context(), health.mongo); err != nil {
		checks["mongodb"] = err.Error()
		healthy = false
	}
	if err := redis.Ping(request.Context(), health.redis); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	}

	status := http.StatusOK
	overall := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	respond.JSON(writer, status, map[string]any{
		constants.FieldStatus: overall,
		constants.FieldChecks: checks,
	})
}
