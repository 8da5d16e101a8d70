// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package media

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vidorahq/vidora/internal/platform/constants"
)

// Queue is the pending-deletion queue between request handlers and the janitor.
type Queue interface {
	// Enqueue records a media-host object id for eventual deletion.
	Enqueue(ctx context.Context, publicID string) error

	// Dequeue blocks briefly for the next pending id. It returns an empty
	// string (and nil error) when the queue stayed empty for the wait window.
	Dequeue(ctx context.Context) (string, error)
}

// # Redis Queue

// dequeueWait is how long a single Dequeue call blocks on an empty queue.
// Short enough that Run notices context cancellation promptly.
const dequeueWait = 2 * time.Second

// RedisQueue implements [Queue] on a Redis list.
//
// A list survives process restarts, so a crash between the avatar swap and
// the delete does not leak the old object forever.
type RedisQueue struct {
	client *redis.Client
}

// NewRedisQueue wraps a connected Redis client.
func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client}
}

// Enqueue pushes the id onto the cleanup list.
func (queue *RedisQueue) Enqueue(ctx context.Context, publicID string) error {
	return queue.client.LPush(ctx, constants.RedisKeyMediaCleanup, publicID).Err()
}

// Dequeue pops the oldest pending id, blocking up to dequeueWait.
func (queue *RedisQueue) Dequeue(ctx context.Context) (string, error) {
	values, err := queue.client.BRPop(ctx, dequeueWait, constants.RedisKeyMediaCleanup).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	// BRPop returns [key, value].
	if len(values) != 2 {
		return "", nil
	}
	return values[1], nil
}

// # Janitor

// Janitor deletes superseded media-host objects off the request path.
//
// # Failure policy
//
// Cleanup is best-effort by design: a failed delete is logged and dropped.
// An orphaned old avatar is a bounded, non-fatal outcome — the user record
// already points at the new object, so correctness is never at stake.
type Janitor struct {
	queue   Queue
	storage Storage
	logger  *slog.Logger
}

// NewJanitor constructs a janitor over the given queue and media host.
func NewJanitor(queue Queue, storage Storage, logger *slog.Logger) *Janitor {
	return &Janitor{queue: queue, storage: storage, logger: logger}
}

// enqueueTimeout bounds the detached enqueue so a dead queue cannot pile up
// goroutines.
const enqueueTimeout = 5 * time.Second

// ScheduleDelete hands an object id to the cleanup queue and returns
// immediately. The caller's response never waits on this.
//
// If the queue is unreachable the janitor degrades to a direct best-effort
// delete; if that also fails the failure is logged and accepted.
func (janitor *Janitor) ScheduleDelete(publicID string) {
	if publicID == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), enqueueTimeout)
		defer cancel()

		err := janitor.queue.Enqueue(ctx, publicID)
		if err == nil {
			return
		}
		janitor.logger.Warn("media_cleanup_enqueue_failed",
			slog.String("public_id", publicID),
			slog.Any("error", err),
		)

		// Queue down: try the delete directly rather than losing the id.
		if err := janitor.storage.Delete(ctx, publicID); err != nil {
			janitor.logger.Error("media_cleanup_delete_failed",
				slog.String("public_id", publicID),
				slog.Any("error", err),
			)
		}
	}()
}

// Run drains the queue until the context is cancelled.
//
// Intended to be started once from main as a background goroutine.
func (janitor *Janitor) Run(ctx context.Context) {
	janitor.logger.Info("media_janitor_started")

	for {
		select {
		case <-ctx.Done():
			janitor.logger.Info("media_janitor_stopped")
			return
		default:
		}

		publicID, err := janitor.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				janitor.logger.Info("media_janitor_stopped")
				return
			}
			janitor.logger.Warn("media_cleanup_dequeue_failed", slog.Any("error", err))
			continue
		}
		if publicID == "" {
			continue
		}

		if err := janitor.storage.Delete(ctx, publicID); err != nil {
			// Logged-failure sink: the id is dropped, the orphan is accepted.
			janitor.logger.Error("media_cleanup_delete_failed",
				slog.String("public_id", publicID),
				slog.Any("error", err),
			)
		} else {
			janitor.logger.Debug("media_cleanup_deleted", slog.String("public_id", publicID))
		}
	}
}
