// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package media_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidorahq/vidora/internal/media"
)

// memoryQueue is an in-process Queue for tests.
type memoryQueue struct {
	mu    sync.Mutex
	items []string

	failEnqueue bool
}

func (q *memoryQueue) Enqueue(_ context.Context, publicID string) error {
	if q.failEnqueue {
		return errors.New("queue unavailable")
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, publicID)
	return nil
}

func (q *memoryQueue) Dequeue(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return "", nil
	}
	next := q.items[0]
	q.items = q.items[1:]
	return next, nil
}

// recordingStorage tracks Delete calls and can be made to fail.
type recordingStorage struct {
	mu         sync.Mutex
	deleted    []string
	failDelete bool
}

func (s *recordingStorage) Upload(context.Context, string) (*media.Asset, error) {
	return nil, errors.New("not implemented")
}

func (s *recordingStorage) Delete(_ context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDelete {
		return errors.New("media host unavailable")
	}
	s.deleted = append(s.deleted, publicID)
	return nil
}

func (s *recordingStorage) deletedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/*
TestJanitor_DrainsQueue verifies enqueued ids are deleted by Run.
*/
func TestJanitor_DrainsQueue(t *testing.T) {
	queue := &memoryQueue{}
	storage := &recordingStorage{}
	janitor := media.NewJanitor(queue, storage, quietLogger())

	require.NoError(t, queue.Enqueue(context.Background(), "old-avatar-1"))
	require.NoError(t, queue.Enqueue(context.Background(), "old-cover-2"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		janitor.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return len(storage.deletedIDs()) == 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done

	assert.ElementsMatch(t, []string{"old-avatar-1", "old-cover-2"}, storage.deletedIDs())
}

/*
TestJanitor_ScheduleDelete verifies the detached enqueue path.
*/
func TestJanitor_ScheduleDelete(t *testing.T) {
	queue := &memoryQueue{}
	storage := &recordingStorage{}
	janitor := media.NewJanitor(queue, storage, quietLogger())

	janitor.ScheduleDelete("old-avatar")
	janitor.ScheduleDelete("") // no-op, must not enqueue

	assert.Eventually(t, func() bool {
		queue.mu.Lock()
		defer queue.mu.Unlock()
		return len(queue.items) == 1 && queue.items[0] == "old-avatar"
	}, time.Second, 5*time.Millisecond)
}

/*
TestJanitor_ScheduleDelete_QueueDown verifies the direct-delete fallback when
the queue is unreachable.
*/
func TestJanitor_ScheduleDelete_QueueDown(t *testing.T) {
	queue := &memoryQueue{failEnqueue: true}
	storage := &recordingStorage{}
	janitor := media.NewJanitor(queue, storage, quietLogger())

	janitor.ScheduleDelete("old-avatar")

	assert.Eventually(t, func() bool {
		ids := storage.deletedIDs()
		return len(ids) == 1 && ids[0] == "old-avatar"
	}, time.Second, 5*time.Millisecond)
}

/*
TestJanitor_DeleteFailureIsSwallowed verifies a failing media host never
breaks the drain loop.
*/
func TestJanitor_DeleteFailureIsSwallowed(t *testing.T) {
	queue := &memoryQueue{}
	storage := &recordingStorage{failDelete: true}
	janitor := media.NewJanitor(queue, storage, quietLogger())

	require.NoError(t, queue.Enqueue(context.Background(), "doomed"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		janitor.Run(ctx)
		close(done)
	}()

	// The failing id must be consumed (dropped), not retried forever.
	assert.Eventually(t, func() bool {
		queue.mu.Lock()
		defer queue.mu.Unlock()
		return len(queue.items) == 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}
