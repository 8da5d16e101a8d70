// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package history_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidorahq/vidora/internal/library/history"
)

// memoryStore replays the read-model semantics over in-memory events:
// filter by user, keep the most recent watch per video, order by recency.
type memoryStore struct {
	events []*history.WatchEvent
}

func (store *memoryStore) RecordWatch(_ context.Context, event *history.WatchEvent) error {
	store.events = append(store.events, event)
	return nil
}

func (store *memoryStore) WatchHistory(_ context.Context, userID string) ([]history.HistoryEntry, error) {
	latest := make(map[string]time.Time)
	for _, event := range store.events {
		if event.User != userID {
			continue
		}
		if event.WatchedAt.After(latest[event.Video]) {
			latest[event.Video] = event.WatchedAt
		}
	}

	var entries []history.HistoryEntry
	for videoID, watchedAt := range latest {
		entries = append(entries, history.HistoryEntry{VideoID: videoID, LastWatchedAt: watchedAt})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LastWatchedAt.After(entries[j].LastWatchedAt)
	})
	return entries, nil
}

func TestRecordWatch_AppendOnly(t *testing.T) {
	store := &memoryStore{}
	service := history.NewService(store)

	first, err := service.RecordWatch(context.Background(), "user-1", "video-v")
	require.NoError(t, err)
	second, err := service.RecordWatch(context.Background(), "user-1", "video-v")
	require.NoError(t, err)

	// Re-watching writes a NEW event rather than touching the old one.
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, store.events, 2)
	assert.Equal(t, "user-1", first.User)
	assert.Equal(t, "video-v", first.Video)
	assert.False(t, first.WatchedAt.IsZero())
}

func TestWatchHistory_DedupAndOrdering(t *testing.T) {
	store := &memoryStore{}
	service := history.NewService(store)

	baseTime := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	// V watched at t1, W at t2, V again at t3.
	store.events = []*history.WatchEvent{
		{ID: "e1", User: "user-1", Video: "video-v", WatchedAt: baseTime},
		{ID: "e2", User: "user-1", Video: "video-w", WatchedAt: baseTime.Add(time.Hour)},
		{ID: "e3", User: "user-1", Video: "video-v", WatchedAt: baseTime.Add(2 * time.Hour)},
		{ID: "e4", User: "user-2", Video: "video-v", WatchedAt: baseTime.Add(3 * time.Hour)},
	}

	entries, err := service.WatchHistory(context.Background(), "user-1")
	require.NoError(t, err)

	// Two rows, not three: [V@t3, W@t2].
	require.Len(t, entries, 2)
	assert.Equal(t, "video-v", entries[0].VideoID)
	assert.Equal(t, baseTime.Add(2*time.Hour), entries[0].LastWatchedAt)
	assert.Equal(t, "video-w", entries[1].VideoID)

	// Strictly non-increasing by last-watched timestamp.
	for index := 1; index < len(entries); index++ {
		assert.False(t, entries[index].LastWatchedAt.After(entries[index-1].LastWatchedAt))
	}
}

func TestWatchHistory_EmptyIsNeverNil(t *testing.T) {
	service := history.NewService(&memoryStore{})

	entries, err := service.WatchHistory(context.Background(), "user-without-history")
	require.NoError(t, err)

	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
