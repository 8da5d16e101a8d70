// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package history

import (
	"context"
	"time"

	"github.com/vidorahq/vidora/pkg/uuidv7"
)

// Service implements watch recording and history retrieval.
type Service struct {
	store HistoryStore
}

// NewService wires the history service.
func NewService(store HistoryStore) *Service {
	return &Service{store: store}
}

// RecordWatch appends a playback event for the user. Watching the same video
// again writes a new event; the read model collapses them.
func (service *Service) RecordWatch(ctx context.Context, userID, videoID string) (*WatchEvent, error) {
	event := &WatchEvent{
		ID:        uuidv7.New(),
		User:      userID,
		Video:     videoID,
		WatchedAt: time.Now().UTC(),
	}
	if err := service.store.RecordWatch(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// WatchHistory returns the user's de-duplicated history, most recent first.
// The result is recomputed on every call.
func (service *Service) WatchHistory(ctx context.Context, userID string) ([]HistoryEntry, error) {
	entries, err := service.store.WatchHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []HistoryEntry{}
	}
	return entries, nil
}
