// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package history

import "context"

// HistoryStore is the persistence contract of the history service.
type HistoryStore interface {
	// RecordWatch appends one watch event. Events are never updated or
	// merged; de-duplication happens at read time.
	RecordWatch(ctx context.Context, event *WatchEvent) error

	// WatchHistory runs the de-duplicating aggregation for one user,
	// ordered by most recent watch first.
	WatchHistory(ctx context.Context, userID string) ([]HistoryEntry, error)
}
