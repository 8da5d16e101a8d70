// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

/*
Package history implements the watch-history relation and its read model.

# Data model

Watch events are append-only: every playback writes a new (user, video,
watchedAt) row, and the same video may appear many times per user. The read
model collapses that stream per video to the MOST RECENT watch and orders the
result by recency, freshly recomputed on every call — no caching, no
denormalized counters.
*/
package history

import (
	"time"

	"github.com/vidorahq/vidora/internal/media"
)

// WatchEvent is one append-only playback record.
type WatchEvent struct {
	ID        string    `bson:"_id" json:"id"`
	User      string    `bson:"user" json:"user"`
	Video     string    `bson:"video" json:"video"`
	WatchedAt time.Time `bson:"watchedat" json:"watchedAt"`
}

// ChannelSummary is the minimal channel sub-view embedded in a history entry.
type ChannelSummary struct {
	ID       string      `bson:"_id" json:"id"`
	Username string      `bson:"username" json:"username"`
	Avatar   media.Asset `bson:"avatar" json:"avatar"`
}

// HistoryEntry is one de-duplicated row of a user's watch history: the video,
// its owning channel, and the most recent watch time.
type HistoryEntry struct {
	VideoID       string         `bson:"videoid" json:"videoId"`
	Title         string         `bson:"title" json:"title"`
	Thumbnail     string         `bson:"thumbnail" json:"thumbnail"`
	Duration      float64        `bson:"duration" json:"duration"`
	Views         int64          `bson:"views" json:"views"`
	LastWatchedAt time.Time      `bson:"lastwatchedat" json:"lastWatchedAt"`
	Channel       ChannelSummary `bson:"channel" json:"channel"`
}
