// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

/*
Package subscription implements the channel graph: subscribe/unsubscribe
edges and the aggregated channel profile a viewer sees.

# Data model

A subscription is a directed edge (subscriber user id → channel user id),
unique per ordered pair, never mutated. Self-subscription is forbidden. The
channel profile is a pure read model computed with an aggregation pipeline
over the users and subscriptions collections — counts are never cached or
denormalized onto the user document.
*/
package subscription

import (
	"time"

	"github.com/vidorahq/vidora/internal/media"
)

// Subscription is one edge in the channel graph.
type Subscription struct {
	ID         string    `bson:"_id" json:"id"`
	Subscriber string    `bson:"subscriber" json:"subscriber"`
	Channel    string    `bson:"channel" json:"channel"`
	CreatedAt  time.Time `bson:"createdat" json:"createdAt"`
}

// ChannelProfile is the viewer-specific aggregated view of a channel.
//
// It never carries credential fields; the projection in the pipeline is the
// enforcement point.
type ChannelProfile struct {
	ID         string       `bson:"_id" json:"id"`
	Username   string       `bson:"username" json:"username"`
	Fullname   string       `bson:"fullname" json:"fullname"`
	Email      string       `bson:"email" json:"email"`
	Avatar     media.Asset  `bson:"avatar" json:"avatar"`
	CoverImage *media.Asset `bson:"coverimage,omitempty" json:"coverImage,omitempty"`

	SubscribersCount  int64 `bson:"subscriberscount" json:"subscribersCount"`
	SubscribedToCount int64 `bson:"subscribedtocount" json:"subscribedToCount"`

	// IsSubscribed reports whether the requesting viewer subscribes to this
	// channel.
	IsSubscribed bool `bson:"issubscribed" json:"isSubscribed"`
}
