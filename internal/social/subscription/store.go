// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package subscription

import (
	"context"

	"github.com/vidorahq/vidora/internal/users/auth"
)

// ChannelFinder resolves a channel by its normalized username. Satisfied by
// the auth feature's user repository.
type ChannelFinder interface {
	FindByUsername(ctx context.Context, username string) (*auth.User, error)
}

// SubscriptionStore is the persistence contract of the subscription service.
type SubscriptionStore interface {
	// ChannelProfile runs the aggregation for one channel as seen by viewer.
	// Returns dberr.ErrNotFound when the username resolves to no user.
	ChannelProfile(ctx context.Context, channelUsername, viewerID string) (*ChannelProfile, error)

	// CreateEdge inserts a subscription edge. The unique (subscriber,
	// channel) index turns a duplicate into a Conflict.
	CreateEdge(ctx context.Context, edge *Subscription) error

	// DeleteEdge removes the edge for the ordered pair. Returns
	// dberr.ErrNotFound when no such edge exists.
	DeleteEdge(ctx context.Context, subscriberID, channelID string) error
}
