// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/vidorahq/vidora/internal/platform/apperr"
	"github.com/vidorahq/vidora/internal/platform/dberr"
	"github.com/vidorahq/vidora/internal/users/auth"
	"github.com/vidorahq/vidora/pkg/username"
	"github.com/vidorahq/vidora/pkg/uuidv7"
)

// Service implements channel profile reads and the subscribe/unsubscribe
// transitions.
type Service struct {
	store    SubscriptionStore
	channels ChannelFinder
}

// NewService wires the subscription service.
func NewService(store SubscriptionStore, channels ChannelFinder) *Service {
	return &Service{store: store, channels: channels}
}

/*
GetChannelProfile returns the aggregated channel view for a viewer.

An unknown username is NotFound — never an empty profile.
*/
func (service *Service) GetChannelProfile(ctx context.Context, channelUsername, viewerID string) (*ChannelProfile, error) {
	profile, err := service.store.ChannelProfile(ctx, username.Normalize(channelUsername), viewerID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("Channel")
		}
		return nil, err
	}
	return profile, nil
}

/*
Subscribe creates the (viewer → channel) edge.

# Returns
  - error: NotFound for an unknown channel, ValidationError on
    self-subscription, Conflict when the edge already exists.
*/
func (service *Service) Subscribe(ctx context.Context, viewerID, channelUsername string) (*Subscription, error) {
	channel, err := service.resolveChannel(ctx, channelUsername)
	if err != nil {
		return nil, err
	}

	if channel.ID == viewerID {
		return nil, apperr.ValidationError("You cannot subscribe to your own channel")
	}

	edge := &Subscription{
		ID:         uuidv7.New(),
		Subscriber: viewerID,
		Channel:    channel.ID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := service.store.CreateEdge(ctx, edge); err != nil {
		return nil, err
	}

	return edge, nil
}

/*
Unsubscribe removes the (viewer → channel) edge.

# Returns
  - error: NotFound for an unknown channel or a non-existent subscription.
*/
func (service *Service) Unsubscribe(ctx context.Context, viewerID, channelUsername string) error {
	channel, err := service.resolveChannel(ctx, channelUsername)
	if err != nil {
		return err
	}

	if err := service.store.DeleteEdge(ctx, viewerID, channel.ID); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return apperr.NotFound("Subscription")
		}
		return err
	}
	return nil
}

// resolveChannel maps a raw username to the channel user.
func (service *Service) resolveChannel(ctx context.Context, channelUsername string) (*auth.User, error) {
	user, err := service.channels.FindByUsername(ctx, username.Normalize(channelUsername))
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("Channel")
		}
		return nil, err
	}
	return user, nil
}
