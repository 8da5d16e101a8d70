// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package subscription_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidorahq/vidora/internal/platform/apperr"
	"github.com/vidorahq/vidora/internal/platform/dberr"
	"github.com/vidorahq/vidora/internal/social/subscription"
	"github.com/vidorahq/vidora/internal/users/auth"
)

// memoryGraph implements ChannelFinder and SubscriptionStore over in-memory
// users and edges, computing the profile the way the pipeline does.
type memoryGraph struct {
	users map[string]*auth.User // keyed by normalized username
	edges []*subscription.Subscription
}

func newMemoryGraph(users ...*auth.User) *memoryGraph {
	graph := &memoryGraph{users: make(map[string]*auth.User)}
	for _, user := range users {
		graph.users[user.Username] = user
	}
	return graph
}

func (graph *memoryGraph) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	if user, ok := graph.users[username]; ok {
		return user, nil
	}
	return nil, dberr.ErrNotFound
}

func (graph *memoryGraph) ChannelProfile(_ context.Context, channelUsername, viewerID string) (*subscription.ChannelProfile, error) {
	channel, ok := graph.users[channelUsername]
	if !ok {
		return nil, dberr.ErrNotFound
	}

	profile := &subscription.ChannelProfile{
		ID:       channel.ID,
		Username: channel.Username,
		Fullname: channel.Fullname,
	}
	for _, edge := range graph.edges {
		if edge.Channel == channel.ID {
			profile.SubscribersCount++
			if edge.Subscriber == viewerID {
				profile.IsSubscribed = true
			}
		}
		if edge.Subscriber == channel.ID {
			profile.SubscribedToCount++
		}
	}
	return profile, nil
}

func (graph *memoryGraph) CreateEdge(_ context.Context, edge *subscription.Subscription) error {
	for _, existing := range graph.edges {
		if existing.Subscriber == edge.Subscriber && existing.Channel == edge.Channel {
			return apperr.Conflict("Already subscribed to this channel")
		}
	}
	graph.edges = append(graph.edges, edge)
	return nil
}

func (graph *memoryGraph) DeleteEdge(_ context.Context, subscriberID, channelID string) error {
	for index, edge := range graph.edges {
		if edge.Subscriber == subscriberID && edge.Channel == channelID {
			graph.edges = append(graph.edges[:index], graph.edges[index+1:]...)
			return nil
		}
	}
	return dberr.ErrNotFound
}

func channelUser(id, name string) *auth.User {
	return &auth.User{ID: id, Username: name, Fullname: name}
}

func TestGetChannelProfile_UnknownChannel(t *testing.T) {
	graph := newMemoryGraph(channelUser("user-a", "alice"))
	service := subscription.NewService(graph, graph)

	_, err := service.GetChannelProfile(context.Background(), "nobody", "user-a")

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "NOT_FOUND", appError.Code)
}

func TestGetChannelProfile_CountsAndMembership(t *testing.T) {
	graph := newMemoryGraph(channelUser("user-a", "alice"), channelUser("user-b", "bob"))
	service := subscription.NewService(graph, graph)

	// alice subscribes to bob.
	_, err := service.Subscribe(context.Background(), "user-a", "bob")
	require.NoError(t, err)

	profile, err := service.GetChannelProfile(context.Background(), " BOB ", "user-a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.SubscribersCount)
	assert.Equal(t, int64(0), profile.SubscribedToCount)
	assert.True(t, profile.IsSubscribed)

	// A third-party viewer sees the count but no membership.
	other, err := service.GetChannelProfile(context.Background(), "bob", "user-z")
	require.NoError(t, err)
	assert.Equal(t, int64(1), other.SubscribersCount)
	assert.False(t, other.IsSubscribed)

	// bob's own subscribed-to count reflects the reverse edge set.
	aliceProfile, err := service.GetChannelProfile(context.Background(), "alice", "user-b")
	require.NoError(t, err)
	assert.Equal(t, int64(1), aliceProfile.SubscribedToCount)
	assert.Equal(t, int64(0), aliceProfile.SubscribersCount)
}

func TestSubscribe_Rules(t *testing.T) {
	graph := newMemoryGraph(channelUser("user-a", "alice"), channelUser("user-b", "bob"))
	service := subscription.NewService(graph, graph)

	t.Run("unknown channel", func(t *testing.T) {
		_, err := service.Subscribe(context.Background(), "user-a", "nobody")
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "NOT_FOUND", appError.Code)
	})

	t.Run("self subscription forbidden", func(t *testing.T) {
		_, err := service.Subscribe(context.Background(), "user-a", "alice")
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "VALIDATION_ERROR", appError.Code)
	})

	t.Run("duplicate edge conflicts", func(t *testing.T) {
		_, err := service.Subscribe(context.Background(), "user-a", "bob")
		require.NoError(t, err)

		_, err = service.Subscribe(context.Background(), "user-a", "bob")
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "CONFLICT", appError.Code)
	})
}

func TestUnsubscribe(t *testing.T) {
	graph := newMemoryGraph(channelUser("user-a", "alice"), channelUser("user-b", "bob"))
	service := subscription.NewService(graph, graph)

	_, err := service.Subscribe(context.Background(), "user-a", "bob")
	require.NoError(t, err)

	require.NoError(t, service.Unsubscribe(context.Background(), "user-a", "bob"))

	// The edge is gone and the counts reflect it.
	profile, err := service.GetChannelProfile(context.Background(), "bob", "user-a")
	require.NoError(t, err)
	assert.Equal(t, int64(0), profile.SubscribersCount)
	assert.False(t, profile.IsSubscribed)

	// Removing a non-existent edge is NotFound, not silent corruption.
	err = service.Unsubscribe(context.Background(), "user-a", "bob")
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "NOT_FOUND", appError.Code)
}
