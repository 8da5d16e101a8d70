// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package subscription_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/vidorahq/vidora/internal/social/subscription"
)

// stageName returns the operator of a single-element pipeline stage.
func stageName(t *testing.T, stage bson.D) string {
	t.Helper()
	require.Len(t, stage, 1)
	return stage[0].Key
}

func TestChannelProfilePipeline_StageOrder(t *testing.T) {
	pipeline := subscription.ChannelProfilePipeline("bob", "viewer-1")

	require.Len(t, pipeline, 5)
	assert.Equal(t, "$match", stageName(t, pipeline[0]))
	assert.Equal(t, "$lookup", stageName(t, pipeline[1]))
	assert.Equal(t, "$lookup", stageName(t, pipeline[2]))
	assert.Equal(t, "$addFields", stageName(t, pipeline[3]))
	assert.Equal(t, "$project", stageName(t, pipeline[4]))
}

func TestChannelProfilePipeline_Semantics(t *testing.T) {
	pipeline := subscription.ChannelProfilePipeline("bob", "viewer-1")

	// The match filters on the channel's username.
	match := pipeline[0][0].Value.(bson.D)
	assert.Equal(t, bson.D{{Key: "username", Value: "bob"}}, match)

	// First lookup joins edges pointing AT the channel, second joins edges
	// leaving it.
	firstLookup := pipeline[1][0].Value.(bson.D)
	secondLookup := pipeline[2][0].Value.(bson.D)
	assert.Equal(t, "channel", firstLookup.Map()["foreignField"])
	assert.Equal(t, "subscriber", secondLookup.Map()["foreignField"])

	// Membership tests the viewer against the subscriber column of the
	// first lookup's result.
	addFields := pipeline[3][0].Value.(bson.D)
	isSubscribed := addFields.Map()["issubscribed"].(bson.D)
	assert.Equal(t, bson.A{"viewer-1", "$subscribers.subscriber"}, isSubscribed.Map()["$in"])

	// The projection never exposes credential fields.
	projection := pipeline[4][0].Value.(bson.D).Map()
	assert.NotContains(t, projection, "passwordhash")
	assert.NotContains(t, projection, "refreshtokenhash")
}
