// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package subscription

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vidorahq/vidora/internal/platform/constants"
	"github.com/vidorahq/vidora/internal/platform/dberr"
	"github.com/vidorahq/vidora/internal/users/auth"
)

// BSON field names for the subscriptions collection.
const (
	FieldSubscriptionID         = "_id"
	FieldSubscriptionSubscriber = "subscriber"
	FieldSubscriptionChannel    = "channel"
	FieldSubscriptionCreatedAt  = "createdat"
)

// Repository is the MongoDB implementation of [SubscriptionStore].
type Repository struct {
	users         *mongo.Collection
	subscriptions *mongo.Collection
}

// NewRepository binds the repository to its collections.
func NewRepository(database *mongo.Database) *Repository {
	return &Repository{
		users:         database.Collection(constants.CollectionUsers),
		subscriptions: database.Collection(constants.CollectionSubscriptions),
	}
}

/*
ChannelProfilePipeline builds the channel profile aggregation.

# Stages

 1. $match the channel user by normalized username.
 2. $lookup edges where this user is the channel (the subscriber set).
 3. $lookup edges where this user is the subscriber (the subscribed-to set).
 4. $addFields: both counts as $size, isSubscribed as a $in membership test
    of the viewer id over the subscriber column.
 5. $project the public view — credential fields never leave the database.
*/
func ChannelProfilePipeline(channelUsername, viewerID string) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: auth.FieldUserUsername, Value: channelUsername},
		}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: constants.CollectionSubscriptions},
			{Key: "localField", Value: auth.FieldUserID},
			{Key: "foreignField", Value: FieldSubscriptionChannel},
			{Key: "as", Value: "subscribers"},
		}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: constants.CollectionSubscriptions},
			{Key: "localField", Value: auth.FieldUserID},
			{Key: "foreignField", Value: FieldSubscriptionSubscriber},
			{Key: "as", Value: "subscribedto"},
		}}},
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "subscriberscount", Value: bson.D{{Key: "$size", Value: "$subscribers"}}},
			{Key: "subscribedtocount", Value: bson.D{{Key: "$size", Value: "$subscribedto"}}},
			{Key: "issubscribed", Value: bson.D{{Key: "$in", Value: bson.A{
				viewerID, "$subscribers." + FieldSubscriptionSubscriber,
			}}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: auth.FieldUserUsername, Value: 1},
			{Key: auth.FieldUserFullname, Value: 1},
			{Key: auth.FieldUserEmail, Value: 1},
			{Key: auth.FieldUserAvatar, Value: 1},
			{Key: auth.FieldUserCoverImage, Value: 1},
			{Key: "subscriberscount", Value: 1},
			{Key: "subscribedtocount", Value: 1},
			{Key: "issubscribed", Value: 1},
		}}},
	}
}

// ChannelProfile implements [SubscriptionStore].
func (repository *Repository) ChannelProfile(ctx context.Context, channelUsername, viewerID string) (*ChannelProfile, error) {
	cursor, err := repository.users.Aggregate(ctx, ChannelProfilePipeline(channelUsername, viewerID))
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}
	defer cursor.Close(ctx)

	var profiles []ChannelProfile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, dberr.Wrap(err, "")
	}
	if len(profiles) == 0 {
		return nil, dberr.ErrNotFound
	}

	return &profiles[0], nil
}

// CreateEdge implements [SubscriptionStore].
func (repository *Repository) CreateEdge(ctx context.Context, edge *Subscription) error {
	if _, err := repository.subscriptions.InsertOne(ctx, edge); err != nil {
		return dberr.Wrap(err, "Already subscribed to this channel")
	}
	return nil
}

// DeleteEdge implements [SubscriptionStore].
func (repository *Repository) DeleteEdge(ctx context.Context, subscriberID, channelID string) error {
	result, err := repository.subscriptions.DeleteOne(ctx, bson.D{
		{Key: FieldSubscriptionSubscriber, Value: subscriberID},
		{Key: FieldSubscriptionChannel, Value: channelID},
	})
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if result.DeletedCount == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
