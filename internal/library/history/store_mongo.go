// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package history

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vidorahq/vidora/internal/platform/constants"
	"github.com/vidorahq/vidora/internal/platform/dberr"
	"github.com/vidorahq/vidora/internal/users/auth"
)

// BSON field names for the watchhistory collection and the joined videos
// collection (owned by the video service, read here for the join only).
const (
	FieldEventID        = "_id"
	FieldEventUser      = "user"
	FieldEventVideo     = "video"
	FieldEventWatchedAt = "watchedat"

	fieldVideoOwner = "owner"
)

// Repository is the MongoDB implementation of [HistoryStore].
type Repository struct {
	events *mongo.Collection
}

// NewRepository binds the repository to the watchhistory collection.
func NewRepository(database *mongo.Database) *Repository {
	return &Repository{events: database.Collection(constants.CollectionWatchHistory)}
}

// RecordWatch implements [HistoryStore].
func (repository *Repository) RecordWatch(ctx context.Context, event *WatchEvent) error {
	if _, err := repository.events.InsertOne(ctx, event); err != nil {
		return dberr.Wrap(err, "")
	}
	return nil
}

/*
WatchHistoryPipeline builds the de-duplicating history aggregation.

# Stages, in mandatory order

 1. $match events for the user.
 2. $sort by watchedat descending.
 3. $group by video keeping $first watchedat — the most recent, by the sort.
 4. $sort by the kept timestamp descending. Grouping does NOT preserve
    ordering, so this second sort is not redundant.
 5. $lookup + $unwind the video document.
 6. $lookup + $unwind the video's owning channel.
 7. $project the flat entry with its channel sub-view.

Unwinding also drops events whose video (or its owner) no longer resolves,
which is the desired behavior for dangling references.
*/
func WatchHistoryPipeline(userID string) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: FieldEventUser, Value: userID},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: FieldEventWatchedAt, Value: -1},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + FieldEventVideo},
			{Key: "lastwatchedat", Value: bson.D{{Key: "$first", Value: "$" + FieldEventWatchedAt}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "lastwatchedat", Value: -1},
		}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: constants.CollectionVideos},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "video"},
		}}},
		bson.D{{Key: "$unwind", Value: "$video"}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: constants.CollectionUsers},
			{Key: "localField", Value: "video." + fieldVideoOwner},
			{Key: "foreignField", Value: auth.FieldUserID},
			{Key: "as", Value: "channel"},
		}}},
		bson.D{{Key: "$unwind", Value: "$channel"}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "videoid", Value: "$video._id"},
			{Key: "title", Value: "$video.title"},
			{Key: "thumbnail", Value: "$video.thumbnail"},
			{Key: "duration", Value: "$video.duration"},
			{Key: "views", Value: "$video.views"},
			{Key: "lastwatchedat", Value: 1},
			{Key: "channel", Value: bson.D{
				{Key: "_id", Value: "$channel._id"},
				{Key: auth.FieldUserUsername, Value: "$channel." + auth.FieldUserUsername},
				{Key: auth.FieldUserAvatar, Value: "$channel." + auth.FieldUserAvatar},
			}},
		}}},
	}
}

// WatchHistory implements [HistoryStore].
func (repository *Repository) WatchHistory(ctx context.Context, userID string) ([]HistoryEntry, error) {
	cursor, err := repository.events.Aggregate(ctx, WatchHistoryPipeline(userID))
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}
	defer cursor.Close(ctx)

	entries := []HistoryEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, dberr.Wrap(err, "")
	}

	return entries, nil
}
