// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package account

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vidorahq/vidora/internal/media"
	"github.com/vidorahq/vidora/internal/platform/constants"
	"github.com/vidorahq/vidora/internal/platform/dberr"
	"github.com/vidorahq/vidora/internal/users/auth"
)

// Repository is the MongoDB implementation of [UserStore]. It shares the
// users collection (and its BSON field names) with the auth feature.
type Repository struct {
	collection *mongo.Collection
}

// NewRepository binds the repository to the users collection.
func NewRepository(database *mongo.Database) *Repository {
	return &Repository{collection: database.Collection(constants.CollectionUsers)}
}

// findOne is the shared single-document read path.
func (repository *Repository) findOne(ctx context.Context, filter bson.D) (*auth.User, error) {
	var user auth.User
	if err := repository.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, dberr.Wrap(err, "")
	}
	return &user, nil
}

// FindByID implements [UserStore].
func (repository *Repository) FindByID(ctx context.Context, id string) (*auth.User, error) {
	return repository.findOne(ctx, bson.D{{Key: auth.FieldUserID, Value: id}})
}

// FindByUsername implements [UserStore].
func (repository *Repository) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	return repository.findOne(ctx, bson.D{{Key: auth.FieldUserUsername, Value: username}})
}

// FindByEmail implements [UserStore].
func (repository *Repository) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	return repository.findOne(ctx, bson.D{{Key: auth.FieldUserEmail, Value: email}})
}

// UpdateProfile implements [UserStore]. Only the supplied fields enter the
// $set document, so absent fields stay untouched. Racing a duplicate
// username/email into the unique index surfaces as a Conflict.
func (repository *Repository) UpdateProfile(ctx context.Context, id string, changes ProfileChanges) (*auth.User, error) {
	setDocument := bson.D{{Key: auth.FieldUserUpdatedAt, Value: time.Now().UTC()}}
	if changes.Username != nil {
		setDocument = append(setDocument, bson.E{Key: auth.FieldUserUsername, Value: *changes.Username})
	}
	if changes.Email != nil {
		setDocument = append(setDocument, bson.E{Key: auth.FieldUserEmail, Value: *changes.Email})
	}
	if changes.Fullname != nil {
		setDocument = append(setDocument, bson.E{Key: auth.FieldUserFullname, Value: *changes.Fullname})
	}

	return repository.findOneAndSet(ctx, id, setDocument, "Username or email already taken")
}

// SetAvatar implements [UserStore].
func (repository *Repository) SetAvatar(ctx context.Context, id string, asset media.Asset) (*auth.User, error) {
	return repository.findOneAndSet(ctx, id, bson.D{
		{Key: auth.FieldUserAvatar, Value: asset},
		{Key: auth.FieldUserUpdatedAt, Value: time.Now().UTC()},
	}, "")
}

// SetCoverImage implements [UserStore].
func (repository *Repository) SetCoverImage(ctx context.Context, id string, asset media.Asset) (*auth.User, error) {
	return repository.findOneAndSet(ctx, id, bson.D{
		{Key: auth.FieldUserCoverImage, Value: asset},
		{Key: auth.FieldUserUpdatedAt, Value: time.Now().UTC()},
	}, "")
}

// findOneAndSet applies a $set atomically and returns the updated document.
func (repository *Repository) findOneAndSet(ctx context.Context, id string, setDocument bson.D, conflictMessage string) (*auth.User, error) {
	var user auth.User
	err := repository.collection.FindOneAndUpdate(ctx,
		bson.D{{Key: auth.FieldUserID, Value: id}},
		bson.D{{Key: "$set", Value: setDocument}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		return nil, dberr.Wrap(err, conflictMessage)
	}
	return &user, nil
}
