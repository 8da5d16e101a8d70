// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package auth

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vidorahq/vidora/internal/platform/constants"
	"github.com/vidorahq/vidora/internal/platform/dberr"
)

// BSON field names for the users collection, shared with the account feature
// and the aggregation pipelines. Keep in sync with the User struct tags.
const (
	FieldUserID               = "_id"
	FieldUserUsername         = "username"
	FieldUserEmail            = "email"
	FieldUserFullname         = "fullname"
	FieldUserPasswordHash     = "passwordhash"
	FieldUserAvatar           = "avatar"
	FieldUserCoverImage       = "coverimage"
	FieldUserRefreshTokenHash = "refreshtokenhash"
	FieldUserCreatedAt        = "createdat"
	FieldUserUpdatedAt        = "updatedat"
)

// Repository is the MongoDB implementation of [UserRepository].
type Repository struct {
	collection *mongo.Collection
}

// NewRepository binds the repository to the users collection.
func NewRepository(database *mongo.Database) *Repository {
	return &Repository{collection: database.Collection(constants.CollectionUsers)}
}

// findOne is the shared single-document read path.
func (repository *Repository) findOne(ctx context.Context, filter bson.D) (*User, error) {
	var user User
	if err := repository.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, dberr.Wrap(err, "")
	}
	return &user, nil
}

// FindByID implements [UserRepository].
func (repository *Repository) FindByID(ctx context.Context, id string) (*User, error) {
	return repository.findOne(ctx, bson.D{{Key: FieldUserID, Value: id}})
}

// FindByUsername implements [UserRepository].
func (repository *Repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return repository.findOne(ctx, bson.D{{Key: FieldUserUsername, Value: username}})
}

// FindByEmail implements [UserRepository].
func (repository *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return repository.findOne(ctx, bson.D{{Key: FieldUserEmail, Value: email}})
}

// FindByLogin implements [UserRepository]. One round trip covers both
// identifier kinds via $or.
func (repository *Repository) FindByLogin(ctx context.Context, login string) (*User, error) {
	return repository.findOne(ctx, bson.D{{
		Key: "$or",
		Value: bson.A{
			bson.D{{Key: FieldUserUsername, Value: login}},
			bson.D{{Key: FieldUserEmail, Value: login}},
		},
	}})
}

// Create implements [UserRepository]. The unique indexes on username and
// email turn racing duplicate registrations into a Conflict here.
func (repository *Repository) Create(ctx context.Context, user *User) error {
	if _, err := repository.collection.InsertOne(ctx, user); err != nil {
		return dberr.Wrap(err, "User with this username or email already exists")
	}
	return nil
}

// UpdatePassword implements [UserRepository]. Setting the new hash and
// killing the active session is one atomic document update.
func (repository *Repository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: FieldUserPasswordHash, Value: passwordHash},
			{Key: FieldUserUpdatedAt, Value: time.Now().UTC()},
		}},
		{Key: "$unset", Value: bson.D{{Key: FieldUserRefreshTokenHash, Value: ""}}},
	}

	result, err := repository.collection.UpdateOne(ctx, bson.D{{Key: FieldUserID, Value: id}}, update)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if result.MatchedCount == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// SetRefreshTokenHash implements [UserRepository].
func (repository *Repository) SetRefreshTokenHash(ctx context.Context, id, tokenHash string) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: FieldUserRefreshTokenHash, Value: tokenHash},
		{Key: FieldUserUpdatedAt, Value: time.Now().UTC()},
	}}}

	result, err := repository.collection.UpdateOne(ctx, bson.D{{Key: FieldUserID, Value: id}}, update)
	if err != nil {
		return dberr.Wrap(err, "")
	}
	if result.MatchedCount == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// ClearRefreshTokenHash implements [UserRepository]. Matching zero documents
// is fine: the session is gone either way.
func (repository *Repository) ClearRefreshTokenHash(ctx context.Context, id string) error {
	update := bson.D{
		{Key: "$unset", Value: bson.D{{Key: FieldUserRefreshTokenHash, Value: ""}}},
		{Key: "$set", Value: bson.D{{Key: FieldUserUpdatedAt, Value: time.Now().UTC()}}},
	}

	if _, err := repository.collection.UpdateOne(ctx, bson.D{{Key: FieldUserID, Value: id}}, update); err != nil {
		return dberr.Wrap(err, "")
	}
	return nil
}
