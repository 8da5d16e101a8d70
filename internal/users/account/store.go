// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

/*
Package account implements profile and media management for an existing user:
current-user reads, partial profile updates, and the avatar/cover swap with
its strict upload-then-persist-then-cleanup ordering.

Registration and the session lifecycle live in the sibling auth package; both
features share the users collection and the [auth.User] document.
*/
package account

import (
	"context"

	"github.com/vidorahq/vidora/internal/media"
	"github.com/vidorahq/vidora/internal/users/auth"
)

// ProfileChanges is a partial profile update. Nil fields are left untouched,
// never nulled.
type ProfileChanges struct {
	Username *string
	Email    *string
	Fullname *string
}

// Empty reports whether no field was supplied at all.
func (changes ProfileChanges) Empty() bool {
	return changes.Username == nil && changes.Email == nil && changes.Fullname == nil
}

// UserStore is the persistence contract of the account service, implemented
// by the mongo repository in store_mongo.go over the users collection.
type UserStore interface {
	// FindByID loads a user by document id.
	FindByID(ctx context.Context, id string) (*auth.User, error)

	// FindByUsername loads a user by normalized username, for uniqueness
	// rechecks on profile updates.
	FindByUsername(ctx context.Context, username string) (*auth.User, error)

	// FindByEmail loads a user by normalized email.
	FindByEmail(ctx context.Context, email string) (*auth.User, error)

	// UpdateProfile applies the non-nil fields and returns the updated
	// document.
	UpdateProfile(ctx context.Context, id string, changes ProfileChanges) (*auth.User, error)

	// SetAvatar persists a new avatar reference and returns the updated
	// document.
	SetAvatar(ctx context.Context, id string, asset media.Asset) (*auth.User, error)

	// SetCoverImage persists a new cover image reference and returns the
	// updated document.
	SetCoverImage(ctx context.Context, id string, asset media.Asset) (*auth.User, error)
}
