// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package auth

import "context"

// UserRepository is the persistence contract the auth service depends on.
//
// It is defined by the consumer (this package) and implemented by the mongo
// repository in store_mongo.go; tests substitute an in-memory fake.
//
// All lookups receive pre-normalized usernames/emails — normalization is the
// service's job, storage only ever sees canonical values.
type UserRepository interface {
	// FindByID loads a user by document id.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByUsername loads a user by their unique normalized username.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByEmail loads a user by their unique normalized email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByLogin loads a user whose username OR email equals login.
	FindByLogin(ctx context.Context, login string) (*User, error)

	// Create inserts a new user document. A unique-index violation surfaces
	// as an apperr Conflict via dberr.
	Create(ctx context.Context, user *User) error

	// UpdatePassword overwrites the password hash and, in the same atomic
	// write, clears the refresh token digest — a password change must end
	// the active session everywhere.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// SetRefreshTokenHash overwrites the stored refresh token digest in a
	// single atomic document update. This is the rotation write: concurrent
	// issuance for one user resolves last-write-wins with no torn state.
	SetRefreshTokenHash(ctx context.Context, id, tokenHash string) error

	// ClearRefreshTokenHash removes the stored digest. Clearing an already
	// cleared digest is a silent success, which makes logout idempotent.
	ClearRefreshTokenHash(ctx context.Context, id string) error
}
