// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

/*
Package auth implements the credential store and session lifecycle for Vidora.

It owns the User document and the four session transitions — register, login,
refresh, logout — plus the password change that forcibly ends a session.

# Architecture

  - user.go: The User document and its public view contract.
  - store.go: Consumer-defined repository interface.
  - store_mongo.go: MongoDB implementation of the repository.
  - service.go: Application logic (uniqueness, hashing, token rotation).
  - http.go: Transport layer (handlers, cookies, multipart intake).

# Session model

A user has at most ONE active refresh token. Its SHA-256 digest lives on the
user document; every successful login or refresh overwrites it, and logout or
a password change clears it. A structurally valid refresh token whose digest
no longer matches the stored one is dead — that is the whole rotation scheme.
*/
package auth

import (
	"time"

	"github.com/vidorahq/vidora/internal/media"
)

// User is the account document persisted in the users collection.
//
// # Serialization contract
//
// The JSON tags define the public view: the password hash and the refresh
// token digest never leave the server, enforced here once rather than by
// per-handler projection.
type User struct {
	ID       string `bson:"_id" json:"id"`
	Username string `bson:"username" json:"username"`
	Email    string `bson:"email" json:"email"`
	Fullname string `bson:"fullname" json:"fullname"`

	// PasswordHash is the bcrypt digest of the account password.
	PasswordHash string `bson:"passwordhash" json:"-"`

	// Avatar is required at registration; CoverImage is optional.
	Avatar     media.Asset  `bson:"avatar" json:"avatar"`
	CoverImage *media.Asset `bson:"coverimage,omitempty" json:"coverImage,omitempty"`

	// RefreshTokenHash is the SHA-256 digest of the single active refresh
	// token, or empty when the user is logged out.
	RefreshTokenHash string `bson:"refreshtokenhash,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdat" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedat" json:"updatedAt"`
}

// TokenPair bundles the two credentials issued on login and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
