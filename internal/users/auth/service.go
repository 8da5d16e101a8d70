// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/vidorahq/vidora/internal/media"
	"github.com/vidorahq/vidora/internal/platform/apperr"
	"github.com/vidorahq/vidora/internal/platform/dberr"
	"github.com/vidorahq/vidora/internal/platform/sec"
	"github.com/vidorahq/vidora/internal/platform/validate"
	"github.com/vidorahq/vidora/pkg/username"
	"github.com/vidorahq/vidora/pkg/uuidv7"
)

// TokenProvider is the token-service contract the session lifecycle needs.
// Satisfied by [sec.TokenService].
type TokenProvider interface {
	IssueAccessToken(userID, usernameValue string) (string, error)
	IssueRefreshToken(userID string) (string, error)
	VerifyRefreshToken(token string) (*sec.RefreshClaims, error)
}

// Cleaner schedules best-effort deletion of superseded media-host objects.
// Satisfied by [media.Janitor].
type Cleaner interface {
	ScheduleDelete(publicID string)
}

// Service orchestrates registration and the session lifecycle.
type Service struct {
	repository UserRepository
	tokens     TokenProvider
	storage    media.Storage
	cleaner    Cleaner
}

// NewService wires the auth service.
func NewService(repository UserRepository, tokens TokenProvider, storage media.Storage, cleaner Cleaner) *Service {
	return &Service{
		repository: repository,
		tokens:     tokens,
		storage:    storage,
		cleaner:    cleaner,
	}
}

// RegisterInput carries the validated registration fields.
type RegisterInput struct {
	Fullname string
	Email    string
	Username string
	Password string
}

/*
Register creates a new account.

# Ordering contract

Uniqueness is checked BEFORE any media leaves the machine: a duplicate
username or email must not cost an external upload, and the handler's staged
files are discarded by its deferred cleanup on every outcome. A lost race on
the unique index after our pre-check still surfaces as Conflict — then the
already-uploaded media is handed to the cleaner.

# Parameters
  - stagedAvatarPath: Local staged avatar file (required).
  - stagedCoverPath: Local staged cover image, or "" when absent.

# Returns
  - *User: The created account (public view via JSON tags).
  - error: Conflict on duplicate identity, ValidationError on missing avatar
    or upload failure.
*/
func (service *Service) Register(ctx context.Context, input RegisterInput, stagedAvatarPath, stagedCoverPath string) (*User, error) {

	// ── 1. Canonicalize identity fields ──
	normalizedUsername := username.Normalize(input.Username)
	normalizedEmail := username.NormalizeEmail(input.Email)

	if stagedAvatarPath == "" {
		return nil, validate.RequiredError("avatar", "Avatar image is required")
	}

	// ── 2. Uniqueness before any external upload ──
	if err := service.ensureIdentityFree(ctx, normalizedUsername, normalizedEmail); err != nil {
		return nil, err
	}

	// ── 3. Push media to the external host ──
	avatar, err := service.storage.Upload(ctx, stagedAvatarPath)
	if err != nil {
		return nil, apperr.ValidationError("Avatar upload failed")
	}

	var coverImage *media.Asset
	if stagedCoverPath != "" {
		coverImage, err = service.storage.Upload(ctx, stagedCoverPath)
		if err != nil {
			service.cleaner.ScheduleDelete(avatar.PublicID)
			return nil, apperr.ValidationError("Cover image upload failed")
		}
	}

	// ── 4. Hash the password and persist the document ──
	passwordHash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	currentTime := time.Now().UTC()
	user := &User{
		ID:           uuidv7.New(),
		Username:     normalizedUsername,
		Email:        normalizedEmail,
		Fullname:     input.Fullname,
		PasswordHash: passwordHash,
		Avatar:       *avatar,
		CoverImage:   coverImage,
		CreatedAt:    currentTime,
		UpdatedAt:    currentTime,
	}

	if err := service.repository.Create(ctx, user); err != nil {
		// Lost the uniqueness race after uploading: no user record exists,
		// so the uploaded objects are orphans to clean up.
		service.cleaner.ScheduleDelete(avatar.PublicID)
		if coverImage != nil {
			service.cleaner.ScheduleDelete(coverImage.PublicID)
		}
		return nil, err
	}

	return user, nil
}

// ensureIdentityFree rejects a registration whose username or email is taken.
func (service *Service) ensureIdentityFree(ctx context.Context, normalizedUsername, normalizedEmail string) error {
	if _, err := service.repository.FindByUsername(ctx, normalizedUsername); err == nil {
		return apperr.Conflict("User with this username already exists")
	} else if !errors.Is(err, dberr.ErrNotFound) {
		return err
	}

	if _, err := service.repository.FindByEmail(ctx, normalizedEmail); err == nil {
		return apperr.Conflict("User with this email already exists")
	} else if !errors.Is(err, dberr.ErrNotFound) {
		return err
	}

	return nil
}

/*
Login authenticates by username OR email plus password.

# Returns
  - *User, *TokenPair: The account and a freshly rotated token pair.
  - error: NotFound when neither identifier matches, Unauthorized on a wrong
    password.
*/
func (service *Service) Login(ctx context.Context, login, password string) (*User, *TokenPair, error) {
	user, err := service.repository.FindByLogin(ctx, username.Normalize(login))
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, nil, apperr.NotFound("User")
		}
		return nil, nil, err
	}

	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, nil, apperr.Unauthorized("Invalid user credentials")
	}

	pair, err := service.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

/*
Logout clears the persisted refresh token digest.

Idempotent: logging out an already logged-out user succeeds silently.
*/
func (service *Service) Logout(ctx context.Context, userID string) error {
	return service.repository.ClearRefreshTokenHash(ctx, userID)
}

/*
Refresh rotates the token pair using a refresh token.

The incoming token must be structurally valid, unexpired AND its digest must
equal the one currently stored on the user — a superseded token fails here
even before its natural expiry. Every success overwrites the stored digest,
so each refresh token is usable exactly once.

# Returns
  - *User, *TokenPair: The account and the brand-new pair.
  - error: Unauthorized on an absent, invalid, expired, or superseded token.
*/
func (service *Service) Refresh(ctx context.Context, rawRefreshToken string) (*User, *TokenPair, error) {
	if rawRefreshToken == "" {
		return nil, nil, apperr.Unauthorized("Refresh token required")
	}

	claims, err := service.tokens.VerifyRefreshToken(rawRefreshToken)
	if err != nil {
		if errors.Is(err, sec.ErrTokenExpired) {
			return nil, nil, apperr.Unauthorized("Refresh token has expired")
		}
		return nil, nil, apperr.Unauthorized("Invalid refresh token")
	}

	user, err := service.repository.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, nil, apperr.Unauthorized("Invalid refresh token")
		}
		return nil, nil, err
	}

	// One-shot rotation: only the most recently issued token matches.
	if user.RefreshTokenHash == "" || user.RefreshTokenHash != sec.HashToken(rawRefreshToken) {
		return nil, nil, apperr.Unauthorized("Refresh token is expired or has been used")
	}

	pair, err := service.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

/*
ChangePassword verifies the current password and installs a new one.

On success the stored refresh token digest is cleared in the same write, which
forcibly logs out every session holding the old pair.

# Returns
  - error: Unauthorized when the current password does not match.
*/
func (service *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := service.repository.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	newHash, err := sec.HashPassword(newPassword)
	if err != nil {
		return apperr.Internal(err)
	}

	return service.repository.UpdatePassword(ctx, userID, newHash)
}

// issueTokenPair mints both tokens and persists the refresh digest. The
// digest write is the single consistency-sensitive mutation in the system;
// it is one atomic UpdateOne in the repository.
func (service *Service) issueTokenPair(ctx context.Context, user *User) (*TokenPair, error) {
	accessToken, err := service.tokens.IssueAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	refreshToken, err := service.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if err := service.repository.SetRefreshTokenHash(ctx, user.ID, sec.HashToken(refreshToken)); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
