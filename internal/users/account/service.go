// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package account

import (
	"context"
	"errors"

	"github.com/vidorahq/vidora/internal/media"
	"github.com/vidorahq/vidora/internal/platform/apperr"
	"github.com/vidorahq/vidora/internal/platform/dberr"
	"github.com/vidorahq/vidora/internal/users/auth"
	"github.com/vidorahq/vidora/pkg/username"
)

// Cleaner schedules best-effort deletion of superseded media-host objects.
// Satisfied by [media.Janitor].
type Cleaner interface {
	ScheduleDelete(publicID string)
}

// Service implements profile reads and mutations.
type Service struct {
	store   UserStore
	storage media.Storage
	cleaner Cleaner
}

// NewService wires the account service.
func NewService(store UserStore, storage media.Storage, cleaner Cleaner) *Service {
	return &Service{store: store, storage: storage, cleaner: cleaner}
}

// CurrentUser returns the caller's own account.
func (service *Service) CurrentUser(ctx context.Context, userID string) (*auth.User, error) {
	return service.store.FindByID(ctx, userID)
}

/*
UpdateProfile applies a partial profile change.

Supplying no field at all is a ValidationError. Username and email are
normalized and re-checked for uniqueness before the write; the unique index
backs this up against races.
*/
func (service *Service) UpdateProfile(ctx context.Context, userID string, changes ProfileChanges) (*auth.User, error) {
	if changes.Empty() {
		return nil, apperr.ValidationError("At least one field must be supplied")
	}

	if changes.Username != nil {
		normalized := username.Normalize(*changes.Username)
		changes.Username = &normalized
		if err := service.ensureFree(ctx, userID, service.store.FindByUsername, normalized, "Username already taken"); err != nil {
			return nil, err
		}
	}

	if changes.Email != nil {
		normalized := username.NormalizeEmail(*changes.Email)
		changes.Email = &normalized
		if err := service.ensureFree(ctx, userID, service.store.FindByEmail, normalized, "Email already in use"); err != nil {
			return nil, err
		}
	}

	return service.store.UpdateProfile(ctx, userID, changes)
}

// ensureFree rejects a value already owned by a DIFFERENT user. Re-submitting
// one's own current username/email is a no-op, not a conflict.
func (service *Service) ensureFree(ctx context.Context, userID string, lookup func(context.Context, string) (*auth.User, error), value, conflictMessage string) error {
	owner, err := lookup(ctx, value)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil
		}
		return err
	}
	if owner.ID != userID {
		return apperr.Conflict(conflictMessage)
	}
	return nil
}

/*
UpdateAvatar swaps the avatar for a freshly staged file.

# Ordering contract

Upload the new object first, persist the new reference second, and only after
that write succeeds, hand the OLD object to the cleaner. A failure at any step
before the persisted write leaves the prior avatar fully intact; a failed
cleanup is logged by the janitor and tolerated.
*/
func (service *Service) UpdateAvatar(ctx context.Context, userID, stagedPath string) (*auth.User, error) {
	user, err := service.store.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated, err := service.swapAsset(ctx, userID, stagedPath, service.store.SetAvatar)
	if err != nil {
		return nil, err
	}

	service.cleaner.ScheduleDelete(user.Avatar.PublicID)
	return updated, nil
}

// UpdateCoverImage swaps the cover image under the same ordering contract as
// [Service.UpdateAvatar]. A first-time set has no old object to clean up.
func (service *Service) UpdateCoverImage(ctx context.Context, userID, stagedPath string) (*auth.User, error) {
	user, err := service.store.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated, err := service.swapAsset(ctx, userID, stagedPath, service.store.SetCoverImage)
	if err != nil {
		return nil, err
	}

	if user.CoverImage != nil {
		service.cleaner.ScheduleDelete(user.CoverImage.PublicID)
	}
	return updated, nil
}

// swapAsset uploads the staged file and persists the new reference via set.
// If the persist fails, the just-uploaded object is the orphan to clean up,
// never the old one.
func (service *Service) swapAsset(ctx context.Context, userID, stagedPath string, set func(context.Context, string, media.Asset) (*auth.User, error)) (*auth.User, error) {
	asset, err := service.storage.Upload(ctx, stagedPath)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	updated, err := set(ctx, userID, *asset)
	if err != nil {
		service.cleaner.ScheduleDelete(asset.PublicID)
		return nil, err
	}

	return updated, nil
}
