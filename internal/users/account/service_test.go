// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package account_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidorahq/vidora/internal/media"
	"github.com/vidorahq/vidora/internal/platform/apperr"
	"github.com/vidorahq/vidora/internal/platform/dberr"
	"github.com/vidorahq/vidora/internal/users/account"
	"github.com/vidorahq/vidora/internal/users/auth"
	"github.com/vidorahq/vidora/pkg/pointer"
)

// memoryStore is an in-memory UserStore for service tests.
type memoryStore struct {
	users map[string]*auth.User

	failSetAvatar bool
}

func newMemoryStore(seed ...*auth.User) *memoryStore {
	store := &memoryStore{users: make(map[string]*auth.User)}
	for _, user := range seed {
		copied := *user
		store.users[user.ID] = &copied
	}
	return store
}

func (store *memoryStore) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := store.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, dberr.ErrNotFound
}

func (store *memoryStore) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, user := range store.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (store *memoryStore) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range store.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (store *memoryStore) UpdateProfile(_ context.Context, id string, changes account.ProfileChanges) (*auth.User, error) {
	user, ok := store.users[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	if changes.Username != nil {
		user.Username = *changes.Username
	}
	if changes.Email != nil {
		user.Email = *changes.Email
	}
	if changes.Fullname != nil {
		user.Fullname = *changes.Fullname
	}
	user.UpdatedAt = time.Now().UTC()
	copied := *user
	return &copied, nil
}

func (store *memoryStore) SetAvatar(_ context.Context, id string, asset media.Asset) (*auth.User, error) {
	if store.failSetAvatar {
		return nil, apperr.Internal(errors.New("write failed"))
	}
	user, ok := store.users[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	user.Avatar = asset
	copied := *user
	return &copied, nil
}

func (store *memoryStore) SetCoverImage(_ context.Context, id string, asset media.Asset) (*auth.User, error) {
	user, ok := store.users[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	user.CoverImage = &asset
	copied := *user
	return &copied, nil
}

// stubStorage fabricates media assets without any network.
type stubStorage struct {
	uploads    int
	failUpload bool
}

func (storage *stubStorage) Upload(_ context.Context, _ string) (*media.Asset, error) {
	if storage.failUpload {
		return nil, errors.New("media host unavailable")
	}
	storage.uploads++
	return &media.Asset{
		URL:      fmt.Sprintf("https://cdn.example/asset-%d.png", storage.uploads),
		PublicID: fmt.Sprintf("asset-%d", storage.uploads),
	}, nil
}

func (storage *stubStorage) Delete(_ context.Context, _ string) error { return nil }

// recordingCleaner records scheduled deletions synchronously.
type recordingCleaner struct {
	scheduled []string
}

func (cleaner *recordingCleaner) ScheduleDelete(publicID string) {
	cleaner.scheduled = append(cleaner.scheduled, publicID)
}

func seedUser() *auth.User {
	return &auth.User{
		ID:       "user-1",
		Username: "adal",
		Email:    "ada@example.com",
		Fullname: "Ada Lovelace",
		Avatar:   media.Asset{URL: "https://cdn.example/old-avatar.png", PublicID: "old-avatar"},
	}
}

func TestUpdateProfile_NoFieldSupplied(t *testing.T) {
	store := newMemoryStore(seedUser())
	service := account.NewService(store, &stubStorage{}, &recordingCleaner{})

	_, err := service.UpdateProfile(context.Background(), "user-1", account.ProfileChanges{})

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
}

func TestUpdateProfile_PartialSemantics(t *testing.T) {
	store := newMemoryStore(seedUser())
	service := account.NewService(store, &stubStorage{}, &recordingCleaner{})

	updated, err := service.UpdateProfile(context.Background(), "user-1", account.ProfileChanges{
		Fullname: pointer.To("Augusta Ada King"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Augusta Ada King", updated.Fullname)
	// Absent fields stay untouched.
	assert.Equal(t, "adal", updated.Username)
	assert.Equal(t, "ada@example.com", updated.Email)
}

func TestUpdateProfile_UsernameRules(t *testing.T) {
	other := &auth.User{ID: "user-2", Username: "grace", Email: "grace@example.com"}
	store := newMemoryStore(seedUser(), other)
	service := account.NewService(store, &stubStorage{}, &recordingCleaner{})

	t.Run("taken by another user", func(t *testing.T) {
		_, err := service.UpdateProfile(context.Background(), "user-1", account.ProfileChanges{
			Username: pointer.To(" GRACE "),
		})
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "CONFLICT", appError.Code)
	})

	t.Run("own current username is a no-op, not a conflict", func(t *testing.T) {
		updated, err := service.UpdateProfile(context.Background(), "user-1", account.ProfileChanges{
			Username: pointer.To("AdaL"),
		})
		require.NoError(t, err)
		assert.Equal(t, "adal", updated.Username)
	})
}

func TestUpdateAvatar_UploadFailureLeavesPriorIntact(t *testing.T) {
	store := newMemoryStore(seedUser())
	storage := &stubStorage{failUpload: true}
	cleaner := &recordingCleaner{}
	service := account.NewService(store, storage, cleaner)

	_, err := service.UpdateAvatar(context.Background(), "user-1", "/tmp/staged/new.png")

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "INTERNAL_ERROR", appError.Code)

	// The stored reference is unchanged and nothing was queued for deletion.
	current, findErr := store.FindByID(context.Background(), "user-1")
	require.NoError(t, findErr)
	assert.Equal(t, "old-avatar", current.Avatar.PublicID)
	assert.Empty(t, cleaner.scheduled)
}

func TestUpdateAvatar_PersistFailureCleansNewUpload(t *testing.T) {
	store := newMemoryStore(seedUser())
	store.failSetAvatar = true
	cleaner := &recordingCleaner{}
	service := account.NewService(store, &stubStorage{}, cleaner)

	_, err := service.UpdateAvatar(context.Background(), "user-1", "/tmp/staged/new.png")
	require.Error(t, err)

	// The freshly uploaded object is the orphan, never the old avatar.
	assert.Equal(t, []string{"asset-1"}, cleaner.scheduled)
}

func TestUpdateAvatar_SwapSchedulesOldDeletion(t *testing.T) {
	store := newMemoryStore(seedUser())
	cleaner := &recordingCleaner{}
	service := account.NewService(store, &stubStorage{}, cleaner)

	updated, err := service.UpdateAvatar(context.Background(), "user-1", "/tmp/staged/new.png")
	require.NoError(t, err)

	assert.Equal(t, "asset-1", updated.Avatar.PublicID)
	assert.Equal(t, []string{"old-avatar"}, cleaner.scheduled)
}

func TestUpdateCoverImage_FirstSetCleansNothing(t *testing.T) {
	store := newMemoryStore(seedUser())
	cleaner := &recordingCleaner{}
	service := account.NewService(store, &stubStorage{}, cleaner)

	updated, err := service.UpdateCoverImage(context.Background(), "user-1", "/tmp/staged/cover.png")
	require.NoError(t, err)

	require.NotNil(t, updated.CoverImage)
	assert.Empty(t, cleaner.scheduled, "no prior cover existed, nothing to delete")
}
