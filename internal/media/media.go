// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

/*
Package media defines the contract with the external media host and the local
upload staging area.

# Architecture

Domain services (registration, avatar/cover updates) depend only on the
[Storage] interface. The concrete Cloudinary adapter lives in
internal/platform/cloudinary; tests substitute an in-memory fake.
*/
package media

import "context"

// Asset is a reference to an object living on the media host.
//
// Both halves are persisted on the user document: the URL is what clients
// render, the PublicID is the only handle that can delete the object later.
type Asset struct {
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"publicid" json:"-"`
}

// Storage is the minimal surface of the external media host.
type Storage interface {
	// Upload pushes a staged local file to the media host and returns its
	// public URL together with the opaque deletion id.
	Upload(ctx context.Context, localPath string) (*Asset, error)

	// Delete removes an object by its deletion id. Deleting an id that no
	// longer exists is not an error.
	Delete(ctx context.Context, publicID string) error
}
