// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

// Package cloudinary adapts the Cloudinary SDK to the [media.Storage] contract.
//
// # Architecture
//
// This is an Infrastructure adapter: it owns the SDK handle and translates
// between SDK types and the domain-level [media.Asset]. No other package
// imports the Cloudinary SDK.
package cloudinary

import (
	"context"
	"errors"
	"fmt"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/vidorahq/vidora/internal/media"
)

// Client implements [media.Storage] against Cloudinary.
type Client struct {
	sdk    *cld.Cloudinary
	folder string
}

// New builds a Client from a cloudinary:// URL.
func New(mediaURL, folder string) (*Client, error) {
	sdk, err := cld.NewFromURL(mediaURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: invalid media URL: %w", err)
	}

	return &Client{sdk: sdk, folder: folder}, nil
}

// Upload pushes a staged local file and returns its secure URL plus public id.
func (client *Client) Upload(ctx context.Context, localPath string) (*media.Asset, error) {
	result, err := client.sdk.Upload.Upload(ctx, localPath, uploader.UploadParams{
		Folder:       client.folder,
		ResourceType: "image",
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary: upload failed: %w", err)
	}

	// The SDK reports API-level failures on the result rather than as errors.
	if result.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary: upload rejected: %s", result.Error.Message)
	}
	if result.SecureURL == "" || result.PublicID == "" {
		return nil, errors.New("cloudinary: upload returned no asset reference")
	}

	return &media.Asset{URL: result.SecureURL, PublicID: result.PublicID}, nil
}

// Delete removes an object by public id. Unknown ids are treated as success,
// matching the at-least-once semantics of the cleanup queue.
func (client *Client) Delete(ctx context.Context, publicID string) error {
	result, err := client.sdk.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary: destroy failed: %w", err)
	}

	if result.Result != "ok" && result.Result != "not found" {
		return fmt.Errorf("cloudinary: destroy rejected: %s", result.Result)
	}

	return nil
}
