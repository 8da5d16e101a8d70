// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vidorahq/vidora/pkg/uuidv7"
)

// Staging is the local-filesystem spool for multipart uploads.
//
// # Lifecycle contract
//
// Every staged file must be discarded on every code path — success, validation
// failure, duplicate-user failure. Handlers stage, services consume, and a
// deferred [Staging.Discard] guarantees nothing is orphaned.
type Staging struct {
	dir string
}

// NewStaging creates the staging directory if needed and returns the spool.
func NewStaging(dir string) (*Staging, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("media: failed to create staging dir %s: %w", dir, err)
	}
	return &Staging{dir: dir}, nil
}

// Save writes an uploaded stream to the staging area and returns its path.
//
// The stored name is a UUIDv7 plus the original extension, so concurrent
// uploads of identically named files never collide.
func (staging *Staging) Save(source io.Reader, originalFilename string) (string, error) {
	staged := filepath.Join(staging.dir, uuidv7.New()+filepath.Ext(originalFilename))

	destination, err := os.Create(staged)
	if err != nil {
		return "", fmt.Errorf("media: failed to create staged file: %w", err)
	}
	defer destination.Close()

	if _, err := io.Copy(destination, source); err != nil {
		_ = os.Remove(staged)
		return "", fmt.Errorf("media: failed to write staged file: %w", err)
	}

	return staged, nil
}

// Discard removes staged files. It is best-effort and tolerates empty paths
// and already-removed files, so it is safe to defer unconditionally.
func (staging *Staging) Discard(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		_ = os.Remove(path)
	}
}
