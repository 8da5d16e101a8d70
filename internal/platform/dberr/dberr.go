// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vidorahq/vidora/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried document doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, conflictMessage string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}

	// 2. Unique index violations become client-safe Conflicts
	if mongo.IsDuplicateKeyError(err) {
		if conflictMessage == "" {
			conflictMessage = "Resource already exists"
		}
		return apperr.Conflict(conflictMessage)
	}

	// 3. Unknown driver errors become Internal Server Errors
	return apperr.Internal(err)
}
