// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

// Package username canonicalizes user handles before they hit storage.
//
// # Usage
//
// Usernames are case-insensitive, trimmed identifiers (e.g. "MrBeast " and
// "mrbeast" are the same channel). Every lookup and every write must go
// through [Normalize] so the unique index in the users collection compares
// canonical forms only.
package username

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize converts an arbitrary handle into its canonical stored form.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFKC (folds compatibility forms: ﬁ → fi, full-width → ASCII).
// 2. Trims surrounding whitespace.
// 3. Converts to lowercase.
func Normalize(s string) string {
	result := norm.NFKC.String(s)
	result = strings.TrimSpace(result)
	return strings.ToLower(result)
}

// NormalizeEmail canonicalizes an email address for uniqueness comparison.
// Emails are trimmed and lowercased but not Unicode-folded, since the
// local part is technically case-sensitive octets we only fold for lookups.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
