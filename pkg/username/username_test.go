// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package username_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vidorahq/vidora/pkg/username"
)

/*
TestNormalize verifies handle canonicalization rules.
*/
func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already_canonical", "mrbeast", "mrbeast"},
		{"uppercase", "MrBeast", "mrbeast"},
		{"surrounding_whitespace", "  mrbeast \t", "mrbeast"},
		{"mixed", "  CasualCoder42 ", "casualcoder42"},
		{"fullwidth_compat_chars", "ａｂｃ", "abc"}, // ａｂｃ → abc
		{"empty", "", ""},
		{"whitespace_only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, username.Normalize(tt.input))
		})
	}
}

/*
TestNormalizeEmail verifies email canonicalization.
*/
func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", username.NormalizeEmail(" User@Example.COM "))
	assert.Equal(t, "", username.NormalizeEmail("   "))
}
