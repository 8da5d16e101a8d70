// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package sec_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidorahq/vidora/internal/platform/sec"
)

func newTestTokenService(t *testing.T, accessTTL, refreshTTL time.Duration) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService("access-secret-for-tests", "refresh-secret-for-tests", "vidora.test", accessTTL, refreshTTL)
	require.NoError(t, err)
	return service
}

/*
TestTokenService_AccessRoundTrip verifies sign and verify of access tokens.
*/
func TestTokenService_AccessRoundTrip(t *testing.T) {
	service := newTestTokenService(t, 15*time.Minute, time.Hour)

	token, err := service.IssueAccessToken("user-123", "mrbeast")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "mrbeast", claims.Username)
	assert.Equal(t, "user-123", claims.Subject)
}

/*
TestTokenService_RefreshRoundTrip verifies sign and verify of refresh tokens.
*/
func TestTokenService_RefreshRoundTrip(t *testing.T) {
	service := newTestTokenService(t, 15*time.Minute, time.Hour)

	token, err := service.IssueRefreshToken("user-123")
	require.NoError(t, err)

	claims, err := service.VerifyRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
}

/*
TestTokenService_CrossKindRejected ensures an access token never verifies as
a refresh token and vice versa (independent signing secrets).
*/
func TestTokenService_CrossKindRejected(t *testing.T) {
	service := newTestTokenService(t, 15*time.Minute, time.Hour)

	accessToken, err := service.IssueAccessToken("user-123", "mrbeast")
	require.NoError(t, err)
	_, err = service.VerifyRefreshToken(accessToken)
	assert.Error(t, err)

	refreshToken, err := service.IssueRefreshToken("user-123")
	require.NoError(t, err)
	_, err = service.VerifyAccessToken(refreshToken)
	assert.Error(t, err)
}

/*
TestTokenService_Expired ensures expired tokens fail with ErrTokenExpired.
*/
func TestTokenService_Expired(t *testing.T) {
	service := newTestTokenService(t, -time.Minute, -time.Minute)

	token, err := service.IssueAccessToken("user-123", "mrbeast")
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sec.ErrTokenExpired))

	refreshToken, err := service.IssueRefreshToken("user-123")
	require.NoError(t, err)

	_, err = service.VerifyRefreshToken(refreshToken)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sec.ErrTokenExpired))
}

/*
TestTokenService_Tampered ensures signature validation rejects altered tokens.
*/
func TestTokenService_Tampered(t *testing.T) {
	service := newTestTokenService(t, 15*time.Minute, time.Hour)

	token, err := service.IssueAccessToken("user-123", "mrbeast")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = service.VerifyAccessToken(tampered)
	assert.Error(t, err)

	_, err = service.VerifyAccessToken("not-a-jwt")
	assert.Error(t, err)
}

/*
TestNewTokenService_Validation covers constructor guard rails.
*/
func TestNewTokenService_Validation(t *testing.T) {
	_, err := sec.NewTokenService("", "refresh", "iss", time.Minute, time.Hour)
	assert.Error(t, err)

	_, err = sec.NewTokenService("same", "same", "iss", time.Minute, time.Hour)
	assert.Error(t, err)
}
