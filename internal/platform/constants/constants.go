// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, cookie configuration, and cross-cutting keys that
are shared between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Security: JWT issuer and cookie configuration.
  - Storage: Document collection names.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "vidora-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	// Generous because registration carries multipart image payloads.
	DefaultReadTimeout = 30 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 60 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "vidora.app"

	// AccessTokenCookieName is the cookie mirroring the access token for
	// browser clients that do not manage Authorization headers.
	AccessTokenCookieName = "access_token"

	// RefreshTokenCookieName is the name of the cookie that stores the refresh token.
	RefreshTokenCookieName = "refresh_token"

	// AccessTokenCookiePath is where the access token cookie is sent.
	AccessTokenCookiePath = "/"

	// RefreshTokenCookiePath scopes the refresh token cookie to the user
	// lifecycle routes only, so it never travels with ordinary API calls.
	RefreshTokenCookiePath = "/api/v1/users"
)

// # Upload Limits

const (
	// MaxUploadBytes caps the multipart body parsed for media uploads (10 MiB).
	MaxUploadBytes = 10 << 20
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # Document Collections

const (
	CollectionUsers         = "users"
	CollectionSubscriptions = "subscriptions"
	CollectionWatchHistory  = "watchhistory"
	CollectionVideos        = "videos"
)

// # Redis Keys

const (
	// RedisKeyMediaCleanup is the list holding media host object ids whose
	// deletion is pending after an avatar/cover swap.
	RedisKeyMediaCleanup = "media:cleanup"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)
