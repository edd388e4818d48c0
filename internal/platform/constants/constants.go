// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values shared across the platform.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Articles: validation bounds and listing defaults.
  - Cache: Redis key taxonomy.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "confkb"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests during shutdown.
	ShutdownTimeout = 30 * time.Second

	// MaxRequestBody caps JSON request bodies. Article content is the largest payload.
	MaxRequestBody = 10 << 20
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the 'iss' claim in admin tokens.
	AuthIssuer = "confkb"

	// LoginMaxAttempts is the number of failed logins tolerated per client
	// within LoginLockoutWindow.
	LoginMaxAttempts = 5

	// LoginLockoutWindow is how long failed logins are remembered.
	LoginLockoutWindow = 15 * time.Minute
)

// # Articles

const (
	// MinArticleYear is the earliest conference year accepted.
	MinArticleYear = 2013

	// RenderCacheSize bounds the in-process cache of rendered article bodies.
	RenderCacheSize = 256
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
)

// # JSON Field Identifiers

const (
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisKeyYearStats = "articles:stats:years"
	RedisKeyTags      = "articles:tags"

	// RedisKeyLoginAttempts is formatted with the client IP.
	RedisKeyLoginAttempts = "auth:login_attempts:%s"
)
