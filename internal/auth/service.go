// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package auth implements the single-administrator login.
//
// # Architecture
//
// There are no user accounts. The administrator proves knowledge of a shared
// password whose bcrypt hash comes from configuration, and receives a bearer
// token. Repeated failures from one client are throttled.
package auth

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/taibuivan/confkb/internal/platform/apperr"
	"github.com/taibuivan/confkb/internal/platform/constants"
	"github.com/taibuivan/confkb/internal/platform/sec"
	"github.com/taibuivan/confkb/internal/platform/validate"
)

// TokenIssuer signs admin tokens. Implemented by [sec.TokenService].
type TokenIssuer interface {
	GenerateAdminToken() (string, error)
}

// Service implements the admin login use case.
type Service struct {
	passwordHash string
	tokens       TokenIssuer
	attempts     AttemptStore
	maxAttempts  int
	logger       *slog.Logger
}

// NewService constructs a new [Service].
func NewService(passwordHash string, tokens TokenIssuer, attempts AttemptStore, logger *slog.Logger) *Service {
	return &Service{
		passwordHash: passwordHash,
		tokens:       tokens,
		attempts:     attempts,
		maxAttempts:  constants.LoginMaxAttempts,
		logger:       logger,
	}
}

/*
Login checks password and issues an admin token.

Description: client identifies the caller (its IP) for throttling. A
throttle store failure does not block the login.

Parameters:
  - ctx: context.Context
  - password: string
  - client: string

Returns:
  - string: Signed admin token
  - error: VALIDATION_ERROR (empty), RATE_LIMITED, UNAUTHORIZED (wrong password)
*/
func (service *Service) Login(ctx context.Context, password, client string) (string, error) {
	if password == "" {
		return "", validate.RequiredError("password", "Password is required")
	}

	// ── 1. Throttle ───────────────────────────────────────────────────────
	failures, remaining, err := service.attempts.Failures(ctx, client)
	if err != nil {
		service.logger.WarnContext(ctx, "login_attempts_unavailable", slog.Any("error", err))
	} else if failures >= service.maxAttempts {
		return "", apperr.RateLimited(retryAfterSeconds(remaining))
	}

	// ── 2. Credential Check ───────────────────────────────────────────────
	if !sec.CheckPasswordHash(password, service.passwordHash) {
		count, err := service.attempts.RecordFailure(ctx, client)
		if err != nil {
			service.logger.WarnContext(ctx, "login_attempts_unavailable", slog.Any("error", err))
		}
		service.logger.WarnContext(ctx, "admin_login_failed",
			slog.String("client", client),
			slog.Int("failures", count),
		)
		return "", apperr.Unauthorized("Invalid password")
	}

	// ── 3. Token Issue ────────────────────────────────────────────────────
	if err := service.attempts.Reset(ctx, client); err != nil {
		service.logger.WarnContext(ctx, "login_attempts_unavailable", slog.Any("error", err))
	}

	token, err := service.tokens.GenerateAdminToken()
	if err != nil {
		return "", apperr.Internal(err)
	}

	service.logger.InfoContext(ctx, "admin_login", slog.String("client", client))
	return token, nil
}

func retryAfterSeconds(remaining time.Duration) int {
	return max(1, int(math.Ceil(remaining.Seconds())))
}
