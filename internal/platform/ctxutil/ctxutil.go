// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/confkb/internal/platform/ctxkey"
	"github.com/taibuivan/confkb/internal/platform/sec"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Identity

// WithClaims returns a new context carrying verified admin token claims.
func WithClaims(ctx context.Context, claims *sec.AdminClaims) context.Context {
	return context.WithValue(ctx, ctxkey.KeyClaims, claims)
}

// GetClaims retrieves the admin claims, or nil for anonymous requests.
func GetClaims(ctx context.Context) *sec.AdminClaims {
	claims, ok := ctx.Value(ctxkey.KeyClaims).(*sec.AdminClaims)
	if !ok {
		return nil
	}
	return claims
}

// IsAdmin reports whether the request carries a verified admin token.
func IsAdmin(ctx context.Context) bool {
	claims := GetClaims(ctx)
	return claims != nil && claims.Admin
}

// # Error Exposure

// WithExposeErrors marks the context so 5xx causes are included in responses.
func WithExposeErrors(ctx context.Context, expose bool) context.Context {
	return context.WithValue(ctx, ctxkey.KeyExposeErrors, expose)
}
