// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/taibuivan/confkb/internal/platform/apperr"
	"github.com/taibuivan/confkb/internal/platform/constants"
	"github.com/taibuivan/confkb/internal/platform/ctxutil"
	"github.com/taibuivan/confkb/internal/platform/respond"
	"github.com/taibuivan/confkb/internal/platform/sec"
)

// TokenVerifier verifies a raw bearer token. Implemented by [sec.TokenService].
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AdminClaims, error)
}

// Authenticate extracts and verifies the bearer token, if any.
//
// # Flow
//  1. No Authorization header: the request proceeds as anonymous.
//  2. Malformed header or bad/expired token: the request proceeds as anonymous,
//     so public routes keep working and [RequireAdmin] answers 401.
//  3. Valid token without the admin flag: claims are attached, [RequireAdmin] answers 403.
//  4. Valid admin token: claims are attached.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			scheme, tokenStr, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || tokenStr == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(tokenStr)
			if err != nil && !errors.Is(err, sec.ErrNotAdmin) {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithClaims(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAdmin blocks requests without a verified admin token.
//
// Must be registered AFTER [Authenticate]. Anonymous requests get 401,
// tokens lacking the admin flag get 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := ctxutil.GetClaims(request.Context())
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("No token provided"))
			return
		}
		if !claims.Admin {
			respond.Error(writer, request, apperr.Forbidden("Admin access required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
