// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/confkb/internal/auth"
	"github.com/taibuivan/confkb/internal/platform/apperr"
	"github.com/taibuivan/confkb/internal/platform/constants"
	"github.com/taibuivan/confkb/internal/platform/middleware"
	"github.com/taibuivan/confkb/internal/platform/sec"
)

const (
	adminPassword = "correct horse battery staple"
	testSecret    = "0123456789abcdef0123456789abcdef"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(t *testing.T, attempts auth.AttemptStore) (*auth.Service, *sec.TokenService) {
	t.Helper()
	hash, err := sec.HashPassword(adminPassword)
	require.NoError(t, err)

	tokens := sec.NewTokenService(testSecret, constants.AuthIssuer, time.Hour)
	return auth.NewService(hash, tokens, attempts, discardLogger()), tokens
}

/*
TestService_Login covers success, empty and wrong passwords.
*/
func TestService_Login(t *testing.T) {
	service, tokens := newService(t, auth.NewMemoryAttemptStore(time.Minute, nil))
	ctx := context.Background()

	token, err := service.Login(ctx, adminPassword, "10.0.0.1")
	require.NoError(t, err)
	claims, err := tokens.VerifyToken(token)
	require.NoError(t, err)
	assert.True(t, claims.Admin)

	_, err = service.Login(ctx, "", "10.0.0.1")
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))

	_, err = service.Login(ctx, "wrong", "10.0.0.1")
	assert.True(t, apperr.HasCode(err, "UNAUTHORIZED"))
}

/*
TestService_Login_Throttle verifies the lockout and that a success resets it.
*/
func TestService_Login_Throttle(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	store := auth.NewMemoryAttemptStore(constants.LoginLockoutWindow, func() time.Time { return now })
	service, _ := newService(t, store)
	ctx := context.Background()

	_, err := service.Login(ctx, "wrong", "a")
	require.Error(t, err)
	_, err = service.Login(ctx, adminPassword, "a")
	require.NoError(t, err)

	count, _, err := store.Failures(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	for range constants.LoginMaxAttempts {
		_, err := service.Login(ctx, "wrong", "a")
		require.True(t, apperr.HasCode(err, "UNAUTHORIZED"))
	}

	// Even the right password is refused while locked out.
	_, err = service.Login(ctx, adminPassword, "a")
	require.True(t, apperr.HasCode(err, "RATE_LIMITED"))
	assert.Contains(t, err.Error(), "900s")

	// Other clients are unaffected.
	_, err = service.Login(ctx, adminPassword, "b")
	require.NoError(t, err)

	now = now.Add(constants.LoginLockoutWindow)
	_, err = service.Login(ctx, adminPassword, "a")
	require.NoError(t, err)
}

/*
TestRedisAttemptStore verifies counting, the window and reset against miniredis.
*/
func TestRedisAttemptStore(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := auth.NewRedisAttemptStore(client, time.Minute)
	ctx := context.Background()

	count, remaining, err := store.Failures(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Zero(t, remaining)

	for want := 1; want <= 3; want++ {
		got, err := store.RecordFailure(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	count, remaining, err = store.Failures(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, time.Minute, remaining)

	server.FastForward(2 * time.Minute)
	count, _, err = store.Failures(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = store.RecordFailure(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.NoError(t, store.Reset(ctx, "1.2.3.4"))
	assert.False(t, server.Exists("auth:login_attempts:1.2.3.4"))
}

// # HTTP

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
}

func newRouter(t *testing.T) (http.Handler, *sec.TokenService) {
	t.Helper()
	service, tokens := newService(t, auth.NewMemoryAttemptStore(time.Minute, nil))

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokens))
	router.Mount("/api/auth", auth.NewHandler(service).Routes())
	return router, tokens
}

func call(t *testing.T, router http.Handler, request *http.Request) (int, envelope) {
	t.Helper()
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	var env envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &env))
	return recorder.Code, env
}

/*
TestHandler_Login verifies the token payload and the error statuses.
*/
func TestHandler_Login(t *testing.T) {
	router, tokens := newRouter(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"empty_password", `{"password":""}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"malformed_json", `{`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"wrong_password", `{"password":"nope"}`, http.StatusUnauthorized, "UNAUTHORIZED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body))
			status, env := call(t, router, request)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, env.Code)
		})
	}

	request := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"password":"`+adminPassword+`"}`))
	status, env := call(t, router, request)
	require.Equal(t, http.StatusOK, status)

	var payload struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	_, err := tokens.VerifyToken(payload.Token)
	assert.NoError(t, err)
}

/*
TestHandler_Verify verifies bearer token checks on /verify.
*/
func TestHandler_Verify(t *testing.T) {
	router, tokens := newRouter(t)

	token, err := tokens.GenerateAdminToken()
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	status, env := call(t, router, request)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"admin":true,"authenticated":true}`, string(env.Data))

	request = httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	status, env = call(t, router, request)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", env.Code)

	request = httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	request.Header.Set("Authorization", "Bearer not-a-token")
	status, _ = call(t, router, request)
	assert.Equal(t, http.StatusUnauthorized, status)
}
