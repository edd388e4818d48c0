// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/confkb/internal/api"
	"github.com/taibuivan/confkb/internal/article"
	"github.com/taibuivan/confkb/internal/auth"
	"github.com/taibuivan/confkb/internal/platform/config"
	"github.com/taibuivan/confkb/internal/platform/constants"
	"github.com/taibuivan/confkb/internal/platform/sec"
	"github.com/taibuivan/confkb/internal/render"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
}

func newServer(t *testing.T, deps api.HealthDependencies) (http.Handler, *sec.TokenService) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{ServerPort: "0", Environment: "production", ClientURL: "https://kb.example.com"}

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	tokens := sec.NewTokenService("0123456789abcdef0123456789abcdef", constants.AuthIssuer, time.Hour)
	hash, err := sec.HashPassword("pw")
	require.NoError(t, err)

	articles := article.NewService(article.NewPostgresRepository(mock), nil, logger)
	liveness, readiness := api.NewHealthHandlers(deps, logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server := api.NewServer(ctx, cfg, logger, tokens, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(auth.NewService(hash, tokens, auth.NewMemoryAttemptStore(time.Minute, nil), logger)),
		Article:   article.NewHandler(articles, render.NewSanitizer()),
	})
	return server.Handler(), tokens
}

func get(t *testing.T, handler http.Handler, path string, header http.Header) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	request := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		request.Header[k] = v
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	var env envelope
	_ = json.Unmarshal(recorder.Body.Bytes(), &env)
	return recorder, env
}

/*
TestServer_Probes verifies liveness and readiness with healthy and failing dependencies.
*/
func TestServer_Probes(t *testing.T) {
	healthy := func(context.Context) error { return nil }
	handler, _ := newServer(t, api.HealthDependencies{CheckDatabase: healthy, CheckCache: healthy})

	recorder, env := get(t, handler, "/health", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, string(env.Data), `"status":"ok"`)

	recorder, env = get(t, handler, "/ready", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, env.Success)

	failing := func(context.Context) error { return errors.New("connection refused") }
	handler, _ = newServer(t, api.HealthDependencies{CheckDatabase: failing})

	recorder, env = get(t, handler, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.False(t, env.Success)
	assert.Contains(t, string(env.Data), `"degraded"`)
	assert.Contains(t, string(env.Data), "connection refused")
}

/*
TestServer_Routing verifies unknown routes, the admin guard and the public mount.
*/
func TestServer_Routing(t *testing.T) {
	handler, tokens := newServer(t, api.HealthDependencies{})

	recorder, env := get(t, handler, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "ROUTE_NOT_FOUND", env.Code)

	recorder, env = get(t, handler, "/api/admin/articles", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "UNAUTHORIZED", env.Code)

	recorder, _ = get(t, handler, "/api/admin/articles", http.Header{"Authorization": {"Token abc"}})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	token, err := tokens.GenerateAdminToken()
	require.NoError(t, err)
	recorder, env = get(t, handler, "/api/auth/verify", http.Header{"Authorization": {"Bearer " + token}})
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"admin":true,"authenticated":true}`, string(env.Data))

	// A malformed slug never reaches the database.
	recorder, env = get(t, handler, "/api/articles/Not_A_Slug", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "NOT_FOUND", env.Code)

	assert.NotEmpty(t, recorder.Header().Get(constants.HeaderXRequestID))
}

/*
TestServer_CORS verifies the preflight answer for the configured origin only.
*/
func TestServer_CORS(t *testing.T) {
	handler, _ := newServer(t, api.HealthDependencies{})

	request := httptest.NewRequest(http.MethodOptions, "/api/articles", nil)
	request.Header.Set("Origin", "https://kb.example.com")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "https://kb.example.com", recorder.Header().Get("Access-Control-Allow-Origin"))

	request = httptest.NewRequest(http.MethodOptions, "/api/articles", nil)
	request.Header.Set("Origin", "https://evil.example.com")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
}

/*
TestServer_StaleToken verifies a bad bearer token leaves public routes open
and the admin 401 still carries the CORS headers.
*/
func TestServer_StaleToken(t *testing.T) {
	handler, _ := newServer(t, api.HealthDependencies{})

	expired, err := sec.NewTokenService("0123456789abcdef0123456789abcdef", constants.AuthIssuer, -time.Hour).GenerateAdminToken()
	require.NoError(t, err)

	for _, token := range []string{"expired.or.garbage", expired} {
		header := http.Header{
			"Authorization": {"Bearer " + token},
			"Origin":        {"https://kb.example.com"},
		}

		recorder, _ := get(t, handler, "/health", header)
		assert.Equal(t, http.StatusOK, recorder.Code)

		recorder, env := get(t, handler, "/api/articles/Not_A_Slug", header)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Equal(t, "NOT_FOUND", env.Code)

		recorder, env = get(t, handler, "/api/admin/articles", header)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, "UNAUTHORIZED", env.Code)
		assert.Equal(t, "https://kb.example.com", recorder.Header().Get("Access-Control-Allow-Origin"))
	}
}

/*
TestServer_Metrics verifies the Prometheus exposition includes request counters.
*/
func TestServer_Metrics(t *testing.T) {
	handler, _ := newServer(t, api.HealthDependencies{})

	get(t, handler, "/health", nil)

	request := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "confkb_http_requests_total")
}
