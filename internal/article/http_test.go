// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/confkb/internal/article"
	"github.com/taibuivan/confkb/internal/platform/ctxutil"
	"github.com/taibuivan/confkb/internal/platform/sec"
	"github.com/taibuivan/confkb/internal/render"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Count   *int            `json:"count"`
	Code    string          `json:"code"`
}

// newRouter mounts both route groups. When admin is true every request
// carries verified admin claims.
func newRouter(t *testing.T, admin bool) (http.Handler, *memRepo) {
	t.Helper()

	repo := newMemRepo()
	service := article.NewService(repo, &countingCache{}, discardLogger())
	handler := article.NewHandler(service, render.NewSanitizer())

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if admin {
				request = request.WithContext(ctxutil.WithClaims(request.Context(), &sec.AdminClaims{Admin: true}))
			}
			next.ServeHTTP(writer, request)
		})
	})
	router.Mount("/api/articles", handler.PublicRoutes())
	router.Mount("/api/admin/articles", handler.AdminRoutes())

	return router, repo
}

func do(t *testing.T, router http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	request := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		request.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	var env envelope
	if strings.HasPrefix(recorder.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &env))
	}
	return recorder, env
}

/*
TestHandler_ListPublished verifies filtering and the count field.
*/
func TestHandler_ListPublished(t *testing.T) {
	router, repo := newRouter(t, false)
	repo.seed(sampleArticle("one", true))
	repo.seed(sampleArticle("two", true))
	repo.seed(sampleArticle("draft", false))

	recorder, env := do(t, router, http.MethodGet, "/api/articles", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, env.Count)
	assert.Equal(t, 2, *env.Count)

	recorder, env = do(t, router, http.MethodGet, "/api/articles?tag=rust", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 0, *env.Count)

	recorder, _ = do(t, router, http.MethodGet, "/api/articles?year=abc", "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

/*
TestHandler_ReadBySlug verifies the published read and the 404 envelope.
*/
func TestHandler_ReadBySlug(t *testing.T) {
	router, repo := newRouter(t, false)
	repo.seed(sampleArticle("live", true))
	repo.seed(sampleArticle("hidden", false))

	recorder, env := do(t, router, http.MethodGet, "/api/articles/live", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var got article.Article
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "live", got.Slug)
	assert.Equal(t, int64(1), got.ViewCount)
	require.NotNil(t, got.Content)
	assert.Len(t, got.Content.Blocks, 2)

	recorder, env = do(t, router, http.MethodGet, "/api/articles/hidden", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "NOT_FOUND", env.Code)
}

/*
TestHandler_ReadRendered verifies the HTML and table of contents payload.
*/
func TestHandler_ReadRendered(t *testing.T) {
	router, repo := newRouter(t, false)
	repo.seed(sampleArticle("live", true))

	recorder, env := do(t, router, http.MethodGet, "/api/articles/live/rendered", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var got struct {
		Slug string           `json:"slug"`
		HTML string           `json:"html"`
		TOC  []render.TocItem `json:"toc"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "live", got.Slug)
	assert.Contains(t, got.HTML, "Intro")
	assert.Contains(t, got.HTML, "<p")
	assert.Equal(t, []render.TocItem{{ID: "h1", Text: "Intro", Level: 1}}, got.TOC)

	recorder, _ = do(t, router, http.MethodGet, "/api/articles/live/rendered?format=html", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, recorder.Body.String(), "<title>Talk live</title>")
}

/*
TestHandler_ReadRendered_FollowsUpdates verifies a cached rendering is not served after an edit.
*/
func TestHandler_ReadRendered_FollowsUpdates(t *testing.T) {
	router, repo := newRouter(t, true)
	id := repo.seed(sampleArticle("live", true))

	fetch := func() string {
		recorder, env := do(t, router, http.MethodGet, "/api/articles/live/rendered", "")
		require.Equal(t, http.StatusOK, recorder.Code)
		var got struct {
			HTML string `json:"html"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &got))
		return got.HTML
	}

	first := fetch()
	assert.Contains(t, first, "Body")
	assert.Equal(t, first, fetch())

	body := `{"content": {"blocks": [{"type": "paragraph", "id": "p1", "content": "Changed"}]}}`
	recorder, _ := do(t, router, http.MethodPatch, "/api/admin/articles/"+strconv.FormatInt(id, 10), body)
	require.Equal(t, http.StatusOK, recorder.Code)

	updated := fetch()
	assert.Contains(t, updated, "Changed")
	assert.NotContains(t, updated, "Body")
}

/*
TestHandler_Aggregates verifies the stats and tags endpoints win over {slug}.
*/
func TestHandler_Aggregates(t *testing.T) {
	router, repo := newRouter(t, false)
	repo.seed(sampleArticle("one", true))

	recorder, env := do(t, router, http.MethodGet, "/api/articles/stats/years", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `[{"year":2024,"count":1}]`, string(env.Data))

	recorder, env = do(t, router, http.MethodGet, "/api/articles/tags", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `["go"]`, string(env.Data))
}

/*
TestHandler_Admin_RequiresClaims verifies anonymous admin calls are rejected.
*/
func TestHandler_Admin_RequiresClaims(t *testing.T) {
	router, _ := newRouter(t, false)

	recorder, env := do(t, router, http.MethodGet, "/api/admin/articles", "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "UNAUTHORIZED", env.Code)
}

/*
TestHandler_Admin_Lifecycle walks create, conflict, update, publish and delete.
*/
func TestHandler_Admin_Lifecycle(t *testing.T) {
	router, repo := newRouter(t, true)

	body := `{
		"title": "Go at Scale",
		"slug": "go-at-scale",
		"year": 2024,
		"date": "2024-05-17T00:00:00.000Z",
		"tags": ["go", " go "],
		"content": {"blocks": [{"type": "paragraph", "id": "p1", "content": "Hi"}]}
	}`

	recorder, env := do(t, router, http.MethodPost, "/api/admin/articles", body)
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.JSONEq(t, `{"id":1}`, string(env.Data))
	assert.Equal(t, "2024-05-17", repo.rows[1].Date)
	assert.Equal(t, []string{"go"}, repo.rows[1].Tags)

	recorder, env = do(t, router, http.MethodPost, "/api/admin/articles", body)
	assert.Equal(t, http.StatusConflict, recorder.Code)
	assert.Equal(t, "CONFLICT", env.Code)

	recorder, env = do(t, router, http.MethodPatch, "/api/admin/articles/1", `{"title":"Go at Scale, Revisited"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	var updated article.Article
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Go at Scale, Revisited", updated.Title)

	recorder, env = do(t, router, http.MethodPost, "/api/admin/articles/1/publish", `{}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)

	recorder, _ = do(t, router, http.MethodPost, "/api/admin/articles/1/publish", `{"published":true}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, repo.rows[1].Published)

	recorder, env = do(t, router, http.MethodDelete, "/api/admin/articles/1", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "Article deleted", env.Message)

	recorder, _ = do(t, router, http.MethodGet, "/api/admin/articles/1", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	// A non-numeric id cannot match any row.
	recorder, _ = do(t, router, http.MethodGet, "/api/admin/articles/abc", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
