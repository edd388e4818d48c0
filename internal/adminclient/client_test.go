// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package adminclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/confkb/internal/adminclient"
	"github.com/taibuivan/confkb/internal/article"
	"github.com/taibuivan/confkb/internal/content"
	"github.com/taibuivan/confkb/internal/editor"
	"github.com/taibuivan/confkb/internal/platform/apperr"
	"github.com/taibuivan/confkb/internal/platform/respond"
	"github.com/taibuivan/confkb/pkg/pointer"
)

var _ editor.Backend = (*adminclient.Client)(nil)

func newClient(url string) *adminclient.Client {
	return adminclient.New(url, adminclient.WithRetries(2, time.Millisecond, 2*time.Millisecond))
}

/*
TestClient_Login verifies the token is read from the envelope.
*/
func TestClient_Login(t *testing.T) {
	router := chi.NewRouter()
	router.Post("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Password != "secret" {
			respond.Error(w, r, apperr.Unauthorized("Invalid password"))
			return
		}
		respond.OK(w, map[string]string{"token": "tok-1"})
	})
	server := httptest.NewServer(router)
	defer server.Close()

	client := newClient(server.URL)

	token, err := client.Login(context.Background(), "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	_, err = client.Login(context.Background(), "nope")
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "UNAUTHORIZED", appError.Code)
	assert.Equal(t, http.StatusUnauthorized, appError.HTTPStatus)
	assert.Equal(t, "Invalid password", appError.Message)
}

/*
TestClient_Articles verifies request shapes and bearer headers for CRUD calls.
*/
func TestClient_Articles(t *testing.T) {
	stored := &article.Article{ID: 5, Title: "Talk", Slug: "talk", Year: 2024}

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer tok" {
				respond.Error(w, r, apperr.Unauthorized("No token provided"))
				return
			}
			next.ServeHTTP(w, r)
		})
	})
	router.Post("/api/admin/articles", func(w http.ResponseWriter, r *http.Request) {
		var in article.Article
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "Talk", in.Title)
		if assert.NotNil(t, in.Content) {
			assert.Len(t, in.Content.Blocks, 1)
		}
		respond.Created(w, map[string]int64{"id": 5})
	})
	router.Get("/api/admin/articles", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "false", r.URL.Query().Get("published"))
		respond.List(w, []*article.Article{stored}, 1)
	})
	router.Get("/api/admin/articles/5", func(w http.ResponseWriter, r *http.Request) {
		respond.OK(w, stored)
	})
	router.Patch("/api/admin/articles/5", func(w http.ResponseWriter, r *http.Request) {
		var patch article.Patch
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
		patch.Apply(stored)
		respond.OK(w, stored)
	})
	router.Post("/api/admin/articles/5/publish", func(w http.ResponseWriter, r *http.Request) {
		stored.Published = true
		respond.OK(w, stored)
	})
	router.Delete("/api/admin/articles/5", func(w http.ResponseWriter, r *http.Request) {
		respond.Message(w, "Article deleted")
	})
	server := httptest.NewServer(router)
	defer server.Close()

	client := newClient(server.URL)
	ctx := context.Background()

	id, err := client.CreateArticle(ctx, "tok", &article.Article{
		Title:   "Talk",
		Content: &content.ArticleContent{Blocks: []content.Block{content.Paragraph{ID: "p1"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)

	list, err := client.ListArticles(ctx, "tok", pointer.To(false))
	require.NoError(t, err)
	require.Len(t, list, 1)

	got, err := client.GetArticle(ctx, "tok", 5)
	require.NoError(t, err)
	assert.Equal(t, "talk", got.Slug)

	updated, err := client.UpdateArticle(ctx, "tok", 5, article.Patch{Title: pointer.To("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	published, err := client.SetPublished(ctx, "tok", 5, true)
	require.NoError(t, err)
	assert.True(t, published.Published)

	require.NoError(t, client.DeleteArticle(ctx, "tok", 5))

	_, err = client.GetArticle(ctx, "wrong", 5)
	assert.True(t, apperr.HasCode(err, "UNAUTHORIZED"))
}

/*
TestClient_Retry verifies idempotent calls are retried on 503 and POSTs are not.
*/
func TestClient_Retry(t *testing.T) {
	var gets, posts atomic.Int32

	router := chi.NewRouter()
	router.Get("/api/admin/articles/1", func(w http.ResponseWriter, r *http.Request) {
		if gets.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		respond.OK(w, article.Article{ID: 1})
	})
	router.Post("/api/admin/articles", func(w http.ResponseWriter, r *http.Request) {
		posts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	router.Get("/api/admin/articles/2", func(w http.ResponseWriter, r *http.Request) {
		gets.Add(1)
		respond.Error(w, r, apperr.NotFound("Article"))
	})
	server := httptest.NewServer(router)
	defer server.Close()

	client := newClient(server.URL)
	ctx := context.Background()

	got, err := client.GetArticle(ctx, "tok", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, int32(3), gets.Load())

	_, err = client.CreateArticle(ctx, "tok", &article.Article{})
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusServiceUnavailable, appError.HTTPStatus)
	assert.Equal(t, int32(1), posts.Load())

	// Client errors are final.
	gets.Store(0)
	_, err = client.GetArticle(ctx, "tok", 2)
	assert.True(t, apperr.HasCode(err, "NOT_FOUND"))
	assert.Equal(t, int32(1), gets.Load())
}

/*
TestClient_DrivesEditorSession verifies a session saves through the client.
*/
func TestClient_DrivesEditorSession(t *testing.T) {
	var created atomic.Bool

	router := chi.NewRouter()
	router.Post("/api/admin/articles", func(w http.ResponseWriter, r *http.Request) {
		created.Store(true)
		respond.Created(w, map[string]int64{"id": 11})
	})
	server := httptest.NewServer(router)
	defer server.Close()

	session := editor.NewSession(newClient(server.URL), editor.StaticToken("tok"), editor.SessionOptions{})
	session.New()
	session.Store().UpdateMetadata(article.Patch{Title: pointer.To("From the CLI")})

	require.NoError(t, session.SaveNow(context.Background()))
	assert.True(t, created.Load())
	assert.Equal(t, int64(11), session.Store().Snapshot().Article.ID)
	require.NoError(t, session.Close(context.Background()))
}
