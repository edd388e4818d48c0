// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/taibuivan/confkb/internal/content"
	"github.com/taibuivan/confkb/internal/platform/constants"
	"github.com/taibuivan/confkb/internal/platform/metrics"
	"github.com/taibuivan/confkb/internal/platform/middleware"
	requestutil "github.com/taibuivan/confkb/internal/platform/request"
	"github.com/taibuivan/confkb/internal/platform/respond"
	"github.com/taibuivan/confkb/internal/platform/validate"
	"github.com/taibuivan/confkb/internal/render"
	"github.com/taibuivan/confkb/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for public reading and administration.
type Handler struct {
	service   *Service
	sanitizer *render.Sanitizer
	rendered  *lru.Cache[renderKey, template.HTML]
}

// renderKey identifies one revision of an article body.
type renderKey struct {
	id        int64
	updatedAt int64
}

// NewHandler constructs an article [Handler].
func NewHandler(service *Service, sanitizer *render.Sanitizer) *Handler {
	// lru.New only fails for a non-positive size.
	rendered, _ := lru.New[renderKey, template.HTML](constants.RenderCacheSize)
	return &Handler{service: service, sanitizer: sanitizer, rendered: rendered}
}

// PublicRoutes returns the reader endpoints, mounted at /api/articles.
//
// Static segments win over {slug} in chi, so a slug named "tags" or "stats"
// is shadowed.
func (handler *Handler) PublicRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listPublished)
	router.Get("/stats/years", handler.yearStats)
	router.Get("/tags", handler.tags)
	router.Get("/{slug}", handler.readBySlug)
	router.Get("/{slug}/rendered", handler.readRendered)

	return router
}

// AdminRoutes returns the management endpoints, mounted at /api/admin/articles.
// Every route requires the admin token.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAdmin)

	router.Get("/", handler.listAll)
	router.Post("/", handler.create)
	router.Get("/{id}", handler.get)
	router.Patch("/{id}", handler.update)
	router.Delete("/{id}", handler.delete)
	router.Post("/{id}/publish", handler.setPublished)

	return router
}

// # Public Endpoints

/*
GET /api/articles.

Request:
  - year: int
  - tag: string
  - limit: int (no limit when absent)
  - offset: int (only with limit)

Response:
  - 200: []Article: Published summaries with count
  - 400: VALIDATION_ERROR: Malformed year
*/
func (handler *Handler) listPublished(writer http.ResponseWriter, request *http.Request) {
	year, err := requestutil.QueryInt(request, FieldYear)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter := Filter{
		Year: year,
		Tag:  request.URL.Query().Get("tag"),
		Page: pagination.FromRequest(request),
	}

	articles, err := handler.service.ListPublished(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.List(writer, articles, len(articles))
}

/*
GET /api/articles/{slug}.

Response:
  - 200: Article: Counted as one view
  - 404: NOT_FOUND: Missing or unpublished
*/
func (handler *Handler) readBySlug(writer http.ResponseWriter, request *http.Request) {
	article, err := handler.service.ReadBySlug(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, article)
}

// renderedArticle is the article plus its server-side rendering.
type renderedArticle struct {
	*Article
	HTML template.HTML   `json:"html"`
	TOC  []render.TocItem `json:"toc"`
}

/*
GET /api/articles/{slug}/rendered.

Description: Same read (and view count) as the slug endpoint, with sanitized
HTML and the table of contents. format=html returns a standalone page.
*/
func (handler *Handler) readRendered(writer http.ResponseWriter, request *http.Request) {
	article, err := handler.service.ReadBySlug(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var blocks []content.Block
	if article.Content != nil {
		blocks = article.Content.Blocks
	}

	if request.URL.Query().Get("format") == "html" {
		writer.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := render.WritePage(writer, article.Title, blocks, handler.sanitizer); err != nil {
			respond.Error(writer, request, err)
		}
		return
	}

	respond.OK(writer, renderedArticle{
		Article: article,
		HTML:    handler.renderBody(article, blocks),
		TOC:     render.TableOfContents(blocks),
	})
}

// renderBody returns the sanitized body, reusing the last rendering of the
// same revision. Any update moves UpdatedAt and so misses the cache.
func (handler *Handler) renderBody(article *Article, blocks []content.Block) template.HTML {
	key := renderKey{id: article.ID, updatedAt: article.UpdatedAt.UnixNano()}
	if html, ok := handler.rendered.Get(key); ok {
		metrics.RecordCache("rendered", "hit")
		return html
	}
	metrics.RecordCache("rendered", "miss")

	html := handler.sanitizer.Sanitize(render.Document(blocks))
	handler.rendered.Add(key, html)
	return html
}

// GET /api/articles/stats/years.
func (handler *Handler) yearStats(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.service.YearStats(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, stats)
}

// GET /api/articles/tags.
func (handler *Handler) tags(writer http.ResponseWriter, request *http.Request) {
	tags, err := handler.service.Tags(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tags)
}

// # Admin Endpoints

/*
GET /api/admin/articles.

Request:
  - published: bool (optional)

Response:
  - 200: []Article: Every article with content, most recently updated first
*/
func (handler *Handler) listAll(writer http.ResponseWriter, request *http.Request) {
	published, err := requestutil.QueryBool(request, FieldPublished)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	articles, err := handler.service.ListAll(request.Context(), AdminFilter{Published: published})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.List(writer, articles, len(articles))
}

// GET /api/admin/articles/{id}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", resourceArticle)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	article, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, article)
}

// createRequest defines the inbound JSON schema for article creation.
type createRequest struct {
	Title      string                  `json:"title"`
	Slug       string                  `json:"slug"`
	Year       int                     `json:"year"`
	Conference string                  `json:"conference"`
	Speaker    string                  `json:"speaker"`
	Date       string                  `json:"date"`
	Summary    string                  `json:"summary"`
	Tags       []string                `json:"tags"`
	VideoURL   string                  `json:"video_url"`
	Thumbnail  string                  `json:"thumbnail"`
	Content    *content.ArticleContent `json:"content"`
	Published  bool                    `json:"published"`
}

type createdResponse struct {
	ID int64 `json:"id"`
}

/*
POST /api/admin/articles.

Response:
  - 201: {id}: Created
  - 400: VALIDATION_ERROR: Missing or malformed fields
  - 409: CONFLICT: Slug already in use
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	article := &Article{
		Title:      input.Title,
		Slug:       input.Slug,
		Year:       input.Year,
		Conference: input.Conference,
		Speaker:    input.Speaker,
		Date:       NormalizeDate(input.Date),
		Summary:    input.Summary,
		Tags:       input.Tags,
		VideoURL:   input.VideoURL,
		Thumbnail:  input.Thumbnail,
		Content:    input.Content,
		Published:  input.Published,
	}

	id, err := handler.service.Create(request.Context(), article)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, createdResponse{ID: id})
}

/*
PATCH /api/admin/articles/{id}.

Response:
  - 200: Article: As stored after the update
  - 400: VALIDATION_ERROR
  - 404: NOT_FOUND
  - 409: CONFLICT: Slug held by another article
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", resourceArticle)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var patch Patch
	if err := requestutil.DecodeJSON(writer, request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if patch.Date != nil {
		date := NormalizeDate(*patch.Date)
		patch.Date = &date
	}

	article, err := handler.service.Update(request.Context(), id, patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, article)
}

// DELETE /api/admin/articles/{id}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", resourceArticle)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Article deleted")
}

type publishRequest struct {
	Published *bool `json:"published"`
}

/*
POST /api/admin/articles/{id}/publish.

Request:
  - published: bool (required)

Response:
  - 200: Article: As stored
  - 400: VALIDATION_ERROR: published missing
  - 404: NOT_FOUND
*/
func (handler *Handler) setPublished(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", resourceArticle)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input publishRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.Published == nil {
		respond.Error(writer, request, validate.RequiredError(FieldPublished, "published is required"))
		return
	}

	article, err := handler.service.SetPublished(request.Context(), id, *input.Published)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, article)
}
