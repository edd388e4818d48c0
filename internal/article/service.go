// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/taibuivan/confkb/internal/platform/apperr"
	"github.com/taibuivan/confkb/internal/platform/metrics"
	"github.com/taibuivan/confkb/internal/platform/validate"
)

// # Service Layer

// Service holds the article business rules: validation, slug uniqueness,
// cache maintenance and view counting.
type Service struct {
	repo   Repository
	cache  Cache
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a new [Service]. A nil cache disables caching.
func NewService(repo Repository, cache Cache, logger *slog.Logger) *Service {
	if cache == nil {
		cache = NoopCache{}
	}
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

// # Public Reads

// ListPublished returns the published listing for filter.
func (service *Service) ListPublished(ctx context.Context, filter Filter) ([]*Article, error) {
	return service.repo.ListPublished(ctx, filter)
}

/*
ReadBySlug returns a published article and counts the view.

Description: a slug that cannot be well formed is rejected without touching
the database. Missing and unpublished articles are both NOT_FOUND and are
never counted.
*/
func (service *Service) ReadBySlug(ctx context.Context, slug string) (*Article, error) {
	if !validate.IsSlug(slug) {
		return nil, apperr.NotFound(resourceArticle)
	}

	article, err := service.repo.ReadPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	metrics.RecordView()
	return article, nil
}

// YearStats returns the published-per-year histogram, cached.
func (service *Service) YearStats(ctx context.Context) ([]YearStat, error) {
	stats, err := service.cache.GetYearStats(ctx)
	if err == nil {
		metrics.RecordCache("year_stats", "hit")
		return stats, nil
	}
	service.noteCacheMiss(ctx, "year_stats", err)

	stats, err = service.repo.YearStats(ctx)
	if err != nil {
		return nil, err
	}

	if err := service.cache.SetYearStats(ctx, stats); err != nil {
		service.logger.WarnContext(ctx, "article_cache_set_failed", slog.String("key", "year_stats"), slog.Any("error", err))
	}
	return stats, nil
}

// Tags returns the sorted distinct tags of published articles, cached.
func (service *Service) Tags(ctx context.Context) ([]string, error) {
	tags, err := service.cache.GetTags(ctx)
	if err == nil {
		metrics.RecordCache("tags", "hit")
		return tags, nil
	}
	service.noteCacheMiss(ctx, "tags", err)

	tags, err = service.repo.Tags(ctx)
	if err != nil {
		return nil, err
	}

	if err := service.cache.SetTags(ctx, tags); err != nil {
		service.logger.WarnContext(ctx, "article_cache_set_failed", slog.String("key", "tags"), slog.Any("error", err))
	}
	return tags, nil
}

// # Admin Reads

// ListAll returns every article for the admin dashboard.
func (service *Service) ListAll(ctx context.Context, filter AdminFilter) ([]*Article, error) {
	return service.repo.ListAll(ctx, filter)
}

// Get returns any article by id.
func (service *Service) Get(ctx context.Context, id int64) (*Article, error) {
	return service.repo.FindByID(ctx, id)
}

// # Article Management

/*
Create validates and stores a new article.

Description: title, slug, year and content are required. The slug must
not be used by any article, published or not. Tags are trimmed, de-duplicated
and sorted before storage.

Parameters:
  - ctx: context.Context
  - article: *Article (ID is ignored)

Returns:
  - int64: New article id
  - error: VALIDATION_ERROR, CONFLICT or storage failures
*/
func (service *Service) Create(ctx context.Context, article *Article) (int64, error) {
	validator := &validate.Validator{}

	validator.Required(FieldTitle, article.Title).MaxLen(FieldTitle, article.Title, MaxTitleLength)
	validator.Slug(FieldSlug, article.Slug).MaxLen(FieldSlug, article.Slug, MaxTitleLength)
	validator.Year(FieldYear, article.Year, service.now())
	validator.Date(FieldDate, article.Date)
	validator.MaxLen(FieldVideoURL, article.VideoURL, MaxURLLength)
	validator.MaxLen(FieldThumbnail, article.Thumbnail, MaxURLLength)

	// Content structure
	validator.Custom(FieldContent, article.Content == nil, "Content is required")
	if article.Content != nil {
		validator.Merge(article.Content.Validate()...)
	}

	if err := validator.Err(); err != nil {
		return 0, err
	}

	// Slug uniqueness across every article
	if _, taken, err := service.repo.SlugOwner(ctx, article.Slug); err != nil {
		return 0, err
	} else if taken {
		return 0, errSlugTaken()
	}

	article.Tags = NormalizeTags(article.Tags)

	id, err := service.repo.Create(ctx, article)
	if err != nil {
		return 0, err
	}
	article.ID = id

	service.invalidate(ctx)
	service.logger.InfoContext(ctx, "article_created",
		slog.Int64("article_id", id),
		slog.String("slug", article.Slug),
	)

	return id, nil
}

/*
Update applies a partial update and returns the stored result.

Description: only present fields are validated. A slug change is rejected
when another article already holds the new slug; keeping the current slug
is always allowed.

Returns:
  - *Article: The article as stored after the update
  - error: VALIDATION_ERROR, NOT_FOUND, CONFLICT or storage failures
*/
func (service *Service) Update(ctx context.Context, id int64, patch Patch) (*Article, error) {
	if patch.IsEmpty() {
		return nil, apperr.ValidationError("No fields to update")
	}

	validator := &validate.Validator{}
	if patch.Title != nil {
		validator.Required(FieldTitle, *patch.Title).MaxLen(FieldTitle, *patch.Title, MaxTitleLength)
	}
	if patch.Slug != nil {
		validator.Slug(FieldSlug, *patch.Slug).MaxLen(FieldSlug, *patch.Slug, MaxTitleLength)
	}
	if patch.Year != nil {
		validator.Year(FieldYear, *patch.Year, service.now())
	}
	if patch.Date != nil {
		validator.Date(FieldDate, *patch.Date)
	}
	if patch.VideoURL != nil {
		validator.MaxLen(FieldVideoURL, *patch.VideoURL, MaxURLLength)
	}
	if patch.Thumbnail != nil {
		validator.MaxLen(FieldThumbnail, *patch.Thumbnail, MaxURLLength)
	}
	if patch.Content != nil {
		validator.Merge(patch.Content.Validate()...)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Existence check
	current, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Slug collision with a different article
	if patch.Slug != nil && *patch.Slug != current.Slug {
		owner, taken, err := service.repo.SlugOwner(ctx, *patch.Slug)
		if err != nil {
			return nil, err
		}
		if taken && owner != id {
			return nil, errSlugTaken()
		}
	}

	if patch.Tags != nil {
		tags := NormalizeTags(*patch.Tags)
		patch.Tags = &tags
	}

	if err := service.repo.Update(ctx, id, patch); err != nil {
		return nil, err
	}

	service.invalidate(ctx)
	service.logger.InfoContext(ctx, "article_updated", slog.Int64("article_id", id))

	return service.repo.FindByID(ctx, id)
}

// SetPublished toggles publication and returns the stored result.
func (service *Service) SetPublished(ctx context.Context, id int64, published bool) (*Article, error) {
	article, err := service.Update(ctx, id, Patch{Published: &published})
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "article_publish_changed",
		slog.Int64("article_id", id),
		slog.Bool("published", published),
	)
	return article, nil
}

// Delete removes an article. NOT_FOUND when nothing was removed.
func (service *Service) Delete(ctx context.Context, id int64) error {
	if err := service.repo.Delete(ctx, id); err != nil {
		return err
	}

	service.invalidate(ctx)
	service.logger.InfoContext(ctx, "article_deleted", slog.Int64("article_id", id))

	return nil
}

// # Helpers

func errSlugTaken() *apperr.AppError {
	return apperr.Conflict("Slug is already in use")
}

func (service *Service) invalidate(ctx context.Context) {
	if err := service.cache.Invalidate(ctx); err != nil {
		service.logger.WarnContext(ctx, "article_cache_invalidate_failed", slog.Any("error", err))
	}
}

func (service *Service) noteCacheMiss(ctx context.Context, key string, err error) {
	if errors.Is(err, ErrCacheMiss) {
		metrics.RecordCache(key, "miss")
		return
	}
	metrics.RecordCache(key, "error")
	service.logger.WarnContext(ctx, "article_cache_get_failed", slog.String("key", key), slog.Any("error", err))
}
