// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article_test

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/taibuivan/confkb/internal/article"
	"github.com/taibuivan/confkb/internal/content"
	"github.com/taibuivan/confkb/internal/platform/apperr"
)

// memRepo is an in-memory [article.Repository].
type memRepo struct {
	mu       sync.Mutex
	rows     map[int64]*article.Article
	nextID   int64
	clock    time.Time
	statHits int
}

func newMemRepo() *memRepo {
	return &memRepo{
		rows:   map[int64]*article.Article{},
		nextID: 1,
		clock:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *memRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Minute)
	return r.clock
}

// seed stores a copy of a and returns its id.
func (r *memRepo) seed(a article.Article) int64 {
	id, _ := r.Create(context.Background(), &a)
	return id
}

func (r *memRepo) ListPublished(_ context.Context, filter article.Filter) ([]*article.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []*article.Article{}
	for _, a := range r.rows {
		if !a.Published {
			continue
		}
		if filter.Year != nil && a.Year != *filter.Year {
			continue
		}
		if filter.Tag != "" && !slices.Contains(a.Tags, filter.Tag) {
			continue
		}
		summary := a.Clone()
		summary.Content = nil
		summary.VideoURL = ""
		out = append(out, summary)
	}
	slices.SortFunc(out, func(x, y *article.Article) int {
		if x.Date != y.Date {
			if x.Date > y.Date {
				return -1
			}
			return 1
		}
		return int(y.ID - x.ID)
	})

	if filter.Page.Bounded() {
		start := min(filter.Page.Offset, len(out))
		end := min(start+filter.Page.Limit, len(out))
		out = out[start:end]
	}
	return out, nil
}

func (r *memRepo) ReadPublishedBySlug(_ context.Context, slug string) (*article.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.rows {
		if a.Slug == slug && a.Published {
			a.ViewCount++
			return a.Clone(), nil
		}
	}
	return nil, apperr.NotFound("Article")
}

func (r *memRepo) YearStats(_ context.Context) ([]article.YearStat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statHits++

	counts := map[int]int{}
	for _, a := range r.rows {
		if a.Published {
			counts[a.Year]++
		}
	}
	stats := []article.YearStat{}
	for year, count := range counts {
		stats = append(stats, article.YearStat{Year: year, Count: count})
	}
	slices.SortFunc(stats, func(x, y article.YearStat) int { return y.Year - x.Year })
	return stats, nil
}

func (r *memRepo) Tags(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var tags []string
	for _, a := range r.rows {
		if a.Published {
			tags = append(tags, a.Tags...)
		}
	}
	return article.NormalizeTags(tags), nil
}

func (r *memRepo) ListAll(_ context.Context, filter article.AdminFilter) ([]*article.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []*article.Article{}
	for _, a := range r.rows {
		if filter.Published != nil && a.Published != *filter.Published {
			continue
		}
		out = append(out, a.Clone())
	}
	slices.SortFunc(out, func(x, y *article.Article) int { return y.UpdatedAt.Compare(x.UpdatedAt) })
	return out, nil
}

func (r *memRepo) FindByID(_ context.Context, id int64) (*article.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.rows[id]
	if !ok {
		return nil, apperr.NotFound("Article")
	}
	return a.Clone(), nil
}

func (r *memRepo) SlugOwner(_ context.Context, slug string) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, a := range r.rows {
		if a.Slug == slug {
			return id, true, nil
		}
	}
	return 0, false, nil
}

func (r *memRepo) Create(_ context.Context, a *article.Article) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := a.Clone()
	stored.ID = r.nextID
	r.nextID++
	if stored.Tags == nil {
		stored.Tags = []string{}
	}
	if stored.Content == nil {
		stored.Content = &content.ArticleContent{Blocks: []content.Block{}}
	}
	stored.CreatedAt = r.tick()
	stored.UpdatedAt = stored.CreatedAt
	r.rows[stored.ID] = stored
	return stored.ID, nil
}

func (r *memRepo) Update(_ context.Context, id int64, patch article.Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.rows[id]
	if !ok {
		return apperr.NotFound("Article")
	}
	patch.Apply(a)
	a.UpdatedAt = r.tick()
	return nil
}

func (r *memRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return apperr.NotFound("Article")
	}
	delete(r.rows, id)
	return nil
}

// countingCache is an in-memory [article.Cache] that counts invalidations.
type countingCache struct {
	mu            sync.Mutex
	stats         []article.YearStat
	tags          []string
	invalidations int
}

func (c *countingCache) GetYearStats(context.Context) ([]article.YearStat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stats == nil {
		return nil, article.ErrCacheMiss
	}
	return c.stats, nil
}

func (c *countingCache) SetYearStats(_ context.Context, stats []article.YearStat) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = stats
	return nil
}

func (c *countingCache) GetTags(context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tags == nil {
		return nil, article.ErrCacheMiss
	}
	return c.tags, nil
}

func (c *countingCache) SetTags(_ context.Context, tags []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags = tags
	return nil
}

func (c *countingCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = nil
	c.tags = nil
	c.invalidations++
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleContent() *content.ArticleContent {
	return &content.ArticleContent{Blocks: []content.Block{
		content.Heading{ID: "h1", Level: 1, Content: content.Plain("Intro")},
		content.Paragraph{ID: "p1", Content: content.Plain("Body")},
	}}
}

func sampleArticle(slug string, published bool) article.Article {
	return article.Article{
		Title:     "Talk " + slug,
		Slug:      slug,
		Year:      2024,
		Date:      "2024-05-17",
		Tags:      []string{"go"},
		Content:   sampleContent(),
		Published: published,
	}
}
