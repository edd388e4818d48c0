// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package article is the knowledge base's single aggregate: a conference talk
write-up with metadata and block content.

Core Responsibility:

  - Public reading: published listings, per-year histogram, tag cloud and
    slug reads that count views.
  - Administration: unrestricted listing, create, partial update, delete and
    publish toggling behind the admin token.

Articles are identified by a numeric id; id 0 is the "new, unsaved" sentinel
used by the editor before the first create.
*/
package article

import (
	"time"

	"github.com/taibuivan/confkb/internal/content"
	"github.com/taibuivan/confkb/pkg/pagination"
	"github.com/taibuivan/confkb/pkg/slice"
)

// # Field Identifiers

const (
	FieldTitle     = "title"
	FieldSlug      = "slug"
	FieldYear      = "year"
	FieldDate      = "date"
	FieldContent   = "content"
	FieldPublished = "published"
	FieldVideoURL  = "video_url"
	FieldThumbnail = "thumbnail"
)

// MaxTitleLength bounds title and slug, matching the column width.
const MaxTitleLength = 255

// MaxURLLength bounds video and thumbnail URLs.
const MaxURLLength = 500

// # Core Entities

// Article is one conference talk write-up.
type Article struct {
	ID         int64                   `json:"id"`
	Title      string                  `json:"title"`
	Slug       string                  `json:"slug"`
	Year       int                     `json:"year"`
	Conference string                  `json:"conference,omitempty"`
	Speaker    string                  `json:"speaker,omitempty"`
	Date       string                  `json:"date"` // YYYY-MM-DD or empty
	Summary    string                  `json:"summary,omitempty"`
	Tags       []string                `json:"tags"`
	VideoURL   string                  `json:"video_url,omitempty"`
	Thumbnail  string                  `json:"thumbnail,omitempty"`
	Content    *content.ArticleContent `json:"content,omitempty"` // nil in public listings
	Published  bool                    `json:"published"`
	ViewCount  int64                   `json:"view_count"`
	CreatedAt  time.Time               `json:"created_at"`
	UpdatedAt  time.Time               `json:"updated_at"`
}

// IsNew reports whether the article has never been stored.
func (a *Article) IsNew() bool {
	return a.ID == 0
}

// Clone returns a deep copy, including tags and content blocks.
func (a *Article) Clone() *Article {
	if a == nil {
		return nil
	}
	out := *a
	out.Tags = append([]string{}, a.Tags...)
	if a.Content != nil {
		c := content.ArticleContent{Blocks: content.CloneAll(a.Content.Blocks)}
		out.Content = &c
	}
	return &out
}

// NormalizeTags trims tags, drops empties, removes duplicates and sorts.
// The result is never nil.
func NormalizeTags(tags []string) []string {
	return slice.SortedUnique(slice.CleanStrings(tags))
}

// NormalizeDate cuts a timestamp such as "2024-05-17T00:00:00.000Z" down to
// its date part.
func NormalizeDate(date string) string {
	if len(date) > len(time.DateOnly) && date[len(time.DateOnly)] == 'T' {
		return date[:len(time.DateOnly)]
	}
	return date
}

// # Partial Updates

// Patch is a partial update. nil fields are left unchanged.
type Patch struct {
	Title      *string                 `json:"title,omitempty"`
	Slug       *string                 `json:"slug,omitempty"`
	Year       *int                    `json:"year,omitempty"`
	Conference *string                 `json:"conference,omitempty"`
	Speaker    *string                 `json:"speaker,omitempty"`
	Date       *string                 `json:"date,omitempty"`
	Summary    *string                 `json:"summary,omitempty"`
	Tags       *[]string               `json:"tags,omitempty"`
	VideoURL   *string                 `json:"video_url,omitempty"`
	Thumbnail  *string                 `json:"thumbnail,omitempty"`
	Content    *content.ArticleContent `json:"content,omitempty"`
	Published  *bool                   `json:"published,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Slug == nil && p.Year == nil && p.Conference == nil &&
		p.Speaker == nil && p.Date == nil && p.Summary == nil && p.Tags == nil &&
		p.VideoURL == nil && p.Thumbnail == nil && p.Content == nil && p.Published == nil
}

// Apply shallow-merges the patch into a.
func (p Patch) Apply(a *Article) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Slug != nil {
		a.Slug = *p.Slug
	}
	if p.Year != nil {
		a.Year = *p.Year
	}
	if p.Conference != nil {
		a.Conference = *p.Conference
	}
	if p.Speaker != nil {
		a.Speaker = *p.Speaker
	}
	if p.Date != nil {
		a.Date = *p.Date
	}
	if p.Summary != nil {
		a.Summary = *p.Summary
	}
	if p.Tags != nil {
		a.Tags = append([]string{}, (*p.Tags)...)
	}
	if p.VideoURL != nil {
		a.VideoURL = *p.VideoURL
	}
	if p.Thumbnail != nil {
		a.Thumbnail = *p.Thumbnail
	}
	if p.Content != nil {
		c := content.ArticleContent{Blocks: content.CloneAll(p.Content.Blocks)}
		a.Content = &c
	}
	if p.Published != nil {
		a.Published = *p.Published
	}
}

// FullPatch returns a patch that sets every writable field of a.
// The editor saves with it, so the stored row always mirrors the draft.
func FullPatch(a *Article) Patch {
	tags := append([]string{}, a.Tags...)
	p := Patch{
		Title:      &a.Title,
		Slug:       &a.Slug,
		Year:       &a.Year,
		Conference: &a.Conference,
		Speaker:    &a.Speaker,
		Date:       &a.Date,
		Summary:    &a.Summary,
		Tags:       &tags,
		VideoURL:   &a.VideoURL,
		Thumbnail:  &a.Thumbnail,
		Published:  &a.Published,
	}
	if a.Content != nil {
		p.Content = a.Content
	}
	return p
}

// # Queries

// Filter narrows the public listing.
type Filter struct {
	Year *int
	Tag  string
	Page pagination.Params
}

// AdminFilter narrows the admin listing.
type AdminFilter struct {
	Published *bool
}

// YearStat is one bucket of the published-per-year histogram.
type YearStat struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}
