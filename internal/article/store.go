// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import "context"

// # Article Data Access

// Repository defines the data access contract for articles.
type Repository interface {

	/*
		ListPublished returns published articles, newest by date then id.

		Parameters:
		  - ctx: context.Context
		  - filter: Filter (year, tag, limit/offset window)

		Returns:
		  - []*Article: Summaries without content or video_url
		  - error: Database retrieval failures
	*/
	ListPublished(ctx context.Context, filter Filter) ([]*Article, error)

	/*
		ReadPublishedBySlug returns a published article and counts the view.

		The increment and the read are one statement, so a miss never counts.

		Returns:
		  - *Article: The article with its view_count after the increment
		  - error: apperr NOT_FOUND if absent or unpublished
	*/
	ReadPublishedBySlug(ctx context.Context, slug string) (*Article, error)

	// YearStats returns the published-article histogram, newest year first.
	YearStats(ctx context.Context) ([]YearStat, error)

	// Tags returns the sorted distinct tags of published articles.
	Tags(ctx context.Context) ([]string, error)

	// ListAll returns every article for the admin, most recently updated first.
	ListAll(ctx context.Context, filter AdminFilter) ([]*Article, error)

	// FindByID returns any article regardless of publish state.
	FindByID(ctx context.Context, id int64) (*Article, error)

	/*
		SlugOwner returns the id of the article holding slug, in any publish
		state.

		Returns:
		  - int64: Owner id
		  - bool: false when the slug is free
		  - error: Database retrieval failures
	*/
	SlugOwner(ctx context.Context, slug string) (int64, bool, error)

	// Create inserts a and returns its new id.
	Create(ctx context.Context, a *Article) (int64, error)

	/*
		Update writes the non-nil fields of patch.

		Returns:
		  - error: apperr NOT_FOUND if no row has the id
	*/
	Update(ctx context.Context, id int64, patch Patch) error

	// Delete removes the article. NOT_FOUND if nothing was removed.
	Delete(ctx context.Context, id int64) error
}
