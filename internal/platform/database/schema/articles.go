// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ArticleTable represents the 'articles' table
type ArticleTable struct {
	Table      string
	ID         string
	Title      string
	Slug       string
	Year       string
	Conference string
	Speaker    string
	Date       string
	Summary    string
	Tags       string
	VideoURL   string
	Thumbnail  string
	Content    string
	Published  string
	ViewCount  string
	CreatedAt  string
	UpdatedAt  string
}

// Article is the schema definition for articles
var Article = ArticleTable{
	Table:      "articles",
	ID:         "id",
	Title:      "title",
	Slug:       "slug",
	Year:       "year",
	Conference: "conference",
	Speaker:    "speaker",
	Date:       "date",
	Summary:    "summary",
	Tags:       "tags",
	VideoURL:   "video_url",
	Thumbnail:  "thumbnail",
	Content:    "content",
	Published:  "published",
	ViewCount:  "view_count",
	CreatedAt:  "created_at",
	UpdatedAt:  "updated_at",
}

// Columns lists every column in scan order.
func (t ArticleTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Slug, t.Year, t.Conference, t.Speaker, t.Date, t.Summary,
		t.Tags, t.VideoURL, t.Thumbnail, t.Content, t.Published, t.ViewCount,
		t.CreatedAt, t.UpdatedAt,
	}
}
