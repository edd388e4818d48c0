// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/confkb/internal/content"
	"github.com/taibuivan/confkb/internal/platform/database/schema"
	"github.com/taibuivan/confkb/internal/platform/dberr"
	"github.com/taibuivan/confkb/internal/platform/postgres"
	"github.com/taibuivan/confkb/pkg/pointer"
)

const resourceArticle = "Article"

// # PostgreSQL Repository

// PostgresRepository implements [Repository] on the 'articles' table.
//
// tags and content are JSONB; date is a DATE read back as YYYY-MM-DD.
type PostgresRepository struct {
	db postgres.DB
}

// NewPostgresRepository constructs a PostgreSQL backed article store.
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var _ Repository = (*PostgresRepository)(nil)

var (
	dateColumn = fmt.Sprintf("COALESCE(to_char(%s, 'YYYY-MM-DD'), '')", schema.Article.Date)

	// summaryColumns is the public listing projection: no content, no video_url.
	summaryColumns = strings.Join([]string{
		schema.Article.ID, schema.Article.Title, schema.Article.Slug, schema.Article.Year,
		schema.Article.Conference, schema.Article.Speaker, dateColumn, schema.Article.Summary,
		schema.Article.Tags, schema.Article.Thumbnail, schema.Article.ViewCount,
		schema.Article.CreatedAt, schema.Article.UpdatedAt,
	}, ", ")

	fullColumns = strings.Join([]string{
		schema.Article.ID, schema.Article.Title, schema.Article.Slug, schema.Article.Year,
		schema.Article.Conference, schema.Article.Speaker, dateColumn, schema.Article.Summary,
		schema.Article.Tags, schema.Article.VideoURL, schema.Article.Thumbnail, schema.Article.Content,
		schema.Article.Published, schema.Article.ViewCount, schema.Article.CreatedAt, schema.Article.UpdatedAt,
	}, ", ")
)

// # Public Reads

/*
ListPublished returns published articles ordered by date (undated last), then id.

Description: year and tag filters are optional. The tag filter uses JSONB
containment so the GIN index on tags applies. LIMIT is emitted only for a
bounded window and OFFSET only together with it.
*/
func (repository *PostgresRepository) ListPublished(ctx context.Context, filter Filter) ([]*Article, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s FROM %s WHERE %s = TRUE`,
		summaryColumns, schema.Article.Table, schema.Article.Published))

	// Year Filtering
	if filter.Year != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.Article.Year, argID))
		args = append(args, *filter.Year)
		argID++
	}

	// Tag Filtering
	if filter.Tag != "" {
		tagJSON, err := json.Marshal([]string{filter.Tag})
		if err != nil {
			return nil, dberr.Wrap(fmt.Errorf("postgres: encode tag filter: %w", err), resourceArticle)
		}
		queryBuilder.WriteString(fmt.Sprintf(" AND %s @> $%d::jsonb", schema.Article.Tags, argID))
		args = append(args, string(tagJSON))
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s DESC NULLS LAST, %s DESC", schema.Article.Date, schema.Article.ID))

	// Window
	if filter.Page.Bounded() {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argID))
		args = append(args, filter.Page.Limit)
		argID++

		if filter.Page.Offset > 0 {
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argID))
			args = append(args, filter.Page.Offset)
		}
	}

	rows, err := repository.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres: list published articles: %w", err), resourceArticle)
	}
	defer rows.Close()

	articles := make([]*Article, 0)
	for rows.Next() {
		var s scanned
		if err := rows.Scan(s.summaryDest()...); err != nil {
			return nil, dberr.Wrap(fmt.Errorf("postgres: scan article summary: %w", err), resourceArticle)
		}
		a, err := s.article(false)
		if err != nil {
			return nil, err
		}
		a.Published = true
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres: iterate articles: %w", err), resourceArticle)
	}

	return articles, nil
}

/*
ReadPublishedBySlug increments view_count and returns the article in one
statement. An unpublished or missing slug matches no row, so nothing is
counted.
*/
func (repository *PostgresRepository) ReadPublishedBySlug(ctx context.Context, slug string) (*Article, error) {
	query := fmt.Sprintf(`
		UPDATE %[1]s SET %[2]s = %[2]s + 1
		WHERE %[3]s = (
			SELECT %[3]s FROM %[1]s
			WHERE %[4]s = $1 AND %[5]s = TRUE
			ORDER BY %[3]s
			LIMIT 1
		)
		RETURNING %[6]s`,
		schema.Article.Table, schema.Article.ViewCount, schema.Article.ID,
		schema.Article.Slug, schema.Article.Published, fullColumns,
	)

	var s scanned
	if err := repository.db.QueryRow(ctx, query, slug).Scan(s.fullDest()...); err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres: read article by slug: %w", err), resourceArticle)
	}
	return s.article(true)
}

// YearStats groups published articles by year.
func (repository *PostgresRepository) YearStats(ctx context.Context) ([]YearStat, error) {
	query := fmt.Sprintf(`SELECT %[1]s, COUNT(*) FROM %[2]s WHERE %[3]s = TRUE GROUP BY %[1]s ORDER BY %[1]s DESC`,
		schema.Article.Year, schema.Article.Table, schema.Article.Published)

	rows, err := repository.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres: year stats: %w", err), resourceArticle)
	}
	defer rows.Close()

	stats := make([]YearStat, 0)
	for rows.Next() {
		var stat YearStat
		if err := rows.Scan(&stat.Year, &stat.Count); err != nil {
			return nil, dberr.Wrap(fmt.Errorf("postgres: scan year stat: %w", err), resourceArticle)
		}
		stats = append(stats, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres: iterate year stats: %w", err), resourceArticle)
	}

	return stats, nil
}

// Tags unnests the JSONB tag arrays of published articles.
func (repository *PostgresRepository) Tags(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT DISTINCT jsonb_array_elements_text(%s) AS tag FROM %s WHERE %s = TRUE ORDER BY tag COLLATE "C"`,
		schema.Article.Tags, schema.Article.Table, schema.Article.Published)

	rows, err := repository.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres: list tags: %w", err), resourceArticle)
	}
	defer rows.Close()

	tags := make([]string, 0)
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, dberr.Wrap(fmt.Errorf("postgres: scan tag: %w", err), resourceArticle)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres: iterate tags: %w", err), resourceArticle)
	}

	return tags, nil
}

// # Admin Reads

// ListAll returns every article with content, most recently updated first.
func (repository *PostgresRepository) ListAll(ctx context.Context, filter AdminFilter) ([]*Article, error) {
	var queryBuilder strings.Builder
	var args []any

	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s FROM %s`, fullColumns, schema.Article.Table))
	if filter.Published != nil {
		queryBuilder.WriteString(fmt.Sprintf(" WHERE %s = $1", schema.Article.Published))
		args = append(args, *filter.Published)
	}
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s DESC, %s DESC", schema.Article.UpdatedAt, schema.Article.ID))

	rows, err := repository.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres: list all articles: %w", err), resourceArticle)
	}
	defer rows.Close()

	articles := make([]*Article, 0)
	for rows.Next() {
		var s scanned
		if err := rows.Scan(s.fullDest()...); err != nil {
			return nil, dberr.Wrap(fmt.Errorf("postgres: scan article: %w", err), resourceArticle)
		}
		a, err := s.article(true)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres: iterate articles: %w", err), resourceArticle)
	}

	return articles, nil
}

// FindByID returns one article in any publish state.
func (repository *PostgresRepository) FindByID(ctx context.Context, id int64) (*Article, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, fullColumns, schema.Article.Table, schema.Article.ID)

	var s scanned
	if err := repository.db.QueryRow(ctx, query, id).Scan(s.fullDest()...); err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres: find article %d: %w", id, err), resourceArticle)
	}
	return s.article(true)
}

// SlugOwner looks the slug up across all articles.
func (repository *PostgresRepository) SlugOwner(ctx context.Context, slug string) (int64, bool, error) {
	query := fmt.Sprintf(`SELECT %[1]s FROM %[2]s WHERE %[3]s = $1 ORDER BY %[1]s LIMIT 1`,
		schema.Article.ID, schema.Article.Table, schema.Article.Slug)

	var id int64
	err := repository.db.QueryRow(ctx, query, slug).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, dberr.Wrap(fmt.Errorf("postgres: slug lookup: %w", err), resourceArticle)
	}
	return id, true, nil
}

// # Writes

// Create inserts a new row. Empty optional strings are stored as NULL.
func (repository *PostgresRepository) Create(ctx context.Context, a *Article) (int64, error) {
	tagsJSON, err := json.Marshal(nonNilTags(a.Tags))
	if err != nil {
		return 0, dberr.Wrap(fmt.Errorf("postgres: encode tags: %w", err), resourceArticle)
	}
	body := content.ArticleContent{}
	if a.Content != nil {
		body = *a.Content
	}
	contentJSON, err := json.Marshal(body)
	if err != nil {
		return 0, dberr.Wrap(fmt.Errorf("postgres: encode content: %w", err), resourceArticle)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7, $8::jsonb, $9, $10, $11::jsonb, $12)
		RETURNING %s`,
		schema.Article.Table,
		schema.Article.Title, schema.Article.Slug, schema.Article.Year, schema.Article.Conference,
		schema.Article.Speaker, schema.Article.Date, schema.Article.Summary, schema.Article.Tags,
		schema.Article.VideoURL, schema.Article.Thumbnail, schema.Article.Content, schema.Article.Published,
		schema.Article.ID,
	)

	var id int64
	err = repository.db.QueryRow(ctx, query,
		a.Title,
		a.Slug,
		a.Year,
		pointer.NilIfZero(a.Conference),
		pointer.NilIfZero(a.Speaker),
		pointer.NilIfZero(a.Date),
		pointer.NilIfZero(a.Summary),
		string(tagsJSON),
		pointer.NilIfZero(a.VideoURL),
		pointer.NilIfZero(a.Thumbnail),
		string(contentJSON),
		a.Published,
	).Scan(&id)
	if err != nil {
		return 0, dberr.Wrap(fmt.Errorf("postgres: insert article: %w", err), resourceArticle)
	}

	return id, nil
}

/*
Update writes only the fields set in patch, in a fixed column order.

Description: updated_at is maintained by a trigger. An empty patch is a
caller error and never reaches the database.
*/
func (repository *PostgresRepository) Update(ctx context.Context, id int64, patch Patch) error {
	var sets []string
	var args []any

	set := func(column, cast string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d%s", column, len(args), cast))
	}

	if patch.Title != nil {
		set(schema.Article.Title, "", *patch.Title)
	}
	if patch.Slug != nil {
		set(schema.Article.Slug, "", *patch.Slug)
	}
	if patch.Year != nil {
		set(schema.Article.Year, "", *patch.Year)
	}
	if patch.Conference != nil {
		set(schema.Article.Conference, "", pointer.NilIfZero(*patch.Conference))
	}
	if patch.Speaker != nil {
		set(schema.Article.Speaker, "", pointer.NilIfZero(*patch.Speaker))
	}
	if patch.Date != nil {
		set(schema.Article.Date, "::date", pointer.NilIfZero(*patch.Date))
	}
	if patch.Summary != nil {
		set(schema.Article.Summary, "", pointer.NilIfZero(*patch.Summary))
	}
	if patch.Tags != nil {
		tagsJSON, err := json.Marshal(nonNilTags(*patch.Tags))
		if err != nil {
			return dberr.Wrap(fmt.Errorf("postgres: encode tags: %w", err), resourceArticle)
		}
		set(schema.Article.Tags, "::jsonb", string(tagsJSON))
	}
	if patch.VideoURL != nil {
		set(schema.Article.VideoURL, "", pointer.NilIfZero(*patch.VideoURL))
	}
	if patch.Thumbnail != nil {
		set(schema.Article.Thumbnail, "", pointer.NilIfZero(*patch.Thumbnail))
	}
	if patch.Content != nil {
		contentJSON, err := json.Marshal(*patch.Content)
		if err != nil {
			return dberr.Wrap(fmt.Errorf("postgres: encode content: %w", err), resourceArticle)
		}
		set(schema.Article.Content, "::jsonb", string(contentJSON))
	}
	if patch.Published != nil {
		set(schema.Article.Published, "", *patch.Published)
	}

	if len(sets) == 0 {
		return dberr.Wrap(errors.New("postgres: update article: no fields to update"), resourceArticle)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $%d`,
		schema.Article.Table, strings.Join(sets, ", "), schema.Article.ID, len(args))

	tag, err := repository.db.Exec(ctx, query, args...)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres: update article %d: %w", id, err), resourceArticle)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceArticle)
	}

	return nil
}

// Delete removes one row.
func (repository *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Article.Table, schema.Article.ID)

	tag, err := repository.db.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres: delete article %d: %w", id, err), resourceArticle)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceArticle)
	}

	return nil
}

// # Row Scanning

// scanned holds one row's raw column values before JSON decoding.
type scanned struct {
	id         int64
	title      string
	slug       string
	year       int
	conference *string
	speaker    *string
	date       string
	summary    *string
	tags       []byte
	videoURL   *string
	thumbnail  *string
	body       []byte
	published  bool
	viewCount  int64
	createdAt  time.Time
	updatedAt  time.Time
}

func (s *scanned) summaryDest() []any {
	return []any{
		&s.id, &s.title, &s.slug, &s.year, &s.conference, &s.speaker, &s.date, &s.summary,
		&s.tags, &s.thumbnail, &s.viewCount, &s.createdAt, &s.updatedAt,
	}
}

func (s *scanned) fullDest() []any {
	return []any{
		&s.id, &s.title, &s.slug, &s.year, &s.conference, &s.speaker, &s.date, &s.summary,
		&s.tags, &s.videoURL, &s.thumbnail, &s.body, &s.published, &s.viewCount,
		&s.createdAt, &s.updatedAt,
	}
}

// article decodes the JSONB columns. withContent is false for summaries.
func (s *scanned) article(withContent bool) (*Article, error) {
	a := &Article{
		ID:         s.id,
		Title:      s.title,
		Slug:       s.slug,
		Year:       s.year,
		Conference: pointer.Val(s.conference),
		Speaker:    pointer.Val(s.speaker),
		Date:       s.date,
		Summary:    pointer.Val(s.summary),
		Tags:       []string{},
		VideoURL:   pointer.Val(s.videoURL),
		Thumbnail:  pointer.Val(s.thumbnail),
		Published:  s.published,
		ViewCount:  s.viewCount,
		CreatedAt:  s.createdAt,
		UpdatedAt:  s.updatedAt,
	}

	if len(s.tags) > 0 {
		if err := json.Unmarshal(s.tags, &a.Tags); err != nil {
			return nil, dberr.Wrap(fmt.Errorf("postgres: decode tags of article %d: %w", s.id, err), resourceArticle)
		}
		a.Tags = nonNilTags(a.Tags)
	}

	if withContent {
		body, err := content.Parse(s.body)
		if err != nil {
			return nil, dberr.Wrap(fmt.Errorf("postgres: decode content of article %d: %w", s.id, err), resourceArticle)
		}
		a.Content = &body
	}

	return a, nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
