package database

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PgArticleRepository persists canonical article records in Postgres.
type PgArticleRepository struct {
	db *DB
}

var _ ArticleRepository = (*PgArticleRepository)(nil)

func NewArticleRepository(db *DB) *PgArticleRepository {
	return &PgArticleRepository{db: db}
}

// UpsertArticles stores a batch of records keyed by URL. On conflict the
// existing row's payload columns are fully replaced by the incoming record,
// including a nil summary. An empty batch is a no-op success and never
// touches the pool.
func (r *PgArticleRepository) UpsertArticles(ctx context.Context, articles []Article) error {
	if len(articles) == 0 {
		return nil
	}

	query, args, err := buildUpsertQuery(articles)
	if err != nil {
		return &StorageError{Op: "upsert", Err: err}
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return &StorageError{Op: "upsert", Err: err}
	}

	return nil
}

func buildUpsertQuery(articles []Article) (string, []interface{}, error) {
	builder := psql.Insert("news_articles").
		Columns("url", "title", "published_at", "category",
			"source_id", "source_name", "author", "description",
			"url_to_image", "content", "summary")

	for _, a := range articles {
		builder = builder.Values(a.URL, a.Title, a.PublishedAt, a.Category,
			a.SourceID, a.SourceName, a.Author, a.Description,
			a.URLToImage, a.Content, a.Summary)
	}

	builder = builder.Suffix(`ON CONFLICT (url) DO UPDATE SET
		title = EXCLUDED.title,
		published_at = EXCLUDED.published_at,
		category = EXCLUDED.category,
		source_id = EXCLUDED.source_id,
		source_name = EXCLUDED.source_name,
		author = EXCLUDED.author,
		description = EXCLUDED.description,
		url_to_image = EXCLUDED.url_to_image,
		content = EXCLUDED.content,
		summary = EXCLUDED.summary,
		updated_at = NOW()`)

	return builder.ToSql()
}

// GetRecentArticles returns stored records, newest first. An empty category
// returns records across all categories.
func (r *PgArticleRepository) GetRecentArticles(ctx context.Context, category string, limit int) ([]Article, error) {
	builder := psql.Select("url", "title", "published_at", "category",
		"source_id", "source_name", "author", "description",
		"url_to_image", "content", "summary", "created_at", "updated_at").
		From("news_articles").
		OrderBy("published_at DESC").
		Limit(uint64(limit))

	if category != "" {
		builder = builder.Where(sq.Eq{"category": category})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, &StorageError{Op: "select", Err: err}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &StorageError{Op: "select", Err: err}
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var a Article
		var sourceID, sourceName, author, description, urlToImage, content, summary sql.NullString

		err := rows.Scan(&a.URL, &a.Title, &a.PublishedAt, &a.Category,
			&sourceID, &sourceName, &author, &description,
			&urlToImage, &content, &summary, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, &StorageError{Op: "select", Err: fmt.Errorf("failed to scan article row: %w", err)}
		}

		a.SourceID = nullableString(sourceID)
		a.SourceName = nullableString(sourceName)
		a.Author = nullableString(author)
		a.Description = nullableString(description)
		a.URLToImage = nullableString(urlToImage)
		a.Content = nullableString(content)
		a.Summary = nullableString(summary)

		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "select", Err: fmt.Errorf("error iterating article rows: %w", err)}
	}

	return articles, nil
}

// GetArticleCount returns the total number of stored articles.
func (r *PgArticleRepository) GetArticleCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM news_articles").Scan(&count)
	if err != nil {
		return 0, &StorageError{Op: "count", Err: err}
	}
	return count, nil
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
