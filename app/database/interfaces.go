package database

import "context"

type ArticleRepository interface {
	UpsertArticles(ctx context.Context, articles []Article) error
	GetRecentArticles(ctx context.Context, category string, limit int) ([]Article, error)
	GetArticleCount(ctx context.Context) (int, error)
}
