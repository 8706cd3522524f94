package api

import (
	"context"

	"newsdigest/app/cache"
	"newsdigest/app/database"
	"newsdigest/app/ingest"
)

type IngestionRunner interface {
	Run(ctx context.Context) ingest.Report
}

var _ IngestionRunner = (*ingest.Orchestrator)(nil)

type Handler struct {
	runner      IngestionRunner
	newsClient  ingest.HeadlineSource
	articleRepo database.ArticleRepository
	cache       *cache.Cache
	adminSecret string
}

// articleResponse is the JSON shape of a stored record on the read side.
type articleResponse struct {
	URL         string  `json:"url"`
	Title       string  `json:"title"`
	PublishedAt string  `json:"published_at"`
	Category    string  `json:"category"`
	SourceID    *string `json:"source_id,omitempty"`
	SourceName  *string `json:"source_name,omitempty"`
	Author      *string `json:"author,omitempty"`
	Description *string `json:"description,omitempty"`
	URLToImage  *string `json:"url_to_image,omitempty"`
	Content     *string `json:"content,omitempty"`
	Summary     *string `json:"summary"`
}
