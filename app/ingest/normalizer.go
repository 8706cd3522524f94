package ingest

import (
	"time"

	"newsdigest/app/database"
	"newsdigest/app/newsapi"
)

// SummaryInput selects the text a summary is generated from: full content
// first, then description, then title. An article with none of these is not
// summarized.
func SummaryInput(raw newsapi.Article) string {
	if raw.Content != "" {
		return raw.Content
	}
	if raw.Description != "" {
		return raw.Description
	}
	return raw.Title
}

// Normalize maps a raw provider article into a canonical storage record.
// Records missing url, title, or a parseable publishedAt are dropped by
// returning nil: a data-quality rejection, not an error. The category comes
// from the fetch context, never from the article itself.
func Normalize(raw newsapi.Article, category string, summary *string) *database.Article {
	if raw.URL == "" || raw.Title == "" || raw.PublishedAt == "" {
		return nil
	}

	publishedAt, err := time.Parse(time.RFC3339, raw.PublishedAt)
	if err != nil {
		return nil
	}

	return &database.Article{
		URL:         raw.URL,
		Title:       raw.Title,
		PublishedAt: publishedAt,
		Category:    category,
		SourceID:    optional(raw.Source.ID),
		SourceName:  optional(raw.Source.Name),
		Author:      optional(raw.Author),
		Description: optional(raw.Description),
		URLToImage:  optional(raw.URLToImage),
		Content:     optional(raw.Content),
		Summary:     summary,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
