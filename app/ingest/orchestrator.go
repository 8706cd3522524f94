package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"newsdigest/app/database"
	"newsdigest/app/newsapi"
)

type HeadlineSource interface {
	TopHeadlines(ctx context.Context, params newsapi.Params) (*newsapi.HeadlinesResponse, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, bool)
}

// CategoryError records one category-level failure for the report.
type CategoryError struct {
	Category string `json:"category"`
	Error    string `json:"error"`
}

// Report is the aggregated outcome of one ingestion run.
type Report struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Details []CategoryError `json:"details,omitempty"`
}

// Orchestrator drives one full ingestion pass: fetch headlines per category,
// summarize and normalize articles concurrently, upsert the batch. It holds
// no state across runs; a crashed run simply re-ingests everything next time,
// which the upsert-by-URL key makes safe.
type Orchestrator struct {
	source     HeadlineSource
	summarizer Summarizer
	store      database.ArticleRepository
	sources    *SourcesConfig
	workers    int
}

func NewOrchestrator(source HeadlineSource, summarizer Summarizer,
	store database.ArticleRepository, sources *SourcesConfig, workers int) *Orchestrator {
	if workers <= 0 {
		workers = 1
	}
	return &Orchestrator{
		source:     source,
		summarizer: summarizer,
		store:      store,
		sources:    sources,
		workers:    workers,
	}
}

// Run processes every configured category. Failures are contained at
// category granularity: one bad category never aborts the run.
func (o *Orchestrator) Run(ctx context.Context) Report {
	started := time.Now()
	processed := 0
	var details []CategoryError

	for _, category := range o.sources.Categories {
		resp, err := o.source.TopHeadlines(ctx, newsapi.Params{
			Country:  o.sources.Country,
			Category: category,
			PageSize: o.sources.PageSize,
		})
		if err != nil {
			slog.Error("Headlines fetch failed", "category", category, "error", err)
			details = append(details, CategoryError{Category: category, Error: err.Error()})
			continue
		}

		if len(resp.Articles) == 0 {
			slog.Info("No articles returned", "category", category, "total_results", resp.TotalResults)
			continue
		}

		batch, dropped, withoutSummary := o.enrichArticles(ctx, category, resp.Articles)

		if len(batch) == 0 {
			slog.Info("No valid records after normalization", "category", category, "dropped", dropped)
			continue
		}

		if err := o.store.UpsertArticles(ctx, batch); err != nil {
			slog.Error("Article upsert failed", "category", category, "error", err)
			details = append(details, CategoryError{Category: category, Error: err.Error()})
			continue
		}

		processed++
		slog.Info("Category processed",
			"category", category,
			"fetched", len(resp.Articles),
			"upserted", len(batch),
			"dropped", dropped,
			"without_summary", withoutSummary)
	}

	report := Report{
		Success: len(details) == 0,
		Message: fmt.Sprintf("Processed %d/%d categories.", processed, len(o.sources.Categories)),
		Details: details,
	}

	slog.Info("Ingestion run finished",
		"duration", time.Since(started),
		"processed", processed,
		"categories", len(o.sources.Categories),
		"errors", len(details))

	return report
}

// enrichArticles fans the category's articles out to the summarizer with a
// bounded number of in-flight calls, then normalizes each result. One
// article's summarization outcome never affects another's.
func (o *Orchestrator) enrichArticles(ctx context.Context, category string, articles []newsapi.Article) ([]database.Article, int, int) {
	results := make([]*database.Article, len(articles))

	var wg sync.WaitGroup
	sem := make(chan struct{}, o.workers)

	for i, raw := range articles {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, raw newsapi.Article) {
			defer wg.Done()
			defer func() { <-sem }()

			var summary *string
			if input := SummaryInput(raw); input != "" {
				if text, ok := o.summarizer.Summarize(ctx, input); ok {
					summary = &text
				}
			}

			results[i] = Normalize(raw, category, summary)
		}(i, raw)
	}

	wg.Wait()

	batch := make([]database.Article, 0, len(articles))
	dropped := 0
	withoutSummary := 0
	for _, record := range results {
		if record == nil {
			dropped++
			continue
		}
		if record.Summary == nil {
			withoutSummary++
		}
		batch = append(batch, *record)
	}

	return batch, dropped, withoutSummary
}
