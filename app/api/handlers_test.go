package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"newsdigest/app/database"
	"newsdigest/app/ingest"
	"newsdigest/app/newsapi"
)

type fakeRunner struct {
	report ingest.Report
	called bool
}

func (f *fakeRunner) Run(context.Context) ingest.Report {
	f.called = true
	return f.report
}

type fakeNewsClient struct {
	resp *newsapi.HeadlinesResponse
	err  error
}

func (f *fakeNewsClient) TopHeadlines(context.Context, newsapi.Params) (*newsapi.HeadlinesResponse, error) {
	return f.resp, f.err
}

type fakeArticleRepo struct {
	articles []database.Article
	count    int
}

func (f *fakeArticleRepo) UpsertArticles(context.Context, []database.Article) error {
	return nil
}

func (f *fakeArticleRepo) GetRecentArticles(context.Context, string, int) ([]database.Article, error) {
	return f.articles, nil
}

func (f *fakeArticleRepo) GetArticleCount(context.Context) (int, error) {
	return f.count, nil
}

func testServer(runner IngestionRunner, client ingest.HeadlineSource, repo database.ArticleRepository, secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(runner, client, repo, nil, secret)
	return NewServer(handler, "test")
}

func doRequest(t *testing.T, server *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)
	return recorder
}

func TestUpdateNews_SecretNotConfigured(t *testing.T) {
	runner := &fakeRunner{}
	server := testServer(runner, &fakeNewsClient{}, &fakeArticleRepo{}, "")

	recorder := doRequest(t, server, "/api/admin/update-news?secret=anything")

	if recorder.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500 for unconfigured secret, got %d", recorder.Code)
	}
	if runner.called {
		t.Error("Expected ingestion not to run without a configured secret")
	}
}

func TestUpdateNews_WrongSecret(t *testing.T) {
	runner := &fakeRunner{}
	server := testServer(runner, &fakeNewsClient{}, &fakeArticleRepo{}, "right")

	recorder := doRequest(t, server, "/api/admin/update-news?secret=wrong")

	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for wrong secret, got %d", recorder.Code)
	}
	if runner.called {
		t.Error("Expected ingestion not to run with a wrong secret")
	}
}

func TestUpdateNews_Success(t *testing.T) {
	runner := &fakeRunner{report: ingest.Report{
		Success: true,
		Message: "Processed 4/4 categories.",
	}}
	server := testServer(runner, &fakeNewsClient{}, &fakeArticleRepo{}, "s3cret")

	recorder := doRequest(t, server, "/api/admin/update-news?secret=s3cret")

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse body: %v", err)
	}
	if body["message"] != "Processed 4/4 categories." {
		t.Errorf("Unexpected message: %v", body["message"])
	}
	if _, hasDetails := body["details"]; hasDetails {
		t.Error("Expected no details on success")
	}
}

func TestUpdateNews_PartialFailure(t *testing.T) {
	runner := &fakeRunner{report: ingest.Report{
		Success: false,
		Message: "Processed 1/2 categories.",
		Details: []ingest.CategoryError{{Category: "business", Error: "connection refused"}},
	}}
	server := testServer(runner, &fakeNewsClient{}, &fakeArticleRepo{}, "s3cret")

	recorder := doRequest(t, server, "/api/admin/update-news?secret=s3cret")

	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500 for partial failure, got %d", recorder.Code)
	}

	var body struct {
		Message string                 `json:"message"`
		Details []ingest.CategoryError `json:"details"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse body: %v", err)
	}
	if body.Message != "Processed 1/2 categories." {
		t.Errorf("Unexpected message: %q", body.Message)
	}
	if len(body.Details) != 1 || body.Details[0].Category != "business" {
		t.Errorf("Expected business failure detail, got %v", body.Details)
	}
}

func TestGetNews_PassThrough(t *testing.T) {
	client := &fakeNewsClient{resp: &newsapi.HeadlinesResponse{
		Status:       "ok",
		TotalResults: 1,
		Articles: []newsapi.Article{
			{Title: "Title", URL: "https://example.com/a", PublishedAt: "2024-01-01T00:00:00Z"},
		},
	}}
	server := testServer(&fakeRunner{}, client, &fakeArticleRepo{}, "")

	recorder := doRequest(t, server, "/api/news?category=technology&pageSize=10")

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}

	var body newsapi.HeadlinesResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse body: %v", err)
	}
	if body.TotalResults != 1 || len(body.Articles) != 1 {
		t.Errorf("Expected relayed provider payload, got %+v", body)
	}
}

func TestGetNews_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"config error", &newsapi.ConfigError{Reason: "no key"}, http.StatusInternalServerError},
		{"auth failure", &newsapi.ProviderError{StatusCode: 401, Message: "bad key"}, http.StatusInternalServerError},
		{"rate limit", &newsapi.ProviderError{StatusCode: 429, Message: "slow down"}, http.StatusTooManyRequests},
		{"bad request", &newsapi.ProviderError{StatusCode: 400, Message: "bad params"}, http.StatusBadRequest},
		{"transport", &newsapi.ProviderError{Message: "connection refused"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := testServer(&fakeRunner{}, &fakeNewsClient{err: tt.err}, &fakeArticleRepo{}, "")
			recorder := doRequest(t, server, "/api/news?category=technology")

			if recorder.Code != tt.wantStatus {
				t.Errorf("Expected %d, got %d", tt.wantStatus, recorder.Code)
			}

			var body map[string]interface{}
			if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
				t.Fatalf("Failed to parse body: %v", err)
			}
			message, _ := body["message"].(string)
			if message == "" {
				t.Error("Expected a normalized message")
			}
			// Raw provider bodies must never leak on auth failures.
			if tt.name == "auth failure" && message != "NewsAPI authentication failed. Check server configuration." {
				t.Errorf("Unexpected auth failure message: %q", message)
			}
		})
	}
}

func TestGetArticles(t *testing.T) {
	summary := "stored summary"
	repo := &fakeArticleRepo{articles: []database.Article{
		{
			URL:         "https://example.com/a",
			Title:       "Title",
			PublishedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Category:    "technology",
			Summary:     &summary,
		},
		{
			URL:         "https://example.com/b",
			Title:       "No Summary",
			PublishedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			Category:    "technology",
		},
	}}
	server := testServer(&fakeRunner{}, &fakeNewsClient{}, repo, "")

	recorder := doRequest(t, server, "/api/articles?category=technology")

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}

	var body struct {
		Articles []articleResponse `json:"articles"`
		Count    int               `json:"count"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse body: %v", err)
	}
	if body.Count != 2 {
		t.Fatalf("Expected 2 articles, got %d", body.Count)
	}
	if body.Articles[0].Summary == nil || *body.Articles[0].Summary != "stored summary" {
		t.Error("Expected summary on first article")
	}
	if body.Articles[1].Summary != nil {
		t.Error("Expected null summary exposed as-is on second article")
	}
	if body.Articles[0].PublishedAt != "2024-01-01T00:00:00Z" {
		t.Errorf("Expected RFC3339 published_at, got %q", body.Articles[0].PublishedAt)
	}
}

func TestGetHealth(t *testing.T) {
	server := testServer(&fakeRunner{}, &fakeNewsClient{}, &fakeArticleRepo{count: 42}, "")

	recorder := doRequest(t, server, "/health")

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse body: %v", err)
	}
	if body["articles"] != float64(42) {
		t.Errorf("Expected article count 42, got %v", body["articles"])
	}
	if body["timestamp"] == "" {
		t.Error("Expected timestamp in health response")
	}
}
