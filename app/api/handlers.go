package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"newsdigest/app/cache"
	"newsdigest/app/database"
	"newsdigest/app/newsapi"
)

const newsCacheTTL = 10 * time.Minute

// UpdateNews triggers a full ingestion run. It is gated by a shared-secret
// query parameter: a missing server-side secret is a configuration error
// (500), a mismatch is 401. A run that completed with per-category errors
// maps to 500 with the error list; it never exposes raw provider bodies.
func (h *Handler) UpdateNews(c *gin.Context) {
	if h.adminSecret == "" {
		slog.Warn("Admin secret token is not configured")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Configuration error: Admin secret not set.",
		})
		return
	}

	if c.Query("secret") != h.adminSecret {
		slog.Warn("Unauthorized ingestion trigger attempt", "client_ip", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	slog.Info("Admin secret verified, starting ingestion run")

	report := h.runner.Run(c.Request.Context())

	if report.Success {
		c.JSON(http.StatusOK, gin.H{"message": report.Message})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"message": report.Message,
		"details": report.Details,
	})
}

// GetNews is a thin pass-through to the headlines provider. Responses are
// cached for ten minutes per unique query.
func (h *Handler) GetNews(c *gin.Context) {
	params := newsapi.Params{
		Country:  c.Query("country"),
		Category: c.Query("category"),
		Query:    c.Query("q"),
		PageSize: intQuery(c, "pageSize"),
		Page:     intQuery(c, "page"),
	}

	cacheKey := cache.Key(c.Request.URL.Query().Encode())
	if cached, ok := h.cache.Get(c.Request.Context(), cacheKey); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
		return
	}

	headlines, err := h.newsClient.TopHeadlines(c.Request.Context(), params)
	if err != nil {
		status, message := mapProviderError(err)
		slog.Error("Headlines pass-through failed", "status", status, "error", err)
		c.JSON(status, gin.H{"message": message})
		return
	}

	payload, err := json.Marshal(headlines)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to encode headlines response."})
		return
	}

	h.cache.Set(c.Request.Context(), cacheKey, string(payload), newsCacheTTL)
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// GetArticles returns stored records, most recent first, optionally filtered
// by category.
func (h *Handler) GetArticles(c *gin.Context) {
	limit := intQuery(c, "limit")
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	articles, err := h.articleRepo.GetRecentArticles(c.Request.Context(), c.Query("category"), limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_recent_articles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load articles."})
		return
	}

	response := make([]articleResponse, 0, len(articles))
	for _, a := range articles {
		response = append(response, toArticleResponse(a))
	}

	c.JSON(http.StatusOK, gin.H{"articles": response, "count": len(response)})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if count, err := h.articleRepo.GetArticleCount(c.Request.Context()); err == nil {
		health["articles"] = count
	}

	c.JSON(http.StatusOK, health)
}

// mapProviderError converts client error variants to an external status and
// a normalized message. Auth failures stay 500: a bad server credential is
// not the caller's fault, and the detail stays out of the response.
func mapProviderError(err error) (int, string) {
	var configErr *newsapi.ConfigError
	if errors.As(err, &configErr) {
		return http.StatusInternalServerError, "NewsAPI configuration error on server."
	}

	var providerErr *newsapi.ProviderError
	if errors.As(err, &providerErr) {
		switch providerErr.StatusCode {
		case http.StatusUnauthorized:
			return http.StatusInternalServerError, "NewsAPI authentication failed. Check server configuration."
		case http.StatusTooManyRequests:
			return http.StatusTooManyRequests, "NewsAPI rate limit exceeded."
		case http.StatusBadRequest:
			return http.StatusBadRequest, "Invalid request parameters: " + providerErr.Message
		}
	}

	return http.StatusInternalServerError, "Failed to fetch news headlines."
}

func toArticleResponse(a database.Article) articleResponse {
	return articleResponse{
		URL:         a.URL,
		Title:       a.Title,
		PublishedAt: a.PublishedAt.UTC().Format(time.RFC3339),
		Category:    a.Category,
		SourceID:    a.SourceID,
		SourceName:  a.SourceName,
		Author:      a.Author,
		Description: a.Description,
		URLToImage:  a.URLToImage,
		Content:     a.Content,
		Summary:     a.Summary,
	}
}

func intQuery(c *gin.Context, key string) int {
	value := c.Query(key)
	if value == "" {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}
