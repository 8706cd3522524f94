package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client fetches top headlines from a NewsAPI-compatible provider.
// It holds no state beyond its configuration and is safe for concurrent use.
type Client struct {
	apiKey     string
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

func NewClient(apiKey, baseURL, userAgent string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// TopHeadlines requests one page of headlines. A missing credential yields a
// ConfigError before any request is made; transport and provider failures
// yield a ProviderError. An OK response without an articles array is returned
// with an empty slice, not an error.
func (c *Client) TopHeadlines(ctx context.Context, params Params) (*HeadlinesResponse, error) {
	if c.apiKey == "" {
		return nil, &ConfigError{Reason: "NEWS_API_KEY is not set"}
	}

	reqURL := c.baseURL + "/top-headlines?" + encodeParams(params)

	timeoutCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &ProviderError{Message: err.Error()}
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ProviderError{Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Message: providerMessage(body, resp.Status)}
	}

	var headlines HeadlinesResponse
	if err := json.Unmarshal(body, &headlines); err != nil {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("invalid response body: %s", err)}
	}

	if headlines.Articles == nil {
		headlines.Articles = []Article{}
	}

	return &headlines, nil
}

func encodeParams(params Params) string {
	values := url.Values{}
	if params.Country != "" {
		values.Set("country", params.Country)
	}
	if params.Category != "" {
		values.Set("category", params.Category)
	}
	if params.Query != "" {
		values.Set("q", params.Query)
	}
	if params.PageSize > 0 {
		values.Set("pageSize", strconv.Itoa(params.PageSize))
	}
	if params.Page > 0 {
		values.Set("page", strconv.Itoa(params.Page))
	}
	return values.Encode()
}

// providerMessage extracts the provider's error message without ever exposing
// the raw body to external callers.
func providerMessage(body []byte, fallback string) string {
	var parsed struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	return fallback
}
