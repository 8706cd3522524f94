package summarizer

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
)

const (
	requestTimeout = 60 * time.Second

	// Inputs shorter than this still get summarized, but the result is
	// unlikely to be useful, so we log a warning.
	shortInputThreshold = 40
)

// Service generates article summaries via the Cohere chat API. A Service
// built without an API key is permanently disabled: every call reports
// "no summary available" instead of failing.
type Service struct {
	client *cohereclient.Client
	model  string
}

func New(apiKey, model string) *Service {
	if apiKey == "" {
		slog.Warn("Cohere API key not set, summarization disabled")
		return &Service{model: model}
	}

	// Force HTTP/1.1: the Cohere endpoint intermittently resets HTTP/2 streams.
	httpClient := &http.Client{
		Timeout: requestTimeout,
		Transport: &http.Transport{
			TLSNextProto:      make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
			ForceAttemptHTTP2: false,
		},
	}

	client := cohereclient.NewClient(
		cohereclient.WithToken(apiKey),
		cohereclient.WithHTTPClient(httpClient),
	)

	return &Service{client: client, model: model}
}

// Enabled reports whether the service holds a usable client.
func (s *Service) Enabled() bool {
	return s.client != nil
}

// Summarize returns a summary of text and true, or ("", false) when no
// summary is available. It never returns an error: a disabled service and a
// downstream failure look the same to the caller.
func (s *Service) Summarize(ctx context.Context, text string) (string, bool) {
	if s.client == nil {
		return "", false
	}
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	if len(text) < shortInputThreshold {
		slog.Warn("Summarization input is very short", "length", len(text))
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := s.client.Chat(timeoutCtx, &cohere.ChatRequest{
		Message: buildPrompt(text),
		Model:   &s.model,
	})
	if err != nil {
		slog.Warn("Summarization call failed", "model", s.model, "error", err)
		return "", false
	}

	summary := strings.TrimSpace(resp.Text)
	if summary == "" {
		slog.Warn("Summarization returned empty text", "model", s.model)
		return "", false
	}

	return summary, true
}

func buildPrompt(text string) string {
	return fmt.Sprintf(`Please summarize the following text concisely, capturing the main points:

---
%s
---

Summary:`, text)
}
