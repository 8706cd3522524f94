package newsapi

import "fmt"

// ConfigError indicates the client cannot make any request because a required
// credential is missing. It is never retried.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("newsapi configuration error: %s", e.Reason)
}

// ProviderError is a network or provider-side failure. StatusCode is 0 for
// transport-level errors, otherwise the HTTP status returned by the provider
// (401 auth failure, 429 rate limit, 400 bad request).
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("newsapi request failed: %s", e.Message)
	}
	return fmt.Sprintf("newsapi request failed with status %d: %s", e.StatusCode, e.Message)
}
