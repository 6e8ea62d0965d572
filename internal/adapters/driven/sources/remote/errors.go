package remote

import (
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/healthrag/internal/core/domain"
)

// APIError represents a non-2xx response from a remote service.
// It unwraps to domain.ErrSourceNetwork.
type APIError struct {
	Service    string
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: API error %d: %s (URL: %s)", e.Service, e.StatusCode, e.Message, e.URL)
}

// Unwrap lets errors.Is match domain.ErrSourceNetwork.
func (e *APIError) Unwrap() error {
	return domain.ErrSourceNetwork
}

// RateLimitError is returned for HTTP 429 responses.
// It unwraps to domain.ErrRateLimited.
type RateLimitError struct {
	Service    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s: rate limit exceeded, retry after %s", e.Service, e.RetryAfter)
	}
	return fmt.Sprintf("%s: rate limit exceeded", e.Service)
}

// Unwrap lets errors.Is match domain.ErrRateLimited.
func (e *RateLimitError) Unwrap() error {
	return domain.ErrRateLimited
}

// IsNotFound checks if the error is a 404 from the remote service.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}
