// Package remote provides the HTTP client used by network knowledge sources.
// Every request passes a token-bucket limiter and a per-service circuit breaker.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/healthrag/internal/core/domain"
	"github.com/custodia-labs/healthrag/internal/logger"
)

// Defaults applied by New.
const (
	DefaultRatePerSecond = 3.0
	DefaultUserAgent     = "healthrag/1.0"
	maxBodyBytes         = 16 << 20
	maxErrorMessage      = 256
)

// BreakerConfig tunes the circuit breaker.
type BreakerConfig struct {
	// MaxRequests allowed through while half-open.
	MaxRequests uint32

	// Interval after which closed-state counts reset.
	Interval time.Duration

	// Timeout an open breaker waits before going half-open.
	Timeout time.Duration

	// MinRequests before the failure ratio is evaluated.
	MinRequests uint32

	// FailureThreshold is the failure ratio that trips the breaker.
	FailureThreshold float64
}

// DefaultBreakerConfig returns the breaker settings used for every source.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		MinRequests:      5,
		FailureThreshold: 0.6,
	}
}

// Config configures a Client.
type Config struct {
	// Service names the remote in errors, logs and the breaker.
	Service string

	// BaseURL is prefixed to every request path.
	BaseURL string

	// RatePerSecond is the token bucket refill rate (default: 3, the NCBI anonymous limit).
	RatePerSecond float64

	// UserAgent is sent with every request.
	UserAgent string

	// Breaker tunes the circuit breaker (default: DefaultBreakerConfig).
	Breaker *BreakerConfig

	// HTTPClient overrides the transport. Deadlines come from the request context.
	HTTPClient *http.Client
}

// Client is a rate-limited, circuit-broken HTTP client for one remote service.
// It is safe for concurrent use and is built once per process.
type Client struct {
	service   string
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	breaker   *gobreaker.CircuitBreaker
}

// New creates a client for one remote service.
func New(cfg Config) *Client {
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = DefaultRatePerSecond
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	bc := DefaultBreakerConfig()
	if cfg.Breaker != nil {
		bc = *cfg.Breaker
	}

	return &Client{
		service:   cfg.Service,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http:      cfg.HTTPClient,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1),
		breaker:   newBreaker(cfg.Service, bc),
	}
}

func newBreaker(name string, cfg BreakerConfig) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker %q: %s -> %s", name, from, to)
		},
		IsSuccessful: countsAsSuccess,
	})
}

// countsAsSuccess keeps caller cancellations and client errors out of the
// breaker's failure count. Only transport failures, timeouts, 429 and 5xx count.
func countsAsSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode < 500
	}
	return false
}

// Get fetches path with query parameters and returns the response body.
//
// Errors wrap context errors unchanged, domain.ErrSourceUnavailable for an open
// breaker, domain.ErrRateLimited for 429 and domain.ErrSourceNetwork otherwise.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: %w", c.service, ctxErr)
		}
		// The limiter refuses up front when the wait would outlive the deadline.
		return nil, fmt.Errorf("%s: %w: %w", c.service, domain.ErrSourceTimeout, err)
	}

	result, err := c.breaker.Execute(func() (any, error) {
		return c.do(ctx, path, query)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%s: %w: %w", c.service, domain.ErrSourceUnavailable, err)
		}
		if IsRateLimited(err) {
			logger.Warn("%v", err)
		}
		return nil, err
	}
	return result.([]byte), nil
}

func (c *Client) do(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", c.service, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: %w", c.service, ctxErr)
		}
		return nil, fmt.Errorf("%s: %w: %w", c.service, domain.ErrSourceNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: %w", c.service, ctxErr)
		}
		return nil, fmt.Errorf("%s: %w: read body: %w", c.service, domain.ErrSourceNetwork, err)
	}
	logger.Debug("%s: GET %s -> %d (%s)", c.service, path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &RateLimitError{Service: c.service, RetryAfter: retryAfter(resp.Header)}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &APIError{
			Service:    c.service,
			StatusCode: resp.StatusCode,
			Message:    truncate(strings.TrimSpace(string(body)), maxErrorMessage),
			URL:        c.baseURL + path,
		}
	}
	return body, nil
}

func retryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(v); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		return time.Until(at)
	}
	return 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
