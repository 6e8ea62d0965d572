package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Answers cannot be synthesised without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// Knowledge Source Errors.

	// ErrSourceUnavailable indicates a knowledge source cannot be used at all,
	// for example a missing local corpus or an open circuit breaker.
	ErrSourceUnavailable = errors.New("knowledge source unavailable")

	// ErrSourceTimeout indicates a knowledge source did not answer within its deadline.
	ErrSourceTimeout = errors.New("knowledge source timed out")

	// ErrSourceNetwork indicates a transport or remote service failure.
	ErrSourceNetwork = errors.New("knowledge source network error")

	// ErrRateLimited indicates a remote API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Synthesis Errors.

	// ErrSynthesisUnavailable indicates the final answer could not be produced.
	// This is the only orchestration failure surfaced to callers.
	ErrSynthesisUnavailable = errors.New("answer synthesis unavailable")
)
