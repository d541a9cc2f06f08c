// Package apierrors provides shared error types for the GitHub DevOps client.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingToken is returned when no bearer token is provided.
	ErrMissingToken = errors.New("GitHub token is required")

	// ErrMissingRepository is returned when neither the call nor the client
	// supplies an owner or repository name.
	ErrMissingRepository = errors.New("owner and repository are required")

	// ErrUnauthorized is returned when the token is invalid or expired.
	ErrUnauthorized = errors.New("invalid or expired token")

	// ErrForbidden is returned when the token lacks permission for a resource.
	ErrForbidden = errors.New("access denied")

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrNotFound is returned when the addressed resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation is returned when the API rejects the request payload.
	ErrValidation = errors.New("validation failed")

	// ErrTimeout is returned when a single attempt exceeds its deadline.
	ErrTimeout = errors.New("request timed out")
)

// StatusTimeout is the synthetic status carried by an APIError produced by
// a per-attempt deadline.
const StatusTimeout = http.StatusRequestTimeout

// APIError represents a terminal HTTP failure from the GitHub API.
type APIError struct {
	StatusCode int
	Path       string
	Body       string
	Message    string

	// RateLimitRemaining is the raw X-RateLimit-Remaining header, empty
	// when the response carried none.
	RateLimitRemaining string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Path != "" {
		return fmt.Sprintf("GitHub API error %d at %s: %s", e.StatusCode, e.Path, msg)
	}
	return fmt.Sprintf("GitHub API error %d: %s", e.StatusCode, msg)
}

// QuotaExhausted reports whether the response signalled a depleted primary
// rate limit.
func (e *APIError) QuotaExhausted() bool {
	return e.RateLimitRemaining == "0"
}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return target == ErrUnauthorized
	case http.StatusForbidden:
		if e.QuotaExhausted() {
			return target == ErrRateLimited
		}
		return target == ErrForbidden
	case http.StatusNotFound:
		return target == ErrNotFound
	case http.StatusUnprocessableEntity:
		return target == ErrValidation
	case http.StatusTooManyRequests:
		return target == ErrRateLimited
	case StatusTimeout:
		return target == ErrTimeout
	}
	return false
}

// NetworkError represents a transport failure that outlived every retry.
type NetworkError struct {
	Err     error
	URL     string
	Attempt int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DecodeError indicates a successful response whose body was not JSON.
type DecodeError struct {
	StatusCode int
	Path       string
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response %d at %s: %v", e.StatusCode, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
