package ghdevops

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gh-devops-mcp/client-go/internal/apierrors"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingToken is returned when no bearer token is provided.
	ErrMissingToken = apierrors.ErrMissingToken

	// ErrMissingRepository is returned when neither the call nor the client
	// names an owner and repository.
	ErrMissingRepository = apierrors.ErrMissingRepository

	// ErrUnauthorized matches 401 responses.
	ErrUnauthorized = apierrors.ErrUnauthorized

	// ErrForbidden matches 403 responses that still had rate-limit quota.
	ErrForbidden = apierrors.ErrForbidden

	// ErrRateLimited matches 429 responses and 403 responses with an
	// exhausted quota, once retries are used up.
	ErrRateLimited = apierrors.ErrRateLimited

	// ErrNotFound matches 404 responses.
	ErrNotFound = apierrors.ErrNotFound

	// ErrValidation matches 422 responses.
	ErrValidation = apierrors.ErrValidation

	// ErrTimeout matches the synthetic 408 produced by the per-attempt
	// deadline.
	ErrTimeout = apierrors.ErrTimeout
)

// APIError represents a terminal HTTP failure from the GitHub API.
type APIError = apierrors.APIError

// NetworkError represents a transport failure that outlived every retry.
// It unwraps to the original error.
type NetworkError = apierrors.NetworkError

// DecodeError indicates a 2xx response whose body was not valid JSON.
type DecodeError = apierrors.DecodeError

// Category groups errors the way the presentation layer reports them.
type Category int

const (
	CategoryNone Category = iota
	CategoryAuthentication
	CategoryForbidden
	CategoryRateLimited
	CategoryNotFound
	CategoryValidation
	CategoryTimeout
	CategoryNetwork
	CategoryDecode
	CategoryCanceled
	CategoryAPI
	CategoryUnknown
)

func (c Category) String() string {
	switch c {
	case CategoryNone:
		return "success"
	case CategoryAuthentication:
		return "unauthorized"
	case CategoryForbidden:
		return "forbidden"
	case CategoryRateLimited:
		return "rate_limited"
	case CategoryNotFound:
		return "not_found"
	case CategoryValidation:
		return "validation"
	case CategoryTimeout:
		return "timeout"
	case CategoryNetwork:
		return "network"
	case CategoryDecode:
		return "decode"
	case CategoryCanceled:
		return "canceled"
	case CategoryAPI:
		return "api_error"
	}
	return "unknown"
}

// Classify maps err onto a Category. A nil error is CategoryNone.
func Classify(err error) Category {
	if err == nil {
		return CategoryNone
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch {
		case errors.Is(apiErr, ErrUnauthorized):
			return CategoryAuthentication
		case errors.Is(apiErr, ErrForbidden):
			return CategoryForbidden
		case errors.Is(apiErr, ErrRateLimited):
			return CategoryRateLimited
		case errors.Is(apiErr, ErrNotFound):
			return CategoryNotFound
		case errors.Is(apiErr, ErrValidation):
			return CategoryValidation
		case errors.Is(apiErr, ErrTimeout):
			return CategoryTimeout
		}
		return CategoryAPI
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return CategoryNetwork
	}

	var decErr *DecodeError
	if errors.As(err, &decErr) {
		return CategoryDecode
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CategoryCanceled
	}
	return CategoryUnknown
}

// FormatError renders err as a single line of assistant-facing text for the
// named tool. It returns "" for a nil error.
func FormatError(err error, tool string) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return fmt.Sprintf("❌ Error in %s: %v", tool, err)
	}

	switch apiErr.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Sprintf("❌ Authentication failed for %s. Check your GITHUB_TOKEN is valid and not expired.", tool)
	case http.StatusForbidden:
		return fmt.Sprintf("❌ Access denied for %s. Your token may lack required permissions, or you've hit the rate limit.", tool)
	case http.StatusNotFound:
		return fmt.Sprintf("❌ Not found for %s. Check that the owner, repo, and resource ID are correct.", tool)
	case http.StatusUnprocessableEntity:
		return fmt.Sprintf("❌ Validation error for %s: %s", tool, apiErr.Body)
	}

	msg := apiErr.Message
	if msg == "" {
		msg = http.StatusText(apiErr.StatusCode)
	}
	return fmt.Sprintf("❌ GitHub API error (%d) for %s: %s", apiErr.StatusCode, tool, msg)
}
