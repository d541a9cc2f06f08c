package api

import (
	"errors"
	"net/http"

	"github.com/gh-devops-mcp/client-go/internal/apierrors"
)

// errRetriesExhausted is returned if the loop ends without a terminal
// outcome. The classification in attempt makes this unreachable for any
// policy with MaxRetries >= 1.
var errRetriesExhausted = errors.New("request failed after retries")

func newAPIError(resp *http.Response, endpoint string, body []byte) *apierrors.APIError {
	return &apierrors.APIError{
		StatusCode:         resp.StatusCode,
		Path:               endpoint,
		Body:               string(body),
		Message:            http.StatusText(resp.StatusCode),
		RateLimitRemaining: resp.Header.Get(headerRateLimitRemaining),
	}
}

func newTimeoutError(endpoint string) *apierrors.APIError {
	return &apierrors.APIError{
		StatusCode: apierrors.StatusTimeout,
		Path:       endpoint,
		Message:    "request timed out",
	}
}
