package api

import (
	"net/http"
	"time"
)

// Params holds query parameters for a request. Values must be scalars or
// pointers to scalars; nil values and empty strings are dropped.
type Params map[string]any

// Request describes one logical API operation.
type Request struct {
	Method string
	// Path is either relative to the base URL ("/repos/o/r") or an
	// absolute http(s) URL used verbatim.
	Path    string
	Params  Params
	Body    any
	Headers map[string]string
	// Raw returns the body text verbatim instead of validating it as JSON.
	Raw bool
}

// Kind identifies which terminal outcome a Response carries.
type Kind int

const (
	// KindJSON carries a JSON document in Body.
	KindJSON Kind = iota
	// KindText carries undecoded response text in Body.
	KindText
	// KindEmpty is a 204 No Content response.
	KindEmpty
	// KindRedirect is a 302 response whose target is in Location.
	KindRedirect
)

func (k Kind) String() string {
	switch k {
	case KindJSON:
		return "json"
	case KindText:
		return "text"
	case KindEmpty:
		return "empty"
	case KindRedirect:
		return "redirect"
	}
	return "unknown"
}

// Response is the normalized result of a successful Request.
type Response struct {
	Kind       Kind
	StatusCode int
	Body       []byte
	Location   string
	Header     http.Header
	Attempts   int
}

// RetryReason labels why an attempt was retried.
type RetryReason string

const (
	// ReasonRateLimit is a 403 with an exhausted X-RateLimit-Remaining.
	ReasonRateLimit RetryReason = "rate_limit"
	// ReasonThrottled is a 429 Too Many Requests.
	ReasonThrottled RetryReason = "throttled"
	// ReasonNetwork is a transport failure before any response arrived.
	ReasonNetwork RetryReason = "network"
)

// Observer receives per-attempt notifications from the retry loop.
type Observer interface {
	// ObserveAttempt is called once per physical HTTP exchange. Status is
	// zero when no response was received.
	ObserveAttempt(method string, attempt, status int, elapsed time.Duration)
	// ObserveRetry is called before the loop sleeps for another attempt.
	ObserveRetry(method string, reason RetryReason, wait time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveAttempt(string, int, int, time.Duration)  {}
func (nopObserver) ObserveRetry(string, RetryReason, time.Duration) {}
