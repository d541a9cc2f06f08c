package api

import (
	"context"
	"net/http"
	"strconv"
	"time"
)

// RetryPolicy holds the fixed timing rules of the retry loop.
type RetryPolicy struct {
	// MaxRetries is the total number of attempts, including the first.
	MaxRetries int
	// BaseDelay is the network-failure backoff for attempt 0; it doubles
	// with each later attempt.
	BaseDelay time.Duration
	// MaxRateLimitWait caps the sleep until a primary rate limit resets.
	MaxRateLimitWait time.Duration
	// RateLimitMargin is added to the reset wait before the cap applies.
	RateLimitMargin time.Duration
	// DefaultRetryAfter is used for a 429 without a usable Retry-After.
	DefaultRetryAfter time.Duration
}

// DefaultRetryPolicy returns the policy every production client uses.
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxRetries:        DefaultMaxRetries,
		BaseDelay:         time.Second,
		MaxRateLimitWait:  60 * time.Second,
		RateLimitMargin:   time.Second,
		DefaultRetryAfter: 5 * time.Second,
	}
}

// CanRetry reports whether another attempt may follow attempt.
func (p *RetryPolicy) CanRetry(attempt int) bool {
	return attempt < p.MaxRetries-1
}

// NetworkDelay returns BaseDelay * 2^attempt.
func (p *RetryPolicy) NetworkDelay(attempt int) time.Duration {
	return p.BaseDelay << attempt
}

// RateLimitDelay returns the wait until X-RateLimit-Reset plus the margin,
// capped at MaxRateLimitWait. A missing or malformed reset counts as the
// epoch, which leaves only the margin.
func (p *RetryPolicy) RateLimitDelay(header http.Header, now time.Time) time.Duration {
	reset, err := strconv.ParseInt(header.Get(headerRateLimitReset), 10, 64)
	if err != nil {
		reset = 0
	}

	wait := time.Unix(reset, 0).Sub(now)
	if wait < 0 {
		wait = 0
	}
	wait += p.RateLimitMargin
	if wait > p.MaxRateLimitWait {
		wait = p.MaxRateLimitWait
	}
	return wait
}

// RetryAfterDelay returns the Retry-After seconds of a 429 response, or
// DefaultRetryAfter when the header is absent or not an integer.
func (p *RetryPolicy) RetryAfterDelay(header http.Header) time.Duration {
	seconds, err := strconv.Atoi(header.Get(headerRetryAfter))
	if err != nil {
		return p.DefaultRetryAfter
	}
	if seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// Wait blocks for d or until ctx is done.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type outcomeKind int

const (
	outcomeDone outcomeKind = iota
	outcomeRetry
	outcomeFail
)

// outcome is the classification of a single attempt. The retry loop only
// switches on kind.
type outcome struct {
	kind     outcomeKind
	response *Response
	reason   RetryReason
	wait     time.Duration
	err      error
}

func done(resp *Response) outcome { return outcome{kind: outcomeDone, response: resp} }

func fail(err error) outcome { return outcome{kind: outcomeFail, err: err} }

func retry(reason RetryReason, wait time.Duration, cause error) outcome {
	return outcome{kind: outcomeRetry, reason: reason, wait: wait, err: cause}
}
