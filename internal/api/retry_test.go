package api

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRetryPolicy(t *testing.T) {
	p := DefaultRetryPolicy()

	assert.Equal(t, 3, p.MaxRetries)
	assert.Equal(t, time.Second, p.BaseDelay)
	assert.Equal(t, 60*time.Second, p.MaxRateLimitWait)
	assert.Equal(t, time.Second, p.RateLimitMargin)
	assert.Equal(t, 5*time.Second, p.DefaultRetryAfter)
}

func TestRetryPolicy_CanRetry(t *testing.T) {
	p := DefaultRetryPolicy()

	tests := []struct {
		attempt  int
		expected bool
	}{
		{0, true},
		{1, true},
		{2, false},
		{3, false},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.attempt), func(t *testing.T) {
			assert.Equal(t, tt.expected, p.CanRetry(tt.attempt))
		})
	}
}

func TestRetryPolicy_NetworkDelay(t *testing.T) {
	p := DefaultRetryPolicy()

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, time.Second},     // 2^0
		{1, 2 * time.Second}, // 2^1
		{2, 4 * time.Second}, // 2^2
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.attempt), func(t *testing.T) {
			assert.Equal(t, tt.expected, p.NetworkDelay(tt.attempt))
		})
	}
}

func TestRetryPolicy_RateLimitDelay(t *testing.T) {
	p := DefaultRetryPolicy()
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name     string
		reset    string
		expected time.Duration
	}{
		{"reset in two seconds", strconv.FormatInt(now.Unix()+2, 10), 3 * time.Second},
		{"reset already passed", strconv.FormatInt(now.Unix()-30, 10), time.Second},
		{"reset far in the future", strconv.FormatInt(now.Unix()+3600, 10), 60 * time.Second},
		{"reset just under the cap", strconv.FormatInt(now.Unix()+59, 10), 60 * time.Second},
		{"missing header", "", time.Second},
		{"malformed header", "tomorrow", time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := make(http.Header)
			if tt.reset != "" {
				h.Set("X-RateLimit-Reset", tt.reset)
			}
			assert.Equal(t, tt.expected, p.RateLimitDelay(h, now))
		})
	}
}

func TestRetryPolicy_RateLimitDelay_SubSecondNow(t *testing.T) {
	p := DefaultRetryPolicy()
	now := time.Unix(1_700_000_000, int64(250*time.Millisecond))

	h := make(http.Header)
	h.Set("X-RateLimit-Reset", strconv.FormatInt(1_700_000_002, 10))

	assert.Equal(t, 2750*time.Millisecond, p.RateLimitDelay(h, now))
}

func TestRetryPolicy_RetryAfterDelay(t *testing.T) {
	p := DefaultRetryPolicy()

	tests := []struct {
		name     string
		value    string
		expected time.Duration
	}{
		{"seconds", "2", 2 * time.Second},
		{"zero", "0", 0},
		{"negative", "-4", 0},
		{"missing", "", 5 * time.Second},
		{"http date", "Wed, 21 Oct 2015 07:28:00 GMT", 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := make(http.Header)
			if tt.value != "" {
				h.Set("Retry-After", tt.value)
			}
			assert.Equal(t, tt.expected, p.RetryAfterDelay(h))
		})
	}
}

func TestWait_Completes(t *testing.T) {
	start := time.Now()
	err := Wait(context.Background(), 10*time.Millisecond)

	assert.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestWait_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Wait(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWait_NonPositiveDuration(t *testing.T) {
	assert.NoError(t, Wait(context.Background(), 0))
	assert.NoError(t, Wait(context.Background(), -time.Second))
}
