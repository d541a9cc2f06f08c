package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/gh-devops-mcp/client-go/internal/apierrors"
)

// Defaults for the fixed connection profile.
const (
	DefaultBaseURL    = "https://api.github.com"
	DefaultMediaType  = "application/vnd.github+json"
	DefaultAPIVersion = "2022-11-28"
	DefaultUserAgent  = "gh-devops-mcp/1.0.0"
	DefaultMaxRetries = 3
	DefaultTimeout    = 30 * time.Second
)

// Config holds configuration for creating an API Client.
type Config struct {
	// BaseURL defaults to DefaultBaseURL. Trailing slashes are removed.
	BaseURL string
	// Token is the bearer token. Required.
	Token string

	// HTTPClient is copied and its redirect policy replaced so that
	// redirects are returned, never followed.
	HTTPClient *http.Client

	MediaType  string
	APIVersion string
	UserAgent  string

	// Retry and Timeout are fixed in production; tests shrink them.
	Retry   *RetryPolicy
	Timeout time.Duration

	// Limiter, when set, is waited on before every attempt.
	Limiter  *rate.Limiter
	Logger   *slog.Logger
	Observer Observer
}

// Client executes GitHub REST requests with bounded retries, rate-limit
// backoff, a per-attempt deadline and structured errors. It holds no
// mutable state after construction and is safe for concurrent use.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client

	mediaType  string
	apiVersion string
	userAgent  string

	retry   *RetryPolicy
	timeout time.Duration

	limiter  *rate.Limiter
	logger   *slog.Logger
	observer Observer

	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// New creates a new API client.
func New(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, apierrors.ErrMissingToken
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:    baseURL,
		token:      cfg.Token,
		httpClient: noRedirectClient(cfg.HTTPClient),
		mediaType:  valueOr(cfg.MediaType, DefaultMediaType),
		apiVersion: valueOr(cfg.APIVersion, DefaultAPIVersion),
		userAgent:  valueOr(cfg.UserAgent, DefaultUserAgent),
		retry:      cfg.Retry,
		timeout:    cfg.Timeout,
		limiter:    cfg.Limiter,
		logger:     cfg.Logger,
		observer:   cfg.Observer,
		now:        time.Now,
		sleep:      Wait,
	}
	if c.retry == nil {
		c.retry = DefaultRetryPolicy()
	}
	if c.retry.MaxRetries < 1 {
		return nil, fmt.Errorf("retry policy needs at least one attempt, got %d", c.retry.MaxRetries)
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if c.observer == nil {
		c.observer = nopObserver{}
	}
	return c, nil
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func noRedirectClient(base *http.Client) *http.Client {
	var c http.Client
	if base != nil {
		c = *base
	}
	c.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &c
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// call is a Request with its URL, headers and payload resolved once,
// shared by every attempt.
type call struct {
	method   string
	url      string
	endpoint string
	header   http.Header
	payload  []byte
	raw      bool
}

// Do executes req, retrying transient failures, and returns exactly one of
// a Response or an error.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	u, err := c.resolveURL(req.Path, req.Params)
	if err != nil {
		return nil, err
	}

	withBody := hasBody(req.Body)

	var payload []byte
	if withBody {
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
	}

	cl := &call{
		method:   strings.ToUpper(req.Method),
		url:      u.String(),
		endpoint: u.Path,
		header:   c.buildHeader(req.Headers, withBody),
		payload:  payload,
		raw:      req.Raw,
	}

	var lastErr error
	for attempt := 0; attempt < c.retry.MaxRetries; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("wait for client rate limiter: %w", err)
			}
		}

		out := c.attempt(ctx, cl, attempt)
		switch out.kind {
		case outcomeDone:
			out.response.Attempts = attempt + 1
			return out.response, nil
		case outcomeFail:
			c.logger.Debug("request failed",
				"method", cl.method,
				"path", cl.endpoint,
				"attempt", attempt,
				"error", out.err,
			)
			return nil, out.err
		case outcomeRetry:
			lastErr = out.err
			c.logger.Warn("retrying request",
				"reason", out.reason,
				"wait", out.wait,
				"method", cl.method,
				"path", cl.endpoint,
				"attempt", attempt,
			)
			c.observer.ObserveRetry(cl.method, out.reason, out.wait)
			if err := c.sleep(ctx, out.wait); err != nil {
				return nil, err
			}
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, errRetriesExhausted
}

// attempt performs one HTTP exchange under its own deadline and classifies
// the result.
func (c *Client) attempt(ctx context.Context, cl *call, attempt int) outcome {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if cl.payload != nil {
		body = bytes.NewReader(cl.payload)
	}

	httpReq, err := http.NewRequestWithContext(attemptCtx, cl.method, cl.url, body)
	if err != nil {
		return fail(fmt.Errorf("create request: %w", err))
	}
	httpReq.Header = cl.header.Clone()

	start := c.now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.observer.ObserveAttempt(cl.method, attempt, 0, c.now().Sub(start))
		return c.transportFailure(ctx, attemptCtx, cl, attempt, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	c.observer.ObserveAttempt(cl.method, attempt, resp.StatusCode, c.now().Sub(start))
	if err != nil {
		return c.transportFailure(ctx, attemptCtx, cl, attempt, err)
	}

	return c.classify(cl, resp, data, attempt)
}

// transportFailure handles an attempt that produced no usable response.
// Cancellation of the caller's context is returned as-is. A timeout, from
// the per-attempt deadline or the HTTP client's own Timeout, is terminal.
// Anything else backs off exponentially.
func (c *Client) transportFailure(ctx, attemptCtx context.Context, cl *call, attempt int, err error) outcome {
	if ctx.Err() != nil {
		return fail(ctx.Err())
	}
	if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) || isTimeout(err) {
		return fail(newTimeoutError(cl.endpoint))
	}

	netErr := &apierrors.NetworkError{Err: err, URL: cl.url, Attempt: attempt}
	if c.retry.CanRetry(attempt) {
		return retry(ReasonNetwork, c.retry.NetworkDelay(attempt), netErr)
	}
	return fail(netErr)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// classify maps a received response onto a loop outcome. Rate-limit
// statuses only retry while attempts remain; on the last attempt they fall
// through to the generic error branch.
func (c *Client) classify(cl *call, resp *http.Response, data []byte, attempt int) outcome {
	canRetry := c.retry.CanRetry(attempt)

	switch {
	case resp.StatusCode == http.StatusForbidden && resp.Header.Get(headerRateLimitRemaining) == "0" && canRetry:
		return retry(ReasonRateLimit, c.retry.RateLimitDelay(resp.Header, c.now()), newAPIError(resp, cl.endpoint, data))

	case resp.StatusCode == http.StatusTooManyRequests && canRetry:
		return retry(ReasonThrottled, c.retry.RetryAfterDelay(resp.Header), newAPIError(resp, cl.endpoint, data))

	case resp.StatusCode == http.StatusNoContent:
		return done(&Response{Kind: KindEmpty, StatusCode: resp.StatusCode, Header: resp.Header})

	case resp.StatusCode == http.StatusFound:
		return done(&Response{
			Kind:       KindRedirect,
			StatusCode: resp.StatusCode,
			Location:   resp.Header.Get(headerLocation),
			Header:     resp.Header,
		})

	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fail(newAPIError(resp, cl.endpoint, data))

	case cl.raw:
		return done(&Response{Kind: KindText, StatusCode: resp.StatusCode, Body: data, Header: resp.Header})

	case len(data) == 0:
		return done(&Response{Kind: KindJSON, StatusCode: resp.StatusCode, Body: []byte("{}"), Header: resp.Header})

	case !json.Valid(data):
		return fail(&apierrors.DecodeError{
			StatusCode: resp.StatusCode,
			Path:       cl.endpoint,
			Err:        errors.New("response body is not valid JSON"),
		})
	}

	return done(&Response{Kind: KindJSON, StatusCode: resp.StatusCode, Body: data, Header: resp.Header})
}
