package ghdevops

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gh-devops-mcp/client-go/internal/api"
	"github.com/gh-devops-mcp/client-go/internal/telemetry"
)

// Params holds query parameters for Get, GetRaw and Delete. Entries whose
// value is nil, a nil pointer or "" are omitted.
type Params = api.Params

// Client is bound to one set of Credentials and issues GitHub REST calls.
// It is safe for concurrent use.
type Client struct {
	apiClient *api.Client
	owner     string
	repo      string

	metrics *telemetry.Metrics
	tracer  *telemetry.Tracer
}

// buildAPIClient creates and configures an API client from the given config.
func buildAPIClient(creds Credentials, cfg *clientConfig, observer api.Observer) (*api.Client, error) {
	return api.New(api.Config{
		BaseURL:    creds.APIURL,
		Token:      creds.Token,
		HTTPClient: cfg.httpClient,
		MediaType:  cfg.mediaType,
		APIVersion: cfg.apiVersion,
		UserAgent:  cfg.userAgent,
		Limiter:    cfg.limiter,
		Logger:     cfg.logger,
		Observer:   observer,
	})
}

// New creates a client bound to creds. The token is required; an empty
// APIURL defaults to DefaultAPIURL.
func New(creds Credentials, opts ...Option) (*Client, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	cfg := &clientConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}

	c := &Client{
		owner:  creds.Owner,
		repo:   creds.Repo,
		tracer: telemetry.NewTracer(cfg.tracerProvider),
	}

	var observer api.Observer
	if cfg.registerer != nil {
		c.metrics = telemetry.NewMetrics(cfg.registerer)
		observer = c.metrics
	}

	apiClient, err := buildAPIClient(creds, cfg, observer)
	if err != nil {
		return nil, err
	}
	c.apiClient = apiClient

	return c, nil
}

// Owner returns the default repository owner.
func (c *Client) Owner() string {
	return c.owner
}

// Repo returns the default repository name.
func (c *Client) Repo() string {
	return c.repo
}

// BaseURL returns the API base URL without trailing slashes.
func (c *Client) BaseURL() string {
	return c.apiClient.BaseURL()
}

// RepoPath builds /repos/{owner}/{repo}/{elems...}. Empty owner or repo fall
// back to the client's defaults. Every segment is path-escaped.
func (c *Client) RepoPath(owner, repo string, elems ...string) (string, error) {
	if owner == "" {
		owner = c.owner
	}
	if repo == "" {
		repo = c.repo
	}
	if owner == "" || repo == "" {
		return "", ErrMissingRepository
	}

	segments := make([]string, 0, len(elems)+3)
	segments = append(segments, "repos", url.PathEscape(owner), url.PathEscape(repo))
	for _, elem := range elems {
		segments = append(segments, url.PathEscape(elem))
	}
	return "/" + strings.Join(segments, "/"), nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, params Params, opts ...RequestOption) (*Result, error) {
	return c.do(ctx, api.Request{Method: http.MethodGet, Path: path, Params: params}, opts)
}

// GetRaw issues a GET request and returns the body as text without JSON
// validation. It is used for payloads such as job logs.
func (c *Client) GetRaw(ctx context.Context, path string, params Params, opts ...RequestOption) (string, error) {
	res, err := c.do(ctx, api.Request{Method: http.MethodGet, Path: path, Params: params, Raw: true}, opts)
	if err != nil {
		return "", err
	}
	switch res.Kind {
	case KindRedirect:
		return res.DownloadURL, nil
	case KindEmpty:
		return "", nil
	}
	return res.Text, nil
}

// Post issues a POST request with body encoded as JSON.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Result, error) {
	return c.do(ctx, api.Request{Method: http.MethodPost, Path: path, Body: body}, opts)
}

// Put issues a PUT request with body encoded as JSON.
func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) (*Result, error) {
	return c.do(ctx, api.Request{Method: http.MethodPut, Path: path, Body: body}, opts)
}

// Patch issues a PATCH request with body encoded as JSON.
func (c *Client) Patch(ctx context.Context, path string, body any, opts ...RequestOption) (*Result, error) {
	return c.do(ctx, api.Request{Method: http.MethodPatch, Path: path, Body: body}, opts)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, params Params, opts ...RequestOption) (*Result, error) {
	return c.do(ctx, api.Request{Method: http.MethodDelete, Path: path, Params: params}, opts)
}

func (c *Client) do(ctx context.Context, req api.Request, opts []RequestOption) (*Result, error) {
	rc := &requestConfig{}
	for _, opt := range opts {
		opt(rc)
	}
	req.Headers = rc.headers

	ctx, span := c.tracer.StartRequest(ctx, req.Method, req.Path)
	resp, err := c.apiClient.Do(ctx, req)

	var (
		status   int
		attempts int
		kind     string
	)
	if resp != nil {
		status, attempts, kind = resp.StatusCode, resp.Attempts, resp.Kind.String()
	} else {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
	}
	telemetry.EndRequest(span, status, attempts, kind, err)

	if c.metrics != nil {
		c.metrics.RecordRequest(req.Method, Classify(err).String())
	}
	if err != nil {
		return nil, err
	}
	return newResult(resp)
}
