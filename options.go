package ghdevops

import (
	"log/slog"
	"maps"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	httpClient *http.Client
	logger     *slog.Logger
	limiter    *rate.Limiter

	registerer     prometheus.Registerer
	tracerProvider trace.TracerProvider

	// Header contract
	mediaType  string
	apiVersion string
	userAgent  string
}

// requestConfig holds per-call settings.
type requestConfig struct {
	headers map[string]string
}

// Option configures the client.
type Option func(*clientConfig)

// RequestOption configures a single call.
type RequestOption func(*requestConfig)

// WithHTTPClient sets a custom HTTP client. The client is copied and its
// redirect policy replaced; the caller's value is not modified. A timeout
// from the client's own Timeout fails the request with a 408 APIError,
// like the built-in per-attempt deadline.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithLogger sets the logger used for retry and failure diagnostics.
// Default: discard.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithRateLimiter throttles outgoing attempts on the client side. The
// limiter is waited on before every attempt, retries included.
func WithRateLimiter(limiter *rate.Limiter) Option {
	return func(c *clientConfig) {
		c.limiter = limiter
	}
}

// WithMetrics registers request metrics with reg. New panics if the
// collectors are already registered with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *clientConfig) {
		c.registerer = reg
	}
}

// WithTracerProvider records a span per request using tp.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *clientConfig) {
		c.tracerProvider = tp
	}
}

// WithMediaType overrides the Accept header sent with every request.
// Default: application/vnd.github+json
func WithMediaType(mediaType string) Option {
	return func(c *clientConfig) {
		c.mediaType = mediaType
	}
}

// WithAPIVersion overrides the X-GitHub-Api-Version header.
// Default: 2022-11-28
func WithAPIVersion(version string) Option {
	return func(c *clientConfig) {
		c.apiVersion = version
	}
}

// WithUserAgent overrides the User-Agent header.
// Default: gh-devops-mcp/1.0.0
func WithUserAgent(userAgent string) Option {
	return func(c *clientConfig) {
		c.userAgent = userAgent
	}
}

// WithHeader sets one request header. It overrides the client's default
// headers, except that an empty Authorization value is ignored.
func WithHeader(key, value string) RequestOption {
	return func(c *requestConfig) {
		if c.headers == nil {
			c.headers = make(map[string]string)
		}
		c.headers[key] = value
	}
}

// WithHeaders sets several request headers at once.
func WithHeaders(headers map[string]string) RequestOption {
	return func(c *requestConfig) {
		if c.headers == nil {
			c.headers = make(map[string]string, len(headers))
		}
		maps.Copy(c.headers, headers)
	}
}
