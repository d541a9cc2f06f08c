package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	instrumentationName = "github.com/gh-devops-mcp/client-go"
	spanName            = "ghdevops.request"
)

// Attribute keys recorded on request spans.
const (
	AttrMethod     = attribute.Key("http.request.method")
	AttrPath       = attribute.Key("url.path")
	AttrStatusCode = attribute.Key("http.response.status_code")
	AttrAttempts   = attribute.Key("ghdevops.attempts")
	AttrKind       = attribute.Key("ghdevops.response.kind")
)

// Tracer starts one span per logical request.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer returns a Tracer backed by tp. A nil tp yields a no-op tracer.
func NewTracer(tp trace.TracerProvider) *Tracer {
	if tp == nil {
		tp = noop.NewTracerProvider()
	}
	return &Tracer{tracer: tp.Tracer(instrumentationName)}
}

// StartRequest opens a client span for method and path.
func (t *Tracer) StartRequest(ctx context.Context, method, path string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			AttrMethod.String(method),
			AttrPath.String(path),
		),
	)
}

// EndRequest records the final status on span and ends it. status and
// attempts are omitted when zero.
func EndRequest(span trace.Span, status, attempts int, kind string, err error) {
	if status != 0 {
		span.SetAttributes(AttrStatusCode.Int(status))
	}
	if attempts != 0 {
		span.SetAttributes(AttrAttempts.Int(attempts))
	}
	if kind != "" {
		span.SetAttributes(AttrKind.String(kind))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
