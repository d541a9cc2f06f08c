// Package telemetry provides the Prometheus collectors and OpenTelemetry
// spans recorded around GitHub API requests. Both are optional; the root
// package wires them in only when the caller supplies a registerer or a
// tracer provider.
package telemetry
