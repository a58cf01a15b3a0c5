package otel

import (
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

// HTTPHandler wraps next so every request runs inside a server span named
// after the service and matched route.
func HTTPHandler(next http.Handler, service string) http.Handler {
	if next == nil {
		next = http.NotFoundHandler()
	}
	return otelhttp.NewHandler(next, service,
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			if pattern := strings.TrimSpace(r.Pattern); pattern != "" {
				return operation + " " + pattern
			}
			return operation + " " + r.Method
		}),
	)
}

// TraceID returns the active trace id for the request, or "" when the
// request is not sampled.
func TraceID(r *http.Request) string {
	if r == nil {
		return ""
	}
	sc := trace.SpanFromContext(r.Context()).SpanContext()
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}
