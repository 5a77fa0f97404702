//go:build !no_otel

package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// RecordResponse sets the HTTP status code on span and marks the span
// failed when err is not nil.
func RecordResponse(span trace.Span, operation string, statusCode int, err error) {
	span.SetAttributes(
		attribute.String("oidc.operation", operation),
		attribute.Int("http.response.status_code", statusCode),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
