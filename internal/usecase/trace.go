package usecase

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("nba-dashboard/internal/usecase")

func startUsecaseSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if strings.TrimSpace(name) == "" || !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, trace.SpanFromContext(context.Background())
	}
	return usecaseTracer.Start(ctx, name)
}

// endUsecaseSpan closes span, marking it failed unless err is a caller
// mistake or an empty lookup.
func endUsecaseSpan(span trace.Span, err error) {
	defer span.End()
	if err == nil {
		return
	}

	span.SetAttributes(attribute.String("usecase.error_class", errorClass(err)))
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrNotFound) {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func errorClass(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrSourceNotFound):
		return "source_not_found"
	case errors.Is(err, ErrDependencyUnavailable):
		return "dependency_unavailable"
	default:
		return "internal"
	}
}
