package httpapi

import (
	"context"
	"strings"

	"github.com/riskibarqy/nba-dashboard/internal/domain/game"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var handlerTracer = otel.Tracer("nba-dashboard/internal/interfaces/httpapi")

// startSpan opens a child span only for handler entry points of a request
// that is already traced; /healthz and helpers get a no-op span.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !isHandlerSpan(name) || !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, trace.SpanFromContext(context.Background())
	}
	return handlerTracer.Start(ctx, name)
}

func isHandlerSpan(name string) bool {
	return strings.HasPrefix(name, handlerSpanPrefix)
}

// annotateCriteria records the resolved dashboard selection on the active span.
func annotateCriteria(ctx context.Context, criteria game.Criteria, points int) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(criteriaAttributes(criteria, points)...)
}

func criteriaAttributes(criteria game.Criteria, points int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int("dashboard.season", criteria.SeasonYear),
		attribute.String("dashboard.team", criteria.TeamID),
		attribute.String("dashboard.game_type", string(criteria.GameType)),
		attribute.Int("dashboard.points", points),
	}
}
