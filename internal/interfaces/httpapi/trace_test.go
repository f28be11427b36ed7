package httpapi

import (
	"context"
	"testing"

	"github.com/riskibarqy/nba-dashboard/internal/domain/game"
	"go.opentelemetry.io/otel/attribute"
)

func TestIsHandlerSpan(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "dashboard handler", in: "httpapi.Handler.GetDashboard", want: true},
		{name: "export handler", in: "httpapi.Handler.ExportDashboardSeriesCSV", want: true},
		{name: "middleware", in: "httpapi.RequestLogging", want: false},
		{name: "response helper", in: "httpapi.writeError", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isHandlerSpan(tt.in); got != tt.want {
				t.Fatalf("isHandlerSpan(%q)=%v want=%v", tt.in, got, tt.want)
			}
		})
	}
}

func TestStartSpan_UntracedRequestGetsNoopSpan(t *testing.T) {
	ctx := context.Background()
	gotCtx, span := startSpan(ctx, "httpapi.Handler.GetDashboard")
	defer span.End()

	if gotCtx != ctx {
		t.Fatalf("expected context to be returned unchanged")
	}
	if span.IsRecording() {
		t.Fatalf("expected no-op span without a parent")
	}
	annotateCriteria(gotCtx, game.Criteria{SeasonYear: 2015, TeamID: "NYK"}, 3)
}

func TestCriteriaAttributes(t *testing.T) {
	attrs := criteriaAttributes(game.Criteria{
		SeasonYear: 2015,
		TeamID:     "NYK",
		GameType:   game.GameTypePlayoffs,
	}, 7)

	want := map[attribute.Key]string{
		"dashboard.season":    "2015",
		"dashboard.team":      "NYK",
		"dashboard.game_type": "playoffs",
		"dashboard.points":    "7",
	}
	if len(attrs) != len(want) {
		t.Fatalf("expected %d attributes, got %d", len(want), len(attrs))
	}
	for _, attr := range attrs {
		if got := attr.Value.Emit(); got != want[attr.Key] {
			t.Fatalf("attribute %s=%q want=%q", attr.Key, got, want[attr.Key])
		}
	}
}
