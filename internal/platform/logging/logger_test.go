package logging

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_KeyValueFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core))

	logger.InfoContext(context.Background(), "csv games loaded", "rows", 10, "error", errors.New("boom"), "dangling")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["rows"] != int64(10) {
		t.Fatalf("unexpected rows field: %#v", fields["rows"])
	}
	if fields["error"] != "boom" {
		t.Fatalf("unexpected error field: %#v", fields["error"])
	}
	if _, ok := fields["dangling"]; !ok {
		t.Fatalf("expected dangling key to be kept")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger := FromZap(zap.New(core))

	logger.Info("ignored")
	logger.Warn("kept")

	if logs.Len() != 1 {
		t.Fatalf("expected only warn entry, got %d", logs.Len())
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("Console") != FormatConsole {
		t.Fatalf("expected console format")
	}
	if ParseFormat("anything") != FormatJSON {
		t.Fatalf("expected json fallback")
	}
}
