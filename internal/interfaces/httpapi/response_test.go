package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/nba-dashboard/internal/domain/game"
	"github.com/riskibarqy/nba-dashboard/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantReason string
	}{
		{name: "invalid input", err: fmt.Errorf("%w: bad season", usecase.ErrInvalidInput), wantStatus: http.StatusBadRequest, wantReason: "invalidInput"},
		{name: "not found", err: fmt.Errorf("%w: no games available", usecase.ErrNotFound), wantStatus: http.StatusNotFound, wantReason: "notFound"},
		{name: "source not found", err: fmt.Errorf("%w: %w", usecase.ErrSourceNotFound, game.ErrSourceNotFound), wantStatus: http.StatusServiceUnavailable, wantReason: "sourceNotFound"},
		{name: "malformed source", err: fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, game.ErrMalformedSource), wantStatus: http.StatusServiceUnavailable, wantReason: "sourceUnavailable"},
		{name: "dependency", err: usecase.ErrDependencyUnavailable, wantStatus: http.StatusServiceUnavailable, wantReason: "dependencyUnavailable"},
		{name: "unknown", err: fmt.Errorf("boom"), wantStatus: http.StatusInternalServerError, wantReason: "internalError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(context.Background(), tt.err)
			if got.HTTPStatus != tt.wantStatus || got.Reason != tt.wantReason {
				t.Fatalf("mapError(%v) = %+v, want status=%d reason=%s", tt.err, got, tt.wantStatus, tt.wantReason)
			}
		})
	}
}

func TestWriteError_HidesUnmappedMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("pq: connection reset by peer"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}

	var body googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if body.Error == nil || body.Error.Message != internalErrorMessage {
		t.Fatalf("expected generic internal message, got %+v", body.Error)
	}
	if len(body.Error.Errors) != 1 || body.Error.Errors[0].Reason != "internalError" {
		t.Fatalf("expected internalError reason, got %+v", body.Error.Errors)
	}
}
