package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/nba-dashboard/internal/domain/game"
	"github.com/riskibarqy/nba-dashboard/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "nba-dashboard"

	internalErrorMessage = "internal server error"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

// errorRules is checked in order and the first match wins. Source failures
// must stay above ErrDependencyUnavailable, which also wraps them.
var errorRules = []struct {
	targets []error
	mapped  mappedError
}{
	{
		targets: []error{usecase.ErrInvalidInput},
		mapped:  mappedError{HTTPStatus: http.StatusBadRequest, Reason: "invalidInput", Status: "INVALID_ARGUMENT"},
	},
	{
		targets: []error{usecase.ErrNotFound},
		mapped:  mappedError{HTTPStatus: http.StatusNotFound, Reason: "notFound", Status: "NOT_FOUND"},
	},
	{
		targets: []error{usecase.ErrSourceNotFound, game.ErrSourceNotFound},
		mapped:  mappedError{HTTPStatus: http.StatusServiceUnavailable, Reason: "sourceNotFound", Status: "UNAVAILABLE"},
	},
	{
		targets: []error{game.ErrMalformedSource},
		mapped:  mappedError{HTTPStatus: http.StatusServiceUnavailable, Reason: "sourceUnavailable", Status: "UNAVAILABLE"},
	},
	{
		targets: []error{usecase.ErrDependencyUnavailable},
		mapped:  mappedError{HTTPStatus: http.StatusServiceUnavailable, Reason: "dependencyUnavailable", Status: "UNAVAILABLE"},
	},
}

var internalError = mappedError{
	HTTPStatus: http.StatusInternalServerError,
	Reason:     "internalError",
	Status:     "INTERNAL",
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	_, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(ctx, w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

// writeError maps err onto the envelope. Messages of unmapped errors are not
// exposed to the client.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	mapped := mapError(ctx, err)
	message := err.Error()
	if mapped == internalError {
		message = internalErrorMessage
	}
	writeErrorBody(ctx, w, mapped, message)
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeErrorBody(ctx, w, internalError, internalErrorMessage)
}

func writeErrorBody(ctx context.Context, w http.ResponseWriter, mapped mappedError, message string) {
	writeJSON(ctx, w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: message,
			Status:  mapped.Status,
			Errors: []googleErrorItem{{
				Domain:  errorDomain,
				Reason:  mapped.Reason,
				Message: message,
			}},
		},
	})
}

func mapError(_ context.Context, err error) mappedError {
	for _, rule := range errorRules {
		for _, target := range rule.targets {
			if errors.Is(err, target) {
				return rule.mapped
			}
		}
	}
	return internalError
}
