package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/nba-dashboard/internal/platform/logging"
	"github.com/riskibarqy/nba-dashboard/internal/usecase"
)

type Handler struct {
	dashboardService *usecase.DashboardService
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(dashboardService *usecase.DashboardService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		dashboardService: dashboardService,
		logger:           logger,
		validator:        validator.New(),
	}
}

type dashboardQueryRequest struct {
	Season   int    `json:"season" validate:"omitempty,gt=0"`
	Team     string `json:"team" validate:"omitempty,max=16"`
	GameType string `json:"game_type" validate:"omitempty,oneof=regular playoffs both"`
}

func (req dashboardQueryRequest) toQuery() usecase.DashboardQuery {
	return usecase.DashboardQuery{
		SeasonYear: req.Season,
		TeamID:     req.Team,
		GameType:   req.GameType,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetDashboardOptions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDashboardOptions")
	defer span.End()

	options, err := h.dashboardService.Options(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get dashboard options failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, optionsToDTO(options))
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDashboard")
	defer span.End()

	req, err := h.parseDashboardQuery(ctx, r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	h.serveDashboard(ctx, w, req)
}

func (h *Handler) QueryDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.QueryDashboard")
	defer span.End()

	var req dashboardQueryRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	h.serveDashboard(ctx, w, req)
}

func (h *Handler) serveDashboard(ctx context.Context, w http.ResponseWriter, req dashboardQueryRequest) {
	dashboard, err := h.dashboardService.Get(ctx, req.toQuery())
	if err != nil {
		h.logger.WarnContext(ctx, "get dashboard failed",
			"season", req.Season,
			"team", req.Team,
			"game_type", req.GameType,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}
	annotateCriteria(ctx, dashboard.Criteria, len(dashboard.Series))

	writeSuccess(ctx, w, http.StatusOK, dashboardToDTO(dashboard))
}

func (h *Handler) parseDashboardQuery(ctx context.Context, values url.Values) (dashboardQueryRequest, error) {
	req := dashboardQueryRequest{
		Team:     strings.TrimSpace(values.Get("team")),
		GameType: strings.ToLower(strings.TrimSpace(values.Get("game_type"))),
	}

	if raw := strings.TrimSpace(values.Get("season")); raw != "" {
		season, err := strconv.Atoi(raw)
		if err != nil {
			return dashboardQueryRequest{}, fmt.Errorf("%w: invalid season %q", usecase.ErrInvalidInput, raw)
		}
		req.Season = season
	}

	if err := h.validateRequest(ctx, req); err != nil {
		return dashboardQueryRequest{}, err
	}

	return req, nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
