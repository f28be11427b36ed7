package httpapi

import (
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/nba-dashboard/internal/domain/game"
	gamemock "github.com/riskibarqy/nba-dashboard/internal/mocks/domain/game"
	"github.com/riskibarqy/nba-dashboard/internal/platform/logging"
	"github.com/riskibarqy/nba-dashboard/internal/usecase"
	"github.com/stretchr/testify/mock"
)

type envelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       dashboardDTO     `json:"data"`
	Error      *googleErrorBody `json:"error"`
}

func testDataset() game.Dataset {
	day := func(m time.Month, d int) time.Time { return time.Date(2015, m, d, 0, 0, 0, 0, time.UTC) }
	return game.Dataset{Records: []game.Record{
		{SourceRow: 1, Date: day(time.March, 2), SeasonYear: 2015, TeamID: "NYK", Result: game.ResultWin},
		{SourceRow: 2, Date: day(time.January, 5), SeasonYear: 2015, TeamID: "NYK", Result: game.ResultWin},
		{SourceRow: 3, Date: day(time.February, 1), SeasonYear: 2015, TeamID: "NYK", Result: game.ResultLoss},
		{SourceRow: 4, Date: day(time.April, 25), SeasonYear: 2015, TeamID: "NYK", Result: game.ResultLoss, IsPlayoffs: true},
		{SourceRow: 5, Date: day(time.January, 5), SeasonYear: 2015, TeamID: "BOS", Result: game.ResultLoss},
	}}
}

func newTestRouter(t *testing.T, loadErr error) http.Handler {
	t.Helper()

	source := gamemock.NewSource(t)
	source.On("Load", mock.Anything).Return(testDataset(), game.LoadReport{Rows: 5, Kept: 5}, loadErr).Maybe()

	service := usecase.NewDashboardService(source, "NYK", logging.NewNop())
	return NewRouter(NewHandler(service, logging.NewNop()), logging.NewNop(), true, []string{"*"})
}

func serve(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeDashboard(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var body envelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return body
}

func TestGetDashboard_ChartPayload(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := serve(t, router, http.MethodGet, "/v1/dashboard?season=2015&team=NYK&game_type=regular", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	got := decodeDashboard(t, rec).Data
	if got.Header.Title != "Dashboard NBA: NYK" || got.Header.Subtitle != "Año: 2015 | Tipo: Temporada regular" {
		t.Fatalf("unexpected header: %+v", got.Header)
	}
	if strings.Join(got.LineChart.Labels, ",") != "2015-01-05,2015-02-01,2015-03-02" {
		t.Fatalf("unexpected line labels: %v", got.LineChart.Labels)
	}
	wins := got.LineChart.Series[0]
	losses := got.LineChart.Series[1]
	if wins.Label != "Ganados (W)" || wins.Color != "#F43636" || losses.Label != "Perdidos (L)" || losses.Color != "#28F321" {
		t.Fatalf("unexpected series styling: %+v %+v", wins, losses)
	}
	if len(wins.Values) != 3 || wins.Values[2] != 2 || losses.Values[2] != 1 {
		t.Fatalf("unexpected cumulative values: wins=%v losses=%v", wins.Values, losses.Values)
	}

	pie := got.PieChart
	if pie.NoData || len(pie.Slices) != 2 {
		t.Fatalf("expected two pie slices, got %+v", pie)
	}
	if pie.Slices[0].Label != "Ganados (W): 2" || pie.Slices[0].Percent != 66.7 || pie.Slices[1].Percent != 33.3 {
		t.Fatalf("unexpected pie slices: %+v", pie.Slices)
	}
	if pie.Caption != "Total de juegos: 3" || pie.Cutout != 0.70 {
		t.Fatalf("unexpected pie caption/cutout: %+v", pie)
	}
}

func TestGetDashboard_EmptySelection(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := serve(t, router, http.MethodGet, "/v1/dashboard?season=2015&team=BOS&game_type=playoffs", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	got := decodeDashboard(t, rec).Data
	if !got.Empty || got.Notice == "" {
		t.Fatalf("expected empty dashboard with notice, got %+v", got)
	}
	if !got.PieChart.NoData || got.PieChart.Placeholder != "Sin datos" || got.PieChart.Caption != "Total de juegos: 0" {
		t.Fatalf("unexpected empty pie chart: %+v", got.PieChart)
	}
	if len(got.LineChart.Labels) != 0 {
		t.Fatalf("expected empty line chart, got %v", got.LineChart.Labels)
	}
}

func TestGetDashboard_InvalidQuery(t *testing.T) {
	router := newTestRouter(t, nil)

	for _, target := range []string{
		"/v1/dashboard?season=abc",
		"/v1/dashboard?season=-1",
		"/v1/dashboard?game_type=preseason",
	} {
		rec := serve(t, router, http.MethodGet, target, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected status 400, got %d", target, rec.Code)
		}
	}
}

func TestGetDashboard_SourceNotFound(t *testing.T) {
	router := newTestRouter(t, game.ErrSourceNotFound)

	rec := serve(t, router, http.MethodGet, "/v1/dashboard", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
	body := decodeDashboard(t, rec)
	if body.Error == nil || len(body.Error.Errors) != 1 || body.Error.Errors[0].Reason != "sourceNotFound" {
		t.Fatalf("unexpected error body: %+v", body.Error)
	}
}

func TestQueryDashboard(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := serve(t, router, http.MethodPost, "/v1/dashboard/query", `{"season":2015,"team":"NYK","game_type":"both"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := decodeDashboard(t, rec).Data
	if got.Totals.Wins != 2 || got.Totals.Losses != 2 || got.Criteria.GameTypeLabel != "Ambos" {
		t.Fatalf("unexpected dashboard: %+v", got)
	}

	rec = serve(t, router, http.MethodPost, "/v1/dashboard/query", `{"season":2015,"colour":"red"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected unknown field to be rejected, got %d", rec.Code)
	}
}

func TestGetDashboardOptions(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := serve(t, router, http.MethodGet, "/v1/dashboard/options", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Data dashboardOptionsDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal options: %v", err)
	}
	if body.Data.Defaults.Team != "NYK" || body.Data.Defaults.Season != 2015 || body.Data.Defaults.GameType != "regular" {
		t.Fatalf("unexpected defaults: %+v", body.Data.Defaults)
	}
	if len(body.Data.GameTypes) != 3 || body.Data.GameTypes[0].Label != "Temporada regular" {
		t.Fatalf("unexpected game types: %+v", body.Data.GameTypes)
	}
}

func TestExportDashboardSeriesCSV(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := serve(t, router, http.MethodGet, "/v1/dashboard/series.csv?season=2015&team=NYK", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "nyk-2015-regular.csv") {
		t.Fatalf("unexpected content disposition: %q", got)
	}

	rows, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d", len(rows))
	}
	if strings.Join(rows[3], ",") != "2015-03-02,2,1" {
		t.Fatalf("unexpected last row: %v", rows[3])
	}
}

func TestHealthzAndDocs(t *testing.T) {
	router := newTestRouter(t, nil)

	if rec := serve(t, router, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected healthz 200, got %d", rec.Code)
	}
	rec := serve(t, router, http.MethodGet, "/openapi.yaml", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "/v1/dashboard/options") {
		t.Fatalf("expected openapi document, got %d", rec.Code)
	}
}
