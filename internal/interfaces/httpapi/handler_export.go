package httpapi

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/nba-dashboard/internal/domain/game"
	"github.com/valyala/bytebufferpool"
)

var seriesCSVHeader = []string{"date", "cumulative_wins", "cumulative_losses"}

// ExportDashboardSeriesCSV writes the cumulative series for the selected
// criteria as a CSV attachment.
func (h *Handler) ExportDashboardSeriesCSV(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportDashboardSeriesCSV")
	defer span.End()

	req, err := h.parseDashboardQuery(ctx, r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	dashboard, err := h.dashboardService.Get(ctx, req.toQuery())
	if err != nil {
		h.logger.WarnContext(ctx, "export dashboard series failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	annotateCriteria(ctx, dashboard.Criteria, len(dashboard.Series))

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := writeSeriesCSV(buf, dashboard.Series); err != nil {
		h.logger.ErrorContext(ctx, "encode dashboard series csv failed", "error", err)
		writeInternalError(ctx, w)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", seriesFileName(dashboard.Criteria)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.B)
}

func writeSeriesCSV(buf *bytebufferpool.ByteBuffer, series []game.CumulativePoint) error {
	writer := csv.NewWriter(buf)
	if err := writer.Write(seriesCSVHeader); err != nil {
		return err
	}

	row := make([]string, len(seriesCSVHeader))
	for _, point := range series {
		row[0] = point.Date.Format(dateLayout)
		row[1] = strconv.FormatInt(point.Wins, 10)
		row[2] = strconv.FormatInt(point.Losses, 10)
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func seriesFileName(c game.Criteria) string {
	return strings.ToLower(fmt.Sprintf("%s-%d-%s.csv", c.TeamID, c.SeasonYear, c.GameType))
}
