package httpapi

import (
	"fmt"

	"github.com/riskibarqy/nba-dashboard/internal/domain/game"
	"github.com/riskibarqy/nba-dashboard/internal/usecase"
)

const (
	dateLayout = "2006-01-02"

	winLabel    = "Ganados (W)"
	lossLabel   = "Perdidos (L)"
	winColor    = "#F43636"
	lossColor   = "#28F321"
	pieCutout   = 0.70
	noDataLabel = "Sin datos"

	lineChartTitle = "Juegos ganados y perdidos acumulados"
	pieChartTitle  = "Porcentaje de victorias y derrotas"
)

type criteriaDTO struct {
	Season        int    `json:"season"`
	Team          string `json:"team"`
	GameType      string `json:"game_type"`
	GameTypeLabel string `json:"game_type_label"`
}

type gameTypeOptionDTO struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type dashboardOptionsDTO struct {
	Seasons   []int               `json:"seasons"`
	Teams     []string            `json:"teams"`
	GameTypes []gameTypeOptionDTO `json:"game_types"`
	Defaults  criteriaDTO         `json:"defaults"`
}

type headerDTO struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

type lineSeriesDTO struct {
	Label  string  `json:"label"`
	Color  string  `json:"color"`
	Values []int64 `json:"values"`
}

type lineChartDTO struct {
	Title  string          `json:"title"`
	Labels []string        `json:"labels"`
	Series []lineSeriesDTO `json:"series"`
}

type pieSliceDTO struct {
	Label   string  `json:"label"`
	Value   int64   `json:"value"`
	Percent float64 `json:"percent"`
	Color   string  `json:"color"`
}

type pieChartDTO struct {
	Title       string        `json:"title"`
	Caption     string        `json:"caption"`
	Cutout      float64       `json:"cutout"`
	NoData      bool          `json:"no_data"`
	Placeholder string        `json:"placeholder,omitempty"`
	Slices      []pieSliceDTO `json:"slices"`
}

type totalsDTO struct {
	Wins        int64   `json:"wins"`
	Losses      int64   `json:"losses"`
	Games       int64   `json:"games"`
	WinPercent  float64 `json:"win_percent"`
	LossPercent float64 `json:"loss_percent"`
}

type dashboardDTO struct {
	Criteria  criteriaDTO  `json:"criteria"`
	Header    headerDTO    `json:"header"`
	Empty     bool         `json:"empty"`
	Notice    string       `json:"notice,omitempty"`
	Totals    totalsDTO    `json:"totals"`
	LineChart lineChartDTO `json:"line_chart"`
	PieChart  pieChartDTO  `json:"pie_chart"`
}

func criteriaToDTO(c game.Criteria) criteriaDTO {
	return criteriaDTO{
		Season:        c.SeasonYear,
		Team:          c.TeamID,
		GameType:      string(c.GameType),
		GameTypeLabel: c.GameType.Label(),
	}
}

func optionsToDTO(options usecase.DashboardOptions) dashboardOptionsDTO {
	gameTypes := make([]gameTypeOptionDTO, 0, len(options.GameTypes))
	for _, t := range options.GameTypes {
		gameTypes = append(gameTypes, gameTypeOptionDTO{Value: string(t), Label: t.Label()})
	}

	return dashboardOptionsDTO{
		Seasons:   options.Seasons,
		Teams:     options.Teams,
		GameTypes: gameTypes,
		Defaults: criteriaToDTO(game.Criteria{
			SeasonYear: options.DefaultSeason,
			TeamID:     options.DefaultTeam,
			GameType:   options.DefaultGameType,
		}),
	}
}

func dashboardToDTO(d usecase.Dashboard) dashboardDTO {
	return dashboardDTO{
		Criteria:  criteriaToDTO(d.Criteria),
		Header:    headerDTO{Title: d.Title, Subtitle: d.Subtitle},
		Empty:     d.Empty,
		Notice:    d.Notice,
		Totals:    totalsToDTO(d.Totals),
		LineChart: lineChartFromSeries(d.Series),
		PieChart:  pieChartFromTotals(d.Totals),
	}
}

func totalsToDTO(t game.Totals) totalsDTO {
	return totalsDTO{
		Wins:        t.Wins,
		Losses:      t.Losses,
		Games:       t.Games(),
		WinPercent:  t.WinPercent(),
		LossPercent: t.LossPercent(),
	}
}

func lineChartFromSeries(series []game.CumulativePoint) lineChartDTO {
	labels := make([]string, 0, len(series))
	wins := make([]int64, 0, len(series))
	losses := make([]int64, 0, len(series))
	for _, point := range series {
		labels = append(labels, point.Date.Format(dateLayout))
		wins = append(wins, point.Wins)
		losses = append(losses, point.Losses)
	}

	return lineChartDTO{
		Title:  lineChartTitle,
		Labels: labels,
		Series: []lineSeriesDTO{
			{Label: winLabel, Color: winColor, Values: wins},
			{Label: lossLabel, Color: lossColor, Values: losses},
		},
	}
}

func pieChartFromTotals(t game.Totals) pieChartDTO {
	out := pieChartDTO{
		Title:   pieChartTitle,
		Caption: fmt.Sprintf("Total de juegos: %d", t.Games()),
		Cutout:  pieCutout,
		Slices:  []pieSliceDTO{},
	}
	if t.IsZero() {
		out.NoData = true
		out.Placeholder = noDataLabel
		return out
	}

	out.Slices = append(out.Slices,
		pieSliceDTO{
			Label:   fmt.Sprintf("%s: %d", winLabel, t.Wins),
			Value:   t.Wins,
			Percent: t.WinPercent(),
			Color:   winColor,
		},
		pieSliceDTO{
			Label:   fmt.Sprintf("%s: %d", lossLabel, t.Losses),
			Value:   t.Losses,
			Percent: t.LossPercent(),
			Color:   lossColor,
		},
	)
	return out
}
