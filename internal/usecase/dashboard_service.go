package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/nba-dashboard/internal/domain/game"
	"github.com/riskibarqy/nba-dashboard/internal/platform/logging"
)

const DefaultTeamID = "NYK"

// DashboardQuery holds caller selections; zero values fall back to the
// defaults reported by Options.
type DashboardQuery struct {
	SeasonYear int
	TeamID     string
	GameType   string
}

type DashboardOptions struct {
	Seasons         []int
	Teams           []string
	GameTypes       []game.GameType
	DefaultSeason   int
	DefaultTeam     string
	DefaultGameType game.GameType
}

type Dashboard struct {
	Criteria game.Criteria
	Series   []game.CumulativePoint
	Totals   game.Totals
	Empty    bool
	Notice   string
	Title    string
	Subtitle string
}

type DashboardService struct {
	source      game.Source
	defaultTeam string
	logger      *logging.Logger
}

func NewDashboardService(source game.Source, defaultTeam string, logger *logging.Logger) *DashboardService {
	defaultTeam = strings.ToUpper(strings.TrimSpace(defaultTeam))
	if defaultTeam == "" {
		defaultTeam = DefaultTeamID
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &DashboardService{
		source:      source,
		defaultTeam: defaultTeam,
		logger:      logger,
	}
}

func (s *DashboardService) Options(ctx context.Context) (_ DashboardOptions, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DashboardService.Options")
	defer func() { endUsecaseSpan(span, err) }()

	dataset, err := s.load(ctx)
	if err != nil {
		return DashboardOptions{}, err
	}

	return s.optionsFor(dataset), nil
}

func (s *DashboardService) Get(ctx context.Context, query DashboardQuery) (out Dashboard, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DashboardService.Get")
	defer func() { endUsecaseSpan(span, err) }()

	if query.SeasonYear < 0 {
		return Dashboard{}, fmt.Errorf("%w: season must be > 0", ErrInvalidInput)
	}

	dataset, err := s.load(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	criteria, err := s.resolveCriteria(dataset, query)
	if err != nil {
		return Dashboard{}, err
	}

	view := game.Filter(dataset, criteria)
	series, totals := game.Project(view)

	out = Dashboard{
		Criteria: criteria,
		Series:   series,
		Totals:   totals,
		Empty:    len(view) == 0,
		Title:    "Dashboard NBA: " + criteria.TeamID,
		Subtitle: fmt.Sprintf("Año: %d | Tipo: %s", criteria.SeasonYear, criteria.GameType.Label()),
	}
	if out.Empty {
		out.Notice = fmt.Sprintf(
			"No se encontraron datos para %s en el año %d con el filtro '%s'.",
			criteria.TeamID,
			criteria.SeasonYear,
			criteria.GameType.Label(),
		)
	}

	return out, nil
}

func (s *DashboardService) load(ctx context.Context) (game.Dataset, error) {
	dataset, report, err := s.source.Load(ctx)
	if err != nil {
		if errors.Is(err, game.ErrSourceNotFound) {
			return game.Dataset{}, fmt.Errorf("%w: %w", ErrSourceNotFound, err)
		}
		return game.Dataset{}, fmt.Errorf("%w: load games: %w", ErrDependencyUnavailable, err)
	}

	s.logger.DebugContext(ctx, "game dataset ready",
		"records", dataset.Len(),
		"rows", report.Rows,
		"dropped", report.Dropped,
	)

	if dataset.IsEmpty() {
		return game.Dataset{}, fmt.Errorf("%w: no games available", ErrNotFound)
	}

	return dataset, nil
}

func (s *DashboardService) optionsFor(dataset game.Dataset) DashboardOptions {
	seasons := game.Seasons(dataset)
	teams := game.Teams(dataset)

	return DashboardOptions{
		Seasons:         seasons,
		Teams:           teams,
		GameTypes:       game.GameTypes(),
		DefaultSeason:   game.DefaultSeason(seasons),
		DefaultTeam:     game.DefaultTeam(teams, s.defaultTeam),
		DefaultGameType: game.GameTypeRegularSeason,
	}
}

func (s *DashboardService) resolveCriteria(dataset game.Dataset, query DashboardQuery) (game.Criteria, error) {
	criteria := game.Criteria{
		SeasonYear: query.SeasonYear,
		TeamID:     strings.ToUpper(strings.TrimSpace(query.TeamID)),
		GameType:   game.GameTypeRegularSeason,
	}

	if strings.TrimSpace(query.GameType) != "" {
		gameType, err := game.ParseGameType(query.GameType)
		if err != nil {
			return game.Criteria{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		criteria.GameType = gameType
	}

	if criteria.SeasonYear == 0 || criteria.TeamID == "" {
		options := s.optionsFor(dataset)
		if criteria.SeasonYear == 0 {
			criteria.SeasonYear = options.DefaultSeason
		}
		if criteria.TeamID == "" {
			criteria.TeamID = options.DefaultTeam
		}
	}

	if err := criteria.Validate(); err != nil {
		return game.Criteria{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return criteria, nil
}
