package csvfile

import (
	"bufio"
	"context"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/nba-dashboard/internal/domain/game"
	"github.com/riskibarqy/nba-dashboard/internal/platform/logging"
)

const (
	ColumnDate       = "date_game"
	ColumnSeason     = "year_id"
	ColumnTeam       = "team_id"
	ColumnResult     = "game_result"
	ColumnIsPlayoffs = "is_playoffs"
)

var requiredColumns = []string{ColumnDate, ColumnSeason, ColumnTeam, ColumnResult, ColumnIsPlayoffs}

var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	time.RFC3339,
	"2006/01/02",
}

// Source reads games from a CSV file on local disk.
type Source struct {
	path   string
	logger *logging.Logger
}

func NewSource(path string, logger *logging.Logger) *Source {
	if logger == nil {
		logger = logging.Default()
	}
	return &Source{path: strings.TrimSpace(path), logger: logger}
}

func (s *Source) Path() string {
	return s.path
}

func (s *Source) Load(ctx context.Context) (game.Dataset, game.LoadReport, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return game.Dataset{}, game.LoadReport{}, sourceNotFound(err, s.path)
	}
	defer f.Close()

	dataset, report, err := Parse(f)
	if err != nil {
		return game.Dataset{}, game.LoadReport{}, fmt.Errorf("parse %s: %w", s.path, err)
	}

	s.logger.InfoContext(ctx, "csv games loaded",
		"path", s.path,
		"rows", report.Rows,
		"kept", report.Kept,
		"dropped", report.Dropped,
	)
	if report.Dropped > 0 {
		s.logger.WarnContext(ctx, "csv rows dropped",
			"path", s.path,
			"dropped", report.Dropped,
		)
	}

	return dataset, report, nil
}

// Version changes whenever the file is replaced or rewritten.
func (s *Source) Version(_ context.Context) (string, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return "", sourceNotFound(err, s.path)
	}

	return fmt.Sprintf("csv|%s|%d|%d", s.path, info.Size(), info.ModTime().UnixNano()), nil
}

func sourceNotFound(err error, path string) error {
	return withKind(game.ErrSourceNotFound, crerr.Wrapf(err, "open games file %q", path))
}

// withKind keeps kind in the %w chain so errors.Is finds it from any layer.
func withKind(kind, err error) error {
	return fmt.Errorf("%w: %w", kind, err)
}

// Parse reads a games CSV. Rows with an unknown result, or a value that does
// not parse, are dropped and counted in the report.
func Parse(r io.Reader) (game.Dataset, game.LoadReport, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if stderrors.Is(err, io.EOF) {
		return game.Dataset{}, game.LoadReport{}, withKind(game.ErrMalformedSource, crerr.New("missing header row"))
	}
	if err != nil {
		return game.Dataset{}, game.LoadReport{}, withKind(game.ErrMalformedSource, crerr.Wrap(err, "read header row"))
	}

	index, err := columnIndex(header)
	if err != nil {
		return game.Dataset{}, game.LoadReport{}, err
	}

	var report game.LoadReport
	records := make([]game.Record, 0, 1024)
	for {
		row, err := reader.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}
		report.Rows++
		if err != nil {
			var parseErr *csv.ParseError
			if stderrors.As(err, &parseErr) {
				report.Dropped++
				continue
			}
			return game.Dataset{}, game.LoadReport{}, crerr.Wrapf(err, "read row %d", report.Rows)
		}

		record, ok := parseRecord(row, index)
		if !ok {
			report.Dropped++
			continue
		}
		record.SourceRow = report.Rows
		records = append(records, record)
	}
	report.Kept = len(records)

	return game.Dataset{Records: records}, report, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}

	for _, column := range requiredColumns {
		if _, ok := index[column]; !ok {
			return nil, withKind(game.ErrMalformedSource, crerr.Newf("missing required column %q", column))
		}
	}

	return index, nil
}

func parseRecord(row []string, index map[string]int) (game.Record, bool) {
	field := func(column string) string {
		i := index[column]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	result, ok := game.ParseResult(field(ColumnResult))
	if !ok {
		return game.Record{}, false
	}

	date, ok := parseDate(field(ColumnDate))
	if !ok {
		return game.Record{}, false
	}

	season, err := strconv.Atoi(field(ColumnSeason))
	if err != nil {
		return game.Record{}, false
	}

	teamID := field(ColumnTeam)
	if teamID == "" {
		return game.Record{}, false
	}

	isPlayoffs, ok := parsePlayoffFlag(field(ColumnIsPlayoffs))
	if !ok {
		return game.Record{}, false
	}

	return game.Record{
		Date:       date,
		SeasonYear: season,
		TeamID:     teamID,
		Result:     result,
		IsPlayoffs: isPlayoffs,
	}, true
}

// parsePlayoffFlag accepts only the numeric 0/1 flag of the games file.
func parsePlayoffFlag(raw string) (bool, bool) {
	switch raw {
	case "0":
		return false, true
	case "1":
		return true, true
	default:
		return false, false
	}
}

func parseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		y, m, d := parsed.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	}

	return time.Time{}, false
}
