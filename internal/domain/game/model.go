package game

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrSourceNotFound  = errors.New("game source not found")
	ErrMalformedSource = errors.New("game source is malformed")
)

// Result is the outcome of a game from the point of view of TeamID.
type Result string

const (
	ResultWin  Result = "W"
	ResultLoss Result = "L"
)

// ParseResult accepts only the exact outcomes W and L; surrounding spaces are
// ignored, case is not.
func ParseResult(raw string) (Result, bool) {
	switch Result(strings.TrimSpace(raw)) {
	case ResultWin:
		return ResultWin, true
	case ResultLoss:
		return ResultLoss, true
	default:
		return "", false
	}
}

type GameType string

const (
	GameTypeRegularSeason GameType = "regular"
	GameTypePlayoffs      GameType = "playoffs"
	GameTypeBoth          GameType = "both"
)

func GameTypes() []GameType {
	return []GameType{GameTypeRegularSeason, GameTypePlayoffs, GameTypeBoth}
}

func ParseGameType(raw string) (GameType, error) {
	switch value := GameType(strings.ToLower(strings.TrimSpace(raw))); value {
	case GameTypeRegularSeason, GameTypePlayoffs, GameTypeBoth:
		return value, nil
	default:
		return "", fmt.Errorf("unknown game type %q", raw)
	}
}

// Label is the display name used by the dashboard.
func (t GameType) Label() string {
	switch t {
	case GameTypeRegularSeason:
		return "Temporada regular"
	case GameTypePlayoffs:
		return "Playoffs"
	case GameTypeBoth:
		return "Ambos"
	default:
		return string(t)
	}
}

// Record is one team's result in one game.
type Record struct {
	SourceRow  int
	Date       time.Time
	SeasonYear int
	TeamID     string
	Result     Result
	IsPlayoffs bool
}

func (r Record) IsWin() bool {
	return r.Result == ResultWin
}

// Dataset is the full set of records loaded from a source. It is never
// mutated after load.
type Dataset struct {
	Records []Record
}

func (d Dataset) Len() int {
	return len(d.Records)
}

func (d Dataset) IsEmpty() bool {
	return len(d.Records) == 0
}

// LoadReport summarises how many source rows survived ingestion.
type LoadReport struct {
	Rows    int
	Kept    int
	Dropped int
}

type Criteria struct {
	SeasonYear int
	TeamID     string
	GameType   GameType
}

func (c Criteria) Validate() error {
	if c.SeasonYear <= 0 {
		return fmt.Errorf("season year must be > 0")
	}
	if strings.TrimSpace(c.TeamID) == "" {
		return fmt.Errorf("team id is required")
	}
	if _, err := ParseGameType(string(c.GameType)); err != nil {
		return err
	}

	return nil
}

func (c Criteria) matches(r Record) bool {
	if r.SeasonYear != c.SeasonYear || r.TeamID != c.TeamID {
		return false
	}

	switch c.GameType {
	case GameTypeRegularSeason:
		return !r.IsPlayoffs
	case GameTypePlayoffs:
		return r.IsPlayoffs
	default:
		return true
	}
}

// CumulativePoint holds the running totals through the record at Date.
type CumulativePoint struct {
	Date   time.Time
	Wins   int64
	Losses int64
}

type Totals struct {
	Wins   int64
	Losses int64
}

func (t Totals) Games() int64 {
	return t.Wins + t.Losses
}

func (t Totals) IsZero() bool {
	return t.Wins == 0 && t.Losses == 0
}

// WinPercent is rounded to one decimal; zero when no games were played.
func (t Totals) WinPercent() float64 {
	return percentOf(t.Wins, t.Games())
}

func (t Totals) LossPercent() float64 {
	return percentOf(t.Losses, t.Games())
}

func percentOf(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	scaled := float64(part) * 1000 / float64(total)
	return float64(int64(scaled+0.5)) / 10
}
