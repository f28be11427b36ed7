package postgres

import (
	"testing"
	"time"

	"github.com/riskibarqy/nba-dashboard/internal/domain/game"
)

func TestGameFromModel(t *testing.T) {
	row := gameTableModel{
		SourceRow:  42,
		GameDate:   time.Date(2014, time.November, 3, 19, 30, 0, 0, time.FixedZone("EST", -5*3600)),
		SeasonYear: 2015,
		TeamID:     "NYK",
		GameResult: "W",
		IsPlayoffs: true,
	}

	got, ok := gameFromModel(row)
	if !ok {
		t.Fatalf("expected row to convert")
	}
	want := game.Record{
		SourceRow:  42,
		Date:       time.Date(2014, time.November, 3, 0, 0, 0, 0, time.UTC),
		SeasonYear: 2015,
		TeamID:     "NYK",
		Result:     game.ResultWin,
		IsPlayoffs: true,
	}
	if got != want {
		t.Fatalf("unexpected record:\nwant %+v\ngot  %+v", want, got)
	}
}

func TestGameFromModel_RejectsInvalidRows(t *testing.T) {
	if _, ok := gameFromModel(gameTableModel{TeamID: "NYK", GameResult: "T"}); ok {
		t.Fatalf("expected unknown result to be rejected")
	}
	if _, ok := gameFromModel(gameTableModel{GameResult: "L"}); ok {
		t.Fatalf("expected empty team to be rejected")
	}
}

func TestUpsertGames_EmptyIsNoop(t *testing.T) {
	repo := NewGameRepository(nil)
	affected, err := repo.UpsertGames(t.Context(), nil)
	if err != nil || affected != 0 {
		t.Fatalf("expected no-op, got affected=%d err=%v", affected, err)
	}
}
