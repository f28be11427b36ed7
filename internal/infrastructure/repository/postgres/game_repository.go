package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/nba-dashboard/internal/domain/game"
	qb "github.com/riskibarqy/nba-dashboard/internal/platform/querybuilder"
)

const upsertGamesSuffix = `ON CONFLICT (source_row)
DO UPDATE SET
    game_date = EXCLUDED.game_date,
    season_year = EXCLUDED.season_year,
    team_id = EXCLUDED.team_id,
    game_result = EXCLUDED.game_result,
    is_playoffs = EXCLUDED.is_playoffs,
    updated_at = NOW()`

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) Load(ctx context.Context) (game.Dataset, game.LoadReport, error) {
	query, args, err := qb.Select("*").From(gamesTable).
		OrderBy("source_row").
		ToSQL()
	if err != nil {
		return game.Dataset{}, game.LoadReport{}, fmt.Errorf("build select games query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return game.Dataset{}, game.LoadReport{}, fmt.Errorf("select games: %w", err)
	}

	report := game.LoadReport{Rows: len(rows)}
	records := make([]game.Record, 0, len(rows))
	for _, row := range rows {
		record, ok := gameFromModel(row)
		if !ok {
			report.Dropped++
			continue
		}
		records = append(records, record)
	}
	report.Kept = len(records)

	return game.Dataset{Records: records}, report, nil
}

func (r *GameRepository) Version(ctx context.Context) (string, error) {
	query, args, err := qb.Select("COUNT(1) AS rows", "MAX(updated_at) AS updated_at").
		From(gamesTable).
		ToSQL()
	if err != nil {
		return "", fmt.Errorf("build games version query: %w", err)
	}

	var row gameVersionRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return "", fmt.Errorf("get games version: %w", err)
	}

	version := "pg|" + strconv.FormatInt(row.Rows, 10)
	if row.UpdatedAt != nil {
		version += "|" + strconv.FormatInt(row.UpdatedAt.UnixNano(), 10)
	}
	return version, nil
}

// UpsertGames writes records in one statement inside a transaction and
// returns the number of affected rows.
func (r *GameRepository) UpsertGames(ctx context.Context, records []game.Record) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	builder := qb.InsertInto(gamesTable).Columns(gameInsertColumns...)
	for _, record := range records {
		builder.Values(
			record.SourceRow,
			record.Date,
			record.SeasonYear,
			record.TeamID,
			string(record.Result),
			record.IsPlayoffs,
		)
	}
	query, args, err := builder.Suffix(upsertGamesSuffix).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build upsert games query: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx upsert games: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("upsert games rows=%d first_source_row=%d: %w", len(records), records[0].SourceRow, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read upsert games affected rows: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit upsert games tx: %w", err)
	}

	return affected, nil
}

func gameFromModel(row gameTableModel) (game.Record, bool) {
	result, ok := game.ParseResult(row.GameResult)
	if !ok || row.TeamID == "" {
		return game.Record{}, false
	}

	return game.Record{
		SourceRow:  row.SourceRow,
		Date:       time.Date(row.GameDate.Year(), row.GameDate.Month(), row.GameDate.Day(), 0, 0, 0, 0, time.UTC),
		SeasonYear: row.SeasonYear,
		TeamID:     row.TeamID,
		Result:     result,
		IsPlayoffs: row.IsPlayoffs,
	}, true
}
