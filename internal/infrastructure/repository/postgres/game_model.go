package postgres

import "time"

const gamesTable = "games"

type gameTableModel struct {
	ID         int64     `db:"id"`
	SourceRow  int       `db:"source_row"`
	GameDate   time.Time `db:"game_date"`
	SeasonYear int       `db:"season_year"`
	TeamID     string    `db:"team_id"`
	GameResult string    `db:"game_result"`
	IsPlayoffs bool      `db:"is_playoffs"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

var gameInsertColumns = []string{
	"source_row",
	"game_date",
	"season_year",
	"team_id",
	"game_result",
	"is_playoffs",
}

type gameVersionRow struct {
	Rows      int64      `db:"rows"`
	UpdatedAt *time.Time `db:"updated_at"`
}
