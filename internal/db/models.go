package db

import (
	"database/sql"
	"time"
)

type Player struct {
	ID             string
	Username       string
	Wins           int64
	Losses         int64
	FirstBloodWins int64
	FarmWins       int64
	TotalFarm      int64
	TotalKills     int64
	TotalDeaths    int64
	TotalWinTimeMs int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Series struct {
	ID             string
	Player1ID      string
	Player2ID      string
	RoundNumber    int64
	ScheduledTime  sql.NullTime
	Status         string
	SeriesWinnerID sql.NullString
	IsWalkover     bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Game struct {
	SeriesID            string
	GameNumber          int64
	WinnerID            sql.NullString
	DurationMs          sql.NullInt64
	Player1Farm         int64
	Player2Farm         int64
	WinCondition        string
	IsProcessed         bool
	AppliedWinnerID     sql.NullString
	AppliedLoserID      sql.NullString
	AppliedDurationMs   sql.NullInt64
	AppliedWinnerFarm   sql.NullInt64
	AppliedLoserFarm    sql.NullInt64
	AppliedWinCondition sql.NullString
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
