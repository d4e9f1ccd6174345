package repository

import (
	"database/sql"
	"time"

	"roundrobin-tracker/internal/db"
	"roundrobin-tracker/internal/domain"
)

func toDomainPlayer(p db.Player) *domain.Player {
	return &domain.Player{
		ID:             p.ID,
		Username:       p.Username,
		Wins:           int(p.Wins),
		Losses:         int(p.Losses),
		FirstBloodWins: int(p.FirstBloodWins),
		FarmWins:       int(p.FarmWins),
		TotalFarm:      int(p.TotalFarm),
		TotalKills:     int(p.TotalKills),
		TotalDeaths:    int(p.TotalDeaths),
		TotalWinTime:   msToDuration(p.TotalWinTimeMs),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toDomainSeries(s db.Series) *domain.Series {
	series := &domain.Series{
		ID:          s.ID,
		Player1ID:   s.Player1ID,
		Player2ID:   s.Player2ID,
		RoundNumber: int(s.RoundNumber),
		Status:      domain.SeriesStatus(s.Status),
		WinnerID:    s.SeriesWinnerID.String,
		IsWalkover:  s.IsWalkover,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	if s.ScheduledTime.Valid {
		t := s.ScheduledTime.Time
		series.ScheduledTime = &t
	}
	return series
}

func toDomainGame(g db.Game) domain.Game {
	game := domain.Game{
		SeriesID:     g.SeriesID,
		Number:       int(g.GameNumber),
		WinnerID:     g.WinnerID.String,
		Player1Farm:  int(g.Player1Farm),
		Player2Farm:  int(g.Player2Farm),
		WinCondition: domain.WinCondition(g.WinCondition),
		IsProcessed:  g.IsProcessed,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
	if g.DurationMs.Valid {
		d := msToDuration(g.DurationMs.Int64)
		game.Duration = &d
	}
	if g.AppliedWinnerID.Valid {
		game.Applied = &domain.GameOutcome{
			WinnerID:     g.AppliedWinnerID.String,
			LoserID:      g.AppliedLoserID.String,
			Duration:     msToDuration(g.AppliedDurationMs.Int64),
			WinnerFarm:   int(g.AppliedWinnerFarm.Int64),
			LoserFarm:    int(g.AppliedLoserFarm.Int64),
			WinCondition: domain.WinCondition(g.AppliedWinCondition.String),
		}
	}
	return game
}

func upsertGameParams(g *domain.Game, now time.Time) db.UpsertGameParams {
	params := db.UpsertGameParams{
		SeriesID:     g.SeriesID,
		GameNumber:   int64(g.Number),
		WinnerID:     nullString(g.WinnerID),
		Player1Farm:  int64(g.Player1Farm),
		Player2Farm:  int64(g.Player2Farm),
		WinCondition: string(g.WinCondition),
		IsProcessed:  g.IsProcessed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if g.Duration != nil {
		params.DurationMs = sql.NullInt64{Int64: g.Duration.Milliseconds(), Valid: true}
	}
	if a := g.Applied; a != nil {
		params.AppliedWinnerID = nullString(a.WinnerID)
		params.AppliedLoserID = nullString(a.LoserID)
		params.AppliedDurationMs = sql.NullInt64{Int64: a.Duration.Milliseconds(), Valid: true}
		params.AppliedWinnerFarm = sql.NullInt64{Int64: int64(a.WinnerFarm), Valid: true}
		params.AppliedLoserFarm = sql.NullInt64{Int64: int64(a.LoserFarm), Valid: true}
		params.AppliedWinCondition = nullString(string(a.WinCondition))
	}
	return params
}

func counterParams(id string, d domain.CounterDelta, now time.Time) db.UpdatePlayerCountersParams {
	return db.UpdatePlayerCountersParams{
		Wins:           int64(d.Wins),
		Losses:         int64(d.Losses),
		FirstBloodWins: int64(d.FirstBloodWins),
		FarmWins:       int64(d.FarmWins),
		TotalFarm:      int64(d.TotalFarm),
		TotalKills:     int64(d.TotalKills),
		TotalDeaths:    int64(d.TotalDeaths),
		TotalWinTimeMs: d.TotalWinTime.Milliseconds(),
		UpdatedAt:      now,
		ID:             id,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func msToDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
