package db

import (
	"context"
	"database/sql"
	"time"
)

const listGamesBySeries = `
SELECT series_id, game_number, winner_id, duration_ms, player1_farm, player2_farm, win_condition, is_processed,
       applied_winner_id, applied_loser_id, applied_duration_ms, applied_winner_farm, applied_loser_farm, applied_win_condition,
       created_at, updated_at
FROM games
WHERE series_id = ?
ORDER BY game_number
`

func (q *Queries) ListGamesBySeries(ctx context.Context, seriesID string) ([]Game, error) {
	rows, err := q.db.QueryContext(ctx, listGamesBySeries, seriesID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Game
	for rows.Next() {
		var i Game
		if err := rows.Scan(
			&i.SeriesID,
			&i.GameNumber,
			&i.WinnerID,
			&i.DurationMs,
			&i.Player1Farm,
			&i.Player2Farm,
			&i.WinCondition,
			&i.IsProcessed,
			&i.AppliedWinnerID,
			&i.AppliedLoserID,
			&i.AppliedDurationMs,
			&i.AppliedWinnerFarm,
			&i.AppliedLoserFarm,
			&i.AppliedWinCondition,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertGame = `
INSERT INTO games (
    series_id, game_number, winner_id, duration_ms, player1_farm, player2_farm, win_condition, is_processed,
    applied_winner_id, applied_loser_id, applied_duration_ms, applied_winner_farm, applied_loser_farm, applied_win_condition,
    created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (series_id, game_number) DO UPDATE SET
    winner_id = excluded.winner_id,
    duration_ms = excluded.duration_ms,
    player1_farm = excluded.player1_farm,
    player2_farm = excluded.player2_farm,
    win_condition = excluded.win_condition,
    is_processed = excluded.is_processed,
    applied_winner_id = excluded.applied_winner_id,
    applied_loser_id = excluded.applied_loser_id,
    applied_duration_ms = excluded.applied_duration_ms,
    applied_winner_farm = excluded.applied_winner_farm,
    applied_loser_farm = excluded.applied_loser_farm,
    applied_win_condition = excluded.applied_win_condition,
    updated_at = excluded.updated_at
`

type UpsertGameParams struct {
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

func (q *Queries) UpsertGame(ctx context.Context, arg UpsertGameParams) error {
	_, err := q.db.ExecContext(ctx, upsertGame,
		arg.SeriesID,
		arg.GameNumber,
		arg.WinnerID,
		arg.DurationMs,
		arg.Player1Farm,
		arg.Player2Farm,
		arg.WinCondition,
		arg.IsProcessed,
		arg.AppliedWinnerID,
		arg.AppliedLoserID,
		arg.AppliedDurationMs,
		arg.AppliedWinnerFarm,
		arg.AppliedLoserFarm,
		arg.AppliedWinCondition,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const deleteGame = `DELETE FROM games WHERE series_id = ? AND game_number = ?`

type DeleteGameParams struct {
	SeriesID   string
	GameNumber int64
}

func (q *Queries) DeleteGame(ctx context.Context, arg DeleteGameParams) error {
	_, err := q.db.ExecContext(ctx, deleteGame, arg.SeriesID, arg.GameNumber)
	return err
}
