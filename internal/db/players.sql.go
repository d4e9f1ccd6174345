package db

import (
	"context"
	"time"
)

const playerColumns = `id, username, wins, losses, first_blood_wins, farm_wins, total_farm, total_kills, total_deaths, total_win_time_ms, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlayer(row rowScanner) (Player, error) {
	var i Player
	err := row.Scan(
		&i.ID,
		&i.Username,
		&i.Wins,
		&i.Losses,
		&i.FirstBloodWins,
		&i.FarmWins,
		&i.TotalFarm,
		&i.TotalKills,
		&i.TotalDeaths,
		&i.TotalWinTimeMs,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createPlayer = `
INSERT INTO players (id, username, created_at, updated_at)
VALUES (?, ?, ?, ?)
`

type CreatePlayerParams struct {
	ID        string
	Username  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) CreatePlayer(ctx context.Context, arg CreatePlayerParams) error {
	_, err := q.db.ExecContext(ctx, createPlayer, arg.ID, arg.Username, arg.CreatedAt, arg.UpdatedAt)
	return err
}

const getPlayer = `SELECT ` + playerColumns + ` FROM players WHERE id = ?`

func (q *Queries) GetPlayer(ctx context.Context, id string) (Player, error) {
	return scanPlayer(q.db.QueryRowContext(ctx, getPlayer, id))
}

const getPlayerByUsername = `SELECT ` + playerColumns + ` FROM players WHERE username = ?`

func (q *Queries) GetPlayerByUsername(ctx context.Context, username string) (Player, error) {
	return scanPlayer(q.db.QueryRowContext(ctx, getPlayerByUsername, username))
}

const listPlayers = `SELECT ` + playerColumns + ` FROM players ORDER BY username`

func (q *Queries) ListPlayers(ctx context.Context) ([]Player, error) {
	rows, err := q.db.QueryContext(ctx, listPlayers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Player
	for rows.Next() {
		i, err := scanPlayer(rows)
		if err != nil {
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

// Every counter moves relative to its stored value inside one statement, so
// concurrent writers never lose each other's increments.
const updatePlayerCounters = `
UPDATE players SET
    wins = wins + ?,
    losses = losses + ?,
    first_blood_wins = first_blood_wins + ?,
    farm_wins = farm_wins + ?,
    total_farm = total_farm + ?,
    total_kills = total_kills + ?,
    total_deaths = total_deaths + ?,
    total_win_time_ms = total_win_time_ms + ?,
    updated_at = ?
WHERE id = ?
`

type UpdatePlayerCountersParams struct {
	Wins           int64
	Losses         int64
	FirstBloodWins int64
	FarmWins       int64
	TotalFarm      int64
	TotalKills     int64
	TotalDeaths    int64
	TotalWinTimeMs int64
	UpdatedAt      time.Time
	ID             string
}

func (q *Queries) UpdatePlayerCounters(ctx context.Context, arg UpdatePlayerCountersParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updatePlayerCounters,
		arg.Wins,
		arg.Losses,
		arg.FirstBloodWins,
		arg.FarmWins,
		arg.TotalFarm,
		arg.TotalKills,
		arg.TotalDeaths,
		arg.TotalWinTimeMs,
		arg.UpdatedAt,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countSeriesResults = `
SELECT
    p.id,
    (SELECT COUNT(*) FROM series s
        WHERE s.status = 'completed' AND (s.player1_id = p.id OR s.player2_id = p.id)) AS played,
    (SELECT COUNT(*) FROM series s
        WHERE s.status = 'completed' AND s.series_winner_id = p.id) AS won
FROM players p
`

type CountSeriesResultsRow struct {
	PlayerID string
	Played   int64
	Won      int64
}

func (q *Queries) CountSeriesResults(ctx context.Context) ([]CountSeriesResultsRow, error) {
	rows, err := q.db.QueryContext(ctx, countSeriesResults)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CountSeriesResultsRow
	for rows.Next() {
		var i CountSeriesResultsRow
		if err := rows.Scan(&i.PlayerID, &i.Played, &i.Won); err != nil {
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
