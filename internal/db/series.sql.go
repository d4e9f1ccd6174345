package db

import (
	"context"
	"database/sql"
	"time"
)

const seriesColumns = `id, player1_id, player2_id, round_number, scheduled_time, status, series_winner_id, is_walkover, created_at, updated_at`

func scanSeries(row rowScanner) (Series, error) {
	var i Series
	err := row.Scan(
		&i.ID,
		&i.Player1ID,
		&i.Player2ID,
		&i.RoundNumber,
		&i.ScheduledTime,
		&i.Status,
		&i.SeriesWinnerID,
		&i.IsWalkover,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createSeries = `
INSERT INTO series (id, player1_id, player2_id, round_number, scheduled_time, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateSeriesParams struct {
	ID            string
	Player1ID     string
	Player2ID     string
	RoundNumber   int64
	ScheduledTime sql.NullTime
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (q *Queries) CreateSeries(ctx context.Context, arg CreateSeriesParams) error {
	_, err := q.db.ExecContext(ctx, createSeries,
		arg.ID,
		arg.Player1ID,
		arg.Player2ID,
		arg.RoundNumber,
		arg.ScheduledTime,
		arg.Status,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getSeries = `SELECT ` + seriesColumns + ` FROM series WHERE id = ?`

func (q *Queries) GetSeries(ctx context.Context, id string) (Series, error) {
	return scanSeries(q.db.QueryRowContext(ctx, getSeries, id))
}

const listSeries = `
SELECT ` + seriesColumns + ` FROM series
ORDER BY round_number, scheduled_time IS NULL, scheduled_time, created_at
`

func (q *Queries) ListSeries(ctx context.Context) ([]Series, error) {
	rows, err := q.db.QueryContext(ctx, listSeries)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Series
	for rows.Next() {
		i, err := scanSeries(rows)
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

const updateSeriesResult = `
UPDATE series SET
    status = ?,
    series_winner_id = ?,
    is_walkover = ?,
    updated_at = ?
WHERE id = ?
`

type UpdateSeriesResultParams struct {
	Status         string
	SeriesWinnerID sql.NullString
	IsWalkover     bool
	UpdatedAt      time.Time
	ID             string
}

func (q *Queries) UpdateSeriesResult(ctx context.Context, arg UpdateSeriesResultParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateSeriesResult,
		arg.Status,
		arg.SeriesWinnerID,
		arg.IsWalkover,
		arg.UpdatedAt,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
