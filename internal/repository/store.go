package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"roundrobin-tracker/internal/db"
	"roundrobin-tracker/internal/domain"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// Records is the record store as seen from inside one transaction.
type Records interface {
	GetPlayer(ctx context.Context, id string) (*domain.Player, error)
	UpdatePlayerCounters(ctx context.Context, id string, delta domain.CounterDelta) error
	GetSeries(ctx context.Context, id string) (*domain.Series, error)
	SaveSeries(ctx context.Context, series *domain.Series) error
	SaveGame(ctx context.Context, game *domain.Game) error
	DeleteGame(ctx context.Context, seriesID string, number int) error
}

// Store is the transactional boundary around Records.
type Store struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewStore(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *Store {
	return &Store{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// InTx runs fn inside one transaction, committing when fn returns nil and
// rolling back otherwise.
func (s *Store) InTx(ctx context.Context, fn func(Records) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&records{queries: s.queries.WithTx(tx), logger: s.logger}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type records struct {
	queries *db.Queries
	logger  zerolog.Logger
}

var _ Records = (*records)(nil)

func (r *records) GetPlayer(ctx context.Context, id string) (*domain.Player, error) {
	player, err := r.queries.GetPlayer(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, domain.ErrPlayerNotFound)
	}
	if err != nil {
		return nil, err
	}
	return toDomainPlayer(player), nil
}

func (r *records) UpdatePlayerCounters(ctx context.Context, id string, delta domain.CounterDelta) error {
	affected, err := r.queries.UpdatePlayerCounters(ctx, counterParams(id, delta, time.Now()))
	if err != nil {
		if isConstraint(err, sqlite3.ErrConstraintCheck) {
			return fmt.Errorf("counters of player %s would become negative: %w", id, err)
		}
		return fmt.Errorf("failed to update counters of player %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", id, domain.ErrPlayerNotFound)
	}
	return nil
}

func (r *records) GetSeries(ctx context.Context, id string) (*domain.Series, error) {
	row, err := r.queries.GetSeries(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, domain.ErrSeriesNotFound)
	}
	if err != nil {
		return nil, err
	}

	games, err := r.queries.ListGamesBySeries(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list games of series %s: %w", id, err)
	}

	series := toDomainSeries(row)
	series.Games = make([]domain.Game, len(games))
	for i, g := range games {
		series.Games[i] = toDomainGame(g)
	}
	return series, nil
}

func (r *records) SaveSeries(ctx context.Context, series *domain.Series) error {
	affected, err := r.queries.UpdateSeriesResult(ctx, db.UpdateSeriesResultParams{
		Status:         string(series.Status),
		SeriesWinnerID: nullString(series.WinnerID),
		IsWalkover:     series.IsWalkover,
		UpdatedAt:      time.Now(),
		ID:             series.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to save series %s: %w", series.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", series.ID, domain.ErrSeriesNotFound)
	}
	return nil
}

func (r *records) SaveGame(ctx context.Context, game *domain.Game) error {
	if err := r.queries.UpsertGame(ctx, upsertGameParams(game, time.Now())); err != nil {
		return fmt.Errorf("failed to save game %d of series %s: %w", game.Number, game.SeriesID, err)
	}
	return nil
}

func (r *records) DeleteGame(ctx context.Context, seriesID string, number int) error {
	r.logger.Debug().Str("series_id", seriesID).Int("game_number", number).Msg("deleting game")
	if err := r.queries.DeleteGame(ctx, db.DeleteGameParams{SeriesID: seriesID, GameNumber: int64(number)}); err != nil {
		return fmt.Errorf("failed to delete game %d of series %s: %w", number, seriesID, err)
	}
	return nil
}

func isConstraint(err error, code sqlite3.ErrNoExtended) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == code
}
