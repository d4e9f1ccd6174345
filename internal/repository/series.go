package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"roundrobin-tracker/internal/db"
	"roundrobin-tracker/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

type SeriesRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewSeriesRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *SeriesRepository {
	return &SeriesRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// Create stores a new series in the scheduled state and fills in its ID and
// timestamps.
func (r *SeriesRepository) Create(ctx context.Context, series *domain.Series) error {
	id, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("failed to generate nanoid: %w", err)
	}

	now := time.Now()
	err = r.queries.CreateSeries(ctx, db.CreateSeriesParams{
		ID:            id,
		Player1ID:     series.Player1ID,
		Player2ID:     series.Player2ID,
		RoundNumber:   int64(series.RoundNumber),
		ScheduledTime: nullTime(series.ScheduledTime),
		Status:        string(domain.SeriesStatusScheduled),
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if isConstraint(err, sqlite3.ErrConstraintForeignKey) {
		return fmt.Errorf("%s or %s: %w", series.Player1ID, series.Player2ID, domain.ErrPlayerNotFound)
	}
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to create series")
		return fmt.Errorf("failed to create series: %w", err)
	}

	series.ID = id
	series.Status = domain.SeriesStatusScheduled
	series.CreatedAt = now
	series.UpdatedAt = now
	return nil
}

// Get loads a series with its games outside of any transaction.
func (r *SeriesRepository) Get(ctx context.Context, id string) (*domain.Series, error) {
	return (&records{queries: r.queries, logger: r.logger}).GetSeries(ctx, id)
}

// List returns every series ordered by round and schedule, without games.
func (r *SeriesRepository) List(ctx context.Context) ([]domain.Series, error) {
	rows, err := r.queries.ListSeries(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Series, len(rows))
	for i, row := range rows {
		result[i] = *toDomainSeries(row)
	}
	return result, nil
}
