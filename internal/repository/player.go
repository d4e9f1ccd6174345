package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"roundrobin-tracker/internal/db"
	"roundrobin-tracker/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

type PlayerRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// SeriesTally counts the completed series a player took part in and won.
type SeriesTally struct {
	Played int
	Won    int
}

func (r *PlayerRepository) Create(ctx context.Context, username string) (*domain.Player, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.ErrEmptyUsername
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate nanoid: %w", err)
	}

	now := time.Now()
	err = r.queries.CreatePlayer(ctx, db.CreatePlayerParams{
		ID:        id,
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if isConstraint(err, sqlite3.ErrConstraintUnique) {
		return nil, fmt.Errorf("%s: %w", username, domain.ErrUsernameTaken)
	}
	if err != nil {
		r.logger.Error().Err(err).Str("username", username).Msg("failed to create player")
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	r.logger.Debug().Str("player_id", id).Str("username", username).Msg("player created")
	return &domain.Player{ID: id, Username: username, CreatedAt: now, UpdatedAt: now}, nil
}

func (r *PlayerRepository) Get(ctx context.Context, id string) (*domain.Player, error) {
	player, err := r.queries.GetPlayer(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, domain.ErrPlayerNotFound)
	}
	if err != nil {
		return nil, err
	}
	return toDomainPlayer(player), nil
}

func (r *PlayerRepository) GetByUsername(ctx context.Context, username string) (*domain.Player, error) {
	player, err := r.queries.GetPlayerByUsername(ctx, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", username, domain.ErrPlayerNotFound)
	}
	if err != nil {
		return nil, err
	}
	return toDomainPlayer(player), nil
}

func (r *PlayerRepository) List(ctx context.Context) ([]domain.Player, error) {
	players, err := r.queries.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Player, len(players))
	for i, p := range players {
		result[i] = *toDomainPlayer(p)
	}
	return result, nil
}

func (r *PlayerRepository) SeriesResults(ctx context.Context) (map[string]SeriesTally, error) {
	rows, err := r.queries.CountSeriesResults(ctx)
	if err != nil {
		return nil, err
	}

	result := make(map[string]SeriesTally, len(rows))
	for _, row := range rows {
		result[row.PlayerID] = SeriesTally{Played: int(row.Played), Won: int(row.Won)}
	}
	return result, nil
}
