package service

import (
	"context"
	"sort"
	"strings"

	"roundrobin-tracker/internal/constants"
	"roundrobin-tracker/internal/domain"
	"roundrobin-tracker/internal/repository"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/rs/zerolog"
)

type PlayerService struct {
	repo   *repository.PlayerRepository
	logger zerolog.Logger
}

func NewPlayerService(repo *repository.PlayerRepository, logger zerolog.Logger) *PlayerService {
	return &PlayerService{repo: repo, logger: logger}
}

func (s *PlayerService) CreatePlayer(ctx context.Context, username string) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	player, err := s.repo.Create(ctx, username)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("player_id", player.ID).Str("username", player.Username).Msg("player registered")
	return player, nil
}

// GetPlayer looks a player up by ID, falling back to an exact username match.
func (s *PlayerService) GetPlayer(ctx context.Context, idOrUsername string) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	player, err := s.repo.Get(ctx, idOrUsername)
	if err == nil {
		return player, nil
	}
	if !domain.IsNotFound(err) {
		return nil, err
	}

	s.logger.Debug().Str("query", idOrUsername).Msg("player id not found, trying username")
	return s.repo.GetByUsername(ctx, strings.TrimSpace(idOrUsername))
}

// SearchPlayers returns players whose username fuzzily matches query, best
// matches first. An empty query returns nothing.
func (s *PlayerService) SearchPlayers(ctx context.Context, query string) ([]domain.Player, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	players, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	usernames := make([]string, len(players))
	for i, p := range players {
		usernames[i] = p.Username
	}

	ranks := fuzzy.RankFindFold(query, usernames)
	sort.Sort(ranks)

	limit := min(len(ranks), constants.SearchSuggestionLimit)
	result := make([]domain.Player, 0, limit)
	for _, r := range ranks[:limit] {
		result = append(result, players[r.OriginalIndex])
	}

	s.logger.Debug().Str("query", query).Int("matches", len(ranks)).Msg("player search")
	return result, nil
}
