package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"roundrobin-tracker/internal/api"
	"roundrobin-tracker/internal/config"
	"roundrobin-tracker/internal/constants"
	"roundrobin-tracker/internal/domain"
	"roundrobin-tracker/internal/metrics"
	"roundrobin-tracker/internal/repository"
	"roundrobin-tracker/internal/stats"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// GameResult is one game as entered by the operator.
type GameResult struct {
	Number      int
	WinnerID    string
	Duration    *time.Duration
	Player1Farm int
	Player2Farm int

	// WinCondition overrides classification from Duration when set.
	WinCondition domain.WinCondition
}

type ReconcileRequest struct {
	SeriesID   string
	Status     domain.SeriesStatus
	IsWalkover bool
	WinnerID   string // walkovers only
	Games      []GameResult
}

// SingleMatchRequest reports a series decided by a single game.
type SingleMatchRequest struct {
	SeriesID     string
	WinnerID     string
	Duration     *time.Duration
	Player1Farm  int
	Player2Farm  int
	WinCondition domain.WinCondition
}

type SeriesService struct {
	store       *repository.Store
	seriesRepo  *repository.SeriesRepository
	playerRepo  *repository.PlayerRepository
	accumulator *stats.Accumulator
	notifier    *api.WebhookClient
	metrics     *metrics.Metrics
	farmLimit   time.Duration
	totalRounds int
	logger      zerolog.Logger

	notifications errgroup.Group
}

func NewSeriesService(
	store *repository.Store,
	seriesRepo *repository.SeriesRepository,
	playerRepo *repository.PlayerRepository,
	accumulator *stats.Accumulator,
	notifier *api.WebhookClient,
	m *metrics.Metrics,
	cfg *config.Config,
	logger zerolog.Logger,
) *SeriesService {
	return &SeriesService{
		store:       store,
		seriesRepo:  seriesRepo,
		playerRepo:  playerRepo,
		accumulator: accumulator,
		notifier:    notifier,
		metrics:     m,
		farmLimit:   cfg.FarmLimit,
		totalRounds: cfg.TotalRounds,
		logger:      logger,
	}
}

// Schedule creates a series between two distinct players for a round.
func (s *SeriesService) Schedule(ctx context.Context, player1ID, player2ID string, round int, at *time.Time) (*domain.Series, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if player1ID == player2ID {
		return nil, domain.ErrSamePlayer
	}
	if round < 1 || round > s.totalRounds {
		return nil, fmt.Errorf("round %d of %d: %w", round, s.totalRounds, domain.ErrInvalidRound)
	}

	series := &domain.Series{
		Player1ID:     player1ID,
		Player2ID:     player2ID,
		RoundNumber:   round,
		ScheduledTime: at,
	}
	if err := s.seriesRepo.Create(ctx, series); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("series_id", series.ID).
		Str("player1_id", player1ID).
		Str("player2_id", player2ID).
		Int("round", round).
		Msg("series scheduled")
	return series, nil
}

func (s *SeriesService) Get(ctx context.Context, id string) (*domain.Series, error) {
	return s.seriesRepo.Get(ctx, id)
}

// ReconcileSeries replaces the results of a series and brings player
// counters in line with them. Previously applied games are always reverted
// first, so saving the same request twice leaves the counters unchanged.
func (s *SeriesService) ReconcileSeries(ctx context.Context, req ReconcileRequest) (*domain.Series, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if err := validateReconcile(req); err != nil {
		s.metrics.Reconciliations.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil, err
	}

	log := s.logger.With().Str("series_id", req.SeriesID).Logger()
	log.Info().
		Str("status", string(req.Status)).
		Bool("walkover", req.IsWalkover).
		Int("game_count", len(req.Games)).
		Msg("reconciling series")

	var outcome string
	var applied, reverted int
	err := s.store.InTx(ctx, func(rec repository.Records) error {
		series, err := rec.GetSeries(ctx, req.SeriesID)
		if err != nil {
			return err
		}

		if reverted, err = s.revertProcessed(ctx, rec, series); err != nil {
			return err
		}

		games, err := replaceGames(ctx, rec, series, req.Games)
		if err != nil {
			return err
		}

		series.IsWalkover = req.IsWalkover
		switch {
		case req.IsWalkover:
			if req.WinnerID == "" {
				return domain.ErrWalkoverWithoutWinner
			}
			if !series.HasPlayer(req.WinnerID) {
				return fmt.Errorf("walkover winner %q: %w", req.WinnerID, domain.ErrWinnerNotParticipant)
			}
			series.Status = domain.SeriesStatusCompleted
			series.WinnerID = req.WinnerID
			outcome = metrics.OutcomeWalkover

		case req.Status != domain.SeriesStatusCompleted:
			series.Status = req.Status
			series.WinnerID = ""
			outcome = metrics.OutcomeReverted

		default:
			if applied, err = s.applyGames(ctx, rec, series, games); err != nil {
				return err
			}
			series.Status = domain.SeriesStatusCompleted
			series.WinnerID = stats.SeriesWinner(series, games)
			if series.WinnerID == "" {
				log.Warn().Msg("completed series has no player with two game wins")
			}
			outcome = metrics.OutcomeCompleted
		}

		for i := range games {
			if err := rec.SaveGame(ctx, &games[i]); err != nil {
				return err
			}
		}
		return rec.SaveSeries(ctx, series)
	})
	if err != nil {
		s.metrics.Reconciliations.WithLabelValues(metrics.OutcomeFailed).Inc()
		log.Error().Err(err).Msg("series reconciliation rolled back")
		return nil, fmt.Errorf("failed to reconcile series %s: %w", req.SeriesID, err)
	}

	s.metrics.Reconciliations.WithLabelValues(outcome).Inc()
	s.metrics.GamesReverted.Add(float64(reverted))
	s.metrics.GamesApplied.Add(float64(applied))
	log.Info().
		Str("outcome", outcome).
		Int("games_reverted", reverted).
		Int("games_applied", applied).
		Msg("series reconciled")

	series, err := s.seriesRepo.Get(ctx, req.SeriesID)
	if err != nil {
		return nil, err
	}
	if series.Status == domain.SeriesStatusCompleted && series.WinnerID != "" {
		s.notifyCompleted(ctx, series)
	}
	return series, nil
}

// ProcessSingleMatch records a series decided by one game and credits it
// once. It does nothing when no winner is given, when the series is already
// completed or when any of its games was processed; the returned flag
// reports whether counters changed.
func (s *SeriesService) ProcessSingleMatch(ctx context.Context, req SingleMatchRequest) (*domain.Series, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if err := validateGame(GameResult{
		Number:       1,
		Duration:     req.Duration,
		Player1Farm:  req.Player1Farm,
		Player2Farm:  req.Player2Farm,
		WinCondition: req.WinCondition,
	}); err != nil {
		return nil, false, err
	}

	log := s.logger.With().Str("series_id", req.SeriesID).Logger()

	processed := false
	err := s.store.InTx(ctx, func(rec repository.Records) error {
		series, err := rec.GetSeries(ctx, req.SeriesID)
		if err != nil {
			return err
		}

		if req.WinnerID == "" {
			log.Debug().Msg("single match has no winner, skipping")
			return nil
		}
		if series.Status == domain.SeriesStatusCompleted {
			log.Debug().Bool("walkover", series.IsWalkover).Msg("series already completed, skipping")
			return nil
		}
		for _, g := range series.Games {
			if g.IsProcessed {
				log.Debug().Int("game_number", g.Number).Msg("series already has processed games, skipping")
				return nil
			}
		}

		game := domain.Game{
			SeriesID:     series.ID,
			Number:       1,
			WinnerID:     req.WinnerID,
			Duration:     req.Duration,
			Player1Farm:  req.Player1Farm,
			Player2Farm:  req.Player2Farm,
			WinCondition: req.WinCondition,
		}
		if err := s.applyGame(ctx, rec, series, &game); err != nil {
			return err
		}
		if err := rec.SaveGame(ctx, &game); err != nil {
			return err
		}

		series.Status = domain.SeriesStatusCompleted
		series.WinnerID = req.WinnerID
		series.IsWalkover = false
		processed = true
		return rec.SaveSeries(ctx, series)
	})
	if err != nil {
		s.metrics.Reconciliations.WithLabelValues(metrics.OutcomeFailed).Inc()
		log.Error().Err(err).Msg("single match processing rolled back")
		return nil, false, fmt.Errorf("failed to process match %s: %w", req.SeriesID, err)
	}

	if !processed {
		s.metrics.Reconciliations.WithLabelValues(metrics.OutcomeSkipped).Inc()
	} else {
		s.metrics.Reconciliations.WithLabelValues(metrics.OutcomeSingle).Inc()
		s.metrics.GamesApplied.Inc()
		log.Info().Str("winner_id", req.WinnerID).Msg("single match processed")
	}

	series, err := s.seriesRepo.Get(ctx, req.SeriesID)
	if err != nil {
		return nil, false, err
	}
	if processed {
		s.notifyCompleted(ctx, series)
	}
	return series, processed, nil
}

// Wait blocks until queued result notifications have been sent.
func (s *SeriesService) Wait() error {
	return s.notifications.Wait()
}

func (s *SeriesService) revertProcessed(ctx context.Context, rec repository.Records, series *domain.Series) (int, error) {
	reverted := 0
	for i := range series.Games {
		g := &series.Games[i]
		if !g.IsProcessed {
			continue
		}
		if g.Applied == nil {
			return reverted, fmt.Errorf("game %d is processed but has no applied result", g.Number)
		}
		if err := s.accumulator.RevertGameResult(ctx, rec, *g.Applied); err != nil {
			return reverted, fmt.Errorf("failed to revert game %d: %w", g.Number, err)
		}
		g.IsProcessed = false
		g.Applied = nil
		g.WinCondition = domain.WinConditionUndetermined
		reverted++
	}
	return reverted, nil
}

func (s *SeriesService) applyGames(ctx context.Context, rec repository.Records, series *domain.Series, games []domain.Game) (int, error) {
	applied := 0
	for i := range games {
		if games[i].WinnerID == "" {
			continue
		}
		if err := s.applyGame(ctx, rec, series, &games[i]); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

func (s *SeriesService) applyGame(ctx context.Context, rec repository.Records, series *domain.Series, game *domain.Game) error {
	condition := game.WinCondition
	if !condition.IsDetermined() && game.Duration != nil {
		condition = stats.ClassifyWinCondition(*game.Duration, s.farmLimit)
	}

	outcome, err := stats.OutcomeFor(series, game, condition)
	if err != nil {
		return err
	}
	if err := s.accumulator.ApplyGameResult(ctx, rec, outcome); err != nil {
		return fmt.Errorf("failed to apply game %d: %w", game.Number, err)
	}

	game.WinCondition = condition
	game.Applied = &outcome
	game.IsProcessed = true
	return nil
}

// replaceGames turns the requested games into unprocessed records ordered by
// number and deletes stored games that are no longer listed.
func replaceGames(ctx context.Context, rec repository.Records, series *domain.Series, results []GameResult) ([]domain.Game, error) {
	games := make([]domain.Game, 0, len(results))
	keep := make(map[int]bool, len(results))
	for _, r := range results {
		if r.WinnerID != "" && !series.HasPlayer(r.WinnerID) {
			return nil, fmt.Errorf("game %d winner %q: %w", r.Number, r.WinnerID, domain.ErrWinnerNotParticipant)
		}
		keep[r.Number] = true
		games = append(games, domain.Game{
			SeriesID:     series.ID,
			Number:       r.Number,
			WinnerID:     r.WinnerID,
			Duration:     r.Duration,
			Player1Farm:  r.Player1Farm,
			Player2Farm:  r.Player2Farm,
			WinCondition: r.WinCondition,
		})
	}
	slices.SortFunc(games, func(a, b domain.Game) int { return a.Number - b.Number })

	for _, stored := range series.Games {
		if keep[stored.Number] {
			continue
		}
		if err := rec.DeleteGame(ctx, series.ID, stored.Number); err != nil {
			return nil, err
		}
	}

	series.Games = games
	return games, nil
}

func validateReconcile(req ReconcileRequest) error {
	if !req.IsWalkover && !req.Status.Valid() {
		return fmt.Errorf("%q: %w", req.Status, domain.ErrInvalidStatus)
	}

	seen := make(map[int]bool, len(req.Games))
	for _, g := range req.Games {
		if err := validateGame(g); err != nil {
			return err
		}
		if seen[g.Number] {
			return fmt.Errorf("game %d: %w", g.Number, domain.ErrDuplicateGame)
		}
		seen[g.Number] = true
	}
	return nil
}

func validateGame(g GameResult) error {
	if g.Number < 1 || g.Number > constants.MaxGamesPerSeries {
		return fmt.Errorf("game %d: %w", g.Number, domain.ErrInvalidGameNumber)
	}
	if g.Player1Farm < 0 || g.Player2Farm < 0 {
		return fmt.Errorf("game %d: %w", g.Number, domain.ErrNegativeFarm)
	}
	if g.Duration != nil && *g.Duration < 0 {
		return fmt.Errorf("game %d: %w", g.Number, domain.ErrNegativeDuration)
	}
	if g.WinCondition != domain.WinConditionUndetermined && !g.WinCondition.IsDetermined() {
		return fmt.Errorf("game %d %q: %w", g.Number, g.WinCondition, domain.ErrInvalidCondition)
	}
	return nil
}

func (s *SeriesService) notifyCompleted(ctx context.Context, series *domain.Series) {
	if !s.notifier.Enabled() {
		return
	}

	ctx = context.WithoutCancel(ctx)
	s.notifications.Go(func() error {
		ctx, cancel := context.WithTimeout(ctx, constants.WebhookTimeout)
		defer cancel()

		result, err := s.seriesResult(ctx, series)
		if err != nil {
			s.logger.Warn().Err(err).Str("series_id", series.ID).Msg("failed to build series result")
			return nil
		}
		// delivery failures are logged and counted by the client
		_ = s.notifier.NotifySeriesCompleted(ctx, result)
		return nil
	})
}

func (s *SeriesService) seriesResult(ctx context.Context, series *domain.Series) (api.SeriesResult, error) {
	names := make(map[string]string, 2)
	for _, id := range []string{series.Player1ID, series.Player2ID} {
		player, err := s.playerRepo.Get(ctx, id)
		if err != nil {
			return api.SeriesResult{}, err
		}
		names[id] = player.Username
	}

	result := api.SeriesResult{
		Content:     series.Summary(names),
		SeriesID:    series.ID,
		RoundNumber: series.RoundNumber,
		Player1:     names[series.Player1ID],
		Player2:     names[series.Player2ID],
		Winner:      names[series.WinnerID],
		IsWalkover:  series.IsWalkover,
		CompletedAt: series.UpdatedAt,
	}
	for _, g := range series.Games {
		if !g.IsProcessed {
			continue
		}
		var duration time.Duration
		if g.Duration != nil {
			duration = *g.Duration
		}
		result.Games = append(result.Games, api.GameSummary{
			Number:       g.Number,
			Winner:       names[g.WinnerID],
			Duration:     domain.FormatClock(duration),
			WinCondition: g.WinCondition.Display(),
		})
	}
	return result, nil
}
