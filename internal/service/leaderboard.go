package service

import (
	"cmp"
	"context"
	"slices"

	"roundrobin-tracker/internal/config"
	"roundrobin-tracker/internal/constants"
	"roundrobin-tracker/internal/domain"
	"roundrobin-tracker/internal/repository"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Round is one round of the tournament with its series in schedule order.
type Round struct {
	Number    int
	Series    []domain.Series
	Summaries []string
}

type LeaderboardService struct {
	playerRepo  *repository.PlayerRepository
	seriesRepo  *repository.SeriesRepository
	totalRounds int
	logger      zerolog.Logger
}

func NewLeaderboardService(playerRepo *repository.PlayerRepository, seriesRepo *repository.SeriesRepository, cfg *config.Config, logger zerolog.Logger) *LeaderboardService {
	return &LeaderboardService{
		playerRepo:  playerRepo,
		seriesRepo:  seriesRepo,
		totalRounds: cfg.TotalRounds,
		logger:      logger,
	}
}

// Standings ranks every player by series wins, then kill/death balance, then
// average win time (players without wins last), then username.
func (s *LeaderboardService) Standings(ctx context.Context) ([]domain.Standing, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)
	var players []domain.Player
	var tallies map[string]repository.SeriesTally

	g.Go(func() error {
		var err error
		players, err = s.playerRepo.List(gCtx)
		return err
	})

	g.Go(func() error {
		var err error
		tallies, err = s.playerRepo.SeriesResults(gCtx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("failed to load standings")
		return nil, err
	}

	standings := lo.Map(players, func(p domain.Player, _ int) domain.Standing {
		tally := tallies[p.ID]
		return domain.Standing{Player: p, SeriesPlayed: tally.Played, SeriesWins: tally.Won}
	})
	slices.SortStableFunc(standings, compareStandings)

	s.logger.Debug().Int("players", len(standings)).Msg("standings computed")
	return standings, nil
}

func compareStandings(a, b domain.Standing) int {
	if c := cmp.Compare(b.SeriesWins, a.SeriesWins); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Player.KillDeathBalance(), a.Player.KillDeathBalance()); c != 0 {
		return c
	}
	if c := compareWinTime(a.Player, b.Player); c != 0 {
		return c
	}
	return cmp.Compare(a.Player.Username, b.Player.Username)
}

func compareWinTime(a, b domain.Player) int {
	switch {
	case a.Wins == 0 && b.Wins == 0:
		return 0
	case a.Wins == 0:
		return 1
	case b.Wins == 0:
		return -1
	}
	return cmp.Compare(a.AverageWinTime(), b.AverageWinTime())
}

// ListRounds groups series by round. Rounds without series are omitted.
func (s *LeaderboardService) ListRounds(ctx context.Context) ([]Round, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)
	var series []domain.Series
	var players []domain.Player

	g.Go(func() error {
		var err error
		series, err = s.seriesRepo.List(gCtx)
		return err
	})

	g.Go(func() error {
		var err error
		players, err = s.playerRepo.List(gCtx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("failed to load rounds")
		return nil, err
	}

	names := lo.SliceToMap(players, func(p domain.Player) (string, string) {
		return p.ID, p.Username
	})
	byRound := lo.GroupBy(series, func(sr domain.Series) int { return sr.RoundNumber })

	rounds := make([]Round, 0, len(byRound))
	for number := 1; number <= s.totalRounds; number++ {
		list, ok := byRound[number]
		if !ok {
			continue
		}
		slices.SortStableFunc(list, compareSchedule)
		rounds = append(rounds, Round{
			Number: number,
			Series: list,
			Summaries: lo.Map(list, func(sr domain.Series, _ int) string {
				return sr.Summary(names)
			}),
		})
	}
	return rounds, nil
}

// compareSchedule orders by scheduled time with unscheduled series last.
func compareSchedule(a, b domain.Series) int {
	switch {
	case a.ScheduledTime == nil && b.ScheduledTime == nil:
		return 0
	case a.ScheduledTime == nil:
		return 1
	case b.ScheduledTime == nil:
		return -1
	}
	return a.ScheduledTime.Compare(*b.ScheduledTime)
}
