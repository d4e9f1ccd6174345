package stats

import (
	"fmt"
	"time"

	"roundrobin-tracker/internal/domain"
)

// ClassifyWinCondition splits fast wins from slow ones: anything lasting at
// least farmLimit is a farm win.
func ClassifyWinCondition(d, farmLimit time.Duration) domain.WinCondition {
	if d >= farmLimit {
		return domain.WinConditionFarm
	}
	return domain.WinConditionFirstBlood
}

// OutcomeFor orients a game of series from its winner's point of view.
func OutcomeFor(series *domain.Series, game *domain.Game, condition domain.WinCondition) (domain.GameOutcome, error) {
	if !series.HasPlayer(game.WinnerID) {
		return domain.GameOutcome{}, fmt.Errorf("game %d winner %q: %w", game.Number, game.WinnerID, domain.ErrWinnerNotParticipant)
	}
	if !condition.IsDetermined() {
		return domain.GameOutcome{}, fmt.Errorf("game %d: %w", game.Number, domain.ErrUndeterminedWinCondition)
	}

	var duration time.Duration
	if game.Duration != nil {
		duration = *game.Duration
	}

	outcome := domain.GameOutcome{
		WinnerID:     game.WinnerID,
		LoserID:      series.Opponent(game.WinnerID),
		Duration:     duration,
		WinCondition: condition,
	}
	if game.WinnerID == series.Player1ID {
		outcome.WinnerFarm, outcome.LoserFarm = game.Player1Farm, game.Player2Farm
	} else {
		outcome.WinnerFarm, outcome.LoserFarm = game.Player2Farm, game.Player1Farm
	}
	return outcome, nil
}

// WinnerDelta is what a won game adds to the winner's counters. Kills are
// only credited for first blood wins.
func WinnerDelta(o domain.GameOutcome) domain.CounterDelta {
	d := domain.CounterDelta{
		Wins:         1,
		TotalWinTime: o.Duration,
		TotalFarm:    o.WinnerFarm,
	}
	if o.WinCondition == domain.WinConditionFarm {
		d.FarmWins = 1
	} else {
		d.FirstBloodWins = 1
		d.TotalKills = 1
	}
	return d
}

// LoserDelta is what a lost game adds to the loser's counters. Farm losses
// carry no death.
func LoserDelta(o domain.GameOutcome) domain.CounterDelta {
	d := domain.CounterDelta{
		Losses:    1,
		TotalFarm: o.LoserFarm,
	}
	if o.WinCondition == domain.WinConditionFirstBlood {
		d.TotalDeaths = 1
	}
	return d
}
