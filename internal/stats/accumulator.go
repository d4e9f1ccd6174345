package stats

import (
	"context"
	"errors"
	"fmt"

	"roundrobin-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// CounterStore applies a delta to a player's stored counters in one
// statement. Implementations must not read the counters back first.
type CounterStore interface {
	UpdatePlayerCounters(ctx context.Context, playerID string, delta domain.CounterDelta) error
}

var errSelfMatch = errors.New("winner and loser are the same player")

type Accumulator struct {
	logger zerolog.Logger
}

func NewAccumulator(logger zerolog.Logger) *Accumulator {
	return &Accumulator{logger: logger}
}

// ApplyGameResult credits the outcome to both players. The store must be
// scoped to the caller's transaction so that both updates commit together.
func (a *Accumulator) ApplyGameResult(ctx context.Context, store CounterStore, o domain.GameOutcome) error {
	if err := validateOutcome(o); err != nil {
		return err
	}

	a.logger.Debug().
		Str("winner_id", o.WinnerID).
		Str("loser_id", o.LoserID).
		Str("win_condition", string(o.WinCondition)).
		Dur("duration", o.Duration).
		Msg("applying game result")

	return a.update(ctx, store, o, WinnerDelta(o), LoserDelta(o))
}

// RevertGameResult is the exact inverse of ApplyGameResult for the same
// outcome.
func (a *Accumulator) RevertGameResult(ctx context.Context, store CounterStore, o domain.GameOutcome) error {
	if err := validateOutcome(o); err != nil {
		return err
	}

	a.logger.Debug().
		Str("winner_id", o.WinnerID).
		Str("loser_id", o.LoserID).
		Str("win_condition", string(o.WinCondition)).
		Dur("duration", o.Duration).
		Msg("reverting game result")

	return a.update(ctx, store, o, WinnerDelta(o).Negate(), LoserDelta(o).Negate())
}

func (a *Accumulator) update(ctx context.Context, store CounterStore, o domain.GameOutcome, winner, loser domain.CounterDelta) error {
	if err := store.UpdatePlayerCounters(ctx, o.WinnerID, winner); err != nil {
		return fmt.Errorf("failed to update winner %s: %w", o.WinnerID, err)
	}
	if err := store.UpdatePlayerCounters(ctx, o.LoserID, loser); err != nil {
		return fmt.Errorf("failed to update loser %s: %w", o.LoserID, err)
	}
	return nil
}

func validateOutcome(o domain.GameOutcome) error {
	if !o.WinCondition.IsDetermined() {
		return domain.ErrUndeterminedWinCondition
	}
	if o.WinnerID == "" || o.LoserID == "" {
		return domain.ErrWinnerNotParticipant
	}
	if o.WinnerID == o.LoserID {
		return errSelfMatch
	}
	return nil
}
