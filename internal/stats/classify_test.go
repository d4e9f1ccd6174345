package stats

import (
	"testing"
	"time"

	"roundrobin-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyWinCondition(t *testing.T) {
	limit := 12 * time.Minute

	assert.Equal(t, domain.WinConditionFirstBlood, ClassifyWinCondition(10*time.Minute, limit))
	assert.Equal(t, domain.WinConditionFirstBlood, ClassifyWinCondition(limit-time.Second, limit))
	assert.Equal(t, domain.WinConditionFarm, ClassifyWinCondition(limit, limit))
	assert.Equal(t, domain.WinConditionFarm, ClassifyWinCondition(15*time.Minute, limit))

	// the limit is injected, not fixed
	assert.Equal(t, domain.WinConditionFarm, ClassifyWinCondition(10*time.Minute, 5*time.Minute))
}

func TestOutcomeFor(t *testing.T) {
	series := &domain.Series{ID: "s1", Player1ID: "p1", Player2ID: "p2"}
	d := 9 * time.Minute

	t.Run("player two wins", func(t *testing.T) {
		game := &domain.Game{Number: 2, WinnerID: "p2", Duration: &d, Player1Farm: 10, Player2Farm: 40}
		o, err := OutcomeFor(series, game, domain.WinConditionFirstBlood)
		require.NoError(t, err)
		assert.Equal(t, domain.GameOutcome{
			WinnerID:     "p2",
			LoserID:      "p1",
			Duration:     d,
			WinnerFarm:   40,
			LoserFarm:    10,
			WinCondition: domain.WinConditionFirstBlood,
		}, o)
	})

	t.Run("outsider winner", func(t *testing.T) {
		game := &domain.Game{Number: 1, WinnerID: "p9"}
		_, err := OutcomeFor(series, game, domain.WinConditionFarm)
		require.ErrorIs(t, err, domain.ErrWinnerNotParticipant)
	})

	t.Run("undetermined", func(t *testing.T) {
		game := &domain.Game{Number: 1, WinnerID: "p1"}
		_, err := OutcomeFor(series, game, domain.WinConditionUndetermined)
		require.ErrorIs(t, err, domain.ErrUndeterminedWinCondition)
	})
}

func TestSeriesWinner(t *testing.T) {
	series := &domain.Series{Player1ID: "a", Player2ID: "b"}
	games := func(winners ...string) []domain.Game {
		out := make([]domain.Game, len(winners))
		for i, w := range winners {
			out[i] = domain.Game{Number: i + 1, WinnerID: w}
		}
		return out
	}

	assert.Equal(t, "a", SeriesWinner(series, games("a", "b", "a")))
	assert.Equal(t, "b", SeriesWinner(series, games("b", "b")))
	assert.Equal(t, "", SeriesWinner(series, games("a", "b")))
	assert.Equal(t, "", SeriesWinner(series, games("a", "", "")))
	assert.Equal(t, "", SeriesWinner(series, nil))
	assert.Equal(t, "", SeriesWinner(series, games("x", "x")))
}
