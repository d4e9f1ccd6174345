package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlayer_NoMatches(t *testing.T) {
	p := &Player{Username: "alice"}

	assert.Equal(t, 0, p.MatchesPlayed())
	assert.Equal(t, 0.0, p.WinRate())
	assert.Equal(t, time.Duration(0), p.AverageWinTime())
	assert.Equal(t, "00:00", p.AverageWinTimeDisplay())
	assert.Equal(t, 0, p.KillDeathBalance())
	assert.Equal(t, "alice (0.0%)", p.String())
}

func TestPlayer_Derivations(t *testing.T) {
	p := &Player{
		Username:     "bob",
		Wins:         3,
		Losses:       1,
		TotalKills:   2,
		TotalDeaths:  5,
		TotalWinTime: 3*10*time.Minute + 9*time.Second,
	}

	assert.Equal(t, 4, p.MatchesPlayed())
	assert.InDelta(t, 75.0, p.WinRate(), 1e-9)
	assert.Equal(t, 10*time.Minute+3*time.Second, p.AverageWinTime())
	assert.Equal(t, "10:03", p.AverageWinTimeDisplay())
	assert.Equal(t, -3, p.KillDeathBalance())
	assert.Equal(t, "bob (75.0%)", p.String())
}

func TestPlayer_WinRateBounds(t *testing.T) {
	for wins := 0; wins <= 5; wins++ {
		for losses := 0; losses <= 5; losses++ {
			p := &Player{Wins: wins, Losses: losses}
			rate := p.WinRate()
			assert.GreaterOrEqual(t, rate, 0.0)
			assert.LessOrEqual(t, rate, 100.0)
			assert.Equal(t, wins == 0, rate == 0, "wins=%d losses=%d", wins, losses)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00"},
		{-time.Second, "00:00"},
		{59*time.Second + 900*time.Millisecond, "00:59"},
		{5*time.Minute + 3*time.Second, "05:03"},
		{75 * time.Minute, "75:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatClock(tt.in), tt.in.String())
	}
}

func TestStanding_SeriesAggregates(t *testing.T) {
	s := &Standing{SeriesPlayed: 4, SeriesWins: 1}
	assert.Equal(t, 3, s.SeriesLosses())
	assert.InDelta(t, 25.0, s.SeriesWinRate(), 1e-9)

	empty := &Standing{}
	assert.Equal(t, 0.0, empty.SeriesWinRate())
}

func TestSeries_Participants(t *testing.T) {
	s := &Series{Player1ID: "p1", Player2ID: "p2", RoundNumber: 3, Status: SeriesStatusLive}

	assert.True(t, s.HasPlayer("p1"))
	assert.True(t, s.HasPlayer("p2"))
	assert.False(t, s.HasPlayer("p3"))
	assert.False(t, s.HasPlayer(""))
	assert.Equal(t, "p2", s.Opponent("p1"))
	assert.Equal(t, "p1", s.Opponent("p2"))
	assert.Equal(t, "", s.Opponent("p3"))

	names := map[string]string{"p1": "alice", "p2": "bob"}
	assert.Equal(t, "[R3] alice vs bob (live)", s.Summary(names))

	s.Status = SeriesStatusCompleted
	s.WinnerID = "p2"
	assert.Equal(t, "[R3] bob won", s.Summary(names))
}

func TestCounterDelta_Negate(t *testing.T) {
	d := CounterDelta{Wins: 1, TotalFarm: 50, TotalKills: 1, TotalWinTime: time.Minute}
	n := d.Negate()

	assert.Equal(t, CounterDelta{Wins: -1, TotalFarm: -50, TotalKills: -1, TotalWinTime: -time.Minute}, n)
	assert.True(t, CounterDelta{}.IsZero())
	assert.False(t, n.IsZero())
}
