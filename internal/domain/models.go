package domain

import (
	"fmt"
	"time"
)

type WinCondition string

const (
	WinConditionUndetermined WinCondition = ""
	WinConditionFirstBlood   WinCondition = "first_blood"
	WinConditionFarm         WinCondition = "farm"
)

func (w WinCondition) IsDetermined() bool {
	return w == WinConditionFirstBlood || w == WinConditionFarm
}

func (w WinCondition) Display() string {
	switch w {
	case WinConditionFirstBlood:
		return "First Blood"
	case WinConditionFarm:
		return "Farm"
	default:
		return "-"
	}
}

type SeriesStatus string

const (
	SeriesStatusScheduled SeriesStatus = "scheduled"
	SeriesStatusLive      SeriesStatus = "live"
	SeriesStatusCompleted SeriesStatus = "completed"
)

func (s SeriesStatus) Valid() bool {
	switch s {
	case SeriesStatusScheduled, SeriesStatusLive, SeriesStatusCompleted:
		return true
	}
	return false
}

type Player struct {
	ID             string
	Username       string
	Wins           int
	Losses         int
	FirstBloodWins int
	FarmWins       int
	TotalFarm      int
	TotalKills     int
	TotalDeaths    int
	TotalWinTime   time.Duration
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Series struct {
	ID            string
	Player1ID     string
	Player2ID     string
	RoundNumber   int
	ScheduledTime *time.Time
	Status        SeriesStatus
	WinnerID      string // empty until completed
	IsWalkover    bool
	Games         []Game // ascending game number
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasPlayer reports whether id is one of the two participants.
func (s *Series) HasPlayer(id string) bool {
	return id != "" && (id == s.Player1ID || id == s.Player2ID)
}

// Opponent returns the other participant, or "" when id is not in the series.
func (s *Series) Opponent(id string) string {
	switch id {
	case s.Player1ID:
		return s.Player2ID
	case s.Player2ID:
		return s.Player1ID
	}
	return ""
}

// Summary renders the one-line description used in round listings.
func (s *Series) Summary(names map[string]string) string {
	if s.Status == SeriesStatusCompleted && s.WinnerID != "" {
		return fmt.Sprintf("[R%d] %s won", s.RoundNumber, names[s.WinnerID])
	}
	return fmt.Sprintf("[R%d] %s vs %s (%s)", s.RoundNumber, names[s.Player1ID], names[s.Player2ID], s.Status)
}

type Game struct {
	SeriesID     string
	Number       int
	WinnerID     string
	Duration     *time.Duration
	Player1Farm  int
	Player2Farm  int
	WinCondition WinCondition
	IsProcessed  bool

	// Applied is what was added to the player counters when the game was
	// processed. Reverts read it back instead of the editable fields above.
	Applied *GameOutcome

	CreatedAt time.Time
	UpdatedAt time.Time
}

// GameOutcome is one game's result oriented from winner to loser.
type GameOutcome struct {
	WinnerID     string
	LoserID      string
	Duration     time.Duration
	WinnerFarm   int
	LoserFarm    int
	WinCondition WinCondition
}

// CounterDelta is a signed change to a player's stored counters.
type CounterDelta struct {
	Wins           int
	Losses         int
	FirstBloodWins int
	FarmWins       int
	TotalFarm      int
	TotalKills     int
	TotalDeaths    int
	TotalWinTime   time.Duration
}

func (d CounterDelta) Negate() CounterDelta {
	return CounterDelta{
		Wins:           -d.Wins,
		Losses:         -d.Losses,
		FirstBloodWins: -d.FirstBloodWins,
		FarmWins:       -d.FarmWins,
		TotalFarm:      -d.TotalFarm,
		TotalKills:     -d.TotalKills,
		TotalDeaths:    -d.TotalDeaths,
		TotalWinTime:   -d.TotalWinTime,
	}
}

func (d CounterDelta) IsZero() bool {
	return d == CounterDelta{}
}
