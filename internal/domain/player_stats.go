package domain

import (
	"fmt"
	"time"
)

// MatchesPlayed counts every game the player has been credited with.
func (p *Player) MatchesPlayed() int {
	return p.Wins + p.Losses
}

// WinRate is a percentage in [0, 100]; 0 when nothing has been played.
func (p *Player) WinRate() float64 {
	total := p.MatchesPlayed()
	if total == 0 {
		return 0
	}
	return float64(p.Wins) / float64(total) * 100
}

func (p *Player) AverageWinTime() time.Duration {
	if p.Wins == 0 {
		return 0
	}
	return p.TotalWinTime / time.Duration(p.Wins)
}

func (p *Player) KillDeathBalance() int {
	return p.TotalKills - p.TotalDeaths
}

// AverageWinTimeDisplay formats the average win time as MM:SS.
func (p *Player) AverageWinTimeDisplay() string {
	return FormatClock(p.AverageWinTime())
}

func (p *Player) String() string {
	return fmt.Sprintf("%s (%.1f%%)", p.Username, p.WinRate())
}

// FormatClock renders d as zero-padded minutes and seconds, truncating
// fractions of a second. Minutes are not wrapped at one hour.
func FormatClock(d time.Duration) string {
	if d <= 0 {
		return "00:00"
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Standing is a player plus the series-level aggregates derived from
// completed series.
type Standing struct {
	Player       Player
	SeriesPlayed int
	SeriesWins   int
}

func (s *Standing) SeriesLosses() int {
	return s.SeriesPlayed - s.SeriesWins
}

func (s *Standing) SeriesWinRate() float64 {
	if s.SeriesPlayed == 0 {
		return 0
	}
	return float64(s.SeriesWins) / float64(s.SeriesPlayed) * 100
}
