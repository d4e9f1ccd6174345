package stats

import "roundrobin-tracker/internal/domain"

// GamesToWinSeries is the majority of a best-of-three.
const GamesToWinSeries = 2

// SeriesWinner tallies game wins and returns the first participant with a
// majority, checking player 1 first. It returns "" while the series is
// undecided.
func SeriesWinner(series *domain.Series, games []domain.Game) string {
	tally := make(map[string]int, 2)
	for _, g := range games {
		if series.HasPlayer(g.WinnerID) {
			tally[g.WinnerID]++
		}
	}

	switch {
	case tally[series.Player1ID] >= GamesToWinSeries:
		return series.Player1ID
	case tally[series.Player2ID] >= GamesToWinSeries:
		return series.Player2ID
	}
	return ""
}
