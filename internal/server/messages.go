package server

import "time"

type Player struct {
	ID                    string  `json:"id"`
	Username              string  `json:"username"`
	Wins                  int     `json:"wins"`
	Losses                int     `json:"losses"`
	MatchesPlayed         int     `json:"matchesPlayed"`
	WinRate               float64 `json:"winRate"`
	FirstBloodWins        int     `json:"firstBloodWins"`
	FarmWins              int     `json:"farmWins"`
	TotalFarm             int     `json:"totalFarm"`
	TotalKills            int     `json:"totalKills"`
	TotalDeaths           int     `json:"totalDeaths"`
	KillDeathBalance      int     `json:"killDeathBalance"`
	AverageWinTimeMs      int64   `json:"averageWinTimeMs"`
	AverageWinTimeDisplay string  `json:"averageWinTimeDisplay"`
}

type Standing struct {
	Rank          int     `json:"rank"`
	Player        Player  `json:"player"`
	SeriesPlayed  int     `json:"seriesPlayed"`
	SeriesWins    int     `json:"seriesWins"`
	SeriesLosses  int     `json:"seriesLosses"`
	SeriesWinRate float64 `json:"seriesWinRate"`
}

type Game struct {
	Number       int    `json:"number"`
	WinnerID     string `json:"winnerId,omitempty"`
	DurationMs   *int64 `json:"durationMs,omitempty"`
	Player1Farm  int    `json:"player1Farm"`
	Player2Farm  int    `json:"player2Farm"`
	WinCondition string `json:"winCondition,omitempty"`
	IsProcessed  bool   `json:"isProcessed"`
}

type Series struct {
	ID            string     `json:"id"`
	Player1ID     string     `json:"player1Id"`
	Player2ID     string     `json:"player2Id"`
	RoundNumber   int        `json:"roundNumber"`
	ScheduledTime *time.Time `json:"scheduledTime,omitempty"`
	Status        string     `json:"status"`
	WinnerID      string     `json:"winnerId,omitempty"`
	IsWalkover    bool       `json:"isWalkover"`
	Games         []Game     `json:"games,omitempty"`
}

type Round struct {
	Number    int      `json:"number"`
	Series    []Series `json:"series"`
	Summaries []string `json:"summaries"`
}

type CreatePlayerRequest struct {
	Username string `json:"username"`
}

// GetPlayerRequest accepts a player ID or an exact username.
type GetPlayerRequest struct {
	Player string `json:"player"`
}

type PlayerResponse struct {
	Player Player `json:"player"`
}

type SearchPlayersRequest struct {
	Query string `json:"query"`
}

type SearchPlayersResponse struct {
	Players []Player `json:"players"`
}

type GetLeaderboardRequest struct{}

type GetLeaderboardResponse struct {
	Standings []Standing `json:"standings"`
}

type ScheduleSeriesRequest struct {
	Player1ID     string     `json:"player1Id"`
	Player2ID     string     `json:"player2Id"`
	RoundNumber   int        `json:"roundNumber"`
	ScheduledTime *time.Time `json:"scheduledTime,omitempty"`
}

type GetSeriesRequest struct {
	SeriesID string `json:"seriesId"`
}

type SeriesResponse struct {
	Series Series `json:"series"`
}

type ListRoundsRequest struct{}

type ListRoundsResponse struct {
	Rounds []Round `json:"rounds"`
}

type ReconcileSeriesRequest struct {
	SeriesID   string `json:"seriesId"`
	Status     string `json:"status"`
	IsWalkover bool   `json:"isWalkover"`
	WinnerID   string `json:"winnerId,omitempty"`
	Games      []Game `json:"games"`
}

type ProcessSingleMatchRequest struct {
	SeriesID     string `json:"seriesId"`
	WinnerID     string `json:"winnerId"`
	DurationMs   *int64 `json:"durationMs,omitempty"`
	Player1Farm  int    `json:"player1Farm"`
	Player2Farm  int    `json:"player2Farm"`
	WinCondition string `json:"winCondition,omitempty"`
}

type ProcessSingleMatchResponse struct {
	Series    Series `json:"series"`
	Processed bool   `json:"processed"`
}
