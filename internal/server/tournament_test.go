package server

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"roundrobin-tracker/internal/api"
	"roundrobin-tracker/internal/config"
	"roundrobin-tracker/internal/database/databasetest"
	"roundrobin-tracker/internal/db"
	"roundrobin-tracker/internal/domain"
	"roundrobin-tracker/internal/metrics"
	"roundrobin-tracker/internal/repository"
	"roundrobin-tracker/internal/service"
	"roundrobin-tracker/internal/stats"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) string {
	t.Helper()

	sqlDB := databasetest.New(t)
	queries := db.New(sqlDB)
	logger := zerolog.Nop()
	cfg := &config.Config{FarmLimit: 12 * time.Minute, TotalRounds: 10}
	m := metrics.New()

	playerRepo := repository.NewPlayerRepository(sqlDB, queries, logger)
	seriesRepo := repository.NewSeriesRepository(sqlDB, queries, logger)
	store := repository.NewStore(sqlDB, queries, logger)

	srv := NewTournamentServer(
		service.NewPlayerService(playerRepo, logger),
		service.NewSeriesService(store, seriesRepo, playerRepo, stats.NewAccumulator(logger),
			api.NewWebhookClient(cfg, m, logger), m, cfg, logger),
		service.NewLeaderboardService(playerRepo, seriesRepo, cfg, logger),
	)

	path, handler := NewTournamentHandler(srv)
	mux := http.NewServeMux()
	mux.Handle(path, handler)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts.URL
}

func call[Req, Res any](t *testing.T, baseURL, procedure string, msg *Req) (*Res, error) {
	t.Helper()
	client := connect.NewClient[Req, Res](http.DefaultClient, baseURL+procedure, WithJSON())
	resp, err := client.CallUnary(context.Background(), connect.NewRequest(msg))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func millis(d time.Duration) *int64 {
	ms := d.Milliseconds()
	return &ms
}

func TestTournamentServer_SeriesFlow(t *testing.T) {
	url := newTestServer(t)

	alice, err := call[CreatePlayerRequest, PlayerResponse](t, url, CreatePlayerProcedure, &CreatePlayerRequest{Username: "alice"})
	require.NoError(t, err)
	bob, err := call[CreatePlayerRequest, PlayerResponse](t, url, CreatePlayerProcedure, &CreatePlayerRequest{Username: "bob"})
	require.NoError(t, err)

	scheduled, err := call[ScheduleSeriesRequest, SeriesResponse](t, url, ScheduleSeriesProcedure, &ScheduleSeriesRequest{
		Player1ID:   alice.Player.ID,
		Player2ID:   bob.Player.ID,
		RoundNumber: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "scheduled", scheduled.Series.Status)

	reconciled, err := call[ReconcileSeriesRequest, SeriesResponse](t, url, ReconcileSeriesProcedure, &ReconcileSeriesRequest{
		SeriesID: scheduled.Series.ID,
		Status:   "completed",
		Games: []Game{
			{Number: 1, WinnerID: alice.Player.ID, DurationMs: millis(4 * time.Minute)},
			{Number: 2, WinnerID: alice.Player.ID, DurationMs: millis(14 * time.Minute), Player1Farm: 12},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, alice.Player.ID, reconciled.Series.WinnerID)
	require.Len(t, reconciled.Series.Games, 2)
	assert.Equal(t, "first_blood", reconciled.Series.Games[0].WinCondition)
	assert.Equal(t, "farm", reconciled.Series.Games[1].WinCondition)

	got, err := call[GetPlayerRequest, PlayerResponse](t, url, GetPlayerProcedure, &GetPlayerRequest{Player: "alice"})
	require.NoError(t, err)
	assert.Equal(t, 2, got.Player.Wins)
	assert.InDelta(t, 100.0, got.Player.WinRate, 0.001)
	assert.Equal(t, 1, got.Player.KillDeathBalance)
	assert.Equal(t, "09:00", got.Player.AverageWinTimeDisplay)

	board, err := call[GetLeaderboardRequest, GetLeaderboardResponse](t, url, GetLeaderboardProcedure, &GetLeaderboardRequest{})
	require.NoError(t, err)
	require.Len(t, board.Standings, 2)
	assert.Equal(t, 1, board.Standings[0].Rank)
	assert.Equal(t, "alice", board.Standings[0].Player.Username)
	assert.Equal(t, 1, board.Standings[1].SeriesLosses)

	rounds, err := call[ListRoundsRequest, ListRoundsResponse](t, url, ListRoundsProcedure, &ListRoundsRequest{})
	require.NoError(t, err)
	require.Len(t, rounds.Rounds, 1)
	assert.Equal(t, []string{"[R1] alice won"}, rounds.Rounds[0].Summaries)

	search, err := call[SearchPlayersRequest, SearchPlayersResponse](t, url, SearchPlayersProcedure, &SearchPlayersRequest{Query: "bo"})
	require.NoError(t, err)
	require.Len(t, search.Players, 1)
	assert.Equal(t, "bob", search.Players[0].Username)
}

func TestTournamentServer_ProcessSingleMatch(t *testing.T) {
	url := newTestServer(t)

	alice, err := call[CreatePlayerRequest, PlayerResponse](t, url, CreatePlayerProcedure, &CreatePlayerRequest{Username: "alice"})
	require.NoError(t, err)
	bob, err := call[CreatePlayerRequest, PlayerResponse](t, url, CreatePlayerProcedure, &CreatePlayerRequest{Username: "bob"})
	require.NoError(t, err)
	series, err := call[ScheduleSeriesRequest, SeriesResponse](t, url, ScheduleSeriesProcedure, &ScheduleSeriesRequest{
		Player1ID: alice.Player.ID, Player2ID: bob.Player.ID, RoundNumber: 2,
	})
	require.NoError(t, err)

	req := &ProcessSingleMatchRequest{SeriesID: series.Series.ID, WinnerID: bob.Player.ID, DurationMs: millis(time.Minute)}
	first, err := call[ProcessSingleMatchRequest, ProcessSingleMatchResponse](t, url, ProcessSingleMatchProcedure, req)
	require.NoError(t, err)
	assert.True(t, first.Processed)
	assert.Equal(t, "completed", first.Series.Status)

	second, err := call[ProcessSingleMatchRequest, ProcessSingleMatchResponse](t, url, ProcessSingleMatchProcedure, req)
	require.NoError(t, err)
	assert.False(t, second.Processed)
}

func TestTournamentServer_ErrorCodes(t *testing.T) {
	url := newTestServer(t)

	alice, err := call[CreatePlayerRequest, PlayerResponse](t, url, CreatePlayerProcedure, &CreatePlayerRequest{Username: "alice"})
	require.NoError(t, err)
	bob, err := call[CreatePlayerRequest, PlayerResponse](t, url, CreatePlayerProcedure, &CreatePlayerRequest{Username: "bob"})
	require.NoError(t, err)
	series, err := call[ScheduleSeriesRequest, SeriesResponse](t, url, ScheduleSeriesProcedure, &ScheduleSeriesRequest{
		Player1ID: alice.Player.ID, Player2ID: bob.Player.ID, RoundNumber: 1,
	})
	require.NoError(t, err)

	_, err = call[CreatePlayerRequest, PlayerResponse](t, url, CreatePlayerProcedure, &CreatePlayerRequest{Username: "alice"})
	assert.Equal(t, connect.CodeAlreadyExists, connect.CodeOf(err))

	_, err = call[GetSeriesRequest, SeriesResponse](t, url, GetSeriesProcedure, &GetSeriesRequest{SeriesID: "missing"})
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	_, err = call[ReconcileSeriesRequest, SeriesResponse](t, url, ReconcileSeriesProcedure, &ReconcileSeriesRequest{
		SeriesID: series.Series.ID, IsWalkover: true,
	})
	assert.Equal(t, connect.CodeFailedPrecondition, connect.CodeOf(err))

	_, err = call[ReconcileSeriesRequest, SeriesResponse](t, url, ReconcileSeriesProcedure, &ReconcileSeriesRequest{
		SeriesID: series.Series.ID, Status: "live", Games: []Game{{Number: 5}},
	})
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	_, err = call[ScheduleSeriesRequest, SeriesResponse](t, url, ScheduleSeriesProcedure, &ScheduleSeriesRequest{
		Player1ID: alice.Player.ID, Player2ID: alice.Player.ID, RoundNumber: 1,
	})
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestTournamentServer_DurationOutOfRange(t *testing.T) {
	url := newTestServer(t)

	alice, err := call[CreatePlayerRequest, PlayerResponse](t, url, CreatePlayerProcedure, &CreatePlayerRequest{Username: "alice"})
	require.NoError(t, err)
	bob, err := call[CreatePlayerRequest, PlayerResponse](t, url, CreatePlayerProcedure, &CreatePlayerRequest{Username: "bob"})
	require.NoError(t, err)
	series, err := call[ScheduleSeriesRequest, SeriesResponse](t, url, ScheduleSeriesProcedure, &ScheduleSeriesRequest{
		Player1ID: alice.Player.ID, Player2ID: bob.Player.ID, RoundNumber: 1,
	})
	require.NoError(t, err)

	huge := maxMillis + 1

	_, err = call[ReconcileSeriesRequest, SeriesResponse](t, url, ReconcileSeriesProcedure, &ReconcileSeriesRequest{
		SeriesID: series.Series.ID,
		Status:   "completed",
		Games:    []Game{{Number: 1, WinnerID: alice.Player.ID, DurationMs: &huge}},
	})
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	single, err := call[ProcessSingleMatchRequest, ProcessSingleMatchResponse](t, url, ProcessSingleMatchProcedure, &ProcessSingleMatchRequest{
		SeriesID: series.Series.ID, WinnerID: alice.Player.ID, DurationMs: &huge,
	})
	assert.Nil(t, single)
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	got, err := call[GetPlayerRequest, PlayerResponse](t, url, GetPlayerProcedure, &GetPlayerRequest{Player: "alice"})
	require.NoError(t, err)
	assert.Zero(t, got.Player.Wins)
}

func TestFromMillis(t *testing.T) {
	d, err := fromMillis(nil)
	require.NoError(t, err)
	assert.Nil(t, d)

	ms := int64(90_000)
	d, err = fromMillis(&ms)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, *d)

	ms = maxMillis
	d, err = fromMillis(&ms)
	require.NoError(t, err)
	assert.Positive(t, *d)

	for _, ms := range []int64{maxMillis + 1, math.MaxInt64, math.MinInt64} {
		_, err := fromMillis(&ms)
		require.ErrorIs(t, err, domain.ErrDurationRange, "%d", ms)
	}
}
