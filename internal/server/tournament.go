package server

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"roundrobin-tracker/internal/domain"
	"roundrobin-tracker/internal/service"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

const TournamentServicePath = "/roundrobin.v1.TournamentService/"

const (
	CreatePlayerProcedure       = TournamentServicePath + "CreatePlayer"
	GetPlayerProcedure          = TournamentServicePath + "GetPlayer"
	SearchPlayersProcedure      = TournamentServicePath + "SearchPlayers"
	GetLeaderboardProcedure     = TournamentServicePath + "GetLeaderboard"
	ScheduleSeriesProcedure     = TournamentServicePath + "ScheduleSeries"
	GetSeriesProcedure          = TournamentServicePath + "GetSeries"
	ListRoundsProcedure         = TournamentServicePath + "ListRounds"
	ReconcileSeriesProcedure    = TournamentServicePath + "ReconcileSeries"
	ProcessSingleMatchProcedure = TournamentServicePath + "ProcessSingleMatch"
)

type TournamentServer struct {
	playerSvc      *service.PlayerService
	seriesSvc      *service.SeriesService
	leaderboardSvc *service.LeaderboardService
}

func NewTournamentServer(playerSvc *service.PlayerService, seriesSvc *service.SeriesService, leaderboardSvc *service.LeaderboardService) *TournamentServer {
	return &TournamentServer{playerSvc: playerSvc, seriesSvc: seriesSvc, leaderboardSvc: leaderboardSvc}
}

// NewTournamentHandler mounts every procedure of s and returns the path
// prefix to route to the handler.
func NewTournamentHandler(s *TournamentServer, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)

	mux := http.NewServeMux()
	mux.Handle(CreatePlayerProcedure, connect.NewUnaryHandler(CreatePlayerProcedure, s.CreatePlayer, opts...))
	mux.Handle(GetPlayerProcedure, connect.NewUnaryHandler(GetPlayerProcedure, s.GetPlayer, opts...))
	mux.Handle(SearchPlayersProcedure, connect.NewUnaryHandler(SearchPlayersProcedure, s.SearchPlayers, opts...))
	mux.Handle(GetLeaderboardProcedure, connect.NewUnaryHandler(GetLeaderboardProcedure, s.GetLeaderboard, opts...))
	mux.Handle(ScheduleSeriesProcedure, connect.NewUnaryHandler(ScheduleSeriesProcedure, s.ScheduleSeries, opts...))
	mux.Handle(GetSeriesProcedure, connect.NewUnaryHandler(GetSeriesProcedure, s.GetSeries, opts...))
	mux.Handle(ListRoundsProcedure, connect.NewUnaryHandler(ListRoundsProcedure, s.ListRounds, opts...))
	mux.Handle(ReconcileSeriesProcedure, connect.NewUnaryHandler(ReconcileSeriesProcedure, s.ReconcileSeries, opts...))
	mux.Handle(ProcessSingleMatchProcedure, connect.NewUnaryHandler(ProcessSingleMatchProcedure, s.ProcessSingleMatch, opts...))
	return TournamentServicePath, mux
}

func (s *TournamentServer) CreatePlayer(ctx context.Context, req *connect.Request[CreatePlayerRequest]) (*connect.Response[PlayerResponse], error) {
	player, err := s.playerSvc.CreatePlayer(ctx, req.Msg.Username)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&PlayerResponse{Player: toPlayer(player)}), nil
}

func (s *TournamentServer) GetPlayer(ctx context.Context, req *connect.Request[GetPlayerRequest]) (*connect.Response[PlayerResponse], error) {
	player, err := s.playerSvc.GetPlayer(ctx, req.Msg.Player)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&PlayerResponse{Player: toPlayer(player)}), nil
}

func (s *TournamentServer) SearchPlayers(ctx context.Context, req *connect.Request[SearchPlayersRequest]) (*connect.Response[SearchPlayersResponse], error) {
	players, err := s.playerSvc.SearchPlayers(ctx, req.Msg.Query)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}

	resp := &SearchPlayersResponse{Players: make([]Player, len(players))}
	for i := range players {
		resp.Players[i] = toPlayer(&players[i])
	}
	return connect.NewResponse(resp), nil
}

func (s *TournamentServer) GetLeaderboard(ctx context.Context, _ *connect.Request[GetLeaderboardRequest]) (*connect.Response[GetLeaderboardResponse], error) {
	standings, err := s.leaderboardSvc.Standings(ctx)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}

	resp := &GetLeaderboardResponse{Standings: make([]Standing, len(standings))}
	for i := range standings {
		st := &standings[i]
		resp.Standings[i] = Standing{
			Rank:          i + 1,
			Player:        toPlayer(&st.Player),
			SeriesPlayed:  st.SeriesPlayed,
			SeriesWins:    st.SeriesWins,
			SeriesLosses:  st.SeriesLosses(),
			SeriesWinRate: st.SeriesWinRate(),
		}
	}
	return connect.NewResponse(resp), nil
}

func (s *TournamentServer) ScheduleSeries(ctx context.Context, req *connect.Request[ScheduleSeriesRequest]) (*connect.Response[SeriesResponse], error) {
	series, err := s.seriesSvc.Schedule(ctx, req.Msg.Player1ID, req.Msg.Player2ID, req.Msg.RoundNumber, req.Msg.ScheduledTime)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&SeriesResponse{Series: toSeries(series)}), nil
}

func (s *TournamentServer) GetSeries(ctx context.Context, req *connect.Request[GetSeriesRequest]) (*connect.Response[SeriesResponse], error) {
	series, err := s.seriesSvc.Get(ctx, req.Msg.SeriesID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&SeriesResponse{Series: toSeries(series)}), nil
}

func (s *TournamentServer) ListRounds(ctx context.Context, _ *connect.Request[ListRoundsRequest]) (*connect.Response[ListRoundsResponse], error) {
	rounds, err := s.leaderboardSvc.ListRounds(ctx)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}

	resp := &ListRoundsResponse{Rounds: make([]Round, len(rounds))}
	for i, r := range rounds {
		out := Round{Number: r.Number, Summaries: r.Summaries, Series: make([]Series, len(r.Series))}
		for j := range r.Series {
			out.Series[j] = toSeries(&r.Series[j])
		}
		resp.Rounds[i] = out
	}
	return connect.NewResponse(resp), nil
}

func (s *TournamentServer) ReconcileSeries(ctx context.Context, req *connect.Request[ReconcileSeriesRequest]) (*connect.Response[SeriesResponse], error) {
	in := service.ReconcileRequest{
		SeriesID:   req.Msg.SeriesID,
		Status:     domain.SeriesStatus(req.Msg.Status),
		IsWalkover: req.Msg.IsWalkover,
		WinnerID:   req.Msg.WinnerID,
		Games:      make([]service.GameResult, len(req.Msg.Games)),
	}
	for i, g := range req.Msg.Games {
		duration, err := fromMillis(g.DurationMs)
		if err != nil {
			return nil, toConnectError(ctx, fmt.Errorf("game %d: %w", g.Number, err))
		}
		in.Games[i] = service.GameResult{
			Number:       g.Number,
			WinnerID:     g.WinnerID,
			Duration:     duration,
			Player1Farm:  g.Player1Farm,
			Player2Farm:  g.Player2Farm,
			WinCondition: domain.WinCondition(g.WinCondition),
		}
	}

	series, err := s.seriesSvc.ReconcileSeries(ctx, in)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&SeriesResponse{Series: toSeries(series)}), nil
}

func (s *TournamentServer) ProcessSingleMatch(ctx context.Context, req *connect.Request[ProcessSingleMatchRequest]) (*connect.Response[ProcessSingleMatchResponse], error) {
	duration, err := fromMillis(req.Msg.DurationMs)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	series, processed, err := s.seriesSvc.ProcessSingleMatch(ctx, service.SingleMatchRequest{
		SeriesID:     req.Msg.SeriesID,
		WinnerID:     req.Msg.WinnerID,
		Duration:     duration,
		Player1Farm:  req.Msg.Player1Farm,
		Player2Farm:  req.Msg.Player2Farm,
		WinCondition: domain.WinCondition(req.Msg.WinCondition),
	})
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&ProcessSingleMatchResponse{Series: toSeries(series), Processed: processed}), nil
}

func toConnectError(ctx context.Context, err error) error {
	code := connect.CodeInternal
	switch {
	case domain.IsPrecondition(err):
		code = connect.CodeFailedPrecondition
	case domain.IsInvalidInput(err):
		code = connect.CodeInvalidArgument
	case domain.IsNotFound(err):
		code = connect.CodeNotFound
	case errors.Is(err, domain.ErrUsernameTaken):
		code = connect.CodeAlreadyExists
	case errors.Is(err, context.DeadlineExceeded):
		code = connect.CodeDeadlineExceeded
	}

	if code == connect.CodeInternal {
		zerolog.Ctx(ctx).Error().Err(err).Msg("request failed")
	}
	return connect.NewError(code, err)
}

func toPlayer(p *domain.Player) Player {
	return Player{
		ID:                    p.ID,
		Username:              p.Username,
		Wins:                  p.Wins,
		Losses:                p.Losses,
		MatchesPlayed:         p.MatchesPlayed(),
		WinRate:               p.WinRate(),
		FirstBloodWins:        p.FirstBloodWins,
		FarmWins:              p.FarmWins,
		TotalFarm:             p.TotalFarm,
		TotalKills:            p.TotalKills,
		TotalDeaths:           p.TotalDeaths,
		KillDeathBalance:      p.KillDeathBalance(),
		AverageWinTimeMs:      p.AverageWinTime().Milliseconds(),
		AverageWinTimeDisplay: p.AverageWinTimeDisplay(),
	}
}

func toSeries(s *domain.Series) Series {
	out := Series{
		ID:            s.ID,
		Player1ID:     s.Player1ID,
		Player2ID:     s.Player2ID,
		RoundNumber:   s.RoundNumber,
		ScheduledTime: s.ScheduledTime,
		Status:        string(s.Status),
		WinnerID:      s.WinnerID,
		IsWalkover:    s.IsWalkover,
	}
	for _, g := range s.Games {
		game := Game{
			Number:       g.Number,
			WinnerID:     g.WinnerID,
			Player1Farm:  g.Player1Farm,
			Player2Farm:  g.Player2Farm,
			WinCondition: string(g.WinCondition),
			IsProcessed:  g.IsProcessed,
		}
		if g.Duration != nil {
			ms := g.Duration.Milliseconds()
			game.DurationMs = &ms
		}
		out.Games = append(out.Games, game)
	}
	return out
}

// maxMillis is the largest millisecond count a time.Duration can hold.
const maxMillis = math.MaxInt64 / int64(time.Millisecond)

func fromMillis(ms *int64) (*time.Duration, error) {
	if ms == nil {
		return nil, nil
	}
	if *ms > maxMillis || *ms < -maxMillis {
		return nil, fmt.Errorf("%d ms: %w", *ms, domain.ErrDurationRange)
	}
	d := time.Duration(*ms) * time.Millisecond
	return &d, nil
}
