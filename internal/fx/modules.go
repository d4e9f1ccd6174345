package fx

import (
	"database/sql"

	"roundrobin-tracker/internal/api"
	"roundrobin-tracker/internal/config"
	"roundrobin-tracker/internal/database"
	"roundrobin-tracker/internal/db"
	"roundrobin-tracker/internal/logger"
	"roundrobin-tracker/internal/metrics"
	"roundrobin-tracker/internal/middleware"
	"roundrobin-tracker/internal/repository"
	"roundrobin-tracker/internal/server"
	"roundrobin-tracker/internal/service"
	"roundrobin-tracker/internal/stats"

	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

// Core is everything needed to read and reconcile tournament records.
var Core = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	fx.Provide(metrics.New),
	// repos
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewSeriesRepository),
	fx.Provide(repository.NewStore),
	// api client
	fx.Provide(api.NewWebhookClient),
	// svc
	fx.Provide(stats.NewAccumulator),
	fx.Provide(service.NewPlayerService),
	fx.Provide(service.NewSeriesService),
	fx.Provide(service.NewLeaderboardService),
)

var Module = fx.Options(
	Core,
	// server
	fx.Provide(middleware.NewIPRateLimiter),
	fx.Provide(server.NewTournamentServer),
)
