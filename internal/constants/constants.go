package constants

import "time"

const (
	DefaultFarmLimit   = 12 * time.Minute
	DefaultTotalRounds = 10
	MaxGamesPerSeries  = 3
)

const (
	WebhookTimeout = 10 * time.Second
	RequestTimeout = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	SearchSuggestionLimit = 10
	DefaultAPIRateLimit   = 20
	DefaultAPIRateBurst   = 40
	WebhookRateLimit      = 5
)
