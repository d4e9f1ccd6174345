package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"roundrobin-tracker/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	DBPath      string
	ServerPort  string
	LogLevel    string
	FarmLimit   time.Duration
	TotalRounds int
	WebhookURL  string
	RateLimit   float64
	RateBurst   int
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DBPath:     getEnv("DB_PATH", "roundrobin.db"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		WebhookURL: getEnv("RESULTS_WEBHOOK_URL", ""),
	}

	var err error
	if cfg.FarmLimit, err = getDuration("FARM_LIMIT", constants.DefaultFarmLimit); err != nil {
		return nil, err
	}
	if cfg.FarmLimit <= 0 {
		return nil, fmt.Errorf("FARM_LIMIT must be positive, got %s", cfg.FarmLimit)
	}
	if cfg.TotalRounds, err = getInt("TOTAL_ROUNDS", constants.DefaultTotalRounds); err != nil {
		return nil, err
	}
	if cfg.TotalRounds < 1 {
		return nil, fmt.Errorf("TOTAL_ROUNDS must be at least 1, got %d", cfg.TotalRounds)
	}
	if cfg.RateLimit, err = getFloat("API_RATE_LIMIT", constants.DefaultAPIRateLimit); err != nil {
		return nil, err
	}
	if cfg.RateBurst, err = getInt("API_RATE_BURST", constants.DefaultAPIRateBurst); err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	zerolog.SetGlobalLevel(level)

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Dur("farm_limit", cfg.FarmLimit).
		Int("total_rounds", cfg.TotalRounds).
		Bool("webhook_enabled", cfg.WebhookURL != "").
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return f, nil
}

var Module = fx.Provide(Load)
