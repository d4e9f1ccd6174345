package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"DB_PATH", "SERVER_PORT", "LOG_LEVEL", "FARM_LIMIT", "TOTAL_ROUNDS", "RESULTS_WEBHOOK_URL", "API_RATE_LIMIT", "API_RATE_BURST"} {
		t.Setenv(key, "")
	}

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "roundrobin.db", cfg.DBPath)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 12*time.Minute, cfg.FarmLimit)
	assert.Equal(t, 10, cfg.TotalRounds)
	assert.Empty(t, cfg.WebhookURL)
	assert.Equal(t, 20.0, cfg.RateLimit)
	assert.Equal(t, 40, cfg.RateBurst)
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FARM_LIMIT", "8m30s")
	t.Setenv("TOTAL_ROUNDS", "7")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RESULTS_WEBHOOK_URL", "http://localhost:9999/hook")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, 8*time.Minute+30*time.Second, cfg.FarmLimit)
	assert.Equal(t, 7, cfg.TotalRounds)
	assert.Equal(t, "http://localhost:9999/hook", cfg.WebhookURL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"FARM_LIMIT":   "twelve",
		"TOTAL_ROUNDS": "0",
		"LOG_LEVEL":    "loud",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(key, value)
			_, err := Load(zerolog.Nop())
			require.Error(t, err)
		})
	}
}
