package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]interface{}) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "memory", cfg.DBDriver)
	assert.Equal(t, 60*time.Second, cfg.SearchCacheTTL)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.False(t, cfg.SeedData)
}

func TestFromViper_Overrides(t *testing.T) {
	cfg, err := FromViper(newViper(map[string]interface{}{
		"DB_DRIVER":  "SQLite",
		"LOG_LEVEL":  "debug",
		"LOG_FORMAT": "json",
		"SEED_DATA":  "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.NotEmpty(t, cfg.DatabaseDSN)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.SeedData)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", ":9999")
	t.Setenv("RATE_LIMIT_MAX", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.AppPort)
	assert.Equal(t, 0, cfg.RateLimitMax)
}

func TestFromViper_Invalid(t *testing.T) {
	_, err := FromViper(newViper(map[string]interface{}{
		"DB_DRIVER":        "postgres",
		"LOG_FORMAT":       "xml",
		"REDIS_URL":        "redis://localhost:6379/0",
		"SEARCH_CACHE_TTL": "0s",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_DSN is required")
	assert.Contains(t, err.Error(), "LOG_FORMAT must be text or json")
	assert.Contains(t, err.Error(), "SEARCH_CACHE_TTL must be positive")

	_, err = FromViper(newViper(map[string]interface{}{"DB_DRIVER": "mongo"}))
	assert.ErrorContains(t, err, "DB_DRIVER must be one of")

	_, err = FromViper(newViper(map[string]interface{}{"LOG_LEVEL": "loud"}))
	assert.ErrorContains(t, err, "invalid LOG_LEVEL")
}
