// Package config loads service settings from the environment through viper.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"recipes/internal/database"
)

// Config holds the service settings.
type Config struct {
	AppPort         string
	DBDriver        string
	DatabaseDSN     string
	RedisURL        string
	SearchCacheTTL  time.Duration
	RabbitMQURL     string
	RateLimitMax    int
	RateLimitWindow time.Duration
	LogLevel        slog.Level
	LogFormat       string
	SeedData        bool
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", database.DriverMemory)
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("SEARCH_CACHE_TTL", "60s")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RATE_LIMIT_MAX", 100)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("SEED_DATA", false)
}

// Load reads the configuration from environment variables over defaults.
func Load() (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds and validates a Config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	cfg := &Config{
		AppPort:         v.GetString("APP_PORT"),
		DBDriver:        strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseDSN:     v.GetString("DATABASE_DSN"),
		RedisURL:        v.GetString("REDIS_URL"),
		SearchCacheTTL:  v.GetDuration("SEARCH_CACHE_TTL"),
		RabbitMQURL:     v.GetString("RABBITMQ_URL"),
		RateLimitMax:    v.GetInt("RATE_LIMIT_MAX"),
		RateLimitWindow: v.GetDuration("RATE_LIMIT_WINDOW"),
		LogLevel:        level,
		LogFormat:       strings.ToLower(v.GetString("LOG_FORMAT")),
		SeedData:        v.GetBool("SEED_DATA"),
	}
	if cfg.DBDriver == database.DriverSQLite && cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = "file:recipes.db?_foreign_keys=on"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.AppPort == "" {
		errs = append(errs, errors.New("APP_PORT is required"))
	}
	switch c.DBDriver {
	case database.DriverMemory, database.DriverSQLite:
	case database.DriverPostgres:
		if c.DatabaseDSN == "" {
			errs = append(errs, errors.New("DATABASE_DSN is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be one of memory, sqlite, postgres; got %q", c.DBDriver))
	}
	if c.RedisURL != "" && c.SearchCacheTTL <= 0 {
		errs = append(errs, errors.New("SEARCH_CACHE_TTL must be positive when REDIS_URL is set"))
	}
	if c.RateLimitMax < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_MAX must not be negative"))
	}
	if c.RateLimitMax > 0 && c.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive when rate limiting is enabled"))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json; got %q", c.LogFormat))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
