package config

import (
	"log/slog"
	"time"
)

type LogLeveler string

func (l LogLeveler) Level() slog.Level {
	var level slog.Level

	_ = level.UnmarshalText([]byte(l))

	return level
}

// Config holds the application configuration.
type Config struct {
	LogLevel LogLeveler `mapstructure:"LOG_LEVEL"`
	HTTP     HTTP       `mapstructure:",squash"`
	Redis    Redis      `mapstructure:",squash"`
	Search   Search     `mapstructure:",squash"`
	Metrics  Metrics    `mapstructure:",squash"`
}

type HTTP struct {
	Port    int           `mapstructure:"HTTP_PORT"`
	Timeout time.Duration `mapstructure:"HTTP_TIMEOUT"`
}

type Redis struct {
	Addr     string        `mapstructure:"REDIS_ADDR"`
	Password string        `mapstructure:"REDIS_PASSWORD"`
	DB       int           `mapstructure:"REDIS_DB"`
	Timeout  time.Duration `mapstructure:"REDIS_TIMEOUT"`
}

// Search holds the itinerary search service configuration. The transfer
// window is not configurable.
type Search struct {
	CacheExpiration time.Duration `mapstructure:"SEARCH_CACHE_EXPIRATION"`
	LockTimeout     time.Duration `mapstructure:"SEARCH_LOCK_TIMEOUT"`
	RateLimitRPS    int           `mapstructure:"SEARCH_RATE_LIMIT"`
	MaxFlights      int           `mapstructure:"SEARCH_MAX_FLIGHTS"`
}

type Metrics struct {
	Namespace string `mapstructure:"METRICS_NAMESPACE"`
}
