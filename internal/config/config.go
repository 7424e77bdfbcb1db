// Package config loads the reference host daemon's configuration from
// environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all hostd configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Fixtures  FixturesConfig
	Events    EventsConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"HOSTD_PORT" default:"8787"`
	Host string `envconfig:"HOSTD_HOST" default:"0.0.0.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"HOSTD_LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"HOSTD_LOG_DEV" default:"false"`
}

// RateLimitConfig holds inbound frame rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"HOSTD_RATE_LIMIT_RPS" default:"200"`
	Burst             int  `envconfig:"HOSTD_RATE_LIMIT_BURST" default:"400"`
	Enabled           bool `envconfig:"HOSTD_RATE_LIMIT_ENABLED" default:"true"`
}

// FixturesConfig locates the YAML file backing the feature handlers.
type FixturesConfig struct {
	Path string `envconfig:"HOSTD_FIXTURES_PATH" default:""`
}

// EventsConfig controls synthetic event broadcasting, useful for exercising
// guest subscriptions during development.
type EventsConfig struct {
	NetworkFlapInterval time.Duration `envconfig:"HOSTD_NETWORK_FLAP_INTERVAL" default:"0s"`
}

// Load loads configuration from environment variables. The keys are spelled
// out in full in the tags because an explicit envconfig tag replaces the
// whole lookup key, prefix included.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server:    ServerConfig{Port: "8787", Host: "0.0.0.0"},
		Logging:   LogConfig{Level: "info"},
		RateLimit: RateLimitConfig{RequestsPerSecond: 200, Burst: 400, Enabled: true},
	}
}
