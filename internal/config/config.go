// Package config loads server settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

type Config struct {
	// HTTP server
	Port int `env:"PORT" envDefault:"8080"`

	// Storage
	DataBackend string `env:"DATA_BACKEND" envDefault:"sqlite"`
	DBPath      string `env:"DB_PATH" envDefault:"./data/splitchain.db"`

	// Auth
	JWTSecret     string        `env:"JWT_SECRET"`
	TokenDuration time.Duration `env:"TOKEN_DURATION" envDefault:"24h"`

	// AMQP outbox relay; disabled when AMQPURL is empty
	AMQPURL        string        `env:"AMQP_URL"`
	AMQPExchange   string        `env:"AMQP_EXCHANGE" envDefault:"splitchain"`
	AMQPRoutingKey string        `env:"AMQP_ROUTING_KEY" envDefault:"ledger"`
	RelayInterval  time.Duration `env:"RELAY_INTERVAL" envDefault:"2s"`
	RelayBatchSize int           `env:"RELAY_BATCH_SIZE" envDefault:"100"`

	// Tracing; disabled when OTELEndpoint is empty
	OTELEndpoint string `env:"OTEL_ENDPOINT"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads .env (if present) and then the environment. Variables already
// set in the environment take precedence over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var problems []string

	if c.Port < 1 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", c.Port))
	}

	validBackends := []string{BackendMemory, BackendSQLite}
	if !slices.Contains(validBackends, c.DataBackend) {
		problems = append(problems, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}
	if c.DataBackend == BackendSQLite && c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty when using sqlite backend")
	}

	if len(c.JWTSecret) < 32 {
		problems = append(problems, "JWT_SECRET must be at least 32 characters")
	}
	if c.TokenDuration <= 0 {
		problems = append(problems, "TOKEN_DURATION must be positive")
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL: %v", err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP_EXCHANGE cannot be empty when AMQP_URL is set")
		}
		if c.RelayInterval <= 0 {
			problems = append(problems, "RELAY_INTERVAL must be positive")
		}
		if c.RelayBatchSize < 1 {
			problems = append(problems, "RELAY_BATCH_SIZE must be at least 1")
		}
	}

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.LogLevel)) {
		problems = append(problems, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}
	if !slices.Contains([]string{"text", "json"}, c.LogFormat) {
		problems = append(problems, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
