package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all process configuration, populated from the environment.
// A .env file in the working directory is loaded first if present.
type Config struct {
	// AccountToken authenticates account-level endpoints (registration,
	// faction listings). Per-agent calls use tokens from the token store.
	AccountToken string `env:"SPACETRADERS_API_KEY"`

	// BaseURL is the SpaceTraders API root.
	BaseURL string `env:"SPACETRADERS_API_URL" envDefault:"https://api.spacetraders.io/v2"`

	// Transport selects how the MCP server is exposed: "stdio" or "http".
	Transport string `env:"TRANSPORT" envDefault:"stdio"`

	// Host and Port bind the streamable HTTP transport.
	Host string `env:"HOST" envDefault:"0.0.0.0"`
	Port int    `env:"PORT" envDefault:"8050"`

	// OpsAddr binds the operator HTTP API (token management, health, metrics).
	OpsAddr string `env:"OPS_ADDR" envDefault:":8051"`

	// TokenFile is the path of the persisted agent-token mapping.
	TokenFile string `env:"TOKEN_FILE" envDefault:"agent_tokens.json"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// RateLimitRPS caps outgoing API calls. The SpaceTraders API allows
	// 2 requests per second.
	RateLimitRPS float64 `env:"RATE_LIMIT_RPS" envDefault:"2"`
}

// Load reads configuration from a .env file (if any) and the environment.
func Load() (*Config, error) {
	// Best effort: absence of a .env file is the normal case.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.Transport != "stdio" && cfg.Transport != "http" {
		return nil, fmt.Errorf("invalid TRANSPORT %q: must be stdio or http", cfg.Transport)
	}
	if cfg.RateLimitRPS <= 0 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS %v: must be positive", cfg.RateLimitRPS)
	}

	return cfg, nil
}

// HTTPAddr returns the host:port the streamable HTTP transport binds to.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
