package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds secrets and deployment overrides that never go into the TOML file.
type Env struct {
	SentryDSN        string `env:"SENTRY_DSN"`
	RedisPassword    string `env:"QUOTEGEN_REDIS_PASS"`
	HoneycombEnabled bool   `env:"HONEYCOMB_ENABLED"`
	HoneycombAPIKey  string `env:"HONEYCOMB_API_KEY"`
	OtelServiceName  string `env:"OTEL_SERVICE_NAME"`

	// overrides of the TOML values, ignored when unset
	Port       int    `env:"QUOTEGEN_PORT"`
	QuotesPath string `env:"QUOTEGEN_QUOTES_PATH"`
	LogLevel   string `env:"QUOTEGEN_LOG_LEVEL"`
}

func LoadEnv() (*Env, error) {
	e := &Env{}
	if err := env.Parse(e); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// ApplyEnv overrides config values with the ones set in the environment and
// validates the result again.
func (c *Config) ApplyEnv(e *Env) error {
	if e.Port != 0 {
		c.Port = e.Port
	}
	if e.QuotesPath != "" {
		c.QuotesPath = e.QuotesPath
	}
	if e.LogLevel != "" {
		c.LogLevel = e.LogLevel
	}
	return c.Validate()
}
