package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

var DefaultSuggestedTopics = []string{
	"success", "life", "happiness", "motivation",
	"education", "love", "friendship", "health",
}

type Config struct {
	Environment string `toml:"-"`

	Host string `toml:"host" validate:"required"`
	Port int    `toml:"port" validate:"gte=1,lte=65535"`

	// logging
	LogLevel      string `toml:"log_level" validate:"omitempty,oneof=trace debug info warn error fatal"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// quotes
	QuotesPath          string   `toml:"quotes_path"` // empty: use the bundled quotes
	MaxResults          int      `toml:"max_results" validate:"gte=1,lte=10"`
	SuggestedTopics     []string `toml:"suggested_topics" validate:"dive,required"`
	PresentationDelayMs int      `toml:"presentation_delay_ms" validate:"gte=0,lte=5000"`
	MatchCacheSizeKB    int      `toml:"match_cache_size_kb" validate:"gte=0"` // 0: no match cache
	MatchCacheExpireSec int      `toml:"match_cache_expire_sec" validate:"gte=0"`

	// redis, used for rate limiting; empty host disables it
	RedisHost             string `toml:"redis_host"`
	RedisPort             string `toml:"redis_port" validate:"required_with=RedisHost"`
	SearchRateLimitPerMin int    `toml:"search_rate_limit_per_min" validate:"gte=0"`

	AllowedOrigins []string `toml:"allowed_origins"`

	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port" validate:"required"`
}

type Toml struct {
	Development *Config `toml:"development"`
	Production  *Config `toml:"production"`
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path and returns the validated config section
// for env.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
	}
	return fromToml(&t, env)
}

// Parse is Load for an in-memory TOML document.
func Parse(env, data string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(data, &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return fromToml(&t, env)
}

func fromToml(t *Toml, env string) (*Config, error) {
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config section for env [%s] missing", env)
	}

	cfg.Environment = strings.ToLower(env)
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.MaxResults == 0 {
		c.MaxResults = 3
	}
	if len(c.SuggestedTopics) == 0 {
		c.SuggestedTopics = append([]string(nil), DefaultSuggestedTopics...)
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = "2112"
	}
	if c.MatchCacheSizeKB > 0 && c.MatchCacheExpireSec == 0 {
		c.MatchCacheExpireSec = 600
	}
}

func (c *Config) PresentationDelay() time.Duration {
	return time.Duration(c.PresentationDelayMs) * time.Millisecond
}

func (c *Config) MatchCacheExpire() time.Duration {
	return time.Duration(c.MatchCacheExpireSec) * time.Second
}

func (c *Config) RateLimitEnabled() bool {
	return c.RedisHost != "" && c.SearchRateLimitPerMin > 0
}
