package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigToml = `
[development]
port = 8080
log_level = "debug"
presentation_delay_ms = 500
match_cache_size_kb = 512
redis_host = "localhost"
redis_port = "6379"
search_rate_limit_per_min = 30

[production]
host = "0.0.0.0"
port = 9000
log_level = "info"
max_results = 2
suggested_topics = ["life", "love"]
prometheus_metrics_port = "9100"
`

func TestParse_Development(t *testing.T) {
	for _, env := range []string{"dev", "development", "DEV"} {
		cfg, err := Parse(env, testConfigToml)
		require.NoError(t, err, env)
		require.NotNil(t, cfg)

		assert.Equal(t, "localhost", cfg.Host)
		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, 3, cfg.MaxResults)
		assert.Equal(t, DefaultSuggestedTopics, cfg.SuggestedTopics)
		assert.Equal(t, 500*time.Millisecond, cfg.PresentationDelay())
		assert.Equal(t, 600*time.Second, cfg.MatchCacheExpire())
		assert.Equal(t, "2112", cfg.PrometheusMetricsPort)
		assert.True(t, cfg.RateLimitEnabled())
	}
}

func TestParse_Production(t *testing.T) {
	cfg, err := Parse("prod", testConfigToml)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Environment)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 2, cfg.MaxResults)
	assert.Equal(t, []string{"life", "love"}, cfg.SuggestedTopics)
	assert.Equal(t, time.Duration(0), cfg.PresentationDelay())
	assert.Equal(t, "9100", cfg.PrometheusMetricsPort)
	assert.False(t, cfg.RateLimitEnabled())
}

func TestParse_Errors(t *testing.T) {
	for caseName, tc := range map[string]struct {
		env           string
		data          string
		expectedInErr string
	}{
		"unknown-env": {
			env:           "staging",
			data:          testConfigToml,
			expectedInErr: "unknown env: staging",
		},
		"missing-section": {
			env:           "production",
			data:          "[development]\nport = 8080\n",
			expectedInErr: "config section for env [production] missing",
		},
		"bad-toml": {
			env:           "dev",
			data:          "[development\nport = ",
			expectedInErr: "decode config",
		},
		"bad-port": {
			env:           "dev",
			data:          "[development]\nport = 70000\n",
			expectedInErr: "Port must be at most 65535",
		},
		"bad-log-level": {
			env:           "dev",
			data:          "[development]\nport = 1\nlog_level = \"loud\"\n",
			expectedInErr: "LogLevel must be one of",
		},
		"redis-port-missing": {
			env:           "dev",
			data:          "[development]\nport = 1\nredis_host = \"redis\"\n",
			expectedInErr: "RedisPort is required when RedisHost is set",
		},
		"too-many-results": {
			env:           "dev",
			data:          "[development]\nport = 1\nmax_results = 50\n",
			expectedInErr: "MaxResults must be at most 10",
		},
	} {
		t.Run(caseName, func(t *testing.T) {
			cfg, err := Parse(tc.env, tc.data)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tc.expectedInErr)
		})
	}
}

func TestLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(testConfigToml), 0o600))

	cfg, err := Load("development", configPath)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)

	_, err = Load("development", filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestLoad_RepoConfig(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		cfg, err := Load(env, "../../config.toml")
		require.NoError(t, err, env)
		assert.Equal(t, 3, cfg.MaxResults)
	}
}

func TestLoadEnv_ApplyEnv(t *testing.T) {
	t.Setenv("SENTRY_DSN", "https://dsn.example")
	t.Setenv("QUOTEGEN_REDIS_PASS", "secret")
	t.Setenv("HONEYCOMB_ENABLED", "true")
	t.Setenv("QUOTEGEN_PORT", "9999")
	t.Setenv("QUOTEGEN_QUOTES_PATH", "/tmp/quotes.json")

	e, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://dsn.example", e.SentryDSN)
	assert.Equal(t, "secret", e.RedisPassword)
	assert.True(t, e.HoneycombEnabled)
	assert.Equal(t, 9999, e.Port)

	cfg, err := Parse("dev", testConfigToml)
	require.NoError(t, err)
	require.NoError(t, cfg.ApplyEnv(e))
	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, "/tmp/quotes.json", cfg.QuotesPath)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadEnv_Invalid(t *testing.T) {
	t.Setenv("QUOTEGEN_PORT", "not-a-number")

	_, err := LoadEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestApplyEnv_InvalidOverride(t *testing.T) {
	cfg, err := Parse("dev", testConfigToml)
	require.NoError(t, err)

	err = cfg.ApplyEnv(&Env{LogLevel: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LogLevel must be one of")
}
