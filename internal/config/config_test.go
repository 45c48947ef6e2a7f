package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper to set env vars and clean up after
func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old := os.Getenv(key)
	os.Setenv(key, value)
	t.Cleanup(func() {
		if old == "" {
			os.Unsetenv(key)
		} else {
			os.Setenv(key, old)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, "PORT", "")
	setEnv(t, "DEFAULT_LOCALE", "")
	setEnv(t, "DEFAULT_CURRENCY", "")
	setEnv(t, "LOG_FORMAT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, "en-US", cfg.DefaultLocale)
	assert.Equal(t, "USD", cfg.DefaultCurrency)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
	assert.Equal(t, int64(DefaultMaxRequestSize), cfg.MaxRequestSize)
}

func TestLoad_Overrides(t *testing.T) {
	setEnv(t, "PORT", "9090")
	setEnv(t, "DEFAULT_LOCALE", "de-DE")
	setEnv(t, "DEFAULT_CURRENCY", "eur")
	setEnv(t, "ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	setEnv(t, "AUTO_MIGRATE", "true")
	setEnv(t, "MAX_SESSIONS", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "de-DE", cfg.DefaultLocale)
	assert.Equal(t, "EUR", cfg.DefaultCurrency)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, 5, cfg.MaxSessions)
}

func TestLoad_InvalidLocale(t *testing.T) {
	setEnv(t, "DEFAULT_LOCALE", "not a locale")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DEFAULT_LOCALE")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Port:             "8080",
			LogFormat:        "json",
			DefaultLocale:    "en-US",
			DefaultCurrency:  "USD",
			RateLimitRPM:     1,
			MaxSessions:      1,
			SessionEventRate: 1,
			MaxRequestSize:   1,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid config", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Port = "http" }, "PORT must be numeric"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "LOG_FORMAT"},
		{"bad currency", func(c *Config) { c.DefaultCurrency = "DOLLARS" }, "DEFAULT_CURRENCY"},
		{"zero rate limit", func(c *Config) { c.RateLimitRPM = 0 }, "RATE_LIMIT_RPM"},
		{"zero sessions", func(c *Config) { c.MaxSessions = 0 }, "MAX_SESSIONS"},
		{"zero event rate", func(c *Config) { c.SessionEventRate = 0 }, "SESSION_EVENT_RATE"},
		{"zero request size", func(c *Config) { c.MaxRequestSize = 0 }, "MAX_REQUEST_SIZE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfig_Environment(t *testing.T) {
	assert.True(t, (&Config{Env: "development"}).IsDevelopment())
	assert.True(t, (&Config{Env: "production"}).IsProduction())
	assert.False(t, (&Config{Env: "staging"}).IsProduction())
}
