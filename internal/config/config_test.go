// internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "thisisasecretkeythatis32charslong!!"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MATCHCARDS_AUTH_JWT_SECRET", secret)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "text", cfg.Server.LogFormat)
	assert.Equal(t, []string{"localhost:*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, time.Hour, cfg.Auth.TicketTTL)
	assert.Equal(t, "memory", cfg.Store.Themes)
	assert.Empty(t, cfg.NATS.URL)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MATCHCARDS_AUTH_JWT_SECRET", secret)
	t.Setenv("MATCHCARDS_SERVER_ADDR", ":9090")
	t.Setenv("MATCHCARDS_SERVER_LOG_FORMAT", "json")
	t.Setenv("MATCHCARDS_AUTH_TICKET_TTL", "15m")
	t.Setenv("MATCHCARDS_STORE_THEMES", "redis")
	t.Setenv("MATCHCARDS_STORE_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("MATCHCARDS_NATS_URL", "nats://localhost:4222")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "json", cfg.Server.LogFormat)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TicketTTL)
	assert.Equal(t, "redis", cfg.Store.Themes)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Store.RedisURL)
	assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"short secret", map[string]string{"MATCHCARDS_AUTH_JWT_SECRET": "short"}},
		{"bad log level", map[string]string{"MATCHCARDS_AUTH_JWT_SECRET": secret, "MATCHCARDS_SERVER_LOG_LEVEL": "loud"}},
		{"unknown store", map[string]string{"MATCHCARDS_AUTH_JWT_SECRET": secret, "MATCHCARDS_STORE_THEMES": "disk"}},
		{"postgres without url", map[string]string{"MATCHCARDS_AUTH_JWT_SECRET": secret, "MATCHCARDS_STORE_THEMES": "postgres"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("MATCHCARDS_AUTH_JWT_SECRET", "")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
