package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DB_PATH", "SERVER_ADDR", "LOG_LEVEL", "SESSION_LIFETIME", "SHUTDOWN_TIMEOUT", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "silat_bracket.db", cfg.DBPath)
	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 24*time.Hour, cfg.SessionLifetime)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_PATH", "/tmp/brackets.db")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SESSION_LIFETIME", "2h")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://silat.example.com ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/brackets.db", cfg.DBPath)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 2*time.Hour, cfg.SessionLifetime)
	assert.Equal(t, []string{"http://localhost:5173", "https://silat.example.com"}, cfg.AllowedOrigins)
}

func TestLoadRejects(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad level", key: "LOG_LEVEL", value: "loud"},
		{name: "bad lifetime", key: "SESSION_LIFETIME", value: "forever"},
		{name: "negative lifetime", key: "SESSION_LIFETIME", value: "-1h"},
		{name: "bad shutdown timeout", key: "SHUTDOWN_TIMEOUT", value: "soon"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
