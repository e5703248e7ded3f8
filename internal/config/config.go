package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath          string
	ServerAddr      string
	LogLevel        slog.Level
	SessionLifetime time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// Load reads configuration from the environment, loading a .env file first if
// one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg := &Config{
		DBPath:         getEnv("DB_PATH", "silat_bracket.db"),
		ServerAddr:     getEnv("SERVER_ADDR", ":8080"),
		AllowedOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
	}

	level, err := parseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	lifetime, err := time.ParseDuration(getEnv("SESSION_LIFETIME", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_LIFETIME: %w", err)
	}
	if lifetime <= 0 {
		return nil, fmt.Errorf("SESSION_LIFETIME must be positive, got %s", lifetime)
	}
	cfg.SessionLifetime = lifetime

	shutdown, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}
	cfg.ShutdownTimeout = shutdown

	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
