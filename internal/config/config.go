package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort         = "8080"
	defaultJWTAccessTTL = "24h"
)

// ErrMissingDatabaseURL means the backing store location is unconfigured.
// It is checked once at startup so every request fails the same way instead
// of each upload discovering the problem on its own.
var ErrMissingDatabaseURL = errors.New("DATABASE_URL is empty")

type Config struct {
	Port         string
	DatabaseURL  string
	JWTSecret    string
	JWTAccessTTL time.Duration
}

// Load reads configuration from the environment, preferring an optional
// .env file for local development.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", defaultPort),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:   strings.TrimSpace(os.Getenv("JWT_SECRET")),
	}

	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is empty")
	}

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}
