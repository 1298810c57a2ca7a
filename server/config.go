package main

import (
	"errors"
	"os"
	"time"
)

// Default configuration values.
const (
	DefaultListenAddr = ":3000"
	DefaultTokenTTL   = 24 * time.Hour
)

type config struct {
	DatabaseURL string
	JWTSecret   string
	ListenAddr  string
	TokenTTL    time.Duration
}

// loadConfigFromEnv reads the server configuration from environment
// variables. DATABASE_URL and JWT_SECRET are required.
func loadConfigFromEnv() (*config, error) {
	cfg := &config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		ListenAddr:  getEnvOrDefault("LISTEN_ADDR", DefaultListenAddr),
		TokenTTL:    parseDuration(os.Getenv("TOKEN_TTL"), DefaultTokenTTL),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	return cfg, nil
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(v string, def time.Duration) time.Duration {
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
