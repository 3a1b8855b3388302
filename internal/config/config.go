package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabasePath string
	JWTSecret    string
	TokenTTL     time.Duration
	LogLevel     string
	Port         string
}

func Load() (Config, error) {
	config := Config{
		DatabasePath: envOrDefault("DATABASE_PATH", "./data/lunchplanner.db"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
		Port:         envOrDefault("PORT", "8080"),
	}

	if config.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	ttl, err := time.ParseDuration(envOrDefault("TOKEN_TTL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("parsing TOKEN_TTL: %w", err)
	}
	config.TokenTTL = ttl

	return config, nil
}

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
