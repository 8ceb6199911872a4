package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// ServerConfig holds the settings of the mock API.
type ServerConfig struct {
	DatabaseURL    string
	JWTSecret      string
	Port           string
	CookieSecure   bool
	RateLimitLogin RateLimitConfig
	TokenTTL       time.Duration
}

// LoadServer reads the mock API configuration from environment variables and
// applies sane defaults. An empty DATABASE_URL selects the in-memory store.
func LoadServer() (*ServerConfig, error) {
	cfg := &ServerConfig{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    getEnv("JWT_SECRET", "dev-secret"),
		Port:         getEnv("PORT", "8000"),
		CookieSecure: parseBool(getEnv("COOKIE_SECURE", "false")),
		TokenTTL:     parseDuration(getEnv("JWT_TTL", "24h")),
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_LOGIN", "5/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_LOGIN value: %w", err)
	}
	cfg.RateLimitLogin = rl

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

func parseBool(input string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(input))
	return err == nil && b
}
