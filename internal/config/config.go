// Package config loads application configuration from environment
// variables and validates it at startup.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// AppConfig holds the top-level server settings.
type AppConfig struct {
	Port         int
	DatabaseURL  string // empty runs the server on the in-memory store
	GeminiAPIKey string
	LogJSON      bool
	LogDebug     bool
}

// NewAppConfig reads the server settings from the environment. PORT
// defaults to 8080. DATABASE_URL is optional; without it the server falls
// back to the in-memory demo store.
func NewAppConfig() (*AppConfig, error) {
	port, err := envInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("PORT out of range: %d", port)
	}

	return &AppConfig{
		Port:         port,
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		LogJSON:      envBool("LOG_JSON"),
		LogDebug:     envBool("LOG_DEBUG"),
	}, nil
}

// envOr returns the value of the environment variable or the fallback
// when it is unset or empty.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envInt parses an integer environment variable, applying the fallback
// when it is unset.
func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return n, nil
}

// envBool treats "1", "true" and "yes" (any case) as true.
func envBool(key string) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "True", "yes", "YES":
		return true
	}
	return false
}
