package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port        string
	Env         string
	DatabaseURL string // optional for analysis runs, required by the API server

	// Stortinget data API
	BaseURL        string
	RequestTimeout time.Duration

	// Analysis run parameters
	SessionID string
	CaseLimit int
	Workers   int
	OutputDir string
}

// Load reads configuration from environment variables.
// All values have defaults; DATABASE_URL may be empty, in which case
// analysis runs skip the snapshot step.
func Load() (*Config, error) {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		BaseURL:        getEnv("STORTINGET_BASE_URL", "https://data.stortinget.no/eksport"),
		RequestTimeout: getDuration("STORTINGET_TIMEOUT", 30*time.Second),

		SessionID: getEnv("SESSION_ID", "2024-2025"),
		CaseLimit: getInt("CASE_LIMIT", 50),
		Workers:   getInt("WORKERS", 4),
		OutputDir: getEnv("OUTPUT_DIR", "."),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
