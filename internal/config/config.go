// Package config contains everything related to configuration
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	DatabasePath      string
	SessionLogPath    string
	DebounceWindow    time.Duration
	InsightLimit      int
	WeeklyGoalMinutes int
}

// Default values
const (
	defaultDebounceWindow = 5 * time.Second
	defaultInsightLimit   = 8
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		DatabasePath:      getEnvString("DATABASE_PATH", getDefaultDatabasePath()),
		SessionLogPath:    getEnvString("SESSION_LOG_PATH", getDefaultSessionLogPath()),
		DebounceWindow:    getEnvDuration("DEBOUNCE_WINDOW", defaultDebounceWindow),
		InsightLimit:      getEnvInt("INSIGHT_LIMIT", defaultInsightLimit),
		WeeklyGoalMinutes: getEnvInt("WEEKLY_GOAL_MINUTES", 0),
	}

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	// Ensure session log directory exists
	if err := ensureDir(filepath.Dir(cfg.SessionLogPath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "unplug", ".env"),
			filepath.Join(home, ".unplug", ".env"),
		)
	}

	return paths
}

// getDefaultDatabasePath returns the default path for the SQLite database.
func getDefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "unplug.db"
	}
	return filepath.Join(home, ".config", "unplug", "unplug.db")
}

// getDefaultSessionLogPath returns the default path for the session log file.
func getDefaultSessionLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "sessions.jsonl"
	}
	return filepath.Join(home, ".config", "unplug", "sessions.jsonl")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
