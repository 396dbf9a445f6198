package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetEnvString(t *testing.T) {
	key := "TEST_ENV_STRING"
	val := "test_value"
	os.Setenv(key, val)
	defer os.Unsetenv(key)

	if got := getEnvString(key, "default"); got != val {
		t.Errorf("getEnvString() = %q, want %q", got, val)
	}

	if got := getEnvString("NON_EXISTENT", "default"); got != "default" {
		t.Errorf("getEnvString() = %q, want %q", got, "default")
	}
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_ENV_INT"

	tests := []struct {
		name       string
		envVal     string
		defaultVal int
		want       int
	}{
		{"Valid", "42", 1, 42},
		{"Invalid", "forty-two", 1, 1},
		{"Empty", "", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envVal != "" {
				os.Setenv(key, tt.envVal)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}

			if got := getEnvInt(key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvInt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	key := "TEST_ENV_DURATION"

	tests := []struct {
		name       string
		envVal     string
		defaultVal time.Duration
		want       time.Duration
	}{
		{"ValidDuration", "1m", time.Second, time.Minute},
		{"ValidSeconds", "60", time.Second, 60 * time.Second},
		{"Invalid", "invalid", time.Second, time.Second},
		{"Empty", "", time.Second, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envVal != "" {
				os.Setenv(key, tt.envVal)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}

			if got := getEnvDuration(key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnsureDir(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "dir")

	if err := ensureDir(path); err != nil {
		t.Fatalf("ensureDir() failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("directory was not created")
	}

	if err := ensureDir(""); err != nil {
		t.Error("ensureDir with empty path should not error")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()

	t.Setenv("DATABASE_PATH", filepath.Join(tmpDir, "data", "test.db"))
	t.Setenv("SESSION_LOG_PATH", filepath.Join(tmpDir, "log", "sessions.jsonl"))
	t.Setenv("DEBOUNCE_WINDOW", "2s")
	t.Setenv("INSIGHT_LIMIT", "5")
	t.Setenv("WEEKLY_GOAL_MINUTES", "420")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.DebounceWindow != 2*time.Second {
		t.Errorf("DebounceWindow = %v, want 2s", cfg.DebounceWindow)
	}
	if cfg.InsightLimit != 5 {
		t.Errorf("InsightLimit = %d, want 5", cfg.InsightLimit)
	}
	if cfg.WeeklyGoalMinutes != 420 {
		t.Errorf("WeeklyGoalMinutes = %d, want 420", cfg.WeeklyGoalMinutes)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "data")); err != nil {
		t.Errorf("database directory was not created: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "log")); err != nil {
		t.Errorf("session log directory was not created: %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("DATABASE_PATH", filepath.Join(tmpDir, "unplug.db"))
	t.Setenv("SESSION_LOG_PATH", filepath.Join(tmpDir, "sessions.jsonl"))
	t.Setenv("DEBOUNCE_WINDOW", "")
	t.Setenv("INSIGHT_LIMIT", "")
	t.Setenv("WEEKLY_GOAL_MINUTES", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.DebounceWindow != defaultDebounceWindow {
		t.Errorf("DebounceWindow = %v, want %v", cfg.DebounceWindow, defaultDebounceWindow)
	}
	if cfg.InsightLimit != defaultInsightLimit {
		t.Errorf("InsightLimit = %d, want %d", cfg.InsightLimit, defaultInsightLimit)
	}
	if cfg.WeeklyGoalMinutes != 0 {
		t.Errorf("WeeklyGoalMinutes = %d, want 0", cfg.WeeklyGoalMinutes)
	}
}
