package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	HTTPPort string
	LogLevel string

	// DBPath points at the Screen Time activity log (knowledgeC.db).
	DBPath string

	// Timezone is the IANA zone used to render civil time. Defaults to the
	// process-local zone so the dashboard sees the user's own dates.
	Timezone string

	ScreenTimeGoalHours   float64
	PickupGoalCount       int
	UnnecessaryApps       []string
	DeviceClassFilter     string
	TrendWindowDays       int
	AchievementWindowDays int
}

// Load reads configuration from environment variables with sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:              getEnv("HTTP_PORT", ":8080"),
		LogLevel:              strings.ToLower(getEnv("LOG_LEVEL", "info")),
		DBPath:                getEnv("SCREENTIME_DB_PATH", defaultDBPath()),
		Timezone:              getEnv("TIMEZONE", time.Now().Location().String()),
		ScreenTimeGoalHours:   parseFloatEnv("SCREEN_TIME_GOAL_HOURS", 1),
		PickupGoalCount:       parseIntEnv("PICKUP_GOAL_COUNT", 50),
		UnnecessaryApps:       parseListEnv("UNNECESSARY_APPS", []string{"ios", "Netflix", "Tweetie2"}),
		DeviceClassFilter:     getEnv("DEVICE_CLASS_FILTER", "iPhone"),
		TrendWindowDays:       parseIntEnv("TREND_WINDOW_DAYS", 28),
		AchievementWindowDays: parseIntEnv("ACHIEVEMENT_WINDOW_DAYS", 7),
	}

	if cfg.ScreenTimeGoalHours <= 0 {
		return nil, fmt.Errorf("SCREEN_TIME_GOAL_HOURS must be positive")
	}
	if cfg.PickupGoalCount <= 0 {
		return nil, fmt.Errorf("PICKUP_GOAL_COUNT must be positive")
	}
	if cfg.TrendWindowDays <= 0 || cfg.AchievementWindowDays <= 0 {
		return nil, fmt.Errorf("window sizes must be positive")
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}

	return cfg, nil
}

// Location resolves the configured timezone. Load has already validated it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "knowledgeC.db"
	}
	return filepath.Join(home, "Library", "Application Support", "Knowledge", "knowledgeC.db")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseIntEnv(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseFloatEnv(key string, fallback float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseListEnv(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
