package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadFromEnv loads configuration from environment variables
// Environment variables override default values
func LoadFromEnv(cfg *Config) {
	// Database configuration
	if dbPath := os.Getenv("WHATAWHAT_DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	// Watcher configuration
	if pollInterval := os.Getenv("WHATAWHAT_POLL_INTERVAL_MS"); pollInterval != "" {
		if ms, err := strconv.Atoi(pollInterval); err == nil && ms > 0 {
			interval := time.Duration(ms) * time.Millisecond
			if interval >= cfg.Watcher.MinPollInterval && interval <= cfg.Watcher.MaxPollInterval {
				cfg.Watcher.PollInterval = interval
			}
		}
	}

	if cacheTTL := os.Getenv("WHATAWHAT_CACHE_TTL"); cacheTTL != "" {
		if seconds, err := strconv.Atoi(cacheTTL); err == nil && seconds > 0 {
			cfg.Watcher.CacheTTL = time.Duration(seconds) * time.Second
		}
	}

	if cacheSize := os.Getenv("WHATAWHAT_CACHE_MAX_SIZE"); cacheSize != "" {
		if size, err := strconv.Atoi(cacheSize); err == nil && size > 0 {
			cfg.Watcher.CacheMaxSize = size
		}
	}

	// Daemon configuration
	if pidFile := os.Getenv("WHATAWHAT_PID_FILE"); pidFile != "" {
		cfg.Daemon.PIDFile = pidFile
	}

	// Report configuration
	if timeZone := os.Getenv("WHATAWHAT_TIMEZONE"); timeZone != "" {
		cfg.Report.TimeZone = timeZone
	}
}

// New creates a new Config with default values and loads from environment.
// A .env file in the working directory is merged first when present; missing
// files are not an error.
func New() *Config {
	_ = godotenv.Load()

	cfg := Default()
	LoadFromEnv(cfg)
	return cfg
}
