package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Database configuration (recorder side)
	Database DatabaseConfig

	// Watcher configuration
	Watcher WatcherConfig

	// Daemon configuration
	Daemon DaemonConfig

	// Report configuration
	Report ReportConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path string // Path to SQLite database file
}

// WatcherConfig holds watcher behavior configuration
type WatcherConfig struct {
	PollInterval    time.Duration // How often polling backends sample the active window
	MinPollInterval time.Duration // Minimum allowed poll interval
	MaxPollInterval time.Duration // Maximum allowed poll interval
	CacheTTL        time.Duration // TTL for the desktop-info cache
	CacheMaxSize    int           // Max entries in the desktop-info cache
}

// DaemonConfig holds daemon process configuration
type DaemonConfig struct {
	PIDFile string // Path to PID file for daemon management
}

// ReportConfig holds report generation configuration
type ReportConfig struct {
	TimeZone string
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "", // Empty means use default ~/.config/whatawhat/whatawhat.db
		},
		Watcher: WatcherConfig{
			PollInterval:    1 * time.Second,
			MinPollInterval: 250 * time.Millisecond,
			MaxPollInterval: 60 * time.Second,
			CacheTTL:        10 * time.Minute,
			CacheMaxSize:    100,
		},
		Daemon: DaemonConfig{
			PIDFile: fmt.Sprintf("/tmp/whatawhat-%d.pid", os.Getuid()),
		},
		Report: ReportConfig{
			TimeZone: "Local",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Watcher.PollInterval < c.Watcher.MinPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be less than minimum (%v)",
			c.Watcher.PollInterval, c.Watcher.MinPollInterval)
	}

	if c.Watcher.PollInterval > c.Watcher.MaxPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be greater than maximum (%v)",
			c.Watcher.PollInterval, c.Watcher.MaxPollInterval)
	}

	if c.Watcher.CacheTTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got %v", c.Watcher.CacheTTL)
	}

	if c.Watcher.CacheMaxSize < 1 {
		return fmt.Errorf("cache max size must be at least 1, got %d", c.Watcher.CacheMaxSize)
	}

	if c.Daemon.PIDFile == "" {
		return fmt.Errorf("PID file path cannot be empty")
	}

	return nil
}

// SetPollInterval sets the poll interval with validation
func (c *Config) SetPollInterval(interval time.Duration) error {
	if interval < c.Watcher.MinPollInterval {
		return fmt.Errorf("poll interval cannot be less than %v", c.Watcher.MinPollInterval)
	}
	if interval > c.Watcher.MaxPollInterval {
		return fmt.Errorf("poll interval cannot be greater than %v", c.Watcher.MaxPollInterval)
	}
	c.Watcher.PollInterval = interval
	return nil
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf(`Configuration:
  Database:
    Path: %s
  Watcher:
    Poll Interval: %v
    Min Interval: %v
    Max Interval: %v
    Cache TTL: %v
    Cache Max Size: %d
  Daemon:
    PID File: %s
  Report:
    Time Zone: %s`,
		c.Database.Path,
		c.Watcher.PollInterval,
		c.Watcher.MinPollInterval,
		c.Watcher.MaxPollInterval,
		c.Watcher.CacheTTL,
		c.Watcher.CacheMaxSize,
		c.Daemon.PIDFile,
		c.Report.TimeZone,
	)
}
