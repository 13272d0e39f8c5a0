package config

import (
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "Defaults",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name: "Poll interval below minimum",
			mutate: func(c *Config) {
				c.Watcher.PollInterval = 10 * time.Millisecond
			},
			wantErr: true,
		},
		{
			name: "Poll interval above maximum",
			mutate: func(c *Config) {
				c.Watcher.PollInterval = time.Hour
			},
			wantErr: true,
		},
		{
			name: "Zero cache TTL",
			mutate: func(c *Config) {
				c.Watcher.CacheTTL = 0
			},
			wantErr: true,
		},
		{
			name: "Zero cache size",
			mutate: func(c *Config) {
				c.Watcher.CacheMaxSize = 0
			},
			wantErr: true,
		},
		{
			name: "Empty PID file",
			mutate: func(c *Config) {
				c.Daemon.PIDFile = ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	vars := map[string]string{
		"WHATAWHAT_DB_PATH":          "/tmp/test-whatawhat.db",
		"WHATAWHAT_POLL_INTERVAL_MS": "500",
		"WHATAWHAT_CACHE_TTL":        "120",
		"WHATAWHAT_CACHE_MAX_SIZE":   "50",
		"WHATAWHAT_PID_FILE":         "/tmp/test-whatawhat.pid",
		"WHATAWHAT_TIMEZONE":         "UTC",
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}

	cfg := Default()
	LoadFromEnv(cfg)

	if cfg.Database.Path != "/tmp/test-whatawhat.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Watcher.PollInterval != 500*time.Millisecond {
		t.Errorf("Watcher.PollInterval = %v, want 500ms", cfg.Watcher.PollInterval)
	}
	if cfg.Watcher.CacheTTL != 2*time.Minute {
		t.Errorf("Watcher.CacheTTL = %v, want 2m", cfg.Watcher.CacheTTL)
	}
	if cfg.Watcher.CacheMaxSize != 50 {
		t.Errorf("Watcher.CacheMaxSize = %d, want 50", cfg.Watcher.CacheMaxSize)
	}
	if cfg.Daemon.PIDFile != "/tmp/test-whatawhat.pid" {
		t.Errorf("Daemon.PIDFile = %q", cfg.Daemon.PIDFile)
	}
	if cfg.Report.TimeZone != "UTC" {
		t.Errorf("Report.TimeZone = %q, want UTC", cfg.Report.TimeZone)
	}
}

func TestLoadFromEnvRejectsOutOfRangeInterval(t *testing.T) {
	t.Setenv("WHATAWHAT_POLL_INTERVAL_MS", "1")

	cfg := Default()
	want := cfg.Watcher.PollInterval
	LoadFromEnv(cfg)

	if cfg.Watcher.PollInterval != want {
		t.Errorf("PollInterval = %v, want default %v for out-of-range env value",
			cfg.Watcher.PollInterval, want)
	}
}

func TestSetPollInterval(t *testing.T) {
	cfg := Default()

	if err := cfg.SetPollInterval(2 * time.Second); err != nil {
		t.Errorf("SetPollInterval(2s) error: %v", err)
	}
	if err := cfg.SetPollInterval(time.Millisecond); err == nil {
		t.Error("SetPollInterval(1ms) expected error, got nil")
	}
	if err := cfg.SetPollInterval(time.Hour); err == nil {
		t.Error("SetPollInterval(1h) expected error, got nil")
	}
}
