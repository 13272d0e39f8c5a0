package recorder

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Anoromi/whatawhat-lib/internal/config"
	"github.com/Anoromi/whatawhat-lib/internal/database"
	"github.com/Anoromi/whatawhat-lib/internal/sink"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, *database.Repository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	wrapped := &database.DB{DB: db}
	if err := wrapped.Initialize(); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	repo := database.NewRepository(wrapped)
	return NewService(config.Default(), repo), repo
}

func TestRecordStoresEvent(t *testing.T) {
	svc, repo := newTestService(t)

	svc.record("Inbox", "org.mozilla.firefox", "firefox", 4242)

	got, err := repo.GetLatest()
	if err != nil {
		t.Fatalf("GetLatest() error: %v", err)
	}
	if got == nil {
		t.Fatal("GetLatest() returned nil after record")
	}
	if got.Caption != "Inbox" {
		t.Errorf("Caption = %q, want Inbox", got.Caption)
	}
	if got.ResourceClass != "org.mozilla.firefox" {
		t.Errorf("ResourceClass = %q", got.ResourceClass)
	}
	if got.PID == nil || *got.PID != 4242 {
		t.Errorf("PID = %v, want 4242", got.PID)
	}
}

func TestRecordUnknownPID(t *testing.T) {
	svc, repo := newTestService(t)

	svc.record("Terminal", "", "kitty", sink.UnknownPID)

	got, err := repo.GetLatest()
	if err != nil {
		t.Fatalf("GetLatest() error: %v", err)
	}
	if got.PID != nil {
		t.Errorf("PID = %d, want nil for the unknown marker", *got.PID)
	}
}

func TestRecordEnrichesFromDesktopEntry(t *testing.T) {
	dir := t.TempDir()
	appsDir := filepath.Join(dir, "applications")
	if err := os.MkdirAll(appsDir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "[Desktop Entry]\nName=Kate\nExec=/usr/bin/kate %U\n"
	if err := os.WriteFile(filepath.Join(appsDir, "org.kde.kate.desktop"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv("XDG_DATA_DIRS", dir)

	svc, repo := newTestService(t)

	svc.record("main.go - Kate", "org.kde.kate", "org.kde.kate", 100)

	got, err := repo.GetLatest()
	if err != nil {
		t.Fatalf("GetLatest() error: %v", err)
	}
	if got.AppName != "Kate" {
		t.Errorf("AppName = %q, want Kate", got.AppName)
	}
	if got.ProcessPath != "/usr/bin/kate" {
		t.Errorf("ProcessPath = %q, want /usr/bin/kate", got.ProcessPath)
	}

	// Second record for the same resource name is served from the cache.
	svc.record("other.go - Kate", "org.kde.kate", "org.kde.kate", 100)
	events, err := repo.GetEventsSince(time.Time{})
	if err != nil {
		t.Fatalf("GetEventsSince() error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[1].AppName != "Kate" {
		t.Errorf("cached AppName = %q, want Kate", events[1].AppName)
	}
}
