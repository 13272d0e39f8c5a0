// Package detector selects the window watcher for the current session. The
// capability probe runs once, at startup; the first available backend in
// preference order wins and is used for the lifetime of the process.
package detector

import (
	"fmt"
	"log"
	"os"

	"github.com/Anoromi/whatawhat-lib/internal/config"
	"github.com/Anoromi/whatawhat-lib/pkg/window"
)

// New probes the candidate watchers in preference order and returns the first
// available one.
func New(cfg *config.Config) (window.Watcher, error) {
	for _, w := range candidates(cfg) {
		if w.IsAvailable() {
			log.Printf("Selected %s window watcher", w.Name())
			return w, nil
		}
		w.Close()
	}
	return nil, fmt.Errorf("no window watcher available for this session (display server: %s)", DetectDisplayServer())
}

// DetectDisplayServer classifies the session from the environment.
func DetectDisplayServer() string {
	sessionType := os.Getenv("XDG_SESSION_TYPE")
	waylandDisplay := os.Getenv("WAYLAND_DISPLAY")
	x11Display := os.Getenv("DISPLAY")

	if sessionType == "wayland" || waylandDisplay != "" {
		return "wayland"
	}

	if sessionType == "x11" || x11Display != "" {
		return "x11"
	}

	return "unknown"
}
