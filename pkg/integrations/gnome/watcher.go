// Package gnome watches the active window on GNOME Wayland through the
// FocusedWindow shell extension, which exposes the focused window as JSON
// over D-Bus. The watcher polls Get and diffs the result.
package gnome

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/pkg/errors"

	"github.com/Anoromi/whatawhat-lib/pkg/window"
)

const (
	shellService    = "org.gnome.Shell"
	extensionPath   = "/org/gnome/shell/extensions/FocusedWindow"
	extensionIfc    = "org.gnome.shell.extensions.FocusedWindow"
	extensionMethod = extensionIfc + ".Get"
)

// windowData is the JSON payload the FocusedWindow extension returns.
type windowData struct {
	Title   string `json:"title"`
	WMClass string `json:"wm_class"`
}

// Watcher implements window.Watcher for GNOME
type Watcher struct {
	pollInterval time.Duration

	conn *dbus.Conn
	last windowData
}

// NewWatcher creates a GNOME watcher polling at the given interval. The
// session bus connection is established lazily, on the first availability
// probe.
func NewWatcher(pollInterval time.Duration) *Watcher {
	return &Watcher{pollInterval: pollInterval}
}

// Name returns "gnome"
func (w *Watcher) Name() string {
	return "gnome"
}

// IsAvailable reports whether this is a GNOME Wayland session with the
// FocusedWindow extension answering. Plain X11 sessions are excluded so the
// X11 watcher gets picked instead.
func (w *Watcher) IsAvailable() bool {
	if os.Getenv("WAYLAND_DISPLAY") == "" && os.Getenv("XDG_SESSION_TYPE") == "x11" {
		return false
	}
	if !isGnomeDesktop(os.Getenv("XDG_CURRENT_DESKTOP")) {
		return false
	}
	if err := w.connect(); err != nil {
		return false
	}
	_, err := w.fetch()
	return err == nil
}

// isGnomeDesktop matches XDG_CURRENT_DESKTOP values like "GNOME" and
// "ubuntu:GNOME".
func isGnomeDesktop(desktop string) bool {
	return strings.Contains(strings.ToLower(desktop), "gnome")
}

func (w *Watcher) connect() error {
	if w.conn != nil {
		return nil
	}

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return errors.Wrap(err, "failed to connect to session bus")
	}
	w.conn = conn
	return nil
}

// Run polls until ctx is cancelled, emitting one event per observed change.
func (w *Watcher) Run(ctx context.Context, emit window.EmitFunc) error {
	if err := w.connect(); err != nil {
		return err
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			data, err := w.fetch()
			if err != nil {
				// The extension unregisters its object when it stops; at
				// that point polling can never recover.
				if strings.Contains(err.Error(), "Object does not exist") {
					return errors.Wrap(err, "the FocusedWindow extension seems to have stopped")
				}
				continue
			}
			w.diff(data, emit)
		}
	}
}

// fetch queries the extension once. An empty windowData means nothing has
// focus, which is not an error.
func (w *Watcher) fetch() (windowData, error) {
	var payload string
	obj := w.conn.Object(shellService, extensionPath)
	if err := obj.Call(extensionMethod, 0).Store(&payload); err != nil {
		if strings.Contains(err.Error(), "No window in focus") {
			return windowData{}, nil
		}
		return windowData{}, errors.Wrap(err, "failed to query focused window")
	}

	var data windowData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return windowData{}, errors.Wrapf(err, "FocusedWindow returned invalid JSON: %s", payload)
	}
	return data, nil
}

// diff compares the fetched snapshot against the previous one. The extension
// exposes no window handle, so the wm_class doubles as the identity: a class
// change reads as a new activation, a title change on the same class as a
// property change.
func (w *Watcher) diff(data windowData, emit window.EmitFunc) {
	if data == w.last {
		return
	}

	signal := window.SignalPropertyChanged
	if data.WMClass != w.last.WMClass {
		signal = window.SignalActivated
	}
	w.last = data

	if data.WMClass == "" && data.Title == "" {
		return
	}
	emit(describe(data), signal)
}

func describe(data windowData) window.Descriptor {
	desc := window.Descriptor{
		ID:     window.ID(data.WMClass),
		Active: true,
	}
	if data.Title != "" {
		desc.Caption = &data.Title
	}
	if data.WMClass != "" {
		desc.ResourceClass = &data.WMClass
		name := strings.ToLower(data.WMClass)
		desc.ResourceName = &name
	}
	return desc
}

// Close shuts down the session bus connection
func (w *Watcher) Close() error {
	if w.conn == nil {
		return nil
	}
	err := w.conn.Close()
	w.conn = nil
	return err
}
