// Package x11 watches the active window over the X protocol. It polls the
// root window's _NET_ACTIVE_WINDOW property and diffs the result, emitting an
// activation event when focus moves and a property-change event when the
// focused window's title mutates in place.
package x11

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/Anoromi/whatawhat-lib/pkg/window"
)

// Watcher implements window.Watcher for X11
type Watcher struct {
	pollInterval time.Duration

	conn  *xgb.Conn
	root  xproto.Window
	atoms map[string]xproto.Atom

	lastWindow xproto.Window
	lastTitle  string
}

// NewWatcher creates an X11 watcher polling at the given interval. The X
// connection is established lazily, on the first availability probe.
func NewWatcher(pollInterval time.Duration) *Watcher {
	return &Watcher{pollInterval: pollInterval}
}

// Name returns "x11"
func (w *Watcher) Name() string {
	return "x11"
}

// IsAvailable checks that a display is reachable over the X protocol
func (w *Watcher) IsAvailable() bool {
	if os.Getenv("DISPLAY") == "" {
		return false
	}
	return w.connect() == nil
}

func (w *Watcher) connect() error {
	if w.conn != nil {
		return nil
	}

	conn, err := xgb.NewConn()
	if err != nil {
		return fmt.Errorf("failed to connect to X server: %w", err)
	}

	setup := xproto.Setup(conn)
	root := setup.DefaultScreen(conn).Root

	atoms := make(map[string]xproto.Atom)
	for _, name := range []string{
		"_NET_ACTIVE_WINDOW",
		"_NET_WM_NAME",
		"_NET_WM_PID",
		"WM_NAME",
		"WM_CLASS",
		"UTF8_STRING",
	} {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			conn.Close()
			return fmt.Errorf("failed to intern atom %s: %w", name, err)
		}
		atoms[name] = reply.Atom
	}

	w.conn = conn
	w.root = root
	w.atoms = atoms
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
			w.pollOnce(emit)
		}
	}
}

func (w *Watcher) pollOnce(emit window.EmitFunc) {
	active := w.activeWindow()
	if active == 0 {
		return
	}

	title := w.windowName(active)

	switch {
	case active != w.lastWindow:
		w.lastWindow = active
		w.lastTitle = title
		emit(w.describe(active, title), window.SignalActivated)
	case title != w.lastTitle:
		w.lastTitle = title
		emit(w.describe(active, title), window.SignalPropertyChanged)
	}
}

// describe builds a Descriptor snapshot for the currently focused window.
// Polling only ever sees the focused window, so Active is always true here.
func (w *Watcher) describe(win xproto.Window, title string) window.Descriptor {
	desc := window.Descriptor{
		ID:     window.ID(fmt.Sprintf("0x%x", uint32(win))),
		Active: true,
	}
	if title != "" {
		desc.Caption = &title
	}

	instance, class := w.windowClass(win)
	if class != "" {
		desc.ResourceClass = &class
	}
	if instance != "" {
		desc.ResourceName = &instance
	}

	if pid := w.windowPID(win); pid != 0 {
		p := int32(pid)
		desc.PID = &p

		// Sandboxed apps often carry no WM_CLASS; the process name is the
		// next best stable identifier.
		if desc.ResourceName == nil {
			if name := processName(p); name != "" {
				desc.ResourceName = &name
			}
		}
	}

	return desc
}

func (w *Watcher) getProperty(win xproto.Window, atom, atomType xproto.Atom, length uint32) []byte {
	reply, err := xproto.GetProperty(w.conn, false, win, atom, atomType, 0, length).Reply()
	if err != nil {
		return nil
	}
	return reply.Value
}

func (w *Watcher) activeWindow() xproto.Window {
	data := w.getProperty(w.root, w.atoms["_NET_ACTIVE_WINDOW"], xproto.AtomWindow, 1)
	if len(data) < 4 {
		return 0
	}
	return xproto.Window(binary.LittleEndian.Uint32(data))
}

func (w *Watcher) windowName(win xproto.Window) string {
	data := w.getProperty(win, w.atoms["_NET_WM_NAME"], w.atoms["UTF8_STRING"], 256)
	if len(data) == 0 {
		data = w.getProperty(win, w.atoms["WM_NAME"], xproto.AtomString, 256)
	}
	return strings.TrimRight(string(data), "\x00")
}

func (w *Watcher) windowClass(win xproto.Window) (instance, class string) {
	data := w.getProperty(win, w.atoms["WM_CLASS"], xproto.AtomString, 256)
	if len(data) == 0 {
		return "", ""
	}
	return parseWMClass(data)
}

func (w *Watcher) windowPID(win xproto.Window) uint32 {
	data := w.getProperty(win, w.atoms["_NET_WM_PID"], xproto.AtomCardinal, 1)
	if len(data) < 4 {
		return 0
	}
	return binary.LittleEndian.Uint32(data)
}

// parseWMClass splits the WM_CLASS value into its instance and class parts.
// The property is two NUL-terminated strings back to back.
func parseWMClass(data []byte) (instance, class string) {
	parts := strings.Split(strings.TrimRight(string(data), "\x00"), "\x00")
	if len(parts) >= 1 {
		instance = parts[0]
	}
	if len(parts) >= 2 {
		class = parts[1]
	}
	return instance, class
}

// processName resolves the executable name for a pid, empty on any failure.
func processName(pid int32) string {
	proc, err := process.NewProcess(pid)
	if err != nil {
		return ""
	}
	name, err := proc.Name()
	if err != nil {
		return ""
	}
	return name
}

// Close shuts down the X connection
func (w *Watcher) Close() error {
	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
	return nil
}
