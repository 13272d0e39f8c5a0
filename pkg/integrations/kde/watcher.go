// Package kde watches the active window on KDE Plasma. KWin exposes no
// protocol for observing top level windows, so a small KWin script is loaded
// over D-Bus; the script calls back into a receiver object exported here with
// raw activation and caption-change events, which are forwarded as window
// descriptors.
package kde

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/godbus/dbus/v5"
	"github.com/pkg/errors"

	"github.com/Anoromi/whatawhat-lib/pkg/window"
)

const (
	scriptName = "whatawhat-watcher"

	kwinService   = "org.kde.KWin"
	scriptingPath = "/Scripting"
	scriptingIfc  = "org.kde.kwin.Scripting"
	scriptIfc     = "org.kde.kwin.Script"

	receiverService   = "com.github.anoromi.whatawhat_lib.watcher"
	receiverPath      = "/com/github/anoromi/whatawhat_lib/watcher"
	receiverInterface = "com.github.anoromi.whatawhat_lib.Watcher"
)

// Watcher implements window.Watcher for KDE Plasma
type Watcher struct {
	conn *dbus.Conn

	majorVersion int
	scriptID     int32
	loaded       bool
}

// NewWatcher creates a KDE watcher. The session bus connection is established
// lazily, on the first availability probe.
func NewWatcher() *Watcher {
	return &Watcher{}
}

// Name returns "kde"
func (w *Watcher) Name() string {
	return "kde"
}

// IsAvailable reports whether KWin scripting is reachable on the session bus.
// A plain X11 session is excluded so the X11 watcher gets picked instead.
func (w *Watcher) IsAvailable() bool {
	if os.Getenv("WAYLAND_DISPLAY") == "" && os.Getenv("XDG_SESSION_TYPE") == "x11" {
		return false
	}
	if err := w.connect(); err != nil {
		return false
	}

	var owned bool
	obj := w.conn.Object("org.freedesktop.DBus", "/org/freedesktop/DBus")
	if err := obj.Call("org.freedesktop.DBus.NameHasOwner", 0, kwinService).Store(&owned); err != nil {
		return false
	}
	return owned
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

// Run loads the KWin script and serves raw callbacks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, emit window.EmitFunc) error {
	if err := w.connect(); err != nil {
		return err
	}

	w.majorVersion = w.kwinMajorVersion()

	// A script left over from a crashed instance would double every event.
	if loaded, err := w.isScriptLoaded(); err == nil && loaded {
		if _, err := w.unloadScript(); err != nil {
			return errors.Wrap(err, "failed to unload stale KWin script")
		}
	}

	if err := w.exportReceiver(emit); err != nil {
		return err
	}

	if err := w.loadScript(); err != nil {
		return err
	}
	defer func() {
		if _, err := w.unloadScript(); err != nil {
			log.Printf("Warning: failed to unload KWin script: %v", err)
		}
	}()

	<-ctx.Done()
	return ctx.Err()
}

// exportReceiver registers the D-Bus object the KWin script calls into.
func (w *Watcher) exportReceiver(emit window.EmitFunc) error {
	reply, err := w.conn.RequestName(receiverService, dbus.NameFlagDoNotQueue)
	if err != nil {
		return errors.Wrap(err, "failed to request watcher bus name")
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return errors.Errorf("watcher bus name %s is already taken", receiverService)
	}

	handler := receiver{emit: emit}
	if err := w.conn.Export(handler, receiverPath, receiverInterface); err != nil {
		return errors.Wrap(err, "failed to export watcher receiver")
	}
	return nil
}

// loadScript writes the script source to a temp file, registers it with KWin
// and starts it. The temp file is removed once KWin has read it.
func (w *Watcher) loadScript() error {
	path := filepath.Join(os.TempDir(), "whatawhat-watcher.js")
	if err := os.WriteFile(path, []byte(scriptSource(w.majorVersion)), 0644); err != nil {
		return errors.Wrap(err, "failed to write KWin script")
	}
	defer os.Remove(path)

	obj := w.conn.Object(kwinService, scriptingPath)
	if err := obj.Call(scriptingIfc+".loadScript", 0, path, scriptName).Store(&w.scriptID); err != nil {
		return errors.Wrap(err, "failed to load KWin script")
	}

	if err := w.conn.Object(kwinService, w.scriptPath()).Call(scriptIfc+".run", 0).Err; err != nil {
		return errors.Wrap(err, "failed to start KWin script")
	}

	w.loaded = true
	return nil
}

// scriptPath resolves the object path of the loaded script. KWin 6 moved
// script objects under /Scripting.
func (w *Watcher) scriptPath() dbus.ObjectPath {
	if w.majorVersion < 6 {
		return dbus.ObjectPath(fmt.Sprintf("/%d", w.scriptID))
	}
	return dbus.ObjectPath(fmt.Sprintf("/Scripting/Script%d", w.scriptID))
}

func (w *Watcher) isScriptLoaded() (bool, error) {
	var loaded bool
	obj := w.conn.Object(kwinService, scriptingPath)
	if err := obj.Call(scriptingIfc+".isScriptLoaded", 0, scriptName).Store(&loaded); err != nil {
		return false, errors.Wrap(err, "failed to query KWin script state")
	}
	return loaded, nil
}

func (w *Watcher) unloadScript() (bool, error) {
	var unloaded bool
	obj := w.conn.Object(kwinService, scriptingPath)
	if err := obj.Call(scriptingIfc+".unloadScript", 0, scriptName).Store(&unloaded); err != nil {
		return false, errors.Wrap(err, "failed to unload KWin script")
	}
	w.loaded = false
	return unloaded, nil
}

// kwinMajorVersion probes the KWin major version, preferring the session
// environment over a D-Bus round trip. Defaults to 5 when neither answers.
func (w *Watcher) kwinMajorVersion() int {
	if v, err := strconv.Atoi(os.Getenv("KDE_SESSION_VERSION")); err == nil {
		return v
	}

	var info string
	obj := w.conn.Object(kwinService, "/KWin")
	if err := obj.Call("org.kde.KWin.supportInformation", 0).Store(&info); err != nil {
		log.Printf("Warning: failed to query KWin support information: %v", err)
		return 5
	}

	version, err := parseSupportInformation(info)
	if err != nil {
		log.Printf("Warning: %v", err)
		return 5
	}
	return version
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

// receiver is the D-Bus object the KWin script reports into.
type receiver struct {
	emit window.EmitFunc
}

// RawWindowEvent converts one script callback into a descriptor. The script
// sends -1 when KWin exposes no pid for the window.
func (r receiver) RawWindowEvent(id, caption, resourceClass, resourceName string, pid int32, active bool, signal string) *dbus.Error {
	desc := window.Descriptor{
		ID:     window.ID(id),
		Active: active,
	}
	if caption != "" {
		desc.Caption = &caption
	}
	if resourceClass != "" {
		desc.ResourceClass = &resourceClass
	}
	if resourceName != "" {
		desc.ResourceName = &resourceName
	}
	if pid >= 0 {
		desc.PID = &pid
	}

	sig := window.SignalPropertyChanged
	if signal == "activated" {
		sig = window.SignalActivated
	}
	r.emit(desc, sig)
	return nil
}
