//go:build windows

// Package winapi watches the foreground window on Windows by polling
// GetForegroundWindow and diffing the handle and title.
package winapi

import (
	"context"
	"fmt"
	"time"
	"unsafe"

	"github.com/shirou/gopsutil/v3/process"
	"golang.org/x/sys/windows"

	"github.com/Anoromi/whatawhat-lib/pkg/window"
)

var (
	user32                       = windows.NewLazySystemDLL("user32.dll")
	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
)

// Watcher implements window.Watcher for Windows
type Watcher struct {
	pollInterval time.Duration

	lastHandle uintptr
	lastTitle  string
}

// NewWatcher creates a Windows watcher polling at the given interval.
func NewWatcher(pollInterval time.Duration) *Watcher {
	return &Watcher{pollInterval: pollInterval}
}

// Name returns "winapi"
func (w *Watcher) Name() string {
	return "winapi"
}

// IsAvailable always reports true, the win32 desktop is unconditional here.
func (w *Watcher) IsAvailable() bool {
	return true
}

// Run polls until ctx is cancelled, emitting one event per observed change.
func (w *Watcher) Run(ctx context.Context, emit window.EmitFunc) error {
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
	handle, _, _ := procGetForegroundWindow.Call()
	if handle == 0 {
		return
	}

	title := windowTitle(handle)

	switch {
	case handle != w.lastHandle:
		w.lastHandle = handle
		w.lastTitle = title
		emit(w.describe(handle, title), window.SignalActivated)
	case title != w.lastTitle:
		w.lastTitle = title
		emit(w.describe(handle, title), window.SignalPropertyChanged)
	}
}

// describe builds a Descriptor snapshot for the foreground window. Polling
// only ever sees the foreground window, so Active is always true here.
func (w *Watcher) describe(handle uintptr, title string) window.Descriptor {
	desc := window.Descriptor{
		ID:     window.ID(fmt.Sprintf("0x%x", handle)),
		Active: true,
	}
	if title != "" {
		desc.Caption = &title
	}

	if pid := windowPID(handle); pid != 0 {
		p := int32(pid)
		desc.PID = &p

		if name := processName(p); name != "" {
			desc.ResourceName = &name
			desc.ResourceClass = &name
		}
	}

	return desc
}

func windowTitle(handle uintptr) string {
	buf := make([]uint16, 512)
	length, _, _ := procGetWindowTextW.Call(handle, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if length == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:length])
}

func windowPID(handle uintptr) uint32 {
	var pid uint32
	procGetWindowThreadProcessId.Call(handle, uintptr(unsafe.Pointer(&pid)))
	return pid
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

// Close is a no-op, polling holds no resources
func (w *Watcher) Close() error {
	return nil
}
