package window

import "context"

// EmitFunc is the callback contract between a backend watcher and the core.
// The watcher invokes it once per native event with a Descriptor snapshot and
// the signal that fired. The core runs the callback to completion before the
// watcher delivers the next event for the same window.
type EmitFunc func(desc Descriptor, sig Signal)

// Watcher is the interface every backend watcher must satisfy. A watcher owns
// one windowing environment (X11, a Wayland compositor, Win32) and maps its
// native events into Descriptor snapshots. The watcher is responsible for
// resolving Active correctly per its own platform semantics.
type Watcher interface {
	// Name identifies the backend ("x11", "kde", "gnome", "sway", "winapi").
	Name() string

	// IsAvailable checks if this watcher can run on the current system.
	IsAvailable() bool

	// Run blocks, delivering events through emit until ctx is cancelled.
	Run(ctx context.Context, emit EmitFunc) error

	// Close cleans up any resources used by the watcher.
	Close() error
}

// CaptionHooker is an optional capability for watchers that attach per-window
// caption-change hooks lazily. The core calls AttachCaptionHook exactly once
// per window identity, inside the new-subscription branch of Observe. Watchers
// whose platform wires hooks globally simply do not implement it.
type CaptionHooker interface {
	AttachCaptionHook(id ID) error
}
