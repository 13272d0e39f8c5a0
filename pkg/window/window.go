package window

// ID is the stable key distinguishing one window from another, independent of
// mutable display attributes like the caption. Backends derive it from the
// platform handle (an X11 window id, a KWin internal id, a toplevel handle).
// The empty ID means the backend could not resolve a stable identity.
type ID string

// Signal discriminates which platform event produced a Descriptor snapshot.
type Signal int

const (
	// SignalActivated fires when a window gains focus.
	SignalActivated Signal = iota

	// SignalPropertyChanged fires when a window's caption or another tracked
	// property changes, whether or not the window holds focus.
	SignalPropertyChanged
)

func (s Signal) String() string {
	switch s {
	case SignalActivated:
		return "activated"
	case SignalPropertyChanged:
		return "propertyChanged"
	default:
		return "unknown"
	}
}

// Descriptor is a raw, platform-supplied window snapshot. Backends vary in
// what they can expose, so everything except the identity and the active flag
// is optional. A Descriptor is only valid for the duration of one callback;
// the core never retains it.
type Descriptor struct {
	ID            ID
	Caption       *string
	ResourceClass *string
	ResourceName  *string
	PID           *int32
	Active        bool
}

// CanonicalEvent is the single normalized notification shape delivered to the
// consumer, independent of originating backend. Text fields are empty when the
// backend could not supply them; PID is nil when unknown.
type CanonicalEvent struct {
	Caption       string
	ResourceClass string
	ResourceName  string
	PID           *int32
}

// StringPtr is a convenience for building Descriptors from literal values.
func StringPtr(s string) *string { return &s }

// PIDPtr is a convenience for building Descriptors from literal pids.
func PIDPtr(pid int32) *int32 { return &pid }
