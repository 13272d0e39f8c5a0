// Package normalize maps arbitrary platform-specific window descriptors into
// the canonical event shape.
package normalize

import "github.com/Anoromi/whatawhat-lib/pkg/window"

// Normalize builds a CanonicalEvent from a raw descriptor. It is total: any
// missing optional field maps to its canonical default (empty string for text
// fields, nil for pid) instead of propagating an error. Several backends
// fundamentally cannot supply all fields, so best-effort reporting beats
// rejecting partial data.
func Normalize(desc window.Descriptor) window.CanonicalEvent {
	ev := window.CanonicalEvent{}

	if desc.Caption != nil {
		ev.Caption = *desc.Caption
	}
	if desc.ResourceClass != nil {
		ev.ResourceClass = *desc.ResourceClass
	}
	if desc.ResourceName != nil {
		ev.ResourceName = *desc.ResourceName
	}
	if desc.PID != nil {
		pid := *desc.PID
		ev.PID = &pid
	}

	return ev
}
