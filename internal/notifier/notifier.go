// Package notifier wires the identity registry, the normalizer, the dedup
// filter and the sink into the single callback a backend watcher invokes.
package notifier

import (
	"log"

	"github.com/Anoromi/whatawhat-lib/internal/dedup"
	"github.com/Anoromi/whatawhat-lib/internal/normalize"
	"github.com/Anoromi/whatawhat-lib/internal/registry"
	"github.com/Anoromi/whatawhat-lib/internal/sink"
	"github.com/Anoromi/whatawhat-lib/pkg/window"
)

// Notifier is the normalization and delivery core. One instance serves all
// backends; the registry it owns is the only mutable shared state.
type Notifier struct {
	registry *registry.Registry
	sink     sink.Sink

	// hooker attaches per-window caption hooks for backends that wire them
	// lazily. nil when the active backend hooks globally.
	hooker window.CaptionHooker
}

func New(reg *registry.Registry, s sink.Sink) *Notifier {
	return &Notifier{
		registry: reg,
		sink:     s,
	}
}

// SetCaptionHooker installs the backend's lazy hook capability. Must be called
// before the backend starts emitting.
func (n *Notifier) SetCaptionHooker(h window.CaptionHooker) {
	n.hooker = h
}

// HandleSignal processes one raw platform event end to end: registers the
// identity, applies the dedup policy, and delivers the normalized event when
// the policy says to. It is the EmitFunc handed to backend watchers.
//
// A failure while processing one window's event never affects another
// window's subscription or notification eligibility, and a delivery failure
// never mutates registry state.
func (n *Notifier) HandleSignal(desc window.Descriptor, sig window.Signal) {
	if err := n.handle(desc, sig); err != nil {
		log.Printf("Skipping %s event: %v", sig, err)
	}
}

func (n *Notifier) handle(desc window.Descriptor, sig window.Signal) error {
	isNew, err := n.registry.Observe(desc)
	if err != nil {
		return err
	}

	if isNew {
		n.attachHook(desc.ID)
	}

	if !dedup.ShouldNotify(desc, isNew) {
		return nil
	}

	ev := normalize.Normalize(desc)
	if err := n.sink.Deliver(ev); err != nil {
		// Delivery is fire-and-forget: log and move on, the next legitimate
		// change attempts delivery again.
		log.Printf("Failed to deliver %s event for window %q: %v", sig, desc.ID, err)
	}
	return nil
}

// attachHook performs the one-time caption-hook registration for a freshly
// subscribed identity. Re-observing an already-subscribed identity never
// reaches this path, so a second hook is never attached.
func (n *Notifier) attachHook(id window.ID) {
	if n.hooker == nil {
		return
	}
	if !n.registry.MarkHookAttached(id) {
		return
	}
	if err := n.hooker.AttachCaptionHook(id); err != nil {
		log.Printf("Failed to attach caption hook for window %q: %v", id, err)
	}
}
