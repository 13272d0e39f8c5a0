package sink

import "github.com/Anoromi/whatawhat-lib/pkg/window"

// Sink delivers one canonical event to whatever consumer is listening.
// Delivery is fire-and-forget from the core's perspective: a failure is
// reported to the caller but the core retains no delivery state, so the next
// legitimate change attempts delivery again independently.
type Sink interface {
	Deliver(ev window.CanonicalEvent) error
	Close() error
}
