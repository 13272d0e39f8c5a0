package registry

import (
	"errors"
	"sync"

	"github.com/Anoromi/whatawhat-lib/pkg/window"
)

// ErrIdentityUnavailable is returned when a descriptor carries no usable
// stable identity. The observation is skipped entirely; nothing is registered.
var ErrIdentityUnavailable = errors.New("window descriptor has no stable identity")

// Subscription records that the core has registered interest in change
// notifications for one window identity.
type Subscription struct {
	ID           window.ID
	HookAttached bool
}

// Registry tracks which windows the core has already subscribed to, keyed by
// the platform-supplied stable identifier. Backends may call Observe from
// their own goroutines, so all access is serialized with one mutex.
//
// Subscriptions are never removed: the backends we bind to do not emit a
// "window closed" event, so an identity stays subscribed for the lifetime of
// the process. Reset exists for test isolation only.
type Registry struct {
	mu   sync.Mutex
	subs map[window.ID]*Subscription
}

func New() *Registry {
	return &Registry{
		subs: make(map[window.ID]*Subscription),
	}
}

// Observe registers a subscription for the descriptor's identity on first
// sight and reports whether this observation created it. Observing the same
// identity any number of times never creates a duplicate subscription.
func (r *Registry) Observe(desc window.Descriptor) (isNew bool, err error) {
	if desc.ID == "" {
		return false, ErrIdentityUnavailable
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subs[desc.ID]; ok {
		return false, nil
	}

	r.subs[desc.ID] = &Subscription{ID: desc.ID}
	return true, nil
}

// MarkHookAttached records that the caption-change hook for id is wired. A
// second call for the same id reports false so a hook is never attached twice.
func (r *Registry) MarkHookAttached(id window.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subs[id]
	if !ok || sub.HookAttached {
		return false
	}
	sub.HookAttached = true
	return true
}

// Len reports the number of live subscriptions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// Reset drops all subscriptions. Production code never calls this; it exists
// so tests can isolate state.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = make(map[window.ID]*Subscription)
}
