package auth

import (
	"sync"

	"github.com/google/uuid"
)

// EventKind identifies what changed in the session.
type EventKind string

const (
	// EventAuthChanged fires once per actual flip of SessionState.Authenticated.
	EventAuthChanged EventKind = "auth_changed"
	// EventSessionEnded fires after logout has reset the session.
	EventSessionEnded EventKind = "session_ended"
)

// Event is delivered to listeners synchronously, in publish order.
type Event struct {
	Kind          EventKind
	Authenticated bool
}

// Listener handles session events. Listeners run on the publisher's goroutine
// and must not publish on the same notifier.
type Listener func(Event)

// Notifier manages subscriptions for session events.
type Notifier interface {
	Subscribe(fn Listener) (unsubscribe func())
	Publish(ev Event)
}

// DefaultNotifier is the default implementation of Notifier.
type DefaultNotifier struct {
	mu    sync.Mutex
	subs  map[uuid.UUID]Listener
	order []uuid.UUID
}

// NewNotifier constructs the default notifier implementation.
func NewNotifier() *DefaultNotifier {
	return &DefaultNotifier{subs: make(map[uuid.UUID]Listener)}
}

// Subscribe registers fn and returns a function that removes it. Calling the
// returned function more than once is safe.
func (n *DefaultNotifier) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	id := uuid.New()
	n.subs[id] = fn
	n.order = append(n.order, id)

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if _, ok := n.subs[id]; !ok {
			return
		}
		delete(n.subs, id)
		for i, sid := range n.order {
			if sid == id {
				n.order = append(n.order[:i], n.order[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers ev to every listener in subscription order.
func (n *DefaultNotifier) Publish(ev Event) {
	n.mu.Lock()
	listeners := make([]Listener, 0, len(n.order))
	for _, id := range n.order {
		listeners = append(listeners, n.subs[id])
	}
	n.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

// Len returns the number of active subscriptions.
func (n *DefaultNotifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}

var _ Notifier = (*DefaultNotifier)(nil)
