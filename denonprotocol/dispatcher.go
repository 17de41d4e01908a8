package denonprotocol

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Listener receives events from an EventDispatcher.
type Listener interface {
	OnEvent(event Event) error
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(event Event) error

// OnEvent calls f(event).
func (f ListenerFunc) OnEvent(event Event) error {
	return f(event)
}

// Dispatcher fans a received event out to interested parties. The client
// calls Dispatch from its reader goroutine, one event at a time.
type Dispatcher interface {
	Dispatch(event Event)
}

// ListenerID identifies a registered listener.
type ListenerID uint64

type registration struct {
	id       ListenerID
	listener Listener
}

// EventDispatcher delivers every event to its listeners synchronously, in
// registration order. A listener that fails or panics is logged and
// skipped; delivery to the remaining listeners continues.
//
// EventDispatcher is safe for concurrent use.
type EventDispatcher struct {
	mu        sync.RWMutex
	listeners []registration
	nextID    ListenerID
	logger    *zap.Logger
}

// NewEventDispatcher creates an empty dispatcher. A nil logger discards
// listener failures.
func NewEventDispatcher(logger *zap.Logger) *EventDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventDispatcher{logger: logger}
}

// AddListener registers l and returns an id for RemoveListener.
func (d *EventDispatcher) AddListener(l Listener) ListenerID {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	d.listeners = append(d.listeners, registration{id: d.nextID, listener: l})
	return d.nextID
}

// AddListenerFunc registers fn as a listener.
func (d *EventDispatcher) AddListenerFunc(fn func(Event) error) ListenerID {
	return d.AddListener(ListenerFunc(fn))
}

// RemoveListener unregisters the listener with the given id. It reports
// whether a listener was removed.
func (d *EventDispatcher) RemoveListener(id ListenerID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, r := range d.listeners {
		if r.id == id {
			d.listeners = append(d.listeners[:i:i], d.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of registered listeners.
func (d *EventDispatcher) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.listeners)
}

// Dispatch delivers event to every registered listener.
func (d *EventDispatcher) Dispatch(event Event) {
	d.mu.RLock()
	snapshot := make([]registration, len(d.listeners))
	copy(snapshot, d.listeners)
	d.mu.RUnlock()

	for _, r := range snapshot {
		if err := invokeListener(r.listener, event); err != nil {
			d.logger.Warn("event listener failed",
				zap.Uint64("listener", uint64(r.id)),
				zap.String("event", event.Raw()),
				zap.Error(err),
			)
		}
	}
}

func invokeListener(l Listener, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("listener panic: %v", r)
		}
	}()
	return l.OnEvent(event)
}
