// internal/events/bus.go
package events

import "sync"

// Event names published on the bus
const (
	SessionEnded = "session.ended"
)

// Bus is a minimal in-process publish/subscribe hub. It decouples the
// session store from its subscribers: the publisher never knows who reacts.
// Handlers run synchronously on the publishing goroutine.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]func()
}

// NewBus creates an empty event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[string][]func()),
	}
}

// Subscribe registers a handler for an event name
func (b *Bus) Subscribe(event string, handler func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], handler)
}

// Publish invokes every handler registered for the event
func (b *Bus) Publish(event string) {
	b.mu.RLock()
	handlers := append([]func(){}, b.handlers[event]...)
	b.mu.RUnlock()

	for _, h := range handlers {
		h()
	}
}
