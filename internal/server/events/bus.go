package events

import "sync"

// Bus is a small in-process fan-out of domain events. Publish never blocks:
// a subscriber that cannot keep up loses events rather than stalling the
// request path.
type Bus struct {
	mu     sync.RWMutex
	subs   []chan Event
	closed bool
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a new observer and returns its channel. The channel is
// closed when the bus shuts down.
func (b *Bus) Subscribe(buffer int) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, buffer)
	if b.closed {
		close(ch)
		return ch
	}
	b.subs = append(b.subs, ch)
	return ch
}

// Publish delivers the event to every subscriber without blocking.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Close shuts the bus down and closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}
