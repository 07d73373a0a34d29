package bus

import (
	"sync"
	"time"
)

// EventBus fans session events out to any number of observers. A nil
// *EventBus is valid: publishing on it is a no-op, so packages that
// emit events never need to guard the call site.
type EventBus struct {
	mu        sync.RWMutex
	observers []chan Event
	closed    bool
}

func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe returns a channel that receives copies of all published
// events. The channel is buffered; slow observers drop.
func (b *EventBus) Subscribe() chan Event {
	ch := make(chan Event, 64)
	b.mu.Lock()
	b.observers = append(b.observers, ch)
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes an observer channel and closes it.
func (b *EventBus) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, obs := range b.observers {
		if obs == ch {
			b.observers = append(b.observers[:i], b.observers[i+1:]...)
			close(ch)
			return
		}
	}
}

// Publish stamps the event and delivers it to every observer without
// blocking; observers that cannot keep up miss events.
func (b *EventBus) Publish(event Event) {
	if b == nil {
		return
	}
	if event.Time.IsZero() {
		event.Time = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, obs := range b.observers {
		select {
		case obs <- event:
		default:
			// Non-blocking: skip slow observers
		}
	}
}

// Close closes all observer channels. Publish after Close is a no-op.
func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, obs := range b.observers {
		close(obs)
	}
	b.observers = nil
}
