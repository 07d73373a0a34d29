package bus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishFansOutToAllObservers(t *testing.T) {
	b := NewEventBus()
	a := b.Subscribe()
	c := b.Subscribe()

	b.Publish(Event{Type: EventBatchStarted, BatchID: "batch-1"})

	for _, ch := range []chan Event{a, c} {
		select {
		case ev := <-ch:
			assert.Equal(t, EventBatchStarted, ev.Type)
			assert.Equal(t, "batch-1", ev.BatchID)
			assert.False(t, ev.Time.IsZero(), "publish stamps the time")
		case <-time.After(time.Second):
			t.Fatal("observer did not receive the event")
		}
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewEventBus()
	ch := b.Subscribe()
	b.Unsubscribe(ch)

	_, open := <-ch
	assert.False(t, open)

	// Publishing after unsubscribe must not panic.
	b.Publish(Event{Type: EventRelayStatus})
}

func TestNilBusPublishIsNoop(t *testing.T) {
	var b *EventBus
	b.Publish(Event{Type: EventTaskPublished})
}

func TestSlowObserverDropsInsteadOfBlocking(t *testing.T) {
	b := NewEventBus()
	ch := b.Subscribe()

	// Overfill the buffer; Publish must return regardless.
	for i := 0; i < cap(ch)+10; i++ {
		b.Publish(Event{Type: EventTaskPublished, TaskIndex: i})
	}
	assert.Equal(t, cap(ch), len(ch))
}

func TestCloseStopsDelivery(t *testing.T) {
	b := NewEventBus()
	ch := b.Subscribe()
	b.Close()

	_, open := <-ch
	require.False(t, open)

	b.Publish(Event{Type: EventBatchCompleted})
	b.Close()
}
