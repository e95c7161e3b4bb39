// Package events fans ledger events out to in-process subscribers.
package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mmynk/splitchain/internal/models"
)

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 64

// Bus delivers every published event to every live subscriber.
// A subscriber whose buffer is full misses the event; it can catch up
// from the event log using the Seq of the last event it saw.
type Bus struct {
	mu     sync.RWMutex
	subs   map[uint64]chan models.Event
	nextID uint64
	buffer int
}

// NewBus creates a bus with the given per-subscriber buffer (DefaultBuffer if <= 0).
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Bus{
		subs:   make(map[uint64]chan models.Event),
		buffer: buffer,
	}
}

// Publish never blocks the ledger.
func (b *Bus) Publish(ctx context.Context, event models.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subs {
		select {
		case ch <- event:
		default:
			slog.WarnContext(ctx, "Dropping event for slow subscriber",
				"subscriber", id,
				"seq", event.Seq,
				"type", event.Type,
			)
		}
	}
}

// Subscribe returns a channel of events published from now on. The channel is
// closed once ctx is done.
func (b *Bus) Subscribe(ctx context.Context) <-chan models.Event {
	ch := make(chan models.Event, b.buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, id)
		close(ch)
		b.mu.Unlock()
	}()

	return ch
}

// Subscribers returns the number of live subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
