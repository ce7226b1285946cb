package realtime

import (
	"context"
	"sync"
)

// MemoryBus is an in-process Bus. Slow subscribers drop events instead of
// blocking the publisher.
type MemoryBus struct {
	mu     sync.Mutex
	subs   map[int]chan AccessEvent
	nextID int
	closed bool
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[int]chan AccessEvent)}
}

func (b *MemoryBus) Publish(_ context.Context, event AccessEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- event:
		default: // subscriber not keeping up
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe() (<-chan AccessEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan AccessEvent, 16)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
	return nil
}
