package realtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBusDeliversToAllSubscribers(t *testing.T) {
	bus := NewMemoryBus()
	defer bus.Close()

	a, cancelA := bus.Subscribe()
	defer cancelA()
	b, cancelB := bus.Subscribe()
	defer cancelB()

	event := AccessEvent{KeyID: "key-1", SurahID: 2, IsUnlocked: true}
	require.NoError(t, bus.Publish(context.Background(), event))

	assert.Equal(t, event, <-a)
	assert.Equal(t, event, <-b)
}

func TestMemoryBusCancelStopsDelivery(t *testing.T) {
	bus := NewMemoryBus()
	defer bus.Close()

	events, cancel := bus.Subscribe()
	cancel()

	_, open := <-events
	assert.False(t, open)

	// publishing after cancel must not panic on the closed channel
	require.NoError(t, bus.Publish(context.Background(), AccessEvent{KeyID: "key-1", SurahID: 2}))
}

func TestMemoryBusDropsWhenSubscriberLagsBehind(t *testing.T) {
	bus := NewMemoryBus()
	defer bus.Close()

	events, cancel := bus.Subscribe()
	defer cancel()

	// overfill the buffer; the publisher must never block
	for i := 0; i < 40; i++ {
		require.NoError(t, bus.Publish(context.Background(), AccessEvent{KeyID: "key-1", SurahID: i}))
	}

	received := 0
	for {
		select {
		case <-events:
			received++
			continue
		default:
		}
		break
	}
	assert.Equal(t, 16, received)
}

func TestMemoryBusCloseClosesSubscribers(t *testing.T) {
	bus := NewMemoryBus()
	events, _ := bus.Subscribe()

	require.NoError(t, bus.Close())
	_, open := <-events
	assert.False(t, open)

	// idempotent
	require.NoError(t, bus.Close())
}

func TestNewBusDefaultsToMemory(t *testing.T) {
	bus, err := NewBus("", "anwaar:access")
	require.NoError(t, err)
	defer bus.Close()

	_, ok := bus.(*MemoryBus)
	assert.True(t, ok)
}
