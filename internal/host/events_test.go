package host

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBusPriorityAndRegistrationOrder(t *testing.T) {
	bus := NewEventBus()
	var order []string
	add := func(name string, prio int) int {
		return bus.Connect(EventEnvUpdated, prio, func(context.Context, *App) error {
			order = append(order, name)
			return nil
		})
	}
	add("b", DefaultPriority)
	add("a", 100)
	removed := add("x", 100)
	add("c", DefaultPriority)
	bus.Disconnect(removed)

	require.NoError(t, bus.Emit(context.Background(), EventEnvUpdated, nil))
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, 3, bus.Count(EventEnvUpdated))
}

func TestEventBusStopsAtFirstError(t *testing.T) {
	bus := NewEventBus()
	boom := errors.New("boom")
	called := false
	bus.Connect(EventConfigInited, 1, func(context.Context, *App) error { return boom })
	bus.Connect(EventConfigInited, 2, func(context.Context, *App) error {
		called = true
		return nil
	})

	err := bus.Emit(context.Background(), EventConfigInited, nil)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "config-inited")
	assert.False(t, called)
}

func TestEventBusHonoursCancellation(t *testing.T) {
	bus := NewEventBus()
	bus.Connect(EventConfigInited, 1, func(context.Context, *App) error { return nil })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, bus.Emit(ctx, EventConfigInited, nil), context.Canceled)
}
