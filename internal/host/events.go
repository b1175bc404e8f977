package host

import (
	"context"
	"fmt"
	"sort"
)

// Event names a lifecycle point listeners can attach to.
type Event string

const (
	EventConfigInited  Event = "config-inited"
	EventBuilderInited Event = "builder-inited"
	EventEnvUpdated    Event = "env-updated"
	EventBuildFinished Event = "build-finished"
)

// DefaultPriority is used by Connect. Lower priorities run first.
const DefaultPriority = 500

// Listener is invoked when an event is emitted.
type Listener func(ctx context.Context, app *App) error

type listener struct {
	id       int
	priority int
	fn       Listener
}

// EventBus dispatches lifecycle events to listeners in priority order,
// registration order within the same priority.
type EventBus struct {
	listeners map[Event][]listener
	nextID    int
}

// NewEventBus creates an empty event bus.
func NewEventBus() *EventBus {
	return &EventBus{listeners: make(map[Event][]listener)}
}

// Connect registers fn for ev and returns a listener id usable with Disconnect.
func (b *EventBus) Connect(ev Event, priority int, fn Listener) int {
	b.nextID++
	b.listeners[ev] = append(b.listeners[ev], listener{id: b.nextID, priority: priority, fn: fn})
	return b.nextID
}

// Disconnect removes a listener by id.
func (b *EventBus) Disconnect(id int) {
	for ev, ls := range b.listeners {
		for i, l := range ls {
			if l.id == id {
				b.listeners[ev] = append(ls[:i:i], ls[i+1:]...)
				return
			}
		}
	}
}

// Emit runs every listener of ev and stops at the first error.
func (b *EventBus) Emit(ctx context.Context, ev Event, app *App) error {
	ls := append([]listener(nil), b.listeners[ev]...)
	sort.SliceStable(ls, func(i, j int) bool { return ls[i].priority < ls[j].priority })
	for _, l := range ls {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := l.fn(ctx, app); err != nil {
			return fmt.Errorf("%s: %w", ev, err)
		}
	}
	return nil
}

// Count returns the number of listeners registered for ev.
func (b *EventBus) Count(ev Event) int {
	return len(b.listeners[ev])
}
