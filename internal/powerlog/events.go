package powerlog

import (
	"sync"
	"time"

	"github.com/decksage/powerlog/internal/game/state"
)

// EventType indicates the category of a parser event.
type EventType string

const (
	// EventActionStart fires each time an action block is pushed.
	EventActionStart EventType = "ACTION_START"
	// EventActionEnd fires each time an action block is popped.
	EventActionEnd EventType = "ACTION_END"
	// EventCardPlayed fires when a PLAY block is attributed to a side.
	EventCardPlayed EventType = "CARD_PLAYED"
	// EventMatchStarted fires when a fresh match instance begins.
	EventMatchStarted EventType = "MATCH_STARTED"
	// EventMatchReset fires before a completed match's state is dropped.
	EventMatchReset EventType = "MATCH_RESET"
	// EventGameComplete fires once when the game entity reaches STATE=COMPLETE.
	EventGameComplete EventType = "GAME_COMPLETE"
)

// Event is a higher-level fact derived from the log.
type Event struct {
	Type      EventType
	MatchID   string
	EntityID  int
	TargetID  int
	BlockType string
	CardID    string
	Side      state.Side
	Depth     int
	Timestamp time.Time
}

// Listener defines a callback that reacts to incoming events.
// Listeners run synchronously inside Parser.Process and must not call back into the parser.
type Listener func(Event)

type subscription struct {
	handle    int
	eventType EventType // empty for all events
	callback  Listener
}

// EventBus provides a synchronous publish/subscribe implementation with type filtering.
// Listeners are invoked in subscription order.
type EventBus struct {
	mu         sync.RWMutex
	subs       []subscription
	nextHandle int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	return bus.add("", listener)
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, listener Listener) int {
	return bus.add(eventType, listener)
}

// OnActionStart registers an observer notified with the acting entity id and
// block type of every pushed action block.
func (bus *EventBus) OnActionStart(fn func(entityID int, blockType string)) int {
	if fn == nil {
		return -1
	}
	return bus.add(EventActionStart, func(e Event) {
		fn(e.EntityID, e.BlockType)
	})
}

func (bus *EventBus) add(eventType EventType, listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.subs = append(bus.subs, subscription{handle: handle, eventType: eventType, callback: listener})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i := range bus.subs {
		if bus.subs[i].handle == handle {
			bus.subs = append(bus.subs[:i], bus.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers the event to all matching listeners synchronously.
func (bus *EventBus) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	bus.mu.RLock()
	subs := make([]subscription, len(bus.subs))
	copy(subs, bus.subs)
	bus.mu.RUnlock()

	for _, sub := range subs {
		if sub.eventType == "" || sub.eventType == event.Type {
			sub.callback(event)
		}
	}
}
