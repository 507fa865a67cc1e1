// Package watchers accumulates per-match statistics from parser events.
package watchers

import (
	"sort"
	"sync"

	"github.com/decksage/powerlog/internal/powerlog"
)

// Watcher observes parser events and tracks a condition.
type Watcher interface {
	// Watch is called for every event published on the bus.
	Watch(event powerlog.Event)

	// Reset clears the watcher's state (called when a match is reset).
	Reset()

	// ConditionMet reports whether the watcher has seen anything it tracks.
	ConditionMet() bool

	// Key identifies the watcher inside a registry.
	Key() string
}

// BaseWatcher provides the condition flag and key shared by watchers.
type BaseWatcher struct {
	key       string
	condition bool
}

// NewBaseWatcher creates a base watcher with the given key.
func NewBaseWatcher(key string) *BaseWatcher {
	return &BaseWatcher{key: key}
}

// ConditionMet returns whether the condition has been met.
func (bw *BaseWatcher) ConditionMet() bool {
	return bw.condition
}

// SetCondition sets the condition flag.
func (bw *BaseWatcher) SetCondition(condition bool) {
	bw.condition = condition
}

// Reset clears the condition.
func (bw *BaseWatcher) Reset() {
	bw.condition = false
}

// Key returns the unique key for this watcher.
func (bw *BaseWatcher) Key() string {
	return bw.key
}

// Registry fans bus events out to its watchers.
type Registry struct {
	mu       sync.RWMutex
	watchers map[string]Watcher
	handle   int
	bus      *powerlog.EventBus
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		watchers: make(map[string]Watcher),
		handle:   -1,
	}
}

// Add registers a watcher, replacing any watcher with the same key.
func (r *Registry) Add(w Watcher) {
	if w == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watchers[w.Key()] = w
}

// Remove drops the watcher with the given key.
func (r *Registry) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.watchers, key)
}

// Get returns the watcher registered under key, or nil.
func (r *Registry) Get(key string) Watcher {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.watchers[key]
}

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.watchers))
	for k := range r.watchers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Attach subscribes the registry to bus. A MATCH_RESET event resets every
// watcher after it has been delivered.
func (r *Registry) Attach(bus *powerlog.EventBus) {
	r.Detach()
	r.mu.Lock()
	r.bus = bus
	r.mu.Unlock()
	handle := bus.Subscribe(r.Notify)
	r.mu.Lock()
	r.handle = handle
	r.mu.Unlock()
}

// Detach removes the registry's subscription, if any.
func (r *Registry) Detach() {
	r.mu.Lock()
	bus, handle := r.bus, r.handle
	r.bus, r.handle = nil, -1
	r.mu.Unlock()
	if bus != nil && handle >= 0 {
		bus.Unsubscribe(handle)
	}
}

// Notify delivers event to every watcher.
func (r *Registry) Notify(event powerlog.Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.watchers {
		w.Watch(event)
	}
	if event.Type == powerlog.EventMatchReset {
		for _, w := range r.watchers {
			w.Reset()
		}
	}
}

