package watchers

import (
	"github.com/decksage/powerlog/internal/game/state"
	"github.com/decksage/powerlog/internal/powerlog"
)

// BlockCountWatcher counts opened action blocks by block type.
type BlockCountWatcher struct {
	*BaseWatcher
	counts   map[string]int
	maxDepth int
}

// NewBlockCountWatcher creates a new block count watcher.
func NewBlockCountWatcher() *BlockCountWatcher {
	return &BlockCountWatcher{
		BaseWatcher: NewBaseWatcher("BlockCountWatcher"),
		counts:      make(map[string]int),
	}
}

// Watch implements the Watcher interface.
func (w *BlockCountWatcher) Watch(event powerlog.Event) {
	if event.Type != powerlog.EventActionStart {
		return
	}
	w.counts[event.BlockType]++
	if event.Depth > w.maxDepth {
		w.maxDepth = event.Depth
	}
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *BlockCountWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.counts = make(map[string]int)
	w.maxDepth = 0
}

// Count returns the number of blocks of the given type.
func (w *BlockCountWatcher) Count(blockType string) int {
	return w.counts[blockType]
}

// Total returns the number of blocks of any type.
func (w *BlockCountWatcher) Total() int {
	total := 0
	for _, n := range w.counts {
		total += n
	}
	return total
}

// MaxDepth returns the deepest nesting seen.
func (w *BlockCountWatcher) MaxDepth() int {
	return w.maxDepth
}

// Counts returns a copy of the per-type counts.
func (w *BlockCountWatcher) Counts() map[string]int {
	cpy := make(map[string]int, len(w.counts))
	for k, v := range w.counts {
		cpy[k] = v
	}
	return cpy
}

// PlayedCardsWatcher tracks attributed plays per side.
type PlayedCardsWatcher struct {
	*BaseWatcher
	played map[state.Side][]string
}

// NewPlayedCardsWatcher creates a new played cards watcher.
func NewPlayedCardsWatcher() *PlayedCardsWatcher {
	return &PlayedCardsWatcher{
		BaseWatcher: NewBaseWatcher("PlayedCardsWatcher"),
		played:      make(map[state.Side][]string),
	}
}

// Watch implements the Watcher interface.
func (w *PlayedCardsWatcher) Watch(event powerlog.Event) {
	if event.Type != powerlog.EventCardPlayed || event.Side == state.SideNone {
		return
	}
	w.played[event.Side] = append(w.played[event.Side], event.CardID)
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *PlayedCardsWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.played = make(map[state.Side][]string)
}

// Played returns the card ids played by side, in play order.
func (w *PlayedCardsWatcher) Played(side state.Side) []string {
	return append([]string(nil), w.played[side]...)
}

// Count returns the number of cards played by side.
func (w *PlayedCardsWatcher) Count(side state.Side) int {
	return len(w.played[side])
}
