package watchers

import (
	"testing"

	"github.com/decksage/powerlog/internal/game/state"
	"github.com/decksage/powerlog/internal/powerlog"
	"go.uber.org/zap/zaptest"
)

func TestBlockCountWatcher(t *testing.T) {
	watcher := NewBlockCountWatcher()

	if watcher.ConditionMet() {
		t.Fatal("watcher should not have condition met initially")
	}

	watcher.Watch(powerlog.Event{Type: powerlog.EventActionStart, BlockType: "ATTACK", Depth: 1})
	watcher.Watch(powerlog.Event{Type: powerlog.EventActionStart, BlockType: "TRIGGER", Depth: 2})
	watcher.Watch(powerlog.Event{Type: powerlog.EventActionStart, BlockType: "TRIGGER", Depth: 3})
	watcher.Watch(powerlog.Event{Type: powerlog.EventActionEnd, BlockType: "TRIGGER", Depth: 3})

	if !watcher.ConditionMet() {
		t.Fatal("watcher should have condition met after a block")
	}
	if got := watcher.Count("TRIGGER"); got != 2 {
		t.Fatalf("expected 2 TRIGGER blocks, got %d", got)
	}
	if got := watcher.Total(); got != 3 {
		t.Fatalf("expected 3 blocks, got %d", got)
	}
	if got := watcher.MaxDepth(); got != 3 {
		t.Fatalf("expected max depth 3, got %d", got)
	}

	counts := watcher.Counts()
	counts["ATTACK"] = 99
	if watcher.Count("ATTACK") != 1 {
		t.Fatal("Counts should return a copy")
	}

	watcher.Reset()
	if watcher.ConditionMet() || watcher.Total() != 0 || watcher.MaxDepth() != 0 {
		t.Fatal("watcher should be empty after reset")
	}
}

func TestPlayedCardsWatcher(t *testing.T) {
	watcher := NewPlayedCardsWatcher()

	watcher.Watch(powerlog.Event{Type: powerlog.EventCardPlayed, Side: state.SideLocal, CardID: "CARD_A"})
	watcher.Watch(powerlog.Event{Type: powerlog.EventCardPlayed, Side: state.SideOpponent, CardID: "CARD_B"})
	watcher.Watch(powerlog.Event{Type: powerlog.EventCardPlayed, Side: state.SideLocal, CardID: "CARD_C"})
	watcher.Watch(powerlog.Event{Type: powerlog.EventCardPlayed, Side: state.SideNone, CardID: "CARD_D"})

	local := watcher.Played(state.SideLocal)
	if len(local) != 2 || local[0] != "CARD_A" || local[1] != "CARD_C" {
		t.Fatalf("unexpected local plays %v", local)
	}
	if watcher.Count(state.SideOpponent) != 1 {
		t.Fatalf("expected 1 opponent play, got %d", watcher.Count(state.SideOpponent))
	}

	watcher.Reset()
	if watcher.Count(state.SideLocal) != 0 {
		t.Fatal("expected no plays after reset")
	}
}

func TestRegistryFollowsParserBus(t *testing.T) {
	logger := zaptest.NewLogger(t)
	game := state.NewGame(logger, 1)
	bus := powerlog.NewEventBus()
	parser := powerlog.NewParser(game, state.NewResolver(game), nil, bus, logger)

	blocks := NewBlockCountWatcher()
	played := NewPlayedCardsWatcher()
	registry := NewRegistry()
	registry.Add(blocks)
	registry.Add(played)
	registry.Attach(bus)

	lines := []string{
		"CREATE_GAME",
		"GameEntity EntityID=1",
		"tag=STATE value=RUNNING",
		"Player EntityID=2 PlayerID=1 GameAccountId=[hi=1 lo=1]",
		"tag=PLAYER_ID value=1",
		"Player EntityID=3 PlayerID=2 GameAccountId=[hi=1 lo=2]",
		"tag=PLAYER_ID value=2",
		"TAG_CHANGE Entity=GameEntity tag=STEP value=MAIN_ACTION",
		"TAG_CHANGE Entity=GameEntity tag=TURN value=2",
		"TAG_CHANGE Entity=3 tag=FIRST_PLAYER value=1",
		"FULL_ENTITY - Creating ID=40 CardID=CARD_X",
		"ACTION_START BlockType=PLAY Entity=[id=40] EffectCardId= EffectIndex=0 Target=0",
		"ACTION_START BlockType=TRIGGER Entity=GameEntity EffectCardId= EffectIndex=0 Target=0",
		"ACTION_END",
		"ACTION_END",
	}
	for _, line := range lines {
		if err := parser.Process(line); err != nil {
			t.Fatalf("process %q: %v", line, err)
		}
	}

	if blocks.Total() != 2 || blocks.MaxDepth() != 2 {
		t.Fatalf("unexpected block stats: total=%d depth=%d", blocks.Total(), blocks.MaxDepth())
	}
	// opponent went first, so the local player acts on even turns
	if got := played.Played(state.SideLocal); len(got) != 1 || got[0] != "CARD_X" {
		t.Fatalf("unexpected local plays %v", got)
	}

	for _, line := range []string{"TAG_CHANGE Entity=GameEntity tag=STATE value=COMPLETE", "CREATE_GAME"} {
		if err := parser.Process(line); err != nil {
			t.Fatalf("process %q: %v", line, err)
		}
	}
	if blocks.ConditionMet() || played.ConditionMet() {
		t.Fatal("watchers should reset with the match")
	}

	registry.Detach()
	blocks.Watch(powerlog.Event{Type: powerlog.EventActionStart, BlockType: "POWER", Depth: 1})
	bus.Publish(powerlog.Event{Type: powerlog.EventActionStart, BlockType: "POWER", Depth: 1})
	if blocks.Total() != 1 {
		t.Fatalf("detached registry should not deliver, got %d blocks", blocks.Total())
	}
}

func TestRegistryKeys(t *testing.T) {
	registry := NewRegistry()
	registry.Add(NewPlayedCardsWatcher())
	registry.Add(NewBlockCountWatcher())
	registry.Add(nil)

	keys := registry.Keys()
	if len(keys) != 2 || keys[0] != "BlockCountWatcher" || keys[1] != "PlayedCardsWatcher" {
		t.Fatalf("unexpected keys %v", keys)
	}
	if registry.Get("PlayedCardsWatcher") == nil {
		t.Fatal("expected PlayedCardsWatcher to be registered")
	}
	registry.Remove("PlayedCardsWatcher")
	if registry.Get("PlayedCardsWatcher") != nil {
		t.Fatal("expected PlayedCardsWatcher to be removed")
	}
}
