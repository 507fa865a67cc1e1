package powerlog

import (
	"testing"

	"github.com/decksage/powerlog/internal/game/state"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// prologue declares game entity 1 and players 2 (PlayerID=1) and 3 (PlayerID=2).
var prologue = []string{
	"CREATE_GAME",
	"    GameEntity EntityID=1",
	"        tag=CARDTYPE value=GAME",
	"        tag=STATE value=RUNNING",
	"    Player EntityID=2 PlayerID=1 GameAccountId=[hi=144115198130930503 lo=11]",
	"        tag=PLAYER_ID value=1",
	"        tag=CARDTYPE value=PLAYER",
	"    Player EntityID=3 PlayerID=2 GameAccountId=[hi=144115198130930503 lo=22]",
	"        tag=PLAYER_ID value=2",
	"        tag=CARDTYPE value=PLAYER",
}

type recordingReporter struct {
	diags []Diagnostic
}

func (r *recordingReporter) Report(d Diagnostic) {
	r.diags = append(r.diags, d)
}

func (r *recordingReporter) count(kind DiagnosticKind) int {
	n := 0
	for _, d := range r.diags {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

type harness struct {
	game     *state.Game
	parser   *Parser
	reporter *recordingReporter
	bus      *EventBus
}

// newHarness wires a parser to a real store; the local player is PlayerID 1 (entity 2).
func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := zaptest.NewLogger(t)
	game := state.NewGame(logger, 1)
	reporter := &recordingReporter{}
	bus := NewEventBus()
	return &harness{
		game:     game,
		parser:   NewParser(game, state.NewResolver(game), reporter, bus, logger),
		reporter: reporter,
		bus:      bus,
	}
}

func (h *harness) feed(t *testing.T, lines ...string) {
	t.Helper()
	for _, line := range lines {
		require.NoError(t, h.parser.Process(line), line)
	}
}

// started feeds the prologue and one steady-state line.
func (h *harness) started(t *testing.T) {
	t.Helper()
	h.feed(t, prologue...)
	h.feed(t, "TAG_CHANGE Entity=GameEntity tag=STEP value=BEGIN_MULLIGAN")
	require.Equal(t, PhaseSteadyState, h.parser.Phase())
}

// mainAction puts the match in MAIN_ACTION on the given turn with the given first player entity.
func (h *harness) mainAction(t *testing.T, turn string, firstPlayerEntity string) {
	t.Helper()
	h.feed(t,
		"TAG_CHANGE Entity=GameEntity tag=STEP value=MAIN_ACTION",
		"TAG_CHANGE Entity=GameEntity tag=TURN value="+turn,
		"TAG_CHANGE Entity="+firstPlayerEntity+" tag=FIRST_PLAYER value=1",
	)
}
