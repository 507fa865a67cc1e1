// Package powerlog reconstructs match state from the game client's Power.log,
// one line per call.
//
// A Parser runs a creation phase (CREATE_GAME, the game entity and two
// player entities, each followed by creation tags) and then a steady-state
// block machine that tracks nested ACTION_START/ACTION_END frames. Tag writes
// against entities that are only known by name are parked in a linker until
// an ENTITY_ID tag ties them to a real entity.
//
// Parser is not safe for concurrent use; a single goroutine must drive it.
package powerlog

import (
	"fmt"

	"github.com/decksage/powerlog/internal/game/state"
	"github.com/decksage/powerlog/internal/game/tags"
	"github.com/decksage/powerlog/internal/powerlog/grammar"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the entity/tag store mutated by the parser.
type Store interface {
	CreateGameEntity(id int)
	CreatePlayerEntity(id, playerNumber int, accountRef string)
	EntityExists(id int) bool
	CreateEntity(id int, cardID string)
	SetCardID(id int, cardID string)
	SetName(id int, name string)
	WriteTag(id int, name, raw string) error
	Entity(id int) (state.Entity, bool)
	GameEntity() (state.Entity, bool)
	LocalPlayerEntity() (state.Entity, bool)
	OpponentEntity() (state.Entity, bool)
	RecordPlayed(side state.Side, cardID string)
	AddJoustParticipant(id int)
	ResetMatch()
}

// Resolver maps an entity descriptor to an id.
type Resolver interface {
	Resolve(descriptor string) (int, bool)
}

// Phase is the parser's position in the match protocol.
type Phase int

const (
	PhaseAwaitingCreateGame Phase = iota
	PhaseAwaitingGameEntity
	PhaseReadingGameEntityTags
	PhaseReadingPlayer1
	PhaseReadingPlayer1Tags
	PhaseReadingPlayer2
	PhaseReadingPlayer2Tags
	PhaseSteadyState
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingCreateGame:
		return "AWAITING_CREATE_GAME"
	case PhaseAwaitingGameEntity:
		return "AWAITING_GAME_ENTITY"
	case PhaseReadingGameEntityTags:
		return "READING_GAME_ENTITY_TAGS"
	case PhaseReadingPlayer1:
		return "READING_PLAYER1"
	case PhaseReadingPlayer1Tags:
		return "READING_PLAYER1_TAGS"
	case PhaseReadingPlayer2:
		return "READING_PLAYER2"
	case PhaseReadingPlayer2Tags:
		return "READING_PLAYER2_TAGS"
	case PhaseSteadyState:
		return "STEADY_STATE"
	default:
		return "UNKNOWN"
	}
}

// Parser applies Power.log lines to a Store.
type Parser struct {
	logger   *zap.Logger
	store    Store
	resolver Resolver
	reporter Reporter
	bus      *EventBus

	phase Phase
	// established is set once a match instance reached steady state.
	established bool
	frames      frameStack
	linker      *linker
	// tagTarget receives trailing creation tags after FULL_ENTITY/SHOW_ENTITY.
	tagTarget int

	matchID   string
	completed bool

	lineNo  int
	current string
}

// NewParser creates a parser. A nil reporter discards diagnostics and a nil
// bus gets a private one (see Bus).
func NewParser(store Store, resolver Resolver, reporter Reporter, bus *EventBus, logger *zap.Logger) *Parser {
	if reporter == nil {
		reporter = NopReporter{}
	}
	if bus == nil {
		bus = NewEventBus()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Parser{
		logger:    logger,
		store:     store,
		resolver:  resolver,
		reporter:  reporter,
		bus:       bus,
		phase:     PhaseAwaitingCreateGame,
		frames:    newFrameStack(),
		tagTarget: state.NoEntity,
	}
	p.linker = newLinker(store, p.report, p.applyTag)
	return p
}

// Process applies one log line. It returns an error only for a fatal
// inconsistency during turn attribution; everything applied before the error
// stays applied and the parser remains usable.
func (p *Parser) Process(raw string) error {
	p.lineNo++
	p.current = raw
	line := grammar.Classify(raw)

	switch line.Kind {
	case grammar.OtherSource:
		return nil
	case grammar.CreateGame:
		p.beginCreation()
		return nil
	}

	if p.phase != PhaseSteadyState {
		if p.handleCreation(line) {
			return nil
		}
		if p.phase != PhaseSteadyState {
			if !p.established {
				p.phase = PhaseAwaitingCreateGame
				p.report(GrammarMismatch, "line dropped outside a match")
				return nil
			}
			// a reconnect CREATE_GAME without a full prologue: resume the match
			p.phase = PhaseSteadyState
		}
	}

	return p.handleSteady(line)
}

// Phase returns the current protocol phase.
func (p *Parser) Phase() Phase {
	return p.phase
}

// Depth returns the number of open action blocks.
func (p *Parser) Depth() int {
	return p.frames.Depth()
}

// Frames returns a copy of the open action blocks, innermost last.
func (p *Parser) Frames() []Frame {
	return p.frames.List()
}

// PendingCount returns the number of entities awaiting an ENTITY_ID.
func (p *Parser) PendingCount() int {
	return p.linker.count()
}

// MatchID identifies the current match instance; empty before the first CREATE_GAME.
func (p *Parser) MatchID() string {
	return p.matchID
}

// Bus returns the event bus the parser publishes to.
func (p *Parser) Bus() *EventBus {
	return p.bus
}

// LinesProcessed returns the number of lines seen.
func (p *Parser) LinesProcessed() int {
	return p.lineNo
}

func (p *Parser) beginCreation() {
	if ge, ok := p.store.GameEntity(); ok && ge.TagOr(tags.State, tags.StateRunning) == tags.StateComplete {
		p.resetMatch()
	}

	if p.matchID == "" {
		p.matchID = uuid.NewString()
		p.completed = false
		p.logger.Info("match started", zap.String("match_id", p.matchID))
		p.publish(Event{Type: EventMatchStarted, EntityID: state.NoEntity, TargetID: state.NoEntity})
	} else {
		p.logger.Debug("create game within running match",
			zap.String("match_id", p.matchID),
			zap.Int("line_no", p.lineNo),
		)
	}

	p.phase = PhaseAwaitingGameEntity
	p.tagTarget = state.NoEntity
}

func (p *Parser) resetMatch() {
	p.logger.Info("resetting completed match", zap.String("match_id", p.matchID))
	p.publish(Event{Type: EventMatchReset, EntityID: state.NoEntity, TargetID: state.NoEntity})

	p.store.ResetMatch()
	p.linker.reset()
	p.frames.Clear()
	p.established = false
	p.completed = false
	p.matchID = ""
}

// applyTag writes a tag and watches for the game reaching completion.
func (p *Parser) applyTag(id int, tag, value string) {
	if err := p.store.WriteTag(id, tag, value); err != nil {
		p.report(InvalidTag, fmt.Sprintf("tag write skipped: %v", err))
		return
	}
	if p.completed {
		return
	}
	ge, ok := p.store.GameEntity()
	if !ok || ge.ID != id {
		return
	}
	if ge.TagOr(tags.State, tags.StateInvalid) == tags.StateComplete {
		p.completed = true
		p.logger.Info("game complete", zap.String("match_id", p.matchID))
		p.publish(Event{Type: EventGameComplete, EntityID: id, TargetID: state.NoEntity})
	}
}

func (p *Parser) publish(e Event) {
	e.MatchID = p.matchID
	p.bus.Publish(e)
}

func (p *Parser) report(kind DiagnosticKind, msg string) {
	p.reporter.Report(Diagnostic{Kind: kind, Message: msg, Line: p.current, LineNo: p.lineNo})
}
