package state

import (
	"fmt"
	"sort"

	"github.com/decksage/powerlog/internal/game/tags"
	"go.uber.org/zap"
)

// NoEntity marks an unknown or unresolved entity id.
const NoEntity = -1

// Side identifies which seat performed an action.
type Side int

const (
	SideNone Side = iota
	SideLocal
	SideOpponent
)

func (s Side) String() string {
	switch s {
	case SideLocal:
		return "LOCAL"
	case SideOpponent:
		return "OPPONENT"
	default:
		return "NONE"
	}
}

// Player describes a player entity declared during the creation phase.
type Player struct {
	EntityID     int
	PlayerNumber int
	AccountRef   string
}

// Facts are the higher-level facts derived while parsing a match.
type Facts struct {
	GameEntityID      int
	LocalEntityID     int
	OpponentEntityID  int
	LocalPlayed       []string
	OpponentPlayed    []string
	JoustParticipants []int
}

// Game is the entity/tag store for one match instance. Entities live in an
// arena keyed by id; callers hold ids and read copies.
//
// Game is not safe for concurrent use. The parser owns all mutation; readers
// must run on the parsing goroutine or between parse calls.
type Game struct {
	logger *zap.Logger

	entities     map[int]*Entity
	names        map[string]int
	gameEntityID int
	players      []Player

	// configuredLocal is the local PlayerID from configuration (0 = detect).
	configuredLocal int
	detectedLocal   int

	localPlayed    []string
	opponentPlayed []string
	joust          map[int]struct{}
}

// NewGame creates an empty store. localPlayerNumber pins the local PlayerID;
// pass 0 to detect it from the first revealed card the local player holds.
func NewGame(logger *zap.Logger, localPlayerNumber int) *Game {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Game{
		logger:          logger,
		configuredLocal: localPlayerNumber,
	}
	g.reset()
	return g
}

func (g *Game) reset() {
	g.entities = make(map[int]*Entity)
	g.names = make(map[string]int)
	g.gameEntityID = NoEntity
	g.players = nil
	g.detectedLocal = 0
	g.localPlayed = nil
	g.opponentPlayed = nil
	g.joust = make(map[int]struct{})
}

// ResetMatch drops every entity, player and derived fact.
func (g *Game) ResetMatch() {
	g.reset()
	g.logger.Debug("match state reset")
}

// CreateGameEntity registers the game entity, creating it if absent.
func (g *Game) CreateGameEntity(id int) {
	g.ensure(id)
	g.gameEntityID = id
}

// CreatePlayerEntity registers a player entity, creating it if absent.
func (g *Game) CreatePlayerEntity(id, playerNumber int, accountRef string) {
	g.ensure(id)
	for i, p := range g.players {
		if p.EntityID == id {
			g.players[i].PlayerNumber = playerNumber
			g.players[i].AccountRef = accountRef
			return
		}
	}
	g.players = append(g.players, Player{EntityID: id, PlayerNumber: playerNumber, AccountRef: accountRef})
}

// EntityExists reports whether id is in the store.
func (g *Game) EntityExists(id int) bool {
	_, ok := g.entities[id]
	return ok
}

// CreateEntity adds an entity if absent. Existing entities keep their card id and tags.
func (g *Game) CreateEntity(id int, cardID string) {
	if _, ok := g.entities[id]; ok {
		return
	}
	g.entities[id] = newEntity(id, cardID)
}

// SetCardID sets the card id of an entity, creating it if absent.
func (g *Game) SetCardID(id int, cardID string) {
	e := g.ensure(id)
	e.CardID = cardID
	g.detectLocalPlayer(e)
}

// SetName assigns a display name, making the entity resolvable by that name.
func (g *Game) SetName(id int, name string) {
	e := g.ensure(id)
	if e.Name != "" {
		delete(g.names, e.Name)
	}
	e.Name = name
	if name != "" {
		g.names[name] = id
	}
}

// EntityByName returns the id of the entity carrying the display name.
func (g *Game) EntityByName(name string) (int, bool) {
	id, ok := g.names[name]
	return id, ok
}

// WriteTag parses a raw tag write and applies it. Writes to ids that were
// never created are allowed and create a bare entity.
func (g *Game) WriteTag(id int, name, raw string) error {
	tag, value, err := tags.Parse(name, raw)
	if err != nil {
		return fmt.Errorf("entity %d: %w", id, err)
	}
	g.SetTag(id, tag, value)
	return nil
}

// SetTag applies a parsed tag write.
func (g *Game) SetTag(id int, tag tags.Tag, value int) {
	e := g.ensure(id)
	e.tags[tag] = value
	if tag == tags.Zone || tag == tags.Controller {
		g.detectLocalPlayer(e)
	}
}

// Entity returns a copy of the entity with the given id.
func (g *Game) Entity(id int) (Entity, bool) {
	e, ok := g.entities[id]
	if !ok {
		return Entity{}, false
	}
	return e.clone(), true
}

// EntityCount returns the number of entities in the store.
func (g *Game) EntityCount() int {
	return len(g.entities)
}

// GameEntity returns the game entity once declared.
func (g *Game) GameEntity() (Entity, bool) {
	if g.gameEntityID == NoEntity {
		return Entity{}, false
	}
	return g.Entity(g.gameEntityID)
}

// GameEntityID returns the game entity id or NoEntity.
func (g *Game) GameEntityID() int {
	return g.gameEntityID
}

// Players returns the declared players in declaration order.
func (g *Game) Players() []Player {
	cpy := make([]Player, len(g.players))
	copy(cpy, g.players)
	return cpy
}

// LocalPlayerNumber returns the local PlayerID, or 0 while unknown.
func (g *Game) LocalPlayerNumber() int {
	if g.configuredLocal != 0 {
		return g.configuredLocal
	}
	return g.detectedLocal
}

// LocalPlayerEntity returns the local player's entity once it is known.
func (g *Game) LocalPlayerEntity() (Entity, bool) {
	id := g.localEntityID()
	if id == NoEntity {
		return Entity{}, false
	}
	return g.Entity(id)
}

// OpponentEntity returns the opponent's entity once the local player is known.
func (g *Game) OpponentEntity() (Entity, bool) {
	id := g.opponentEntityID()
	if id == NoEntity {
		return Entity{}, false
	}
	return g.Entity(id)
}

func (g *Game) localEntityID() int {
	number := g.LocalPlayerNumber()
	if number == 0 {
		return NoEntity
	}
	for _, p := range g.players {
		if p.PlayerNumber == number {
			return p.EntityID
		}
	}
	return NoEntity
}

func (g *Game) opponentEntityID() int {
	local := g.localEntityID()
	if local == NoEntity {
		return NoEntity
	}
	for _, p := range g.players {
		if p.EntityID != local {
			return p.EntityID
		}
	}
	return NoEntity
}

// RecordPlayed appends a played card id to the given side's list.
func (g *Game) RecordPlayed(side Side, cardID string) {
	switch side {
	case SideLocal:
		g.localPlayed = append(g.localPlayed, cardID)
	case SideOpponent:
		g.opponentPlayed = append(g.opponentPlayed, cardID)
	}
}

// AddJoustParticipant records an entity revealed inside a JOUST block.
func (g *Game) AddJoustParticipant(id int) {
	g.joust[id] = struct{}{}
}

// Facts returns a copy of the derived match facts.
func (g *Game) Facts() Facts {
	f := Facts{
		GameEntityID:     g.gameEntityID,
		LocalEntityID:    g.localEntityID(),
		OpponentEntityID: g.opponentEntityID(),
		LocalPlayed:      append([]string(nil), g.localPlayed...),
		OpponentPlayed:   append([]string(nil), g.opponentPlayed...),
	}
	for id := range g.joust {
		f.JoustParticipants = append(f.JoustParticipants, id)
	}
	sort.Ints(f.JoustParticipants)
	return f
}

func (g *Game) ensure(id int) *Entity {
	e, ok := g.entities[id]
	if !ok {
		e = newEntity(id, "")
		g.entities[id] = e
	}
	return e
}

// detectLocalPlayer picks the local seat from the first card whose identity is
// visible while it sits in a hidden zone; only the local client sees those.
func (g *Game) detectLocalPlayer(e *Entity) {
	if g.configuredLocal != 0 || g.detectedLocal != 0 || e.CardID == "" {
		return
	}
	zone, ok := e.tags[tags.Zone]
	if !ok || (zone != tags.ZoneHand && zone != tags.ZoneDeck) {
		return
	}
	controller, ok := e.tags[tags.Controller]
	if !ok || controller <= 0 {
		return
	}
	g.detectedLocal = controller
	g.logger.Info("detected local player",
		zap.Int("player_id", controller),
		zap.Int("entity_id", e.ID),
		zap.String("card_id", e.CardID),
	)
}
