package state

import (
	"errors"
	"testing"

	"github.com/decksage/powerlog/internal/game/tags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestGame(t *testing.T, local int) *Game {
	t.Helper()
	return NewGame(zaptest.NewLogger(t), local)
}

func TestCreateEntityIsIdempotent(t *testing.T) {
	g := newTestGame(t, 0)

	g.CreateEntity(10, "CARD_A")
	require.NoError(t, g.WriteTag(10, "ZONE", "PLAY"))

	g.CreateEntity(10, "CARD_B")

	e, ok := g.Entity(10)
	require.True(t, ok)
	assert.Equal(t, "CARD_A", e.CardID)
	assert.Equal(t, tags.ZonePlay, e.TagOr(tags.Zone, -1))
	assert.Equal(t, 1, g.EntityCount())
}

func TestWriteTagCreatesMissingEntity(t *testing.T) {
	g := newTestGame(t, 0)

	require.NoError(t, g.WriteTag(77, "DAMAGE", "3"))
	assert.True(t, g.EntityExists(77))

	err := g.WriteTag(77, "NOPE", "1")
	assert.True(t, errors.Is(err, tags.ErrUnknownTag))
}

func TestEntityReturnsCopy(t *testing.T) {
	g := newTestGame(t, 0)
	require.NoError(t, g.WriteTag(5, "HEALTH", "30"))

	e, _ := g.Entity(5)
	e.tags[tags.Health] = 1

	again, _ := g.Entity(5)
	assert.Equal(t, 30, again.TagOr(tags.Health, 0))
}

func TestRolesWithConfiguredLocalPlayer(t *testing.T) {
	g := newTestGame(t, 2)
	g.CreateGameEntity(1)
	g.CreatePlayerEntity(2, 1, "[hi=1 lo=11]")
	g.CreatePlayerEntity(3, 2, "[hi=1 lo=22]")

	local, ok := g.LocalPlayerEntity()
	require.True(t, ok)
	assert.Equal(t, 3, local.ID)

	opp, ok := g.OpponentEntity()
	require.True(t, ok)
	assert.Equal(t, 2, opp.ID)

	ge, ok := g.GameEntity()
	require.True(t, ok)
	assert.Equal(t, 1, ge.ID)
}

func TestLocalPlayerDetection(t *testing.T) {
	g := newTestGame(t, 0)
	g.CreateGameEntity(1)
	g.CreatePlayerEntity(2, 1, "a")
	g.CreatePlayerEntity(3, 2, "b")

	_, ok := g.LocalPlayerEntity()
	assert.False(t, ok)

	// hidden card: no card id, must not trigger detection
	g.CreateEntity(4, "")
	require.NoError(t, g.WriteTag(4, "ZONE", "HAND"))
	require.NoError(t, g.WriteTag(4, "CONTROLLER", "1"))
	assert.Equal(t, 0, g.LocalPlayerNumber())

	g.CreateEntity(40, "EX1_001")
	require.NoError(t, g.WriteTag(40, "CONTROLLER", "2"))
	require.NoError(t, g.WriteTag(40, "ZONE", "HAND"))
	assert.Equal(t, 2, g.LocalPlayerNumber())

	local, ok := g.LocalPlayerEntity()
	require.True(t, ok)
	assert.Equal(t, 3, local.ID)
}

func TestResetMatchClearsEverything(t *testing.T) {
	g := newTestGame(t, 1)
	g.CreateGameEntity(1)
	g.CreatePlayerEntity(2, 1, "a")
	g.CreatePlayerEntity(3, 2, "b")
	g.SetName(2, "Alice")
	g.RecordPlayed(SideLocal, "CARD_1")
	g.RecordPlayed(SideOpponent, "CARD_2")
	g.AddJoustParticipant(9)

	g.ResetMatch()

	assert.Equal(t, 0, g.EntityCount())
	assert.Equal(t, NoEntity, g.GameEntityID())
	assert.Empty(t, g.Players())
	_, ok := g.EntityByName("Alice")
	assert.False(t, ok)
	facts := g.Facts()
	assert.Empty(t, facts.LocalPlayed)
	assert.Empty(t, facts.OpponentPlayed)
	assert.Empty(t, facts.JoustParticipants)
	assert.Equal(t, 1, g.LocalPlayerNumber(), "configured local player survives reset")
}

func TestRecordPlayedIgnoresNone(t *testing.T) {
	g := newTestGame(t, 0)
	g.RecordPlayed(SideNone, "X")
	facts := g.Facts()
	assert.Empty(t, facts.LocalPlayed)
	assert.Empty(t, facts.OpponentPlayed)
}

func TestChecksumIsDeterministic(t *testing.T) {
	build := func(order []int) *Game {
		g := newTestGame(t, 1)
		g.CreateGameEntity(1)
		g.CreatePlayerEntity(2, 1, "a")
		g.CreatePlayerEntity(3, 2, "b")
		for _, id := range order {
			g.CreateEntity(id, "C")
			g.SetTag(id, tags.Zone, tags.ZoneHand)
			g.SetTag(id, tags.Cost, id)
		}
		g.RecordPlayed(SideLocal, "C")
		return g
	}

	a, err := build([]int{4, 5, 6}).Checksum()
	require.NoError(t, err)
	b, err := build([]int{6, 4, 5}).Checksum()
	require.NoError(t, err)
	assert.Equal(t, a, b)

	g := build([]int{4, 5, 6})
	g.SetTag(4, tags.Cost, 99)
	c, err := g.Checksum()
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
