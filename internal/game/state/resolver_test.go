package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolverForms(t *testing.T) {
	g := newTestGame(t, 0)
	g.CreateGameEntity(1)
	g.CreatePlayerEntity(2, 1, "a")
	g.SetName(2, "Player#1234")
	r := NewResolver(g)

	tests := []struct {
		descriptor string
		wantID     int
		wantOK     bool
	}{
		{"GameEntity", 1, true},
		{"42", 42, true},
		{" 42 ", 42, true},
		{"0", NoEntity, false},
		{"", NoEntity, false},
		{"[entityName=Fireball id=17 zone=HAND zonePos=3 cardId=CS2_029 player=1]", 17, true},
		{"[name=Fireball id=18 zone=PLAY zonePos=0 cardId=CS2_029 player=2]", 18, true},
		{"UNKNOWN ENTITY [cardType=INVALID]", NoEntity, false},
		{"UNKNOWN ENTITY [id=33 cardType=INVALID]", 33, true},
		{"Player#1234", 2, true},
		{"Stranger#9999", NoEntity, false},
	}

	for _, tt := range tests {
		id, ok := r.Resolve(tt.descriptor)
		assert.Equal(t, tt.wantOK, ok, tt.descriptor)
		assert.Equal(t, tt.wantID, id, tt.descriptor)
	}
}

func TestResolverGameEntityBeforeDeclaration(t *testing.T) {
	r := NewResolver(newTestGame(t, 0))
	id, ok := r.Resolve("GameEntity")
	assert.False(t, ok)
	assert.Equal(t, NoEntity, id)
}
