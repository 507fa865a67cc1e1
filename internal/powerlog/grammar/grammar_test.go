package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyKinds(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Line
	}{
		{
			name: "create game",
			raw:  "CREATE_GAME",
			want: Line{Kind: CreateGame},
		},
		{
			name: "game entity",
			raw:  "    GameEntity EntityID=1",
			want: Line{Kind: GameEntityDecl, EntityID: 1, Indent: 4},
		},
		{
			name: "player entity",
			raw:  "    Player EntityID=2 PlayerID=1 GameAccountId=[hi=144115198130930503 lo=27033902]",
			want: Line{Kind: PlayerEntityDecl, EntityID: 2, PlayerNumber: 1,
				AccountRef: "[hi=144115198130930503 lo=27033902]", Indent: 4},
		},
		{
			name: "creation tag",
			raw:  "        tag=ZONE value=HAND",
			want: Line{Kind: CreationTag, Tag: "ZONE", Value: "HAND", Indent: 8},
		},
		{
			name: "full entity",
			raw:  "FULL_ENTITY - Creating ID=4 CardID=EX1_066",
			want: Line{Kind: FullEntity, EntityID: 4, CardID: "EX1_066"},
		},
		{
			name: "full entity hidden card",
			raw:  "FULL_ENTITY - Creating ID=40 CardID=",
			want: Line{Kind: FullEntity, EntityID: 40, CardID: ""},
		},
		{
			name: "tag change with bracket descriptor",
			raw:  "TAG_CHANGE Entity=[name=Fireball id=17 zone=HAND zonePos=3 cardId=CS2_029 player=1] tag=ZONE value=PLAY",
			want: Line{Kind: TagChange, Entity: "[name=Fireball id=17 zone=HAND zonePos=3 cardId=CS2_029 player=1]",
				Tag: "ZONE", Value: "PLAY"},
		},
		{
			name: "tag change with player name",
			raw:  "TAG_CHANGE Entity=Some Player#1234 tag=PLAYSTATE value=PLAYING",
			want: Line{Kind: TagChange, Entity: "Some Player#1234", Tag: "PLAYSTATE", Value: "PLAYING"},
		},
		{
			name: "show entity",
			raw:  "  SHOW_ENTITY - Updating Entity=[id=33 cardType=INVALID] CardID=CS2_029",
			want: Line{Kind: ShowEntity, Entity: "[id=33 cardType=INVALID]", CardID: "CS2_029", Indent: 2},
		},
		{
			name: "hide entity",
			raw:  "HIDE_ENTITY - Entity=[name=Fireball id=17 zone=HAND] tag=ZONE value=DECK",
			want: Line{Kind: HideEntity, Entity: "[name=Fireball id=17 zone=HAND]", Tag: "ZONE", Value: "DECK"},
		},
		{
			name: "action start",
			raw:  "ACTION_START BlockType=PLAY Entity=[name=Fireball id=17 zone=HAND] EffectCardId= EffectIndex=0 Target=[name=Hero id=64 zone=PLAY]",
			want: Line{Kind: ActionStart, BlockType: "PLAY", Entity: "[name=Fireball id=17 zone=HAND]",
				EffectCardID: "", EffectIndex: "0", Target: "[name=Hero id=64 zone=PLAY]"},
		},
		{
			name: "action start without target",
			raw:  "    ACTION_START BlockType=TRIGGER Entity=GameEntity EffectCardId=ABC EffectIndex=-1 Target=0",
			want: Line{Kind: ActionStart, BlockType: "TRIGGER", Entity: "GameEntity",
				EffectCardID: "ABC", EffectIndex: "-1", Target: "0", Indent: 4},
		},
		{
			name: "action end",
			raw:  "    ACTION_END",
			want: Line{Kind: ActionEnd, Indent: 4},
		},
		{
			name: "metadata header",
			raw:  "META_DATA - Meta=DAMAGE Data=3 Info=1",
			want: Line{Kind: MetadataHeader},
		},
		{
			name: "metadata info row",
			raw:  "    Info[0] = [name=Hero id=64 zone=PLAY]",
			want: Line{Kind: MetadataInfoRow, Indent: 4},
		},
		{
			name: "unrecognized",
			raw:  "BLOCK_WHATEVER foo",
			want: Line{Kind: Unrecognized},
		},
		{
			name: "keyword without fields",
			raw:  "FULL_ENTITY - Creating",
			want: Line{Kind: Unrecognized},
		},
		{
			name: "case sensitive",
			raw:  "create_game",
			want: Line{Kind: Unrecognized},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.raw)
			tt.want.Raw = tt.raw
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyStripsLoggerPrefix(t *testing.T) {
	raw := "D 21:03:10.1234567 GameState.DebugPrintPower() -     TAG_CHANGE Entity=GameEntity tag=STEP value=MAIN_ACTION"
	got := Classify(raw)

	assert.Equal(t, TagChange, got.Kind)
	assert.Equal(t, "GameEntity", got.Entity)
	assert.Equal(t, "STEP", got.Tag)
	assert.Equal(t, "MAIN_ACTION", got.Value)
	assert.Equal(t, 4, got.Indent)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "ACTION_START", ActionStart.String())
	assert.Equal(t, "UNRECOGNIZED", Kind(999).String())
}

func TestClassifyOnlyParsesGameStateSource(t *testing.T) {
	const body = "ACTION_START BlockType=PLAY Entity=[id=20 cardId=CARD_007 player=1] EffectCardId= EffectIndex=0 Target=0"

	got := Classify("D 21:03:10.1234567 GameState.DebugPrintPower() - " + body)
	assert.Equal(t, ActionStart, got.Kind)

	for _, source := range []string{"PowerTaskList.DebugPrintPower()", "GameState.DebugPrintOptions()"} {
		got := Classify("D 21:03:10.1234567 " + source + " - " + body)
		assert.Equal(t, OtherSource, got.Kind, source)
		assert.Empty(t, got.Entity, source)
	}
	assert.Equal(t, "OTHER_SOURCE", OtherSource.String())
}

func TestClassifyRejectsOverflowingIDs(t *testing.T) {
	for _, raw := range []string{
		"GameEntity EntityID=99999999999999999999999",
		"Player EntityID=99999999999999999999999 PlayerID=1 GameAccountId=[hi=1 lo=2]",
		"Player EntityID=2 PlayerID=99999999999999999999999 GameAccountId=[hi=1 lo=2]",
		"FULL_ENTITY - Creating ID=99999999999999999999999 CardID=CARD_007",
	} {
		got := Classify(raw)
		assert.Equal(t, Unrecognized, got.Kind, raw)
		assert.Zero(t, got.EntityID, raw)
	}
}
