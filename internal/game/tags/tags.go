package tags

import (
	"errors"
	"fmt"
	"strconv"
)

// Tag identifies an entity attribute by the numeric id the game client uses.
type Tag int

const (
	Timeout               Tag = 7
	Premium               Tag = 12
	PlayState             Tag = 17
	Step                  Tag = 19
	Turn                  Tag = 20
	Fatigue               Tag = 22
	CurrentPlayer         Tag = 23
	FirstPlayer           Tag = 24
	ResourcesUsed         Tag = 25
	Resources             Tag = 26
	HeroEntity            Tag = 27
	MaxHandSize           Tag = 28
	StartHandSize         Tag = 29
	PlayerID              Tag = 30
	TeamID                Tag = 31
	Exhausted             Tag = 43
	Damage                Tag = 44
	Health                Tag = 45
	Atk                   Tag = 47
	Cost                  Tag = 48
	Zone                  Tag = 49
	Controller            Tag = 50
	Owner                 Tag = 51
	EntityID              Tag = 53
	Elite                 Tag = 114
	CardSet               Tag = 183
	Silenced              Tag = 188
	Windfury              Tag = 189
	Taunt                 Tag = 190
	Stealth               Tag = 191
	SpellPower            Tag = 192
	DivineShield          Tag = 194
	Charge                Tag = 197
	NextStep              Tag = 198
	CardType              Tag = 202
	State                 Tag = 204
	Frozen                Tag = 260
	JustPlayed            Tag = 261
	LinkedCard            Tag = 262
	ZonePosition          Tag = 263
	NumTurnsInPlay        Tag = 271
	Armor                 Tag = 292
	TempResources         Tag = 295
	OverloadOwed          Tag = 296
	NumAttacksThisTurn    Tag = 297
	MulliganState         Tag = 305
	Creator               Tag = 313
	OverloadLocked        Tag = 393
	NumCardsDrawnThisTurn Tag = 399
)

var (
	// ErrUnknownTag is returned for a symbolic tag name outside the vocabulary.
	ErrUnknownTag = errors.New("unknown tag")
	// ErrUnknownValue is returned for a symbolic value the tag does not define.
	ErrUnknownValue = errors.New("unknown tag value")
)

var tagNames = map[Tag]string{
	Timeout:               "TIMEOUT",
	Premium:               "PREMIUM",
	PlayState:             "PLAYSTATE",
	Step:                  "STEP",
	Turn:                  "TURN",
	Fatigue:               "FATIGUE",
	CurrentPlayer:         "CURRENT_PLAYER",
	FirstPlayer:           "FIRST_PLAYER",
	ResourcesUsed:         "RESOURCES_USED",
	Resources:             "RESOURCES",
	HeroEntity:            "HERO_ENTITY",
	MaxHandSize:           "MAXHANDSIZE",
	StartHandSize:         "STARTHANDSIZE",
	PlayerID:              "PLAYER_ID",
	TeamID:                "TEAM_ID",
	Exhausted:             "EXHAUSTED",
	Damage:                "DAMAGE",
	Health:                "HEALTH",
	Atk:                   "ATK",
	Cost:                  "COST",
	Zone:                  "ZONE",
	Controller:            "CONTROLLER",
	Owner:                 "OWNER",
	EntityID:              "ENTITY_ID",
	Elite:                 "ELITE",
	CardSet:               "CARD_SET",
	Silenced:              "SILENCED",
	Windfury:              "WINDFURY",
	Taunt:                 "TAUNT",
	Stealth:               "STEALTH",
	SpellPower:            "SPELLPOWER",
	DivineShield:          "DIVINE_SHIELD",
	Charge:                "CHARGE",
	NextStep:              "NEXT_STEP",
	CardType:              "CARDTYPE",
	State:                 "STATE",
	Frozen:                "FROZEN",
	JustPlayed:            "JUST_PLAYED",
	LinkedCard:            "LINKED_ENTITY",
	ZonePosition:          "ZONE_POSITION",
	NumTurnsInPlay:        "NUM_TURNS_IN_PLAY",
	Armor:                 "ARMOR",
	TempResources:         "TEMP_RESOURCES",
	OverloadOwed:          "OVERLOAD_OWED",
	NumAttacksThisTurn:    "NUM_ATTACKS_THIS_TURN",
	MulliganState:         "MULLIGAN_STATE",
	Creator:               "CREATOR",
	OverloadLocked:        "OVERLOAD_LOCKED",
	NumCardsDrawnThisTurn: "NUM_CARDS_DRAWN_THIS_TURN",
}

var tagsByName = func() map[string]Tag {
	m := make(map[string]Tag, len(tagNames))
	for tag, name := range tagNames {
		m[name] = tag
	}
	return m
}()

// String returns the symbolic name, or the numeric id for tags outside the vocabulary.
func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return strconv.Itoa(int(t))
}

// Lookup resolves a tag name. Numeric names are accepted as raw tag ids.
func Lookup(name string) (Tag, error) {
	if tag, ok := tagsByName[name]; ok {
		return tag, nil
	}
	if n, err := strconv.Atoi(name); err == nil {
		return Tag(n), nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownTag, name)
}

// Parse converts a tag name and raw value token into their numeric forms.
// Values may be integers or symbolic names from the tag's value table.
func Parse(name, raw string) (Tag, int, error) {
	tag, err := Lookup(name)
	if err != nil {
		return 0, 0, err
	}
	value, err := ParseValue(tag, raw)
	if err != nil {
		return 0, 0, err
	}
	return tag, value, nil
}

// ParseValue converts a raw value token for the given tag.
func ParseValue(tag Tag, raw string) (int, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	if table, ok := valueTables[tag]; ok {
		if v, ok := table.byName[raw]; ok {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %s=%s", ErrUnknownValue, tag, raw)
}

// FormatValue renders a value symbolically when the tag has a value table.
func FormatValue(tag Tag, value int) string {
	if table, ok := valueTables[tag]; ok {
		if name, ok := table.names[value]; ok {
			return name
		}
	}
	return strconv.Itoa(value)
}
