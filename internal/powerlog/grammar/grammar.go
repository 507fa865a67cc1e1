// Package grammar classifies single Power.log lines into event kinds.
//
// Classification is structural: a leading keyword plus its required fields.
// Tag names, values and entity descriptors are returned as opaque tokens.
package grammar

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind is the event kind of a classified line.
type Kind int

const (
	Unrecognized Kind = iota
	CreateGame
	GameEntityDecl
	PlayerEntityDecl
	CreationTag
	FullEntity
	TagChange
	ShowEntity
	HideEntity
	ActionStart
	ActionEnd
	MetadataHeader
	MetadataInfoRow
	// OtherSource is a line printed by a logger method other than PowerSource.
	OtherSource
)

func (k Kind) String() string {
	switch k {
	case CreateGame:
		return "CREATE_GAME"
	case GameEntityDecl:
		return "GAME_ENTITY"
	case PlayerEntityDecl:
		return "PLAYER_ENTITY"
	case CreationTag:
		return "CREATION_TAG"
	case FullEntity:
		return "FULL_ENTITY"
	case TagChange:
		return "TAG_CHANGE"
	case ShowEntity:
		return "SHOW_ENTITY"
	case HideEntity:
		return "HIDE_ENTITY"
	case ActionStart:
		return "ACTION_START"
	case ActionEnd:
		return "ACTION_END"
	case MetadataHeader:
		return "META_DATA"
	case MetadataInfoRow:
		return "META_DATA_INFO"
	case OtherSource:
		return "OTHER_SOURCE"
	default:
		return "UNRECOGNIZED"
	}
}

// Line is a classified log line. Only the fields of its Kind are populated.
type Line struct {
	Kind Kind
	// Raw is the line as received.
	Raw string
	// Indent is the leading whitespace width after any logger prefix.
	Indent int

	EntityID     int
	PlayerNumber int
	AccountRef   string

	Entity string
	Target string
	Tag    string
	Value  string
	CardID string

	BlockType    string
	EffectCardID string
	EffectIndex  string
}

// PowerSource is the logger method whose lines are parsed. The client also
// prints every power line from PowerTaskList.DebugPrintPower(); those copies
// and every other method's output classify as OtherSource.
const PowerSource = "GameState.DebugPrintPower()"

var (
	// "D 21:03:10.1234567 GameState.DebugPrintPower() - "
	loggerPrefixRe = regexp.MustCompile(`^[A-Z] \d{1,2}:\d{2}:\d{2}\.\d+ (\S+) - `)

	gameEntityRe   = regexp.MustCompile(`^GameEntity EntityID=(\d+)`)
	playerEntityRe = regexp.MustCompile(`^Player EntityID=(\d+) PlayerID=(\d+) GameAccountId=(.+)`)
	creationTagRe  = regexp.MustCompile(`^tag=(\w+) value=(\S+)`)
	fullEntityRe   = regexp.MustCompile(`^FULL_ENTITY - Creating\s+ID=(\d+)\s+CardID=(\S*)`)
	tagChangeRe    = regexp.MustCompile(`^TAG_CHANGE Entity=(.+) tag=(\w+) value=(\S+)`)
	showEntityRe   = regexp.MustCompile(`^SHOW_ENTITY - Updating Entity=(.+) CardID=(\S*)`)
	hideEntityRe   = regexp.MustCompile(`^HIDE_ENTITY - Entity=(.+) tag=(\w+) value=(\S+)`)
	actionStartRe  = regexp.MustCompile(`^ACTION_START\s+BlockType=(\S*)\s+Entity=(.*?)\s+EffectCardId=(.*?)\s+EffectIndex=(\S*)\s+Target=(.*)$`)
	infoRowRe      = regexp.MustCompile(`^Info\[\d+\]`)
)

// Classify returns the event kind and fields of one log line.
func Classify(raw string) Line {
	body := strings.TrimRight(raw, "\r\n")
	if loc := loggerPrefixRe.FindStringSubmatchIndex(body); loc != nil {
		if body[loc[2]:loc[3]] != PowerSource {
			return Line{Kind: OtherSource, Raw: raw}
		}
		body = body[loc[1]:]
	}
	trimmed := strings.TrimLeft(body, " \t")

	line := Line{Raw: raw, Indent: len(body) - len(trimmed)}

	switch {
	case strings.HasPrefix(trimmed, "CREATE_GAME"):
		line.Kind = CreateGame

	case strings.HasPrefix(trimmed, "GameEntity "):
		if m := gameEntityRe.FindStringSubmatch(trimmed); m != nil {
			if id, ok := atoi(m[1]); ok {
				line.Kind = GameEntityDecl
				line.EntityID = id
			}
		}

	case strings.HasPrefix(trimmed, "Player "):
		if m := playerEntityRe.FindStringSubmatch(trimmed); m != nil {
			id, idOK := atoi(m[1])
			number, numberOK := atoi(m[2])
			if idOK && numberOK {
				line.Kind = PlayerEntityDecl
				line.EntityID = id
				line.PlayerNumber = number
				line.AccountRef = strings.TrimSpace(m[3])
			}
		}

	case strings.HasPrefix(trimmed, "tag="):
		if m := creationTagRe.FindStringSubmatch(trimmed); m != nil {
			line.Kind = CreationTag
			line.Tag = m[1]
			line.Value = m[2]
		}

	case strings.HasPrefix(trimmed, "FULL_ENTITY"):
		if m := fullEntityRe.FindStringSubmatch(trimmed); m != nil {
			if id, ok := atoi(m[1]); ok {
				line.Kind = FullEntity
				line.EntityID = id
				line.CardID = m[2]
			}
		}

	case strings.HasPrefix(trimmed, "TAG_CHANGE"):
		if m := tagChangeRe.FindStringSubmatch(trimmed); m != nil {
			line.Kind = TagChange
			line.Entity = strings.TrimSpace(m[1])
			line.Tag = m[2]
			line.Value = m[3]
		}

	case strings.HasPrefix(trimmed, "SHOW_ENTITY"):
		if m := showEntityRe.FindStringSubmatch(trimmed); m != nil {
			line.Kind = ShowEntity
			line.Entity = strings.TrimSpace(m[1])
			line.CardID = m[2]
		}

	case strings.HasPrefix(trimmed, "HIDE_ENTITY"):
		if m := hideEntityRe.FindStringSubmatch(trimmed); m != nil {
			line.Kind = HideEntity
			line.Entity = strings.TrimSpace(m[1])
			line.Tag = m[2]
			line.Value = m[3]
		}

	case strings.HasPrefix(trimmed, "ACTION_START"):
		if m := actionStartRe.FindStringSubmatch(trimmed); m != nil {
			line.Kind = ActionStart
			line.BlockType = strings.TrimSpace(m[1])
			line.Entity = strings.TrimSpace(m[2])
			line.EffectCardID = strings.TrimSpace(m[3])
			line.EffectIndex = strings.TrimSpace(m[4])
			line.Target = strings.TrimSpace(m[5])
		}

	case strings.HasPrefix(trimmed, "ACTION_END"):
		line.Kind = ActionEnd

	case strings.HasPrefix(trimmed, "META_DATA - "):
		line.Kind = MetadataHeader

	case strings.HasPrefix(trimmed, "Info["):
		if infoRowRe.MatchString(trimmed) {
			line.Kind = MetadataInfoRow
		}
	}

	return line
}

// atoi is only applied to \d+ captures, so it fails only on overflow.
func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
