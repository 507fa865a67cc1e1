package tags

// STATE values.
const (
	StateInvalid  = 0
	StateLoading  = 1
	StateRunning  = 2
	StateComplete = 3
)

// STEP and NEXT_STEP values.
const (
	StepInvalid           = 0
	StepBeginFirst        = 1
	StepBeginShuffle      = 2
	StepBeginDraw         = 3
	StepBeginMulligan     = 4
	StepMainBegin         = 5
	StepMainReady         = 6
	StepMainResource      = 7
	StepMainDraw          = 8
	StepMainStart         = 9
	StepMainAction        = 10
	StepMainCombat        = 11
	StepMainEnd           = 12
	StepMainNext          = 13
	StepFinalWrapup       = 14
	StepFinalGameover     = 15
	StepMainCleanup       = 16
	StepMainStartTriggers = 17
)

// MULLIGAN_STATE values.
const (
	MulliganInvalid = 0
	MulliganInput   = 1
	MulliganDealing = 2
	MulliganWaiting = 3
	MulliganDone    = 4
)

// ZONE values.
const (
	ZoneInvalid         = 0
	ZonePlay            = 1
	ZoneDeck            = 2
	ZoneHand            = 3
	ZoneGraveyard       = 4
	ZoneRemovedFromGame = 5
	ZoneSetAside        = 6
	ZoneSecret          = 7
)

// CARDTYPE values.
const (
	CardTypeInvalid     = 0
	CardTypeGame        = 1
	CardTypePlayer      = 2
	CardTypeHero        = 3
	CardTypeMinion      = 4
	CardTypeSpell       = 5
	CardTypeEnchantment = 6
	CardTypeWeapon      = 7
	CardTypeItem        = 8
	CardTypeToken       = 9
	CardTypeHeroPower   = 10
)

// PLAYSTATE values.
const (
	PlayStateInvalid      = 0
	PlayStatePlaying      = 1
	PlayStateWinning      = 2
	PlayStateLosing       = 3
	PlayStateWon          = 4
	PlayStateLost         = 5
	PlayStateTied         = 6
	PlayStateDisconnected = 7
	PlayStateConceded     = 8
	PlayStateQuit         = 9
)

type valueTable struct {
	names  map[int]string
	byName map[string]int
}

func newValueTable(names map[int]string) valueTable {
	byName := make(map[string]int, len(names))
	for v, name := range names {
		byName[name] = v
	}
	return valueTable{names: names, byName: byName}
}

var stepTable = newValueTable(map[int]string{
	StepInvalid:           "INVALID",
	StepBeginFirst:        "BEGIN_FIRST",
	StepBeginShuffle:      "BEGIN_SHUFFLE",
	StepBeginDraw:         "BEGIN_DRAW",
	StepBeginMulligan:     "BEGIN_MULLIGAN",
	StepMainBegin:         "MAIN_BEGIN",
	StepMainReady:         "MAIN_READY",
	StepMainResource:      "MAIN_RESOURCE",
	StepMainDraw:          "MAIN_DRAW",
	StepMainStart:         "MAIN_START",
	StepMainAction:        "MAIN_ACTION",
	StepMainCombat:        "MAIN_COMBAT",
	StepMainEnd:           "MAIN_END",
	StepMainNext:          "MAIN_NEXT",
	StepFinalWrapup:       "FINAL_WRAPUP",
	StepFinalGameover:     "FINAL_GAMEOVER",
	StepMainCleanup:       "MAIN_CLEANUP",
	StepMainStartTriggers: "MAIN_START_TRIGGERS",
})

var valueTables = map[Tag]valueTable{
	State: newValueTable(map[int]string{
		StateInvalid:  "INVALID",
		StateLoading:  "LOADING",
		StateRunning:  "RUNNING",
		StateComplete: "COMPLETE",
	}),
	Step:     stepTable,
	NextStep: stepTable,
	MulliganState: newValueTable(map[int]string{
		MulliganInvalid: "INVALID",
		MulliganInput:   "INPUT",
		MulliganDealing: "DEALING",
		MulliganWaiting: "WAITING",
		MulliganDone:    "DONE",
	}),
	Zone: newValueTable(map[int]string{
		ZoneInvalid:         "INVALID",
		ZonePlay:            "PLAY",
		ZoneDeck:            "DECK",
		ZoneHand:            "HAND",
		ZoneGraveyard:       "GRAVEYARD",
		ZoneRemovedFromGame: "REMOVEDFROMGAME",
		ZoneSetAside:        "SETASIDE",
		ZoneSecret:          "SECRET",
	}),
	CardType: newValueTable(map[int]string{
		CardTypeInvalid:     "INVALID",
		CardTypeGame:        "GAME",
		CardTypePlayer:      "PLAYER",
		CardTypeHero:        "HERO",
		CardTypeMinion:      "MINION",
		CardTypeSpell:       "SPELL",
		CardTypeEnchantment: "ENCHANTMENT",
		CardTypeWeapon:      "WEAPON",
		CardTypeItem:        "ITEM",
		CardTypeToken:       "TOKEN",
		CardTypeHeroPower:   "HERO_POWER",
	}),
	PlayState: newValueTable(map[int]string{
		PlayStateInvalid:      "INVALID",
		PlayStatePlaying:      "PLAYING",
		PlayStateWinning:      "WINNING",
		PlayStateLosing:       "LOSING",
		PlayStateWon:          "WON",
		PlayStateLost:         "LOST",
		PlayStateTied:         "TIED",
		PlayStateDisconnected: "DISCONNECTED",
		PlayStateConceded:     "CONCEDED",
		PlayStateQuit:         "QUIT",
	}),
}
