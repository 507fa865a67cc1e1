package powerlog

import (
	"errors"
	"fmt"

	"github.com/decksage/powerlog/internal/game/state"
	"github.com/decksage/powerlog/internal/game/tags"
	"go.uber.org/zap"
)

// ErrNoFirstPlayer is returned when neither player carries FIRST_PLAYER=1
// while a play is being attributed.
var ErrNoFirstPlayer = errors.New("neither player carries FIRST_PLAYER")

// AttributionError is the fatal failure of turn attribution.
type AttributionError struct {
	MatchID  string
	EntityID int
	LineNo   int
	Err      error
}

func (e *AttributionError) Error() string {
	return fmt.Sprintf("attribute play of entity %d (match %s, line %d): %v", e.EntityID, e.MatchID, e.LineNo, e.Err)
}

func (e *AttributionError) Unwrap() error {
	return e.Err
}

// attributePlay records the card of a closed PLAY block on the side whose turn it is.
func (p *Parser) attributePlay(frame Frame) error {
	side, err := p.playingSide()
	if err != nil {
		return &AttributionError{MatchID: p.matchID, EntityID: frame.EntityID, LineNo: p.lineNo, Err: err}
	}
	if side == state.SideNone {
		return nil
	}

	played, ok := p.store.Entity(frame.EntityID)
	if !ok {
		p.report(Inconsistency, fmt.Sprintf("played entity %d is missing from the store", frame.EntityID))
		return nil
	}

	p.store.RecordPlayed(side, played.CardID)
	p.logger.Info("card played",
		zap.String("side", side.String()),
		zap.Int("entity_id", played.ID),
		zap.String("card_id", played.CardID),
		zap.Int("target_id", frame.TargetID),
	)
	p.publish(Event{
		Type:      EventCardPlayed,
		EntityID:  played.ID,
		TargetID:  frame.TargetID,
		BlockType: frame.BlockType,
		CardID:    played.CardID,
		Side:      side,
	})
	return nil
}

// playingSide derives whose turn it is from the game and player tags.
// SideNone means attribution is not possible yet.
func (p *Parser) playingSide() (state.Side, error) {
	game, ok := p.store.GameEntity()
	if !ok {
		return state.SideNone, nil
	}
	local, ok := p.store.LocalPlayerEntity()
	if !ok {
		return state.SideNone, nil
	}
	opponent, ok := p.store.OpponentEntity()
	if !ok {
		return state.SideNone, nil
	}

	if local.TagOr(tags.MulliganState, tags.MulliganInvalid) == tags.MulliganInput ||
		opponent.TagOr(tags.MulliganState, tags.MulliganInvalid) == tags.MulliganInput {
		return state.SideNone, nil
	}

	step, ok := game.Tag(tags.Step)
	if !ok || step != tags.StepMainAction {
		return state.SideNone, nil
	}

	var localFirst bool
	switch {
	case local.TagOr(tags.FirstPlayer, 0) == 1:
		localFirst = true
	case opponent.TagOr(tags.FirstPlayer, 0) == 1:
		localFirst = false
	default:
		return state.SideNone, ErrNoFirstPlayer
	}

	turn, ok := game.Tag(tags.Turn)
	if !ok || turn < 0 {
		return state.SideNone, nil
	}

	// the first player acts on odd turns
	if localFirst == (turn%2 == 1) {
		return state.SideLocal, nil
	}
	return state.SideOpponent, nil
}
