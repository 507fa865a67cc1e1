package powerlog

import (
	"github.com/decksage/powerlog/internal/game/state"
	"github.com/decksage/powerlog/internal/powerlog/grammar"
	"go.uber.org/zap"
)

// handleCreation advances the creation phase. It returns false when the line
// is not part of the prologue; the phase is then either SteadyState (the
// prologue finished and the line belongs to play) or unchanged after a
// reported grammar mismatch.
func (p *Parser) handleCreation(line grammar.Line) bool {
	for {
		switch p.phase {
		case PhaseAwaitingCreateGame:
			return false

		case PhaseAwaitingGameEntity:
			if line.Kind != grammar.GameEntityDecl {
				p.report(GrammarMismatch, "expecting the game entity declaration")
				return false
			}
			p.store.CreateGameEntity(line.EntityID)
			p.tagTarget = line.EntityID
			p.phase = PhaseReadingGameEntityTags
			p.logger.Debug("game entity declared", zap.Int("entity_id", line.EntityID))
			return true

		case PhaseReadingGameEntityTags, PhaseReadingPlayer1Tags, PhaseReadingPlayer2Tags:
			if line.Kind == grammar.CreationTag {
				p.applyTag(p.tagTarget, line.Tag, line.Value)
				return true
			}
			p.tagTarget = state.NoEntity
			p.phase++

		case PhaseReadingPlayer1, PhaseReadingPlayer2:
			if line.Kind != grammar.PlayerEntityDecl {
				p.report(GrammarMismatch, "expecting a player entity declaration")
				return false
			}
			p.store.CreatePlayerEntity(line.EntityID, line.PlayerNumber, line.AccountRef)
			p.tagTarget = line.EntityID
			p.phase++
			p.logger.Debug("player entity declared",
				zap.Int("entity_id", line.EntityID),
				zap.Int("player_id", line.PlayerNumber),
			)
			return true

		case PhaseSteadyState:
			if !p.established {
				p.established = true
				p.logger.Info("match prologue complete", zap.String("match_id", p.matchID))
			}
			return false
		}
	}
}
