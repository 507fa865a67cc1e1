package powerlog

import (
	"fmt"

	"github.com/decksage/powerlog/internal/game/state"
	"github.com/decksage/powerlog/internal/powerlog/grammar"
	"go.uber.org/zap"
)

// handleSteady applies one line against the innermost open block.
func (p *Parser) handleSteady(line grammar.Line) error {
	ctx := p.frames.Current()
	if line.Kind != grammar.CreationTag {
		p.tagTarget = state.NoEntity
	}
	if line.Kind != grammar.MetadataInfoRow {
		ctx.InMetadata = false
	}

	switch line.Kind {
	case grammar.CreationTag:
		if p.tagTarget == state.NoEntity {
			p.report(UnrecognizedLine, "creation tag outside an entity declaration")
			return nil
		}
		p.applyTag(p.tagTarget, line.Tag, line.Value)

	case grammar.FullEntity:
		p.store.CreateEntity(line.EntityID, line.CardID)
		if ctx.BlockType == blockTypeJoust {
			p.store.AddJoustParticipant(line.EntityID)
		}
		p.tagTarget = line.EntityID

	case grammar.ShowEntity:
		id, ok := p.resolver.Resolve(line.Entity)
		if !ok {
			p.report(UnresolvedEntity, fmt.Sprintf("cannot find entity id for %q", line.Entity))
			p.report(UnrecognizedLine, "show entity dropped")
			return nil
		}
		p.store.CreateEntity(id, "")
		p.store.SetCardID(id, line.CardID)
		p.tagTarget = id

	case grammar.TagChange:
		if id, ok := p.resolver.Resolve(line.Entity); ok {
			p.applyTag(id, line.Tag, line.Value)
			return nil
		}
		if id, merged := p.linker.write(line.Entity, line.Tag, line.Value); merged {
			p.logger.Debug("linked pending entity",
				zap.String("descriptor", line.Entity),
				zap.Int("entity_id", id),
			)
		}

	case grammar.HideEntity:
		// no existence check: hide events may name entities whose creation was never logged
		id, ok := p.resolver.Resolve(line.Entity)
		if !ok {
			p.report(UnresolvedEntity, fmt.Sprintf("hide entity without id: %q", line.Entity))
			return nil
		}
		p.applyTag(id, line.Tag, line.Value)

	case grammar.ActionStart:
		p.startBlock(line)

	case grammar.ActionEnd:
		return p.endBlock()

	case grammar.MetadataHeader:
		ctx.InMetadata = true

	case grammar.MetadataInfoRow:
		if !ctx.InMetadata {
			p.report(UnrecognizedLine, "metadata info row outside META_DATA")
		}

	default:
		p.report(UnrecognizedLine, fmt.Sprintf("unexpected %s line (ignoring)", line.Kind))
	}
	return nil
}

func (p *Parser) startBlock(line grammar.Line) {
	entityID, ok := p.resolver.Resolve(line.Entity)
	if !ok {
		entityID = state.NoEntity
		p.report(UnresolvedEntity, fmt.Sprintf("cannot get entity id for action %s", line.BlockType))
	}
	targetID, ok := p.resolver.Resolve(line.Target)
	if !ok {
		targetID = state.NoEntity
	}

	p.frames.Push(Frame{
		BlockType: line.BlockType,
		EntityID:  entityID,
		TargetID:  targetID,
	})
	p.publish(Event{
		Type:      EventActionStart,
		EntityID:  entityID,
		TargetID:  targetID,
		BlockType: line.BlockType,
		Depth:     p.frames.Depth(),
	})
}

func (p *Parser) endBlock() error {
	depth := p.frames.Depth()
	frame, err := p.frames.Pop()
	if err != nil {
		p.report(Inconsistency, "ACTION_END without an open action block")
		return nil
	}

	p.publish(Event{
		Type:      EventActionEnd,
		EntityID:  frame.EntityID,
		TargetID:  frame.TargetID,
		BlockType: frame.BlockType,
		Depth:     depth,
	})

	if frame.BlockType == blockTypePlay {
		return p.attributePlay(frame)
	}
	return nil
}
