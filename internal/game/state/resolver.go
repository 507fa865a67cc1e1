package state

import (
	"regexp"
	"strconv"
	"strings"
)

const gameEntityDescriptor = "GameEntity"

var bracketIDRe = regexp.MustCompile(`\bid=(\d+)`)

// Resolver maps the free-form entity descriptors found in log lines to ids.
//
// Accepted forms:
//   - "GameEntity"
//   - a bare positive integer ("42")
//   - a bracketed description carrying an id ("[entityName=Fireball id=42 zone=HAND ...]")
//   - the display name of an already linked entity (player names)
type Resolver struct {
	game *Game
}

// NewResolver creates a resolver backed by the store.
func NewResolver(game *Game) *Resolver {
	return &Resolver{game: game}
}

// Resolve returns the entity id for the descriptor, or NoEntity and false.
func (r *Resolver) Resolve(descriptor string) (int, bool) {
	d := strings.TrimSpace(descriptor)
	if d == "" {
		return NoEntity, false
	}

	if d == gameEntityDescriptor {
		if id := r.game.GameEntityID(); id != NoEntity {
			return id, true
		}
		return NoEntity, false
	}

	if n, err := strconv.Atoi(d); err == nil {
		if n <= 0 {
			return NoEntity, false
		}
		return n, true
	}

	if strings.HasPrefix(d, "[") || strings.HasPrefix(d, "UNKNOWN ENTITY") {
		m := bracketIDRe.FindStringSubmatch(d)
		if m == nil {
			return NoEntity, false
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			return NoEntity, false
		}
		return n, true
	}

	if id, ok := r.game.EntityByName(d); ok {
		return id, true
	}
	return NoEntity, false
}
