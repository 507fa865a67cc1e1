package state

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Checksum computes a deterministic sha256 of the store contents.
// Two stores fed the same log lines produce the same checksum regardless of
// map iteration order.
func (g *Game) Checksum() (string, error) {
	hash := sha256.New()
	if _, err := hash.Write([]byte(g.deterministicRepresentation())); err != nil {
		return "", fmt.Errorf("failed to compute hash: %w", err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// deterministicRepresentation builds a canonical text form of the store.
func (g *Game) deterministicRepresentation() string {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("GAME:%d|%d\n", g.gameEntityID, g.LocalPlayerNumber()))

	players := g.Players()
	sort.Slice(players, func(i, j int) bool { return players[i].EntityID < players[j].EntityID })
	for _, p := range players {
		buf.WriteString(fmt.Sprintf("PLAYER:%d|%d|%s\n", p.EntityID, p.PlayerNumber, p.AccountRef))
	}

	ids := make([]int, 0, len(g.entities))
	for id := range g.entities {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		e := g.entities[id]
		buf.WriteString(fmt.Sprintf("ENTITY:%d|%s|%s", e.ID, e.Name, e.CardID))
		for _, tv := range e.SortedTags() {
			buf.WriteString(fmt.Sprintf("|%d=%d", tv.Tag, tv.Value))
		}
		buf.WriteString("\n")
	}

	facts := g.Facts()
	buf.WriteString("LOCAL_PLAYED:" + strings.Join(facts.LocalPlayed, ",") + "\n")
	buf.WriteString("OPPONENT_PLAYED:" + strings.Join(facts.OpponentPlayed, ",") + "\n")
	joust := make([]string, len(facts.JoustParticipants))
	for i, id := range facts.JoustParticipants {
		joust[i] = fmt.Sprintf("%d", id)
	}
	buf.WriteString("JOUST:" + strings.Join(joust, ",") + "\n")

	return buf.String()
}
