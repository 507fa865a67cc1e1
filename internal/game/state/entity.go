package state

import (
	"sort"

	"github.com/decksage/powerlog/internal/game/tags"
)

// Entity is an in-match object (game, player, hero, card, enchantment) and its tags.
type Entity struct {
	ID     int
	Name   string
	CardID string
	tags   map[tags.Tag]int
}

func newEntity(id int, cardID string) *Entity {
	return &Entity{
		ID:     id,
		CardID: cardID,
		tags:   make(map[tags.Tag]int),
	}
}

// Tag returns the tag value and whether the entity carries it.
func (e Entity) Tag(tag tags.Tag) (int, bool) {
	v, ok := e.tags[tag]
	return v, ok
}

// TagOr returns the tag value, or def when the tag is absent.
func (e Entity) TagOr(tag tags.Tag, def int) int {
	if v, ok := e.tags[tag]; ok {
		return v
	}
	return def
}

// HasTag reports whether the tag has ever been written on the entity.
func (e Entity) HasTag(tag tags.Tag) bool {
	_, ok := e.tags[tag]
	return ok
}

// TagCount returns the number of distinct tags set on the entity.
func (e Entity) TagCount() int {
	return len(e.tags)
}

// SortedTags returns the entity's tags ordered by tag id.
func (e Entity) SortedTags() []TagValue {
	out := make([]TagValue, 0, len(e.tags))
	for tag, v := range e.tags {
		out = append(out, TagValue{Tag: tag, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}

// TagValue pairs a tag with its value.
type TagValue struct {
	Tag   tags.Tag
	Value int
}

func (e *Entity) clone() Entity {
	cpy := *e
	cpy.tags = make(map[tags.Tag]int, len(e.tags))
	for tag, v := range e.tags {
		cpy.tags[tag] = v
	}
	return cpy
}
