package powerlog

import (
	"fmt"

	"github.com/decksage/powerlog/internal/game/tags"
)

type tagWrite struct {
	tag   string
	value string
}

// pendingEntity collects tag writes for an entity known only by its descriptor.
type pendingEntity struct {
	descriptor string
	writes     []tagWrite
	entityID   int
	hasID      bool
}

// linker holds pending entities until an ENTITY_ID write ties them to the store.
type linker struct {
	store    Store
	reporter func(kind DiagnosticKind, msg string)
	apply    func(id int, tag, value string)
	pending  map[string]*pendingEntity
}

func newLinker(store Store, report func(DiagnosticKind, string), apply func(int, string, string)) *linker {
	return &linker{
		store:    store,
		reporter: report,
		apply:    apply,
		pending:  make(map[string]*pendingEntity),
	}
}

// write records a tag write against descriptor and merges the pending entity
// into the store once it carries an ENTITY_ID that the store knows. It returns
// the merged id and true when a merge happened. Tag vocabulary is checked by
// the store when the writes are replayed.
func (l *linker) write(descriptor, tag, value string) (int, bool) {
	isEntityID := false
	entityID := 0
	if parsedTag, err := tags.Lookup(tag); err == nil && parsedTag == tags.EntityID {
		id, err := tags.ParseValue(parsedTag, value)
		if err != nil {
			l.reporter(InvalidTag, fmt.Sprintf("pending entity %q: %v", descriptor, err))
			return 0, false
		}
		isEntityID, entityID = true, id
	}

	pe, ok := l.pending[descriptor]
	if !ok {
		pe = &pendingEntity{descriptor: descriptor}
		l.pending[descriptor] = pe
	}
	pe.writes = append(pe.writes, tagWrite{tag: tag, value: value})
	if isEntityID {
		pe.entityID = entityID
		pe.hasID = true
	}

	if !pe.hasID {
		return 0, false
	}
	if !l.store.EntityExists(pe.entityID) {
		l.reporter(Inconsistency, fmt.Sprintf(
			"pending entity %q carries ENTITY_ID=%d but that entity is missing from the store",
			descriptor, pe.entityID))
		return 0, false
	}

	l.store.SetName(pe.entityID, pe.descriptor)
	for _, w := range pe.writes {
		l.apply(pe.entityID, w.tag, w.value)
	}
	delete(l.pending, descriptor)
	return pe.entityID, true
}

// count returns the number of unresolved descriptors.
func (l *linker) count() int {
	return len(l.pending)
}

func (l *linker) reset() {
	l.pending = make(map[string]*pendingEntity)
}
