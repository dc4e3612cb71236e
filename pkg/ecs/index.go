package ecs

import (
	"iter"
	"slices"

	"github.com/argus-labs/reactor/pkg/assert"
)

// Index is the live set of entities matching an aspect. Membership is updated by the world during
// reconciliation, never directly. Observers learn about changes through the Added and Removed
// signals. Removed fires while the entity is still a member so handlers can read it one last time.
//
// Iteration order is unspecified and changes as entities leave, because removal swaps the last
// member into the vacated row.
type Index struct {
	name     string
	aspect   Aspect
	entities []*Entity
	rows     sparseSet // Entity handle -> row in entities
	added    Signal[*Entity]
	removed  Signal[*Entity]
}

func newIndex(name string, aspect Aspect) *Index {
	return &Index{
		name:     name,
		aspect:   aspect,
		entities: make([]*Entity, 0),
		rows:     newSparseSet(),
	}
}

// Name returns the name the index was first requested under.
func (idx *Index) Name() string { return idx.name }

// Aspect returns the aspect the index tracks.
func (idx *Index) Aspect() Aspect { return idx.aspect }

// Added fires after an entity joins the index.
func (idx *Index) Added() *Signal[*Entity] { return &idx.added }

// Removed fires before an entity leaves the index.
func (idx *Index) Removed() *Signal[*Entity] { return &idx.removed }

// Len returns the number of members.
func (idx *Index) Len() int { return len(idx.entities) }

// At returns the member at position i.
func (idx *Index) At(i int) *Entity { return idx.entities[i] }

// Contains reports whether e is a member.
func (idx *Index) Contains(e *Entity) bool {
	if e.handle == noHandle {
		return false
	}
	row, ok := idx.rows.get(e.handle)
	return ok && idx.entities[row] == e
}

// Entities returns a copy of the current members.
func (idx *Index) Entities() []*Entity {
	return slices.Clone(idx.entities)
}

// All iterates the members. It tolerates the current member leaving the index during the loop
// body, in which case the member swapped into its row is visited next.
func (idx *Index) All() iter.Seq[*Entity] {
	return func(yield func(*Entity) bool) {
		for i := 0; i < len(idx.entities); {
			e := idx.entities[i]
			if !yield(e) {
				return
			}
			if i < len(idx.entities) && idx.entities[i] == e {
				i++
			}
		}
	}
}

// notifyEntityChanged re-evaluates membership of e and emits the matching signal.
func (idx *Index) notifyEntityChanged(e *Entity) {
	contains := idx.Contains(e)
	intersects := e.matchable() && idx.aspect.MatchesEntity(e)

	switch {
	case intersects && !contains:
		idx.insert(e)
		idx.added.emit(e)
	case !intersects && contains:
		idx.removed.emit(e)
		idx.erase(e)
	}
}

func (idx *Index) insert(e *Entity) {
	idx.rows.set(e.handle, len(idx.entities))
	idx.entities = append(idx.entities, e)
}

// erase swap-removes e. Removed handlers may have queued other changes but can't have touched the
// index itself, so e is still at its row.
func (idx *Index) erase(e *Entity) {
	row, ok := idx.rows.get(e.handle)
	assert.Invariant(ok && idx.entities[row] == e, "index %s lost entity %s", idx.name, e.id)

	last := len(idx.entities) - 1
	if row != last {
		moved := idx.entities[last]
		idx.entities[row] = moved
		idx.rows.set(moved.handle, row)
	}
	idx.entities[last] = nil
	idx.entities = idx.entities[:last]
	idx.rows.remove(e.handle)
}
