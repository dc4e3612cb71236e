package ecs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// -------------------------------------------------------------------------------------------------
// Test components
// -------------------------------------------------------------------------------------------------

type Position struct {
	ComponentBase
	X, Y float64
}

func (Position) Name() string { return "position" }

type Velocity struct {
	ComponentBase
	X, Y float64
}

func (Velocity) Name() string { return "velocity" }

type Health struct {
	ComponentBase
	HP int
}

func (Health) Name() string { return "health" }

type Frozen struct {
	ComponentBase
}

func (Frozen) Name() string { return "frozen" }

// Inventory implements Cloner so deep copies don't share the item slice.
type Inventory struct {
	ComponentBase
	Items []string
}

func (Inventory) Name() string { return "inventory" }

func (i *Inventory) Clone() Component {
	return &Inventory{Items: append([]string(nil), i.Items...)}
}

// -------------------------------------------------------------------------------------------------
// Helpers
// -------------------------------------------------------------------------------------------------

// eventLog records Added and Removed signals of an index in order.
type eventLog struct {
	events []string
}

func watch(idx *Index) *eventLog {
	log := &eventLog{}
	idx.Added().Subscribe(func(e *Entity) { log.events = append(log.events, "+"+e.ID().String()) })
	idx.Removed().Subscribe(func(e *Entity) { log.events = append(log.events, "-"+e.ID().String()) })
	return log
}

func (l *eventLog) take() []string {
	events := l.events
	l.events = nil
	return events
}

func ids(entities []*Entity) []string {
	out := make([]string, len(entities))
	for i, e := range entities {
		out[i] = e.ID().String()
	}
	return out
}

func tick(w *World) {
	w.Update(0, time.Millisecond, AllSystems)
}

func mustFind(t *testing.T, w *World, id EntityID) *Entity {
	t.Helper()
	e, ok := w.FindEntity(id)
	require.True(t, ok, "entity %s not found", id)
	return e
}
