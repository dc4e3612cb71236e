package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type healthView struct {
	id EntityID
	hp int
}

func newHealthCache(w *World) *DataCache[healthView] {
	return CreateDataCache(w, "health-view", w.Aspect(All[*Health]()), func(e *Entity) healthView {
		return healthView{id: e.ID(), hp: Get[*Health](e).HP}
	})
}

// requireAligned checks that every slot belongs to the entity the cache says it does.
func requireAligned(t *testing.T, c *DataCache[healthView]) {
	t.Helper()
	require.Equal(t, c.Index().Len(), c.Len())
	for i, v := range c.Data() {
		e := c.EntityAt(i)
		require.Equal(t, e.ID(), v.id, "slot %d", i)
		require.True(t, c.Index().Contains(e))
		require.Same(t, &c.Data()[i], c.DataFromEntity(e))
	}
}

func TestDataCache_FollowsIndex(t *testing.T) {
	t.Parallel()

	w := NewWorld()
	cache := newHealthCache(w)

	entities := make([]*Entity, 5)
	for i := range entities {
		entities[i] = w.CreateEntity()
		Attach(entities[i], &Health{HP: i * 10})
	}
	w.Reconcile()
	assert.Equal(t, 5, cache.Len())
	requireAligned(t, cache)

	// Values come from the factory at admission.
	v, ok := cache.TryDataFromEntity(entities[3])
	require.True(t, ok)
	assert.Equal(t, 30, v.hp)

	// Removing from the middle swaps the last value in.
	w.RemoveEntity(entities[1].ID())
	Disable[*Health](entities[4])
	w.Reconcile()
	assert.Equal(t, 3, cache.Len())
	requireAligned(t, cache)
	_, ok = cache.TryDataFromEntity(entities[4])
	assert.False(t, ok)
	assertViolation(t, func() { cache.DataFromEntity(entities[4]) })

	// Mutations through the returned pointer stick.
	cache.DataFromEntity(entities[0]).hp = 99
	Enable[*Health](entities[4])
	w.Reconcile()
	assert.Equal(t, 99, cache.DataFromEntity(entities[0]).hp)
	requireAligned(t, cache)
}

func TestDataCache_PopulatesFromExistingIndex(t *testing.T) {
	t.Parallel()

	w := NewWorld()
	idx := w.RequestIndex("healthy", w.Aspect(All[*Health]()))
	a, b := w.CreateEntity(), w.CreateEntity()
	Attach(a, &Health{HP: 1})
	Attach(b, &Health{HP: 2})
	w.Reconcile()
	require.Equal(t, 2, idx.Len())

	cache := newHealthCache(w)
	assert.Same(t, idx, cache.Index(), "shares the index")
	assert.Equal(t, 0, cache.Len(), "filled on reconcile")

	// A member leaving before the first populate must not trip the cache.
	Detach[*Health](a)
	w.Reconcile()
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, 2, cache.DataFromEntity(b).hp)
	requireAligned(t, cache)
}

func TestDataCache_Close(t *testing.T) {
	t.Parallel()

	w := NewWorld()
	cache := newHealthCache(w)
	e := w.CreateEntity()
	Attach(e, &Health{})
	w.Reconcile()
	require.Equal(t, 1, cache.Len())

	cache.Close()
	cache.Close()
	assert.Equal(t, 0, cache.Len())
	assert.Equal(t, 0, cache.Index().Added().Len())
	assert.Equal(t, 0, cache.Index().Removed().Len())

	Attach(w.CreateEntity(), &Health{})
	w.Reconcile()
	assert.Equal(t, 0, cache.Len())
	assert.Equal(t, 2, cache.Index().Len(), "the index outlives the cache")
}
