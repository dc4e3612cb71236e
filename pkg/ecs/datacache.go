package ecs

import (
	"github.com/argus-labs/reactor/pkg/assert"
)

// dataCache is the type-erased view the world keeps of every DataCache.
type dataCache interface {
	populate()
}

// DataCache keeps one value of type T per member of an index, stored densely so systems can walk
// the values without touching entities. Values are produced by the factory when an entity joins
// and dropped when it leaves. Data()[i] always belongs to EntityAt(i).
type DataCache[T any] struct {
	name      string
	index     *Index
	factory   func(*Entity) T
	data      []T
	entities  []*Entity
	slots     sparseSet // Entity handle -> slot in data
	populated bool
	addedSub  Subscription
	remSub    Subscription
	closed    bool
}

// CreateDataCache requests the index for aspect and attaches a cache to it. Existing members are
// picked up at the next reconciliation.
func CreateDataCache[T any](w *World, name string, aspect Aspect, factory func(*Entity) T) *DataCache[T] {
	assert.That(factory != nil, "data cache %s needs a factory", name)

	c := &DataCache[T]{
		name:     name,
		index:    w.RequestIndex(name, aspect),
		factory:  factory,
		data:     make([]T, 0),
		entities: make([]*Entity, 0),
		slots:    newSparseSet(),
	}
	c.addedSub = c.index.added.Subscribe(c.onAdded)
	c.remSub = c.index.removed.Subscribe(c.onRemoved)
	w.queueCache(c)
	return c
}

// Name returns the cache name.
func (c *DataCache[T]) Name() string { return c.name }

// Index returns the index the cache follows.
func (c *DataCache[T]) Index() *Index { return c.index }

// Len returns the number of cached values.
func (c *DataCache[T]) Len() int { return len(c.data) }

// Data returns the cached values. The slice is owned by the cache, elements may be modified in
// place but the slice must not be resized.
func (c *DataCache[T]) Data() []T { return c.data }

// EntityAt returns the entity owning Data()[i].
func (c *DataCache[T]) EntityAt(i int) *Entity { return c.entities[i] }

// DataFromEntity returns a pointer to the value cached for e. The entity must be cached, use
// TryDataFromEntity otherwise. The pointer is invalidated by the next structural change.
func (c *DataCache[T]) DataFromEntity(e *Entity) *T {
	v, ok := c.TryDataFromEntity(e)
	if !assert.That(ok, "entity %s is not in data cache %s", e.id, c.name) {
		return nil
	}
	return v
}

// TryDataFromEntity returns a pointer to the value cached for e, if any.
func (c *DataCache[T]) TryDataFromEntity(e *Entity) (*T, bool) {
	slot, ok := c.slot(e)
	if !ok {
		return nil, false
	}
	return &c.data[slot], true
}

// Close detaches the cache from its index and drops all values. The index itself stays.
func (c *DataCache[T]) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.index.added.Unsubscribe(c.addedSub)
	c.index.removed.Unsubscribe(c.remSub)
	c.data = nil
	c.entities = nil
	c.slots = nil
}

func (c *DataCache[T]) slot(e *Entity) (int, bool) {
	if e.handle == noHandle {
		return 0, false
	}
	slot, ok := c.slots.get(e.handle)
	return slot, ok && c.entities[slot] == e
}

func (c *DataCache[T]) populate() {
	if c.closed {
		return
	}
	c.populated = true
	for _, e := range c.index.entities {
		if _, ok := c.slot(e); !ok {
			c.insert(e)
		}
	}
}

func (c *DataCache[T]) onAdded(e *Entity) {
	if _, ok := c.slot(e); !ok {
		c.insert(e)
	}
}

func (c *DataCache[T]) onRemoved(e *Entity) {
	slot, ok := c.slot(e)
	if !ok {
		// Members that were already in the index before the first populate are not cached yet.
		assert.Invariant(!c.populated, "data cache %s has no slot for entity %s", c.name, e.id)
		return
	}

	last := len(c.data) - 1
	if slot != last {
		c.data[slot] = c.data[last]
		c.entities[slot] = c.entities[last]
		c.slots.set(c.entities[slot].handle, slot)
	}
	var zero T
	c.data[last] = zero
	c.entities[last] = nil
	c.data = c.data[:last]
	c.entities = c.entities[:last]
	c.slots.remove(e.handle)
}

func (c *DataCache[T]) insert(e *Entity) {
	c.slots.set(e.handle, len(c.data))
	c.data = append(c.data, c.factory(e))
	c.entities = append(c.entities, e)
}
