package ecs

import (
	"reflect"
	"slices"

	"github.com/argus-labs/reactor/pkg/assert"
	"github.com/kelindar/bitmap"
)

// entityFlags holds the per-entity state bits.
type entityFlags uint8

const (
	flagDisabled entityFlags = 1 << iota
	flagRemoved
	flagTransient // Excluded from snapshots
)

// noHandle marks an entity that has not been added to a world.
const noHandle = ^uint32(0)

// Entity is a bag of components with a stable ID. Entities are created by a World and stay owned
// by it until they are removed and the removal has been reconciled.
//
// The component mask mirrors the set of enabled components. Every mutation that could change the
// entity's index membership queues it on the world, the indices pick the change up at the next
// reconciliation.
type Entity struct {
	id         EntityID
	handle     uint32 // Dense slot in the owning world, noHandle when detached
	world      *World
	registry   *Registry
	components map[ComponentID]Component
	mask       bitmap.Bitmap // Bit set for each enabled component
	flags      entityFlags
	queued     bool // On the world's changed queue
}

func newEntity(id EntityID, registry *Registry) *Entity {
	return &Entity{
		id:         id,
		handle:     noHandle,
		registry:   registry,
		components: make(map[ComponentID]Component),
	}
}

// ID returns the entity's ID.
func (e *Entity) ID() EntityID { return e.id }

// World returns the world that owns the entity, or nil if the entity is detached or was erased.
func (e *Entity) World() *World { return e.world }

func (e *Entity) String() string { return e.id.String() }

// Removed reports whether the entity has been scheduled for removal.
func (e *Entity) Removed() bool { return e.flags&flagRemoved != 0 }

// Enabled reports whether the entity takes part in aspect matching.
func (e *Entity) Enabled() bool { return e.flags&flagDisabled == 0 }

// SetEnabled enables or disables the whole entity. A disabled entity drops out of every index at
// the next reconciliation but keeps its components.
func (e *Entity) SetEnabled(enabled bool) {
	if !assert.That(!e.Removed(), "cannot change enabled state of removed entity %s", e.id) {
		return
	}
	if e.Enabled() == enabled {
		return
	}
	if enabled {
		e.flags &^= flagDisabled
	} else {
		e.flags |= flagDisabled
	}
	e.changed()
}

// Serializable reports whether the entity is included in snapshots. Entities are serializable
// unless marked otherwise.
func (e *Entity) Serializable() bool { return e.flags&flagTransient == 0 }

// SetSerializable includes or excludes the entity from snapshots.
func (e *Entity) SetSerializable(serializable bool) {
	if serializable {
		e.flags &^= flagTransient
	} else {
		e.flags |= flagTransient
	}
}

// Mask returns a copy of the entity's component mask.
func (e *Entity) Mask() bitmap.Bitmap { return e.mask.Clone(nil) }

// Len returns the number of attached components, enabled or not.
func (e *Entity) Len() int { return len(e.components) }

// Components returns the attached components ordered by component ID.
func (e *Entity) Components() []Component {
	ids := make([]ComponentID, 0, len(e.components))
	for id := range e.components {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	comps := make([]Component, len(ids))
	for i, id := range ids {
		comps[i] = e.components[id]
	}
	return comps
}

// ComponentByID returns the component with the given ID.
func (e *Entity) ComponentByID(id ComponentID) (Component, bool) {
	c, ok := e.components[id]
	return c, ok
}

// DeepCopy creates a new entity in the same world with the given ID and a clone of every
// component. Mix-ins are not copied. Returns nil if the entity is detached or id is taken.
func (e *Entity) DeepCopy(id EntityID) *Entity {
	if !assert.That(e.world != nil, "cannot deep copy detached entity %s", e.id) {
		return nil
	}

	clone := e.world.CreateEntityWithID(id)
	if clone == nil {
		return nil
	}
	clone.flags = e.flags &^ flagRemoved
	for _, c := range e.Components() {
		cid, _ := e.registry.lookup(reflect.TypeOf(c))
		clone.attach(cid, cloneComponent(c))
	}
	return clone
}

// matchable reports whether the entity may be a member of any index.
func (e *Entity) matchable() bool {
	return e.flags&(flagDisabled|flagRemoved) == 0
}

// changed queues the entity for reconciliation.
func (e *Entity) changed() {
	if e.world != nil {
		e.world.entityChanged(e)
	}
}

// attach adds c under id. Returns false if the attach was rejected.
func (e *Entity) attach(id ComponentID, c Component) bool {
	if !assert.That(c != nil && !reflect.ValueOf(c).IsNil(), "cannot attach nil component to entity %s", e.id) {
		return false
	}
	if !assert.That(!e.Removed(), "cannot attach %s to removed entity %s", c.Name(), e.id) {
		return false
	}
	if _, exists := e.components[id]; !assert.That(!exists, "entity %s already has component %s", e.id, c.Name()) {
		return false
	}
	b := c.base()
	if !assert.That(b.owner == nil, "component %s is already attached to entity %s", c.Name(), b.owner) {
		return false
	}

	e.components[id] = c
	b.owner = e
	if !b.disabled {
		e.mask.Set(id)
	}
	e.changed()
	return true
}

// detach removes the component with the given ID and returns it.
func (e *Entity) detach(id ComponentID) (Component, bool) {
	if !assert.That(!e.Removed(), "cannot detach %s from removed entity %s", e.registry.Name(id), e.id) {
		return nil, false
	}
	c, ok := e.components[id]
	if !assert.That(ok, "entity %s has no component %s", e.id, e.registry.Name(id)) {
		return nil, false
	}

	delete(e.components, id)
	e.mask.Remove(id)
	c.base().owner = nil
	e.changed()
	return c, true
}

// setComponentEnabled flips the enabled state of the component with the given ID.
func (e *Entity) setComponentEnabled(id ComponentID, enabled bool) bool {
	if !assert.That(!e.Removed(), "cannot toggle %s on removed entity %s", e.registry.Name(id), e.id) {
		return false
	}
	c, ok := e.components[id]
	if !assert.That(ok, "entity %s has no component %s", e.id, e.registry.Name(id)) {
		return false
	}

	b := c.base()
	if b.disabled == !enabled {
		return true
	}
	b.disabled = !enabled
	if enabled {
		e.mask.Set(id)
	} else {
		e.mask.Remove(id)
	}
	e.changed()
	return true
}
