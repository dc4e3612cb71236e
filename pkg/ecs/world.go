package ecs

import (
	"iter"
	"time"

	"github.com/argus-labs/reactor/pkg/assert"
	"github.com/rs/zerolog"
)

// World owns entities, indices, data caches and system groups. Structural changes (attaching,
// detaching, enabling, removing) are queued and applied in bulk by Reconcile, which Update runs
// before and between system groups.
//
// A World is not safe for concurrent use.
type World struct {
	registry  *Registry
	ids       IDGenerator
	logger    zerolog.Logger
	iterative bool

	entities map[EntityID]*Entity
	slots    []*Entity // Entity handle -> entity, nil for free handles
	free     []uint32  // Free handles, reused FIFO

	indices    map[string]*Index // Aspect key -> index
	indexOrder []*Index          // Indices in creation order
	groups     []*SystemGroup

	changed        []*Entity
	changedSpare   []*Entity
	removed        []*Entity
	pendingCaches  []dataCache
	pendingIndices []*Index
	reconciling    bool
	updating       bool

	stats Stats
}

// NewWorld creates an empty world.
func NewWorld(opts ...WorldOption) *World {
	options := newDefaultWorldOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.registry == nil {
		options.registry = NewRegistry()
	}
	if options.ids == nil {
		options.ids = NewSequentialIDs()
	}

	return &World{
		registry:  options.registry,
		ids:       options.ids,
		logger:    options.logger,
		iterative: options.iterative,
		entities:  make(map[EntityID]*Entity),
		slots:     make([]*Entity, 0),
		free:      make([]uint32, 0),
		indices:   make(map[string]*Index),
		groups:    make([]*SystemGroup, 0),
	}
}

// Registry returns the world's component registry.
func (w *World) Registry() *Registry { return w.registry }

// Logger returns the world's logger.
func (w *World) Logger() *zerolog.Logger { return &w.logger }

// IterativeRebuild reports whether groups reconcile after every system.
func (w *World) IterativeRebuild() bool { return w.iterative }

// -------------------------------------------------------------------------------------------------
// Entities
// -------------------------------------------------------------------------------------------------

// CreateEntity creates an entity with a generated ID and adds it to the world.
func (w *World) CreateEntity() *Entity {
	return w.CreateEntityWithID(w.ids.Next())
}

// CreateEntityWithID creates an entity with the given ID and adds it to the world. Returns nil if
// the ID is taken.
func (w *World) CreateEntityWithID(id EntityID) *Entity {
	e := w.NewEntity(id)
	if !w.AddEntity(e) {
		return nil
	}
	return e
}

// NewEntity creates a detached entity bound to the world's registry. Components can be attached
// before the entity is handed to AddEntity, the world learns about all of them at once.
func (w *World) NewEntity(id EntityID) *Entity {
	return newEntity(id, w.registry)
}

// AddEntity adds a detached entity created by NewEntity. Returns false if the entity already
// belongs to a world or its ID is taken.
func (w *World) AddEntity(e *Entity) bool {
	if !assert.That(e.world == nil && e.handle == noHandle, "entity %s already belongs to a world", e.id) {
		return false
	}
	if !assert.That(e.registry == w.registry, "entity %s was created for a different registry", e.id) {
		return false
	}
	if !assert.That(!e.id.IsZero(), "entity id must not be zero") {
		return false
	}
	if _, exists := w.entities[e.id]; !assert.That(!exists, "entity %s already exists", e.id) {
		return false
	}
	if r, ok := w.ids.(IDReserver); ok {
		r.Reserve(e.id)
	}

	e.handle = w.allocHandle(e)
	e.world = w
	e.flags &^= flagRemoved
	w.entities[e.id] = e
	w.entityChanged(e)
	return true
}

// RemoveEntity schedules the entity for removal. It leaves every index at the next reconciliation
// and is erased from the world right after. Until then FindEntity still returns it, flagged as
// removed. Returns false if the entity was already scheduled or doesn't exist.
func (w *World) RemoveEntity(id EntityID) bool {
	e, ok := w.entities[id]
	if !assert.That(ok, "cannot remove entity %s: not found", id) {
		return false
	}
	if e.Removed() {
		return false
	}

	e.flags |= flagRemoved
	w.removed = append(w.removed, e)
	w.entityChanged(e)
	return true
}

// FindEntity returns the entity with the given ID, including entities scheduled for removal.
func (w *World) FindEntity(id EntityID) (*Entity, bool) {
	e, ok := w.entities[id]
	return e, ok
}

// EntityCount returns the number of entities in the world, including entities scheduled for
// removal.
func (w *World) EntityCount() int { return len(w.entities) }

// Entities iterates the world's entities in handle order.
func (w *World) Entities() iter.Seq[*Entity] {
	return func(yield func(*Entity) bool) {
		for _, e := range w.slots {
			if e != nil && !yield(e) {
				return
			}
		}
	}
}

func (w *World) allocHandle(e *Entity) uint32 {
	if len(w.free) > 0 {
		h := w.free[0]
		w.free = w.free[1:]
		w.slots[h] = e
		return h
	}
	w.slots = append(w.slots, e)
	return uint32(len(w.slots) - 1)
}

// erase drops a removed entity from the world and frees its handle.
func (w *World) erase(e *Entity) {
	delete(w.entities, e.id)
	w.slots[e.handle] = nil
	w.free = append(w.free, e.handle)
	e.handle = noHandle
	e.world = nil
	e.queued = false
	w.stats.EntitiesErased++
}

// entityChanged queues e for the next reconciliation. An entity is queued at most once.
func (w *World) entityChanged(e *Entity) {
	if e.queued {
		return
	}
	e.queued = true
	w.changed = append(w.changed, e)
}

// -------------------------------------------------------------------------------------------------
// Indices and caches
// -------------------------------------------------------------------------------------------------

// RequestIndex returns the index for aspect, creating it if needed. Indices are shared: requests
// with an equal aspect get the same index regardless of name. A new index is filled at the next
// reconciliation.
func (w *World) RequestIndex(name string, aspect Aspect) *Index {
	key := aspect.key()
	if idx, ok := w.indices[key]; ok {
		return idx
	}

	idx := newIndex(name, aspect)
	w.indices[key] = idx
	w.indexOrder = append(w.indexOrder, idx)
	w.pendingIndices = append(w.pendingIndices, idx)
	w.logger.Debug().Str("index", name).Stringer("aspect", aspect).Msg("index created")
	return idx
}

// Aspect builds an aspect against the world's registry.
func (w *World) Aspect(terms ...AspectTerm) Aspect {
	return NewAspect(w.registry, terms...)
}

// Indices returns the world's indices in creation order.
func (w *World) Indices() []*Index {
	return append([]*Index(nil), w.indexOrder...)
}

func (w *World) queueCache(c dataCache) {
	w.pendingCaches = append(w.pendingCaches, c)
}

// -------------------------------------------------------------------------------------------------
// Systems
// -------------------------------------------------------------------------------------------------

// CreateGroup appends a new system group. Groups update in creation order. Group names are unique,
// asking for a taken name is a contract violation that returns the existing group.
func (w *World) CreateGroup(name string, mask SystemMask) *SystemGroup {
	if g, exists := w.Group(name); !assert.That(!exists, "system group %s already exists", name) {
		return g
	}
	g := newSystemGroup(w, name, mask)
	w.groups = append(w.groups, g)
	return g
}

// Group returns the group with the given name.
func (w *World) Group(name string) (*SystemGroup, bool) {
	for _, g := range w.groups {
		if g.name == name {
			return g, true
		}
	}
	return nil, false
}

// Groups returns the groups in update order.
func (w *World) Groups() []*SystemGroup {
	return append([]*SystemGroup(nil), w.groups...)
}

// Update reconciles pending changes and then updates every group whose mask intersects mask,
// reconciling after each one. now is the current simulation time and dt the time since the last
// update.
func (w *World) Update(now, dt time.Duration, mask SystemMask) {
	if !assert.That(!w.updating, "world update re-entered") {
		return
	}
	w.updating = true
	defer func() { w.updating = false }()

	w.Reconcile()
	for _, g := range w.groups {
		if g.mask&mask == 0 {
			continue
		}
		g.update(now, dt)
		w.Reconcile()
	}
	w.stats.Updates++
}
