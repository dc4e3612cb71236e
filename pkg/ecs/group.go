package ecs

import (
	"reflect"
	"time"

	"github.com/argus-labs/reactor/pkg/assert"
)

// SystemGroup is an ordered list of systems updated together. A group holds at most one system
// per type. Its system list is locked while the group is updating.
type SystemGroup struct {
	name    string
	mask    SystemMask
	world   *World
	systems []System
	types   map[reflect.Type]struct{}
	locked  bool
}

func newSystemGroup(w *World, name string, mask SystemMask) *SystemGroup {
	return &SystemGroup{
		name:    name,
		mask:    mask,
		world:   w,
		systems: make([]System, 0),
		types:   make(map[reflect.Type]struct{}),
	}
}

// Name returns the group name.
func (g *SystemGroup) Name() string { return g.name }

// Mask returns the group's selection mask.
func (g *SystemGroup) Mask() SystemMask { return g.mask }

// Len returns the number of systems in the group.
func (g *SystemGroup) Len() int { return len(g.systems) }

// Systems returns the systems in update order.
func (g *SystemGroup) Systems() []System {
	return append([]System(nil), g.systems...)
}

// Add appends s to the group and initializes it against the world. Returns false if the group is
// updating or already holds a system of the same type.
func (g *SystemGroup) Add(s System) bool {
	if !assert.That(!g.locked, "cannot add system to group %s while it is updating", g.name) {
		return false
	}
	typ := systemType(s)
	if _, exists := g.types[typ]; !assert.That(!exists, "group %s already has a system of type %s", g.name, typ) {
		return false
	}

	g.types[typ] = struct{}{}
	g.systems = append(g.systems, s)
	s.Init(g.world)
	g.world.logger.Debug().Str("group", g.name).Stringer("system", typ).Msg("system added")
	return true
}

// Remove takes s out of the group and shuts it down. Returns false if s is not in the group.
func (g *SystemGroup) Remove(s System) bool {
	if !assert.That(!g.locked, "cannot remove system from group %s while it is updating", g.name) {
		return false
	}
	for i, sys := range g.systems {
		if sys != s {
			continue
		}
		g.systems = append(g.systems[:i], g.systems[i+1:]...)
		delete(g.types, systemType(s))
		if sd, ok := s.(Shutdowner); ok {
			sd.Shutdown()
		}
		return true
	}
	return false
}

// GetSystem returns the system of type T in the group. For entity systems T may also be the type
// of the processor, in which case the processor is returned.
func GetSystem[T any](g *SystemGroup) (T, bool) {
	for _, s := range g.systems {
		if v, ok := s.(T); ok {
			return v, true
		}
		if es, ok := s.(*EntitySystem); ok {
			if v, ok := es.proc.(T); ok {
				return v, true
			}
		}
	}
	var zero T
	return zero, false
}

func (g *SystemGroup) update(now, dt time.Duration) {
	g.locked = true
	defer func() { g.locked = false }()

	for _, s := range g.systems {
		s.Update(now, dt)
		if g.world.iterative {
			g.world.Reconcile()
		}
	}
}
