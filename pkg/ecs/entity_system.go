package ecs

import (
	"time"
)

// EntityProcessor holds the per-entity logic of an EntitySystem.
type EntityProcessor interface {
	Process(e *Entity, now, dt time.Duration)
}

// ProcessorFunc adapts a function to EntityProcessor.
type ProcessorFunc func(e *Entity, now, dt time.Duration)

func (f ProcessorFunc) Process(e *Entity, now, dt time.Duration) { f(e, now, dt) }

// BeginHook is implemented by processors that run logic before the entity loop. Returning false
// skips the loop and the End hook for this update.
type BeginHook interface {
	Begin(now, dt time.Duration) bool
}

// EndHook is implemented by processors that run logic after the entity loop.
type EndHook interface {
	End(now, dt time.Duration)
}

// EntityAddedHook is implemented by processors that want to know when an entity starts matching.
type EntityAddedHook interface {
	EntityAdded(e *Entity)
}

// EntityRemovedHook is implemented by processors that want to know when an entity stops matching.
// The entity still holds its components when the hook runs.
type EntityRemovedHook interface {
	EntityRemoved(e *Entity)
}

// EntitySystem runs a processor over every entity matching an aspect.
type EntitySystem struct {
	name     string
	terms    []AspectTerm
	proc     EntityProcessor
	aspect   Aspect
	index    *Index
	addedSub Subscription
	remSub   Subscription
}

var (
	_ System     = (*EntitySystem)(nil)
	_ Shutdowner = (*EntitySystem)(nil)
)

// NewEntitySystem creates a system that calls proc for each entity matching terms. The aspect is
// resolved against the world's registry when the system is added to a group.
func NewEntitySystem(name string, proc EntityProcessor, terms ...AspectTerm) *EntitySystem {
	return &EntitySystem{name: name, terms: terms, proc: proc}
}

// Name returns the system name.
func (s *EntitySystem) Name() string { return s.name }

// Processor returns the wrapped processor.
func (s *EntitySystem) Processor() EntityProcessor { return s.proc }

// Aspect returns the resolved aspect. It is the zero aspect before Init.
func (s *EntitySystem) Aspect() Aspect { return s.aspect }

// Index returns the index the system iterates. It is nil before Init.
func (s *EntitySystem) Index() *Index { return s.index }

func (s *EntitySystem) Init(w *World) {
	s.aspect = NewAspect(w.Registry(), s.terms...)
	s.index = w.RequestIndex(s.name, s.aspect)

	if hook, ok := s.proc.(EntityAddedHook); ok {
		s.addedSub = s.index.added.Subscribe(hook.EntityAdded)
		// The index may be shared and already populated.
		for _, e := range s.index.Entities() {
			hook.EntityAdded(e)
		}
	}
	if hook, ok := s.proc.(EntityRemovedHook); ok {
		s.remSub = s.index.removed.Subscribe(hook.EntityRemoved)
	}
}

func (s *EntitySystem) Update(now, dt time.Duration) {
	if begin, ok := s.proc.(BeginHook); ok && !begin.Begin(now, dt) {
		return
	}
	for e := range s.index.All() {
		s.proc.Process(e, now, dt)
	}
	if end, ok := s.proc.(EndHook); ok {
		end.End(now, dt)
	}
}

func (s *EntitySystem) Shutdown() {
	if s.index == nil {
		return
	}
	if s.addedSub != 0 {
		s.index.added.Unsubscribe(s.addedSub)
	}
	if s.remSub != 0 {
		s.index.removed.Unsubscribe(s.remSub)
	}
	s.addedSub, s.remSub = 0, 0
}
