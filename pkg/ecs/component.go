package ecs

import (
	"reflect"
)

// Component is the interface that all components must implement. Components are plain data
// attached to entities by pointer. A component type satisfies the interface by embedding
// ComponentBase and declaring a Name:
//
//	type Position struct {
//		ecs.ComponentBase
//		X, Y float64
//	}
//
//	func (Position) Name() string { return "position" }
type Component interface {
	// Name returns a unique string identifier for the component type.
	// This should be consistent across program executions.
	Name() string

	// Enabled reports whether the component currently counts towards aspect matching.
	Enabled() bool

	// Owner returns the entity holding the component, or nil when detached.
	Owner() *Entity

	base() *ComponentBase
}

// ComponentBase carries the bookkeeping every component needs. The zero value is an enabled,
// unattached component without mix-ins.
type ComponentBase struct {
	disabled bool
	owner    *Entity              // Set only by the entity holding this component
	mixins   map[reflect.Type]any // System type -> side data owned by this component
}

func (b *ComponentBase) base() *ComponentBase { return b }

// Enabled reports whether the component is enabled.
func (b *ComponentBase) Enabled() bool { return !b.disabled }

// Owner returns the entity the component is attached to, or nil.
func (b *ComponentBase) Owner() *Entity { return b.owner }

// Cloner lets a component control how it is duplicated by Entity.DeepCopy. The default is a
// shallow value copy of the struct. Owner and mix-ins are cleared on the clone either way.
type Cloner interface {
	Clone() Component
}

// cloneComponent returns a detached copy of c.
func cloneComponent(c Component) Component {
	var clone Component
	if cl, ok := c.(Cloner); ok {
		clone = cl.Clone()
	} else {
		src := reflect.ValueOf(c).Elem()
		dst := reflect.New(src.Type())
		dst.Elem().Set(src)
		clone = dst.Interface().(Component) //nolint:errcheck // same type as c
	}

	b := clone.base()
	b.owner = nil
	b.mixins = nil
	return clone
}

// -------------------------------------------------------------------------------------------------
// Mix-ins
// -------------------------------------------------------------------------------------------------

// SetMixin stores side data on c on behalf of the system type S, replacing any previous value.
// Mix-ins let a system cache per-component state without widening the component type.
func SetMixin[S any](c Component, data any) {
	b := c.base()
	if b.mixins == nil {
		b.mixins = make(map[reflect.Type]any, 1)
	}
	b.mixins[reflect.TypeFor[S]()] = data
}

// Mixin returns the side data stored on c by the system type S.
func Mixin[S any](c Component) (any, bool) {
	data, ok := c.base().mixins[reflect.TypeFor[S]()]
	return data, ok
}

// RemoveMixin drops the side data stored on c by the system type S. Returns false if there was
// none.
func RemoveMixin[S any](c Component) bool {
	b := c.base()
	key := reflect.TypeFor[S]()
	if _, ok := b.mixins[key]; !ok {
		return false
	}
	delete(b.mixins, key)
	return true
}
