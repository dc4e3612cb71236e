package ecs

import (
	"reflect"

	"github.com/argus-labs/reactor/pkg/assert"
)

// Attach adds a component to an entity and returns it. The entity must not already hold a
// component of the same type and the component must not be attached elsewhere.
func Attach[T Component](e *Entity, component T) T {
	id, ok := e.registry.mustRegister(reflect.TypeFor[T]())
	if ok {
		e.attach(id, component)
	}
	return component
}

// AttachComponent is Attach for callers that only hold the Component interface, such as
// decoders working from component names. Returns false if the attach was rejected.
func AttachComponent(e *Entity, component Component) bool {
	if component == nil {
		return e.attach(0, nil)
	}
	id, ok := e.registry.mustRegister(reflect.TypeOf(component))
	return ok && e.attach(id, component)
}

// Detach removes the component of type T from an entity and returns it.
func Detach[T Component](e *Entity) T {
	var zero T
	id, ok := e.registry.lookup(reflect.TypeFor[T]())
	if !ok {
		assertHas[T](e, false)
		return zero
	}
	c, ok := e.detach(id)
	if !ok {
		return zero
	}
	return c.(T) //nolint:errcheck // the ID is derived from T
}

// DetachByID removes the component with the given ID from an entity and returns it.
func DetachByID(e *Entity, id ComponentID) Component {
	c, _ := e.detach(id)
	return c
}

// Get returns the component of type T. The entity must hold one, use TryGet otherwise.
func Get[T Component](e *Entity) T {
	c, ok := TryGet[T](e)
	assertHas[T](e, ok)
	return c
}

// TryGet returns the component of type T and whether the entity holds one.
func TryGet[T Component](e *Entity) (T, bool) {
	var zero T
	id, ok := e.registry.lookup(reflect.TypeFor[T]())
	if !ok {
		return zero, false
	}
	c, ok := e.components[id]
	if !ok {
		return zero, false
	}
	return c.(T), true //nolint:errcheck // the ID is derived from T
}

// Has reports whether the entity holds a component of type T, enabled or not.
func Has[T Component](e *Entity) bool {
	_, ok := TryGet[T](e)
	return ok
}

// Enable enables the component of type T.
func Enable[T Component](e *Entity) {
	SetComponentEnabled[T](e, true)
}

// Disable disables the component of type T. The component stays attached but no longer counts
// towards aspect matching.
func Disable[T Component](e *Entity) {
	SetComponentEnabled[T](e, false)
}

// SetComponentEnabled sets the enabled state of the component of type T.
func SetComponentEnabled[T Component](e *Entity, enabled bool) {
	id, ok := e.registry.lookup(reflect.TypeFor[T]())
	if !ok {
		assertHas[T](e, false)
		return
	}
	e.setComponentEnabled(id, enabled)
}

// SetComponentEnabledByID sets the enabled state of the component with the given ID.
func SetComponentEnabledByID(e *Entity, id ComponentID, enabled bool) {
	e.setComponentEnabled(id, enabled)
}

func assertHas[T Component](e *Entity, ok bool) {
	assert.That(ok, "entity %s has no component %s", e.id, reflect.TypeFor[T]())
}
