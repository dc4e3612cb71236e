package ecs

import (
	"reflect"

	"github.com/argus-labs/reactor/pkg/assert"
	"github.com/rotisserie/eris"
)

// MaxComponentTypes bounds the number of component types a registry will assign IDs to.
const MaxComponentTypes = 1024

// ComponentID is a dense identifier for a component type. It is the component's bit position in
// entity masks and aspects.
type ComponentID = uint32

// componentType describes a registered component type.
type componentType struct {
	name string
	typ  reflect.Type // Always a pointer to struct
}

// Registry assigns component IDs. IDs are handed out lazily the first time a type is used, in
// first-use order, and are never reused. A registry is shared by everything in a World.
type Registry struct {
	byType map[reflect.Type]ComponentID
	byName map[string]ComponentID
	types  []componentType // Component ID -> component type
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byType: make(map[reflect.Type]ComponentID),
		byName: make(map[string]ComponentID),
		types:  make([]componentType, 0),
	}
}

// Register assigns an ID to the component type T if it doesn't have one yet and returns it.
func Register[T Component](r *Registry) (ComponentID, error) {
	return r.register(reflect.TypeFor[T]())
}

// register returns the ID for typ, assigning the next free ID on first use.
func (r *Registry) register(typ reflect.Type) (ComponentID, error) {
	if id, ok := r.byType[typ]; ok {
		return id, nil
	}

	if typ.Kind() != reflect.Pointer || typ.Elem().Kind() != reflect.Struct {
		return 0, eris.Wrapf(ErrInvalidComponentType, "got %s", typ)
	}
	if len(r.types) >= MaxComponentTypes {
		return 0, eris.Wrapf(ErrTooManyComponents, "registering %s", typ)
	}

	zero, ok := reflect.New(typ.Elem()).Interface().(Component)
	if !ok {
		return 0, eris.Wrapf(ErrInvalidComponentType, "%s does not implement Component", typ)
	}
	name := zero.Name()
	if name == "" {
		return 0, eris.Errorf("component name cannot be empty for %s", typ)
	}
	if other, taken := r.byName[name]; taken {
		return 0, eris.Wrapf(ErrComponentNameTaken, "%q is used by %s and %s", name, r.types[other].typ, typ)
	}

	id := ComponentID(len(r.types))
	r.types = append(r.types, componentType{name: name, typ: typ})
	r.byType[typ] = id
	r.byName[name] = id
	return id, nil
}

// mustRegister is register for call sites where a failure is a programming error.
func (r *Registry) mustRegister(typ reflect.Type) (ComponentID, bool) {
	id, err := r.register(typ)
	if !assert.That(err == nil, "failed to register component: %v", err) {
		return 0, false
	}
	return id, true
}

// lookup returns the ID of typ without registering it.
func (r *Registry) lookup(typ reflect.Type) (ComponentID, bool) {
	id, ok := r.byType[typ]
	return id, ok
}

// ID returns the ID of the component registered under name.
func (r *Registry) ID(name string) (ComponentID, error) {
	id, ok := r.byName[name]
	if !ok {
		return 0, eris.Wrapf(ErrComponentNotFound, "component %s", name)
	}
	return id, nil
}

// Name returns the name of the component with the given ID, or "" if the ID is unassigned.
func (r *Registry) Name(id ComponentID) string {
	if int(id) >= len(r.types) {
		return ""
	}
	return r.types[id].name
}

// New returns a fresh zero-valued component of the type registered under name.
func (r *Registry) New(name string) (Component, error) {
	id, err := r.ID(name)
	if err != nil {
		return nil, err
	}
	return reflect.New(r.types[id].typ.Elem()).Interface().(Component), nil //nolint:errcheck // checked on register
}

// Len returns the number of registered component types.
func (r *Registry) Len() int {
	return len(r.types)
}

// Names returns the registered component names in ID order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.types))
	for i, t := range r.types {
		names[i] = t.name
	}
	return names
}
