package ecs

import "github.com/rotisserie/eris"

var (
	// ErrEntityNotFound is returned when attempting to operate on a non-existent entity.
	ErrEntityNotFound = eris.New("entity does not exist")

	// ErrEntityExists is returned when an entity ID is already present in the world.
	ErrEntityExists = eris.New("entity already exists")

	// ErrComponentNotFound is returned when a component name or type is not registered.
	ErrComponentNotFound = eris.New("component is not registered")

	// ErrComponentNameTaken is returned when two distinct types report the same component name.
	ErrComponentNameTaken = eris.New("component name is registered to another type")

	// ErrInvalidComponentType is returned when a component type is not a pointer to a struct.
	ErrInvalidComponentType = eris.New("component type must be a pointer to a struct")

	// ErrTooManyComponents is returned when the registry runs out of component IDs.
	ErrTooManyComponents = eris.New("max number of component types exceeded")

	// ErrInvalidSearch is returned when a search expression fails to compile or evaluate.
	ErrInvalidSearch = eris.New("invalid search expression")
)
