package ecs

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rotisserie/eris"
)

// SearchParam contains parameters for a world search.
// We use expr lang for the where clause to filter the entities, please refer to its documentation
// for more details: https://expr-lang.org/docs/getting-started.
type SearchParam struct {
	Find    []string // Component names an entity must have enabled
	Exclude []string // Component names an entity must not have enabled
	Where   string   // Optional expr language string to filter the results
}

// Search returns the enabled, live entities matching params, in handle order. Unlike an index, a
// search scans the world once and sees component changes that have not been reconciled yet.
func (w *World) Search(params SearchParam) ([]*Entity, error) {
	if len(params.Find) == 0 {
		return nil, eris.Wrap(ErrInvalidSearch, "component list cannot be empty")
	}
	aspect, err := w.aspectFromNames(params.Find, params.Exclude)
	if err != nil {
		return nil, eris.Wrap(err, "invalid search params")
	}
	filter, err := compileWhere(params.Where)
	if err != nil {
		return nil, err
	}

	results := make([]*Entity, 0)
	for e := range w.Entities() {
		if !e.matchable() || !aspect.MatchesEntity(e) {
			continue
		}
		ok, err := runWhere(filter, e)
		if err != nil {
			return nil, err
		}
		if ok {
			results = append(results, e)
		}
	}
	return results, nil
}

// Search returns the members of the index for which the where clause evaluates to true. An empty
// clause returns every member.
func (idx *Index) Search(where string) ([]*Entity, error) {
	filter, err := compileWhere(where)
	if err != nil {
		return nil, err
	}

	results := make([]*Entity, 0)
	for _, e := range idx.entities {
		ok, err := runWhere(filter, e)
		if err != nil {
			return nil, err
		}
		if ok {
			results = append(results, e)
		}
	}
	return results, nil
}

func (w *World) aspectFromNames(find, exclude []string) (Aspect, error) {
	resolve := func(names []string) ([]ComponentID, error) {
		ids := make([]ComponentID, 0, len(names))
		for _, name := range names {
			id, err := w.registry.ID(name)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		return ids, nil
	}

	all, err := resolve(find)
	if err != nil {
		return Aspect{}, err
	}
	none, err := resolve(exclude)
	if err != nil {
		return Aspect{}, err
	}
	return NewAspectFromIDs(all, nil, none), nil
}

// compileWhere compiles the where clause, returning a nil program for an empty clause.
func compileWhere(where string) (*vm.Program, error) {
	if where == "" {
		return nil, nil //nolint:nilnil // no filter
	}
	// Compile the expression and check that the return type is boolean.
	program, err := expr.Compile(where, expr.AsBool())
	if err != nil {
		return nil, eris.Wrapf(ErrInvalidSearch, "failed to parse where clause: %v", err)
	}
	return program, nil
}

func runWhere(filter *vm.Program, e *Entity) (bool, error) {
	if filter == nil {
		return true, nil
	}

	output, err := expr.Run(filter, e.ToMap())
	if err != nil {
		return false, eris.Wrapf(ErrInvalidSearch, "failed to run filter expression: %v", err)
	}

	// The program is compiled without an environment, so a clause like health.hp can't be type
	// checked until it runs.
	match, ok := output.(bool)
	if !ok {
		return false, eris.Wrap(ErrInvalidSearch, "where clause did not evaluate to a bool")
	}
	return match, nil
}

// ToMap converts an entity to a map of component name to component. A "_id" key holds the entity
// ID string.
func (e *Entity) ToMap() map[string]any {
	data := make(map[string]any, len(e.components)+1)
	data["_id"] = e.id.String()
	for _, c := range e.components {
		data[c.Name()] = c
	}
	return data
}
