package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntity_AttachDetach(t *testing.T) {
	t.Parallel()

	w := NewWorld()
	e := w.CreateEntity()

	pos := Attach(e, &Position{X: 1, Y: 2})
	assert.Same(t, e, pos.Owner())
	assert.True(t, Has[*Position](e))
	assert.False(t, Has[*Velocity](e))
	assert.Same(t, pos, Get[*Position](e))

	posID, err := w.Registry().ID("position")
	require.NoError(t, err)
	assert.True(t, e.Mask().Contains(posID))

	_, ok := TryGet[*Velocity](e)
	assert.False(t, ok)

	detached := Detach[*Position](e)
	assert.Same(t, pos, detached)
	assert.Nil(t, pos.Owner())
	assert.False(t, Has[*Position](e))
	assert.False(t, e.Mask().Contains(posID))

	// A detached component can be attached elsewhere.
	other := w.CreateEntity()
	Attach(other, pos)
	assert.Same(t, other, pos.Owner())
}

func TestEntity_ContractViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func(w *World, e *Entity)
	}{
		{
			name: "attach twice",
			fn: func(_ *World, e *Entity) {
				Attach(e, &Position{})
				Attach(e, &Position{})
			},
		},
		{
			name: "attach component owned by another entity",
			fn: func(w *World, e *Entity) {
				pos := Attach(e, &Position{})
				Attach(w.CreateEntity(), pos)
			},
		},
		{
			name: "attach nil",
			fn: func(_ *World, e *Entity) {
				AttachComponent(e, nil)
			},
		},
		{
			name: "attach to removed entity",
			fn: func(w *World, e *Entity) {
				w.RemoveEntity(e.ID())
				Attach(e, &Health{})
			},
		},
		{
			name: "get missing component",
			fn: func(_ *World, e *Entity) {
				Get[*Velocity](e)
			},
		},
		{
			name: "detach missing component",
			fn: func(_ *World, e *Entity) {
				Attach(e, &Velocity{})
				Detach[*Position](e)
			},
		},
		{
			name: "disable missing component",
			fn: func(_ *World, e *Entity) {
				Disable[*Frozen](e)
			},
		},
		{
			name: "detach from removed entity",
			fn: func(w *World, e *Entity) {
				Attach(e, &Position{})
				w.RemoveEntity(e.ID())
				Detach[*Position](e)
			},
		},
		{
			name: "disable component of removed entity",
			fn: func(w *World, e *Entity) {
				Attach(e, &Velocity{})
				w.RemoveEntity(e.ID())
				Disable[*Velocity](e)
			},
		},
		{
			name: "enable component of removed entity",
			fn: func(w *World, e *Entity) {
				Attach(e, &Velocity{})
				Disable[*Velocity](e)
				w.RemoveEntity(e.ID())
				Enable[*Velocity](e)
			},
		},
		{
			name: "disable removed entity",
			fn: func(w *World, e *Entity) {
				w.RemoveEntity(e.ID())
				e.SetEnabled(false)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := NewWorld()
			e := w.CreateEntity()
			assertViolation(t, func() { tt.fn(w, e) })
		})
	}
}

func TestEntity_ComponentEnabled(t *testing.T) {
	t.Parallel()

	w := NewWorld()
	idx := w.RequestIndex("moving", w.Aspect(All[*Position](), All[*Velocity]()))
	e := w.CreateEntity()
	Attach(e, &Position{})
	vel := Attach(e, &Velocity{})
	w.Reconcile()
	require.True(t, idx.Contains(e))

	Disable[*Velocity](e)
	assert.False(t, vel.Enabled())
	assert.True(t, Has[*Velocity](e), "disabled components stay attached")
	assert.True(t, idx.Contains(e), "membership changes only on reconcile")
	w.Reconcile()
	assert.False(t, idx.Contains(e))

	Enable[*Velocity](e)
	w.Reconcile()
	assert.True(t, idx.Contains(e))

	// Attaching a component that is already disabled leaves its bit clear.
	frozen := &Frozen{}
	frozen.disabled = true
	Attach(e, frozen)
	frozenID, err := w.Registry().ID("frozen")
	require.NoError(t, err)
	assert.False(t, e.Mask().Contains(frozenID))
}

func TestEntity_SetEnabled(t *testing.T) {
	t.Parallel()

	w := NewWorld()
	idx := w.RequestIndex("positioned", w.Aspect(All[*Position]()))
	e := w.CreateEntity()
	Attach(e, &Position{})
	w.Reconcile()
	require.True(t, idx.Contains(e))

	e.SetEnabled(false)
	w.Reconcile()
	assert.False(t, e.Enabled())
	assert.False(t, idx.Contains(e))
	assert.True(t, Has[*Position](e))

	e.SetEnabled(true)
	w.Reconcile()
	assert.True(t, idx.Contains(e))
}

func TestEntity_Components(t *testing.T) {
	t.Parallel()

	w := NewWorld()
	e := w.CreateEntity()
	Attach(e, &Health{HP: 3})
	Attach(e, &Position{X: 1})
	Attach(e, &Velocity{})

	names := make([]string, 0, e.Len())
	for _, c := range e.Components() {
		names = append(names, c.Name())
	}
	// Ordered by component ID, which follows first use.
	assert.Equal(t, []string{"health", "position", "velocity"}, names)
}

func TestEntity_DeepCopy(t *testing.T) {
	t.Parallel()

	w := NewWorld()
	src := w.CreateEntity()
	pos := Attach(src, &Position{X: 3, Y: 4})
	inv := Attach(src, &Inventory{Items: []string{"sword"}})
	Attach(src, &Frozen{})
	Disable[*Frozen](src)
	SetMixin[markerSystem](pos, "cached")

	clone := src.DeepCopy(SequentialID(100))
	require.NotNil(t, clone)
	assert.Equal(t, SequentialID(100), clone.ID())
	assert.Same(t, w, clone.World())

	clonePos := Get[*Position](clone)
	assert.NotSame(t, pos, clonePos)
	assert.InDelta(t, 3.0, clonePos.X, 0)
	assert.InDelta(t, 4.0, clonePos.Y, 0)
	assert.Same(t, clone, clonePos.Owner())
	_, hasMixin := Mixin[markerSystem](clonePos)
	assert.False(t, hasMixin, "mix-ins are not copied")

	cloneInv := Get[*Inventory](clone)
	cloneInv.Items[0] = "shield"
	assert.Equal(t, "sword", inv.Items[0], "Cloner controls the copy")

	assert.False(t, Get[*Frozen](clone).Enabled(), "enabled state is copied")

	// Taken IDs are rejected.
	assertViolation(t, func() { src.DeepCopy(SequentialID(100)) })
}

type markerSystem struct{}

func TestEntity_Mixins(t *testing.T) {
	t.Parallel()

	type renderer struct{}
	type physics struct{}

	pos := &Position{}
	_, ok := Mixin[renderer](pos)
	assert.False(t, ok)

	SetMixin[renderer](pos, 7)
	SetMixin[physics](pos, "body")
	v, ok := Mixin[renderer](pos)
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	assert.True(t, RemoveMixin[renderer](pos))
	assert.False(t, RemoveMixin[renderer](pos))
	v, ok = Mixin[physics](pos)
	assert.True(t, ok)
	assert.Equal(t, "body", v)
}
