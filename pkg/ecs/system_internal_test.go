package ecs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tracker records the hooks called on it.
type tracker struct {
	calls   []string
	veto    bool
	added   []EntityID
	removed []EntityID
}

func (p *tracker) Begin(time.Duration, time.Duration) bool {
	p.calls = append(p.calls, "begin")
	return !p.veto
}

func (p *tracker) Process(e *Entity, _, _ time.Duration) {
	p.calls = append(p.calls, "process "+e.ID().String())
}

func (p *tracker) End(time.Duration, time.Duration) {
	p.calls = append(p.calls, "end")
}

func (p *tracker) EntityAdded(e *Entity)   { p.added = append(p.added, e.ID()) }
func (p *tracker) EntityRemoved(e *Entity) { p.removed = append(p.removed, e.ID()) }

func TestEntitySystem_Hooks(t *testing.T) {
	t.Parallel()

	w := NewWorld()
	proc := &tracker{}
	sys := NewEntitySystem("tracker", proc, All[*Health]())
	w.CreateGroup("logic", 1).Add(sys)

	e := w.CreateEntity()
	Attach(e, &Health{})
	tick(w)
	assert.Equal(t, []string{"begin", "process 1", "end"}, proc.calls)
	assert.Equal(t, []EntityID{e.ID()}, proc.added)

	proc.calls, proc.veto = nil, true
	tick(w)
	assert.Equal(t, []string{"begin"}, proc.calls, "begin can veto the loop")

	w.RemoveEntity(e.ID())
	tick(w)
	assert.Equal(t, []EntityID{e.ID()}, proc.removed)
}

func TestEntitySystem_InitReplaysExistingMembers(t *testing.T) {
	t.Parallel()

	w := NewWorld()
	w.RequestIndex("healthy", w.Aspect(All[*Health]()))
	a, b := w.CreateEntity(), w.CreateEntity()
	Attach(a, &Health{})
	Attach(b, &Health{})
	w.Reconcile()

	proc := &tracker{}
	sys := NewEntitySystem("late", proc, All[*Health]())
	w.CreateGroup("logic", 1).Add(sys)
	assert.ElementsMatch(t, []EntityID{a.ID(), b.ID()}, proc.added)
	assert.Equal(t, "healthy", sys.Index().Name(), "shares the existing index")

	w.Reconcile()
	assert.Len(t, proc.added, 2, "no duplicate Added")
}

func TestEntitySystem_ProcessorFunc(t *testing.T) {
	t.Parallel()

	w := NewWorld()
	n := 0
	w.CreateGroup("logic", 1).Add(NewEntitySystem("count", ProcessorFunc(func(*Entity, time.Duration, time.Duration) {
		n++
	}), All[*Position]()))
	Attach(w.CreateEntity(), &Position{})
	Attach(w.CreateEntity(), &Velocity{})
	tick(w)
	assert.Equal(t, 1, n)
}

func TestSystemGroup(t *testing.T) {
	t.Parallel()

	t.Run("one system per type", func(t *testing.T) {
		t.Parallel()
		g := NewWorld().CreateGroup("logic", 1)
		require.True(t, g.Add(&funcSystem{update: func() {}}))
		assertViolation(t, func() { g.Add(&funcSystem{update: func() {}}) })
	})

	t.Run("entity systems are keyed by processor type", func(t *testing.T) {
		t.Parallel()
		g := NewWorld().CreateGroup("logic", 1)
		require.True(t, g.Add(NewEntitySystem("a", &tracker{}, All[*Health]())))
		require.True(t, g.Add(NewEntitySystem("b", &counter{}, All[*Health]())))
		assertViolation(t, func() { g.Add(NewEntitySystem("c", &counter{}, All[*Position]())) })
		assert.Equal(t, 2, g.Len())
	})

	t.Run("locked while updating", func(t *testing.T) {
		t.Parallel()
		w := NewWorld()
		g := w.CreateGroup("logic", 1)
		g.Add(&funcSystem{update: func() { g.Add(&otherFuncSystem{update: func() {}}) }})
		assertViolation(t, func() { tick(w) })
	})

	t.Run("remove shuts the system down", func(t *testing.T) {
		t.Parallel()
		w := NewWorld()
		g := w.CreateGroup("logic", 1)
		proc := &tracker{}
		sys := NewEntitySystem("tracker", proc, All[*Health]())
		g.Add(sys)
		require.True(t, g.Remove(sys))
		assert.False(t, g.Remove(sys))
		assert.Equal(t, 0, sys.Index().Added().Len())

		Attach(w.CreateEntity(), &Health{})
		tick(w)
		assert.Empty(t, proc.added)
		assert.Empty(t, proc.calls)

		require.True(t, g.Add(NewEntitySystem("again", &tracker{}, All[*Health]())), "type slot is freed")
	})

	t.Run("get system", func(t *testing.T) {
		t.Parallel()
		g := NewWorld().CreateGroup("logic", 1)
		proc := &tracker{}
		fs := &funcSystem{update: func() {}}
		g.Add(NewEntitySystem("tracker", proc, All[*Health]()))
		g.Add(fs)

		got, ok := GetSystem[*tracker](g)
		require.True(t, ok)
		assert.Same(t, proc, got)
		gotFS, ok := GetSystem[*funcSystem](g)
		require.True(t, ok)
		assert.Same(t, fs, gotFS)
		_, ok = GetSystem[*counter](g)
		assert.False(t, ok)
	})
}

func TestWorld_UpdateMask(t *testing.T) {
	t.Parallel()

	const (
		logic  SystemMask = 1 << 0
		render SystemMask = 1 << 1
	)

	w := NewWorld()
	var ran []string
	w.CreateGroup("logic", logic).Add(&funcSystem{update: func() { ran = append(ran, "logic") }})
	w.CreateGroup("render", render).Add(&funcSystem{update: func() { ran = append(ran, "render") }})
	w.CreateGroup("both", logic|render).Add(&funcSystem{update: func() { ran = append(ran, "both") }})

	w.Update(0, 0, logic)
	assert.Equal(t, []string{"logic", "both"}, ran)

	ran = nil
	w.Update(0, 0, render)
	assert.Equal(t, []string{"render", "both"}, ran)

	ran = nil
	w.Update(0, 0, AllSystems)
	assert.Equal(t, []string{"logic", "render", "both"}, ran)

	ran = nil
	w.Update(0, 0, 1<<5)
	assert.Empty(t, ran)

	assertViolation(t, func() { w.CreateGroup("logic", logic) })
	g, ok := w.Group("render")
	require.True(t, ok)
	assert.Equal(t, render, g.Mask())
	assert.Len(t, w.Groups(), 3)
}
