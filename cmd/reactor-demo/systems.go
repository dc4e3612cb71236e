package main

import (
	"math/rand/v2"
	"time"

	"github.com/argus-labs/reactor/pkg/ecs"
	"github.com/gdamore/tcell/v2"
)

const (
	logicMask  ecs.SystemMask = 1 << 0
	renderMask ecs.SystemMask = 1 << 1
)

var palette = []int32{0x5fd7ff, 0xffd75f, 0xff5f87, 0x87ff5f, 0xaf87ff}

// spawner keeps the particle count topped up.
type spawner struct {
	world  *ecs.World
	screen tcell.Screen
	target int
	alive  *ecs.Index
	prng   *rand.Rand
}

func (s *spawner) Init(w *ecs.World) {
	s.world = w
	s.alive = w.RequestIndex("particles", w.Aspect(ecs.All[*Glyph](), ecs.All[*Lifetime]()))
}

func (s *spawner) Update(time.Duration, time.Duration) {
	width, height := s.screen.Size()
	// The index only reflects spawns after the next reconcile, so cap spawns per update.
	for range min(s.target-s.alive.Len(), 8) {
		e := s.world.CreateEntity()
		ecs.Attach(e, &Position{X: s.prng.Float64() * float64(width), Y: s.prng.Float64() * float64(height)})
		ecs.Attach(e, &Velocity{X: s.prng.NormFloat64() * 8, Y: s.prng.NormFloat64() * 4})
		ecs.Attach(e, &Glyph{Rune: '*', Color: palette[s.prng.IntN(len(palette))]})
		ecs.Attach(e, &Lifetime{Remaining: 2 + s.prng.Float64()*6})
		ecs.Attach(e, &Frozen{})
		ecs.Disable[*Frozen](e)
	}
}

// movement integrates velocity and bounces entities off the screen edges.
type movement struct {
	screen tcell.Screen
}

func (m *movement) Process(e *ecs.Entity, _, dt time.Duration) {
	width, height := m.screen.Size()
	pos := ecs.Get[*Position](e)
	vel := ecs.Get[*Velocity](e)

	pos.X += vel.X * dt.Seconds()
	pos.Y += vel.Y * dt.Seconds()
	if pos.X < 0 || pos.X >= float64(width) {
		vel.X = -vel.X
		pos.X = max(0, min(pos.X, float64(width-1)))
	}
	if pos.Y < 0 || pos.Y >= float64(height) {
		vel.Y = -vel.Y
		pos.Y = max(0, min(pos.Y, float64(height-1)))
	}
}

// aging counts lifetimes down and removes expired entities.
type aging struct {
	world   *ecs.World
	expired int
}

func (a *aging) Process(e *ecs.Entity, _, dt time.Duration) {
	life := ecs.Get[*Lifetime](e)
	life.Remaining -= dt.Seconds()
	if life.Remaining <= 0 && !e.Removed() {
		a.world.RemoveEntity(e.ID())
	}
}

func (a *aging) EntityRemoved(e *ecs.Entity) {
	if e.Removed() {
		a.expired++
	}
}

// freezer toggles the Frozen component of every particle.
type freezer struct {
	frozen bool
	toggle bool
}

func (f *freezer) Begin(time.Duration, time.Duration) bool {
	if !f.toggle {
		return false
	}
	f.frozen = !f.frozen
	return true
}

func (f *freezer) Process(e *ecs.Entity, _, _ time.Duration) {
	ecs.SetComponentEnabled[*Frozen](e, f.frozen)
}

func (f *freezer) End(time.Duration, time.Duration) {
	f.toggle = false
}
