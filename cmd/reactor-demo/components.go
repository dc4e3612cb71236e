package main

import (
	"github.com/argus-labs/reactor/pkg/ecs"
	"github.com/gdamore/tcell/v2"
)

type Position struct {
	ecs.ComponentBase
	X, Y float64
}

func (Position) Name() string { return "position" }

// Velocity is in cells per second.
type Velocity struct {
	ecs.ComponentBase
	X, Y float64
}

func (Velocity) Name() string { return "velocity" }

type Glyph struct {
	ecs.ComponentBase
	Rune  rune
	Color int32 // RGB hex
}

func (Glyph) Name() string { return "glyph" }

func (g *Glyph) style() tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.NewHexColor(g.Color))
}

// Lifetime removes its entity when it runs out.
type Lifetime struct {
	ecs.ComponentBase
	Remaining float64 // Seconds
}

func (Lifetime) Name() string { return "lifetime" }

// Frozen stops an entity from moving. It is toggled by disabling it rather than detaching it.
type Frozen struct {
	ecs.ComponentBase
}

func (Frozen) Name() string { return "frozen" }
