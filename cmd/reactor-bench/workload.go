package main

import (
	"math/rand/v2"
	"time"

	"github.com/argus-labs/reactor/pkg/ecs"
)

type Position struct {
	ecs.ComponentBase
	X, Y float64
}

func (Position) Name() string { return "position" }

type Velocity struct {
	ecs.ComponentBase
	X, Y float64
}

func (Velocity) Name() string { return "velocity" }

type Health struct {
	ecs.ComponentBase
	HP int
}

func (Health) Name() string { return "health" }

type Frozen struct {
	ecs.ComponentBase
}

func (Frozen) Name() string { return "frozen" }

func move(e *ecs.Entity, _, dt time.Duration) {
	pos := ecs.Get[*Position](e)
	vel := ecs.Get[*Velocity](e)
	pos.X += vel.X * dt.Seconds()
	pos.Y += vel.Y * dt.Seconds()
}

// churn keeps the world at its target size while randomly adding, removing and toggling
// components on a fraction of the entities every tick.
type churn struct {
	world  *ecs.World
	prng   *rand.Rand
	rate   float64
	target int
	live   []*ecs.Entity
}

func (c *churn) Init(*ecs.World) {}

func (c *churn) Update(time.Duration, time.Duration) {
	for len(c.live) < c.target {
		e := c.world.CreateEntity()
		ecs.Attach(e, &Position{})
		if c.prng.IntN(2) == 0 {
			ecs.Attach(e, &Velocity{X: c.prng.NormFloat64(), Y: c.prng.NormFloat64()})
		}
		ecs.Attach(e, &Health{HP: 100})
		c.live = append(c.live, e)
	}

	changes := int(float64(len(c.live)) * c.rate)
	for range changes {
		i := c.prng.IntN(len(c.live))
		e := c.live[i]
		switch c.prng.IntN(4) {
		case 0:
			if ecs.Has[*Velocity](e) {
				ecs.Detach[*Velocity](e)
			} else {
				ecs.Attach(e, &Velocity{X: 1})
			}
		case 1:
			if f, ok := ecs.TryGet[*Frozen](e); ok {
				ecs.SetComponentEnabled[*Frozen](e, !f.Enabled())
			} else {
				ecs.Attach(e, &Frozen{})
			}
		case 2:
			e.SetEnabled(!e.Enabled())
		default:
			c.world.RemoveEntity(e.ID())
			c.live[i] = c.live[len(c.live)-1]
			c.live = c.live[:len(c.live)-1]
		}
		if len(c.live) == 0 {
			return
		}
	}
}
