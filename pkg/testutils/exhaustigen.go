package testutils

import "github.com/argus-labs/reactor/pkg/assert"

const maxGenDepth = 32

// Gen enumerates every combination of bounded choices made inside a loop:
//
//	g := testutils.NewGen()
//	for !g.Done() {
//		n := g.Intn(3) // 0..3
//		b := g.Bool()
//		...
//	}
//
// Each iteration replays the same sequence of calls and Done advances the choices like an odometer,
// incrementing the last choice that is below its bound and resetting everything after it. Later
// choices may depend on earlier ones.
//
// See https://matklad.github.io/2021/11/07/generate-all-the-things.html.
type Gen struct {
	started bool
	values  []uint32
	bounds  []uint32
	pos     int
}

func NewGen() *Gen {
	return &Gen{}
}

// Done reports whether all combinations have been produced. It must be called before every
// iteration, including the first.
func (g *Gen) Done() bool {
	if !g.started {
		g.started = true
		return false
	}
	for i := len(g.values) - 1; i >= 0; i-- {
		if g.values[i] < g.bounds[i] {
			g.values[i]++
			g.values, g.bounds = g.values[:i+1], g.bounds[:i+1]
			g.pos = 0
			return false
		}
	}
	return true
}

func (g *Gen) next(bound uint32) uint32 {
	assert.That(g.pos < maxGenDepth, "exhaustigen: exceeded maximum depth of %d", maxGenDepth)
	if g.pos == len(g.values) {
		g.values = append(g.values, 0)
		g.bounds = append(g.bounds, 0)
	}
	g.bounds[g.pos] = bound
	v := g.values[g.pos]
	g.pos++
	return v
}

// Intn returns a value in [0, bound], bound included.
func (g *Gen) Intn(bound int) int {
	return int(g.next(uint32(bound))) //nolint:gosec // bound is small in tests
}

func (g *Gen) Bool() bool {
	return g.Intn(1) == 1
}

// Mask returns a subset of [0, n). All 2^n subsets are produced across iterations.
func (g *Gen) Mask(n int) []uint32 {
	assert.That(n <= 16, "exhaustigen: mask of %d bits would not terminate in reasonable time", n)
	var members []uint32
	for i := range n {
		if g.Bool() {
			members = append(members, uint32(i)) //nolint:gosec // n is small
		}
	}
	return members
}
