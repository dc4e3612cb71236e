// Package termview draws entities onto a terminal screen. Each drawable entity owns one Cell in a
// data cache, the renderer walks the cache densely instead of the entities.
package termview

import (
	"time"

	"github.com/argus-labs/reactor/pkg/ecs"
	"github.com/gdamore/tcell/v2"
)

// Cell is a single glyph at a screen position.
type Cell struct {
	X, Y  int
	Rune  rune
	Style tcell.Style
}

// RefreshFunc updates the cell of an entity before it is drawn.
type RefreshFunc func(e *ecs.Entity, cell *Cell)

// Renderer draws a data cache of cells. It is also a System so it can run in its own group,
// selected by a render mask separate from the simulation groups.
type Renderer struct {
	screen  tcell.Screen
	cache   *ecs.DataCache[Cell]
	refresh RefreshFunc
	overlay []textLine
}

type textLine struct {
	x, y  int
	text  string
	style tcell.Style
}

var _ ecs.System = (*Renderer)(nil)

// NewRenderer creates a renderer for cache. refresh may be nil if cells are kept up to date by
// other systems.
func NewRenderer(screen tcell.Screen, cache *ecs.DataCache[Cell], refresh RefreshFunc) *Renderer {
	return &Renderer{screen: screen, cache: cache, refresh: refresh}
}

func (r *Renderer) Init(*ecs.World) {}

func (r *Renderer) Update(time.Duration, time.Duration) {
	r.Draw()
}

// Text queues a line of text drawn on top of the cells in the next frame only.
func (r *Renderer) Text(x, y int, text string, style tcell.Style) {
	r.overlay = append(r.overlay, textLine{x: x, y: y, text: text, style: style})
}

// Draw renders one frame. Cells outside the screen are skipped.
func (r *Renderer) Draw() {
	width, height := r.screen.Size()
	r.screen.Clear()

	cells := r.cache.Data()
	for i := range cells {
		cell := &cells[i]
		if r.refresh != nil {
			r.refresh(r.cache.EntityAt(i), cell)
		}
		if cell.X < 0 || cell.Y < 0 || cell.X >= width || cell.Y >= height {
			continue
		}
		r.screen.SetContent(cell.X, cell.Y, cell.Rune, nil, cell.Style)
	}

	for _, line := range r.overlay {
		x := line.x
		for _, ch := range line.text {
			if x >= width {
				break
			}
			r.screen.SetContent(x, line.y, ch, nil, line.style)
			x++
		}
	}
	r.overlay = r.overlay[:0]

	r.screen.Show()
}
