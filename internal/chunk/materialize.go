package chunk

import (
	"time"

	"github.com/samdwyer/burrow/internal/geom"
	"github.com/samdwyer/burrow/internal/space"
)

// Loader receives everything a materialization places. It builds whatever
// runtime representation the host needs; the chunk keeps only the cell data.
type Loader interface {
	LoadBlock(kind space.BlockType, pos geom.IntVector2)
	LoadHazard(h space.Hazard, pos geom.IntVector2)
	LoadProp(kind space.PropType, pos geom.IntVector2)
	LoadEnemy(kind string, pos geom.IntVector2)
}

// NopLoader discards everything.
type NopLoader struct{}

func (NopLoader) LoadBlock(space.BlockType, geom.IntVector2) {}
func (NopLoader) LoadHazard(space.Hazard, geom.IntVector2)   {}
func (NopLoader) LoadProp(space.PropType, geom.IntVector2)   {}
func (NopLoader) LoadEnemy(string, geom.IntVector2)          {}

// Materialization fills a chunk's cells a slice at a time. Each call to
// Step runs until its budget is spent and then returns, picking up at the
// next cell on the following call.
type Materialization struct {
	chunk   *Chunk
	loader  Loader
	steps   int
	enemies int
}

func newMaterialization(c *Chunk, loader Loader) *Materialization {
	if loader == nil {
		loader = NopLoader{}
	}
	return &Materialization{chunk: c, loader: loader}
}

// Chunk returns the chunk being filled.
func (m *Materialization) Chunk() *Chunk { return m.chunk }

// Done reports whether the chunk is fully materialized.
func (m *Materialization) Done() bool { return m.chunk.done }

// Steps returns how many times Step has run.
func (m *Materialization) Steps() int { return m.steps }

// Enemies returns how many enemies were handed to the loader.
func (m *Materialization) Enemies() int { return m.enemies }

// Step fills cells until budget has elapsed on clock, always filling at
// least one. It reports whether the chunk is complete.
func (m *Materialization) Step(budget time.Duration, clock func() time.Time) bool {
	c := m.chunk
	if c.done {
		return true
	}
	if clock == nil {
		clock = time.Now
	}
	m.steps++
	start := clock()

	total := len(c.cells)
	for c.filled < total {
		i := c.filled
		p := geom.Vec(c.lo.X+i%c.size, c.lo.Y+i/c.size)
		m.fillCell(i, p)
		c.filled++
		if c.filled < total && clock().Sub(start) >= budget {
			return false
		}
	}

	m.loadEnemies()
	c.done = true
	return true
}

func (m *Materialization) fillCell(i int, p geom.IntVector2) {
	c := m.chunk
	cell := space.Cell{Block: c.fill}
	for _, sp := range c.spaces {
		if sp.Contains(p) {
			cell = sp.Cell(p)
			c.owners[i] = sp
			break
		}
	}
	c.cells[i] = cell

	if cell.Block.IsSolid() {
		m.loader.LoadBlock(cell.Block, p)
	}
	if cell.Hazard.Type != space.HazardNone {
		m.loader.LoadHazard(cell.Hazard, p)
	}
	if cell.Prop != space.PropNone {
		m.loader.LoadProp(cell.Prop, p)
	}
}

// loadEnemies hands over every spawn positioned inside the chunk, space
// spawns first in attachment order, then the chunk's own.
func (m *Materialization) loadEnemies() {
	c := m.chunk
	for _, sp := range c.spaces {
		for _, e := range sp.Enemies() {
			if c.Contains(e.Position) {
				m.loader.LoadEnemy(e.Kind, e.Position)
				m.enemies++
			}
		}
	}
	for _, e := range c.enemies {
		m.loader.LoadEnemy(e.Kind, e.Position)
		m.enemies++
	}
}
