// Package chunk implements the world grid: pending chunk builders that
// collect spaces, their one-time promotion into chunks, and the resumable
// materialization that turns a chunk into blocks.
package chunk

import (
	"errors"
	"fmt"
	"slices"

	"github.com/samdwyer/burrow/internal/builder"
	"github.com/samdwyer/burrow/internal/geom"
	"github.com/samdwyer/burrow/internal/space"
)

var (
	// ErrPromoted is returned when a builder is promoted twice.
	ErrPromoted = errors.New("chunk builder already promoted")
	// ErrDuplicateSpace is returned when the same space is attached twice.
	ErrDuplicateSpace = errors.New("space already attached")
)

// KeyOf returns the center of the chunk owning p. Each axis is rounded to
// the nearest multiple of size, halves away from zero. size must be odd.
func KeyOf(p geom.IntVector2, size int) geom.IntVector2 {
	return geom.Vec(roundTo(p.X, size), roundTo(p.Y, size))
}

func roundTo(v, size int) int {
	q, rem := v/size, v%size
	if rem < 0 {
		rem = -rem
	}
	if 2*rem >= size {
		if v < 0 {
			q--
		} else {
			q++
		}
	}
	return q * size
}

// Corners returns the inclusive bottom-left and top-right cells of the
// chunk centered on key.
func Corners(key geom.IntVector2, size int) (geom.IntVector2, geom.IntVector2) {
	half := (size - 1) / 2
	return key.Sub(geom.Vec(half, half)), key.Add(geom.Vec(half, half))
}

// Row is the chunk's vertical grid index; 0 holds the origin and rows
// grow upward.
func Row(key geom.IntVector2, size int) int { return key.Y / size }

// Depth counts chunk rows below the origin row. Rows at or above it are 0.
func Depth(key geom.IntVector2, size int) int { return max(0, -Row(key, size)) }

// FillFor is the block used where no space claims a cell: open air at or
// above the surface row, dirt below it.
func FillFor(key geom.IntVector2, size, surfaceLevel int) space.BlockType {
	if Row(key, size) >= surfaceLevel {
		return space.BlockNone
	}
	return space.BlockDirt
}

// Builder is a pending grid cell. It records the edges it shares with
// promoted neighbours and clamps every space builder added to it against
// them.
type Builder struct {
	key        geom.IntVector2
	size       int
	lo, hi     geom.IntVector2
	fill       space.BlockType
	boundaries map[geom.Direction]int
	builders   []builder.SpaceBuilder
	spaces     []*space.Space
	enemies    []space.EnemySpawn
	populated  bool
	promoted   bool
}

// NewBuilder creates a pending chunk centered on key.
func NewBuilder(key geom.IntVector2, size, surfaceLevel int) *Builder {
	lo, hi := Corners(key, size)
	return &Builder{
		key:        key,
		size:       size,
		lo:         lo,
		hi:         hi,
		fill:       FillFor(key, size, surfaceLevel),
		boundaries: make(map[geom.Direction]int),
	}
}

func (b *Builder) Key() geom.IntVector2        { return b.key }
func (b *Builder) Size() int                   { return b.size }
func (b *Builder) Min() geom.IntVector2        { return b.lo }
func (b *Builder) Max() geom.IntVector2        { return b.hi }
func (b *Builder) Fill() space.BlockType       { return b.fill }
func (b *Builder) Depth() int                  { return Depth(b.key, b.size) }
func (b *Builder) Populated() bool             { return b.populated }
func (b *Builder) MarkPopulated()              { b.populated = true }
func (b *Builder) Spaces() []*space.Space      { return slices.Clone(b.spaces) }
func (b *Builder) Promoted() bool              { return b.promoted }
func (b *Builder) Enemies() []space.EnemySpawn { return slices.Clone(b.enemies) }

// Builders returns the space builders added to this chunk.
func (b *Builder) Builders() []builder.SpaceBuilder { return slices.Clone(b.builders) }

// Contains reports whether p lies in this chunk.
func (b *Builder) Contains(p geom.IntVector2) bool {
	return p.X >= b.lo.X && p.X <= b.hi.X && p.Y >= b.lo.Y && p.Y <= b.hi.Y
}

// Edge is this chunk's outermost cell coordinate in d.
func (b *Builder) Edge(d geom.Direction) int {
	switch d {
	case geom.Up:
		return b.hi.Y
	case geom.Down:
		return b.lo.Y
	case geom.Right:
		return b.hi.X
	default:
		return b.lo.X
	}
}

// Boundary returns the recorded limit in d, if any.
func (b *Builder) Boundary(d geom.Direction) (int, bool) {
	v, ok := b.boundaries[d]
	return v, ok
}

// Boundaries returns a copy of the recorded limits.
func (b *Builder) Boundaries() map[geom.Direction]int {
	out := make(map[geom.Direction]int, len(b.boundaries))
	for d, v := range b.boundaries {
		out[d] = v
	}
	return out
}

// AddBoundary records that the neighbour in d is finalized. Unbuilt space
// builders already in the chunk are squeezed against the shared edge.
func (b *Builder) AddBoundary(d geom.Direction) error {
	if err := geom.RequireCardinal(d); err != nil {
		return err
	}
	edge := b.Edge(d)
	b.boundaries[d] = edge
	for _, sb := range b.builders {
		if sb.Built() {
			continue
		}
		if err := sb.AddBoundary(d, edge); err != nil {
			return err
		}
	}
	return nil
}

// SetBoundary records a limit directly. Storage uses it when rehydrating.
func (b *Builder) SetBoundary(d geom.Direction, v int) error {
	if err := geom.RequireCardinal(d); err != nil {
		return err
	}
	b.boundaries[d] = v
	return nil
}

// AddSpace clamps sb against every recorded boundary and keeps it.
func (b *Builder) AddSpace(sb builder.SpaceBuilder) error {
	for _, d := range geom.Cardinals {
		v, ok := b.boundaries[d]
		if !ok {
			continue
		}
		if err := sb.AddBoundary(d, v); err != nil {
			return fmt.Errorf("chunk %v: %w", b.key, err)
		}
	}
	b.builders = append(b.builders, sb)
	return nil
}

// Attach registers a finished space with this chunk. Attachment order is
// ownership order during materialization.
func (b *Builder) Attach(sp *space.Space) error {
	if b.promoted {
		return fmt.Errorf("chunk %v: %w", b.key, ErrPromoted)
	}
	if slices.Contains(b.spaces, sp) {
		return fmt.Errorf("chunk %v: %s: %w", b.key, sp.Name(), ErrDuplicateSpace)
	}
	b.spaces = append(b.spaces, sp)
	return nil
}

// HasSpace reports whether sp is attached.
func (b *Builder) HasSpace(sp *space.Space) bool { return slices.Contains(b.spaces, sp) }

// AddEnemy queues an enemy not owned by any space.
func (b *Builder) AddEnemy(e space.EnemySpawn) {
	b.enemies = append(b.enemies, e)
}

// Promote finalizes the builder into a chunk and returns the
// materialization that will fill it. It may be called once.
func (b *Builder) Promote(loader Loader) (*Chunk, *Materialization, error) {
	if b.promoted {
		return nil, nil, fmt.Errorf("chunk %v: %w", b.key, ErrPromoted)
	}
	b.promoted = true
	c := &Chunk{
		key:     b.key,
		size:    b.size,
		lo:      b.lo,
		hi:      b.hi,
		fill:    b.fill,
		spaces:  slices.Clone(b.spaces),
		enemies: slices.Clone(b.enemies),
		cells:   make([]space.Cell, b.size*b.size),
		owners:  make([]*space.Space, b.size*b.size),
	}
	return c, newMaterialization(c, loader), nil
}

// Chunk is a finalized grid cell. Its cells are filled by its
// materialization and never change afterwards. Spaces attached after
// promotion answer queries but never reach the cells.
type Chunk struct {
	key     geom.IntVector2
	size    int
	lo, hi  geom.IntVector2
	fill    space.BlockType
	spaces  []*space.Space
	late    []*space.Space
	enemies []space.EnemySpawn
	cells   []space.Cell
	owners  []*space.Space
	filled  int
	done    bool
}

func (c *Chunk) Key() geom.IntVector2  { return c.key }
func (c *Chunk) Size() int             { return c.size }
func (c *Chunk) Min() geom.IntVector2  { return c.lo }
func (c *Chunk) Max() geom.IntVector2  { return c.hi }
func (c *Chunk) Fill() space.BlockType { return c.fill }

// Spaces returns the spaces attached before promotion, which are the ones
// the cells are built from.
func (c *Chunk) Spaces() []*space.Space { return slices.Clone(c.spaces) }

// Late returns the spaces attached after promotion.
func (c *Chunk) Late() []*space.Space { return slices.Clone(c.late) }

// Attach records a space registered after promotion.
func (c *Chunk) Attach(sp *space.Space) error {
	if c.HasSpace(sp) {
		return fmt.Errorf("chunk %v: %s: %w", c.key, sp.Name(), ErrDuplicateSpace)
	}
	c.late = append(c.late, sp)
	return nil
}

// HasSpace reports whether sp is attached, before or after promotion.
func (c *Chunk) HasSpace(sp *space.Space) bool {
	return slices.Contains(c.spaces, sp) || slices.Contains(c.late, sp)
}

// Enemies returns the spawns the chunk holds outside any space.
func (c *Chunk) Enemies() []space.EnemySpawn { return slices.Clone(c.enemies) }

// Materialized reports whether every cell has been filled.
func (c *Chunk) Materialized() bool { return c.done }

// Contains reports whether p lies in this chunk.
func (c *Chunk) Contains(p geom.IntVector2) bool {
	return p.X >= c.lo.X && p.X <= c.hi.X && p.Y >= c.lo.Y && p.Y <= c.hi.Y
}

func (c *Chunk) index(p geom.IntVector2) int {
	return (p.Y-c.lo.Y)*c.size + (p.X - c.lo.X)
}

// CellAt returns the materialized cell at p. It reports false outside the
// chunk or before the cell has been filled.
func (c *Chunk) CellAt(p geom.IntVector2) (space.Cell, bool) {
	if !c.Contains(p) {
		return space.Cell{}, false
	}
	i := c.index(p)
	if i >= c.filled {
		return space.Cell{}, false
	}
	return c.cells[i], true
}

// Owner returns the space that supplied the cell at p, or nil for fill.
func (c *Chunk) Owner(p geom.IntVector2) *space.Space {
	if !c.Contains(p) {
		return nil
	}
	i := c.index(p)
	if i >= c.filled {
		return nil
	}
	return c.owners[i]
}

// ContainingSpace returns the first attached space containing p, looking
// at late spaces after the rest.
func (c *Chunk) ContainingSpace(p geom.IntVector2) *space.Space {
	for _, list := range [][]*space.Space{c.spaces, c.late} {
		for _, sp := range list {
			if sp.Contains(p) {
				return sp
			}
		}
	}
	return nil
}
