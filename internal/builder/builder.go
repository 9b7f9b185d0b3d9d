// Package builder holds the mutable drafts that are squeezed against chunk
// edges and each other before being frozen into spaces.
//
// Every builder keeps a table of its extreme coordinate in each cardinal
// direction. The table is recomputed from the builder's own fields after
// every mutation, never lazily.
package builder

import (
	"errors"
	"fmt"

	"github.com/samdwyer/burrow/internal/geom"
	"github.com/samdwyer/burrow/internal/rng"
	"github.com/samdwyer/burrow/internal/space"
)

// ErrEmpty is returned by Build when a builder has no geometry left.
var ErrEmpty = errors.New("builder has no geometry")

// Kind tags the concrete builder family.
type Kind string

const (
	KindRoom          Kind = "room"
	KindShaft         Kind = "shaft"
	KindTunnel        Kind = "tunnel"
	KindCorridor      Kind = "corridor"
	KindElevator      Kind = "elevator"
	KindDen           Kind = "den"
	KindRotatedTunnel Kind = "rotated_tunnel"
	KindLaboratory    Kind = "laboratory"
	KindPlexus        Kind = "plexus"
)

// SpaceBuilder is a mutable draft of one space.
type SpaceBuilder interface {
	Kind() Kind
	Shift(v geom.IntVector2)
	MaximalValue(d geom.Direction) (int, error)
	DistanceFrom(d geom.Direction, amount int) (int, error)
	Clamp(d geom.Direction, amount int) error
	Align(d geom.Direction, amount int) error
	Cut(d geom.Direction, amount int) error
	AddBoundary(d geom.Direction, amount int) error
	Boundary(d geom.Direction) (int, bool)
	Bounds() (lo, hi geom.IntVector2)
	Contains(p geom.IntVector2) bool
	RandomPoint() geom.IntVector2
	IsValid() bool
	AddModifier(t space.ModifierType)
	SetParent(name string)
	Build(name string) (*space.Space, error)
	Built() bool
}

// Dependent builders produce secondary builders once they are built. The
// secondaries are built after their owner and carry its name as parent.
type Dependent interface {
	Dependents() []SpaceBuilder
}

// EnemyTable picks enemy kinds with a risk cost.
type EnemyTable interface {
	Pick(r *rng.Source) (kind string, cost int, ok bool)
}

// Populator builders accept an enemy budget before Build.
type Populator interface {
	Populate(table EnemyTable, risk int)
}

// shaper is the kind-specific geometry behind a builder.
type shaper interface {
	extreme(d geom.Direction) int
	align(d geom.Direction, amount int)
	cut(d geom.Direction, overhang int)
	shift(v geom.IntVector2)
	contains(p geom.IntVector2) bool
	shapes() []*geom.Shape
	valid() bool
	randomPoint(r *rng.Source) geom.IntVector2
}

// decorator is implemented by builders that add overrides, hazards, props
// or enemies to their space at Build time.
type decorator interface {
	decorate(s *space.Space) error
}

type capper interface {
	isCapped() bool
}

// base carries the behavior shared by every builder. Concrete builders
// embed it and point self at themselves.
type base struct {
	kind       Kind
	self       shaper
	rng        *rng.Source
	maximal    [4]int
	boundaries map[geom.Direction]int
	modifiers  []space.ModifierType
	parent     string
	built      bool
}

func (b *base) init(kind Kind, self shaper, r *rng.Source) {
	b.kind = kind
	b.self = self
	b.rng = r
	b.boundaries = make(map[geom.Direction]int)
	b.recompute()
}

func (b *base) recompute() {
	for _, d := range geom.Cardinals {
		b.maximal[d.Index()] = b.self.extreme(d)
	}
}

func (b *base) mutate() {
	if b.built {
		panic(fmt.Sprintf("builder: %s mutated after Build", b.kind))
	}
}

func (b *base) Kind() Kind { return b.kind }

func (b *base) Built() bool { return b.built }

func (b *base) Shift(v geom.IntVector2) {
	b.mutate()
	b.self.shift(v)
	b.recompute()
}

func (b *base) MaximalValue(d geom.Direction) (int, error) {
	if err := geom.RequireCardinal(d); err != nil {
		return 0, err
	}
	return b.maximal[d.Index()], nil
}

// DistanceFrom reports how far the builder overhangs amount in d.
func (b *base) DistanceFrom(d geom.Direction, amount int) (int, error) {
	v, err := b.MaximalValue(d)
	if err != nil {
		return 0, err
	}
	return geom.Beyond(d, v, amount), nil
}

// Clamp aligns the builder to amount only when it overhangs. It never
// grows the builder.
func (b *base) Clamp(d geom.Direction, amount int) error {
	over, err := b.DistanceFrom(d, amount)
	if err != nil {
		return err
	}
	if over <= 0 {
		return nil
	}
	return b.Align(d, amount)
}

func (b *base) Align(d geom.Direction, amount int) error {
	if err := geom.RequireCardinal(d); err != nil {
		return err
	}
	b.mutate()
	b.self.align(d, amount)
	b.recompute()
	return nil
}

// Cut shrinks the builder by its overhang in d while keeping its anchor.
func (b *base) Cut(d geom.Direction, amount int) error {
	over, err := b.DistanceFrom(d, amount)
	if err != nil {
		return err
	}
	b.mutate()
	if over > 0 {
		b.self.cut(d, over)
		b.recompute()
	}
	return nil
}

// AddBoundary clamps to amount, then cuts against a boundary already
// recorded on the opposite side, and records amount for d.
func (b *base) AddBoundary(d geom.Direction, amount int) error {
	if err := b.Clamp(d, amount); err != nil {
		return err
	}
	if prev, ok := b.boundaries[d.Opposite()]; ok {
		if err := b.Cut(d.Opposite(), prev); err != nil {
			return err
		}
	}
	b.boundaries[d] = amount
	return nil
}

func (b *base) Boundary(d geom.Direction) (int, bool) {
	v, ok := b.boundaries[d]
	return v, ok
}

func (b *base) Bounds() (geom.IntVector2, geom.IntVector2) {
	lo := geom.Vec(b.maximal[geom.Left.Index()], b.maximal[geom.Down.Index()])
	hi := geom.Vec(b.maximal[geom.Right.Index()], b.maximal[geom.Up.Index()])
	return lo, hi
}

func (b *base) Contains(p geom.IntVector2) bool { return b.self.contains(p) }

func (b *base) RandomPoint() geom.IntVector2 { return b.self.randomPoint(b.rng) }

func (b *base) IsValid() bool { return b.self.valid() }

// AddModifier queues a modifier to run at Build time.
func (b *base) AddModifier(t space.ModifierType) {
	b.mutate()
	b.modifiers = append(b.modifiers, t)
}

func (b *base) SetParent(name string) {
	b.mutate()
	b.parent = name
}

// Build freezes the builder into a space: raw polygon first, then the
// kind's decorations, then queued modifiers in order.
func (b *base) Build(name string) (*space.Space, error) {
	b.mutate()
	shapes := b.self.shapes()
	if len(shapes) == 0 {
		return nil, fmt.Errorf("build %s %s: %w", b.kind, name, ErrEmpty)
	}
	b.built = true

	capped := false
	if c, ok := b.self.(capper); ok {
		capped = c.isCapped()
	}
	sp := space.New(space.Params{
		Name:    name,
		Kind:    string(b.kind),
		Parent:  b.parent,
		Extents: geom.NewExtents(shapes...),
		Capped:  capped,
	})

	if d, ok := b.self.(decorator); ok {
		if err := d.decorate(sp); err != nil {
			return nil, fmt.Errorf("build %s %s: %w", b.kind, name, err)
		}
	}
	for _, t := range b.modifiers {
		m, err := space.NewModifier(t)
		if err != nil {
			return nil, fmt.Errorf("build %s %s: %w", b.kind, name, err)
		}
		if err := sp.Apply(m, b.rng); err != nil {
			return nil, fmt.Errorf("build %s %s: %w", b.kind, name, err)
		}
	}
	return sp, nil
}

// spawnEnemies spends risk on enemies from table placed by pos.
func spawnEnemies(sp *space.Space, table EnemyTable, risk int, r *rng.Source, pos func() geom.IntVector2) error {
	if table == nil {
		return nil
	}
	remaining := risk
	for attempts := 0; remaining > 0 && attempts < 16; attempts++ {
		kind, cost, ok := table.Pick(r)
		if !ok || cost <= 0 {
			return nil
		}
		if cost > remaining {
			continue
		}
		p := pos()
		if !sp.Contains(p) {
			continue
		}
		remaining -= cost
		if err := sp.AddEnemy(space.EnemySpawn{Kind: kind, Position: p}); err != nil {
			return err
		}
	}
	return nil
}
