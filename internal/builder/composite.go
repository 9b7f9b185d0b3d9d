package builder

import (
	"fmt"
	"math"

	"github.com/samdwyer/burrow/internal/geom"
	"github.com/samdwyer/burrow/internal/rng"
	"github.com/samdwyer/burrow/internal/space"
)

// Composite is a laboratory or plexus: a group of shafts, tunnels and
// corridors moved and squeezed as one. Members pushed entirely past a
// limit are dropped.
type Composite struct {
	base
	members []SpaceBuilder
}

// Member describes one rectangle of a hand-authored layout.
type Member struct {
	Kind Kind
	Lo   geom.IntVector2
	Hi   geom.IntVector2
}

// NewLaboratory creates a random laboratory: a central shaft with
// corridors branching off it, some ending in a second shaft.
func NewLaboratory(r *rng.Source, at geom.IntVector2) *Composite {
	trunkH := r.Range(10, 16)
	trunk := ShaftBetween(r, geom.Vec(at.X-1, at.Y-trunkH/2), geom.Vec(at.X+1, at.Y-trunkH/2+trunkH))
	members := []SpaceBuilder{trunk}

	branches := r.Range(2, 3)
	lo, _ := trunk.Bounds()
	for i := 0; i < branches; i++ {
		floor := lo.Y + r.Range(0, max(0, trunkH-4))
		length := r.Range(8, 14)
		var c *Corridor
		var end int
		if r.CoinFlip() {
			c = CorridorBetween(r, geom.Vec(at.X+1, floor), geom.Vec(at.X+1+length, floor+3))
			end = at.X + 1 + length
		} else {
			c = CorridorBetween(r, geom.Vec(at.X-1-length, floor), geom.Vec(at.X-1, floor+3))
			end = at.X - 1 - length
		}
		members = append(members, c)
		if r.Chance(0.5) {
			drop := r.Range(5, 9)
			members = append(members, ShaftBetween(r, geom.Vec(end-1, floor-drop), geom.Vec(end+1, floor+3)))
		}
	}
	return newComposite(KindLaboratory, r, members, space.ModifierLaboratory)
}

// LaboratoryFromLayout creates a laboratory from fixed member rectangles.
func LaboratoryFromLayout(r *rng.Source, layout []Member) (*Composite, error) {
	members := make([]SpaceBuilder, 0, len(layout))
	for _, m := range layout {
		switch m.Kind {
		case KindShaft:
			members = append(members, ShaftBetween(r, m.Lo, m.Hi))
		case KindTunnel:
			members = append(members, TunnelBetween(r, m.Lo, m.Hi))
		case KindCorridor:
			members = append(members, CorridorBetween(r, m.Lo, m.Hi))
		case KindRoom:
			members = append(members, RoomBetween(r, m.Lo, m.Hi))
		default:
			return nil, fmt.Errorf("laboratory member kind %q: %w", m.Kind, geom.ErrInvalidArgument)
		}
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("empty laboratory layout: %w", geom.ErrInvalidArgument)
	}
	return newComposite(KindLaboratory, r, members, space.ModifierLaboratory), nil
}

// NewPlexus creates a random grid of corridors and tunnels with its
// bottom-left crossing at at.
func NewPlexus(r *rng.Source, at geom.IntVector2) *Composite {
	return PlexusAt(r, at, r.Range(2, 4), r.Range(2, 3), r.Range(6, 9))
}

// PlexusAt creates a grid of rows horizontal corridors and cols vertical
// tunnels, spacing cells apart.
func PlexusAt(r *rng.Source, at geom.IntVector2, cols, rows, spacing int) *Composite {
	cols, rows = max(1, cols), max(1, rows)
	w := (cols - 1) * spacing
	h := (rows - 1) * spacing
	var members []SpaceBuilder
	for j := 0; j < rows; j++ {
		y := at.Y + j*spacing
		members = append(members, CorridorBetween(r, geom.Vec(at.X-1, y), geom.Vec(at.X+w+1, y+2)))
	}
	for i := 0; i < cols; i++ {
		x := at.X + i*spacing
		members = append(members, TunnelBetween(r, geom.Vec(x, at.Y), geom.Vec(x+1, at.Y+h+2)))
	}
	return newComposite(KindPlexus, r, members)
}

func newComposite(kind Kind, r *rng.Source, members []SpaceBuilder, mods ...space.ModifierType) *Composite {
	c := &Composite{members: members}
	c.init(kind, c, r)
	c.modifiers = append(c.modifiers, mods...)
	return c
}

// Members returns the current member builders.
func (c *Composite) Members() []SpaceBuilder { return c.members }

func (c *Composite) extreme(d geom.Direction) int {
	if len(c.members) == 0 {
		return 0
	}
	best := math.MinInt
	for _, m := range c.members {
		v, _ := m.MaximalValue(d)
		if best == math.MinInt || geom.Beyond(d, v, best) > 0 {
			best = v
		}
	}
	return best
}

func (c *Composite) align(d geom.Direction, a int) {
	cur := c.extreme(d)
	switch over := geom.Beyond(d, cur, a); {
	case over > 0:
		kept := c.members[:0]
		for _, m := range c.members {
			// A member whose far side sits on the limit still holds
			// that row or column.
			far, _ := m.MaximalValue(d.Opposite())
			if geom.Beyond(d, far, a) > 0 {
				continue
			}
			_ = m.Clamp(d, a)
			kept = append(kept, m)
		}
		c.members = kept
	case over < 0:
		for _, m := range c.members {
			if v, _ := m.MaximalValue(d); v == cur {
				_ = m.Align(d, a)
			}
		}
	}
}

// cut squeezes every member as a shrinking align.
func (c *Composite) cut(d geom.Direction, over int) {
	c.align(d, c.extreme(d)-over*d.Sign())
}

func (c *Composite) shift(v geom.IntVector2) {
	for _, m := range c.members {
		m.Shift(v)
	}
}

func (c *Composite) contains(p geom.IntVector2) bool {
	for _, m := range c.members {
		if m.Contains(p) {
			return true
		}
	}
	return false
}

// PassesBy reports whether seg touches any member: an endpoint inside one
// or a crossing with one of its edges.
func (c *Composite) PassesBy(seg geom.Segment) bool {
	for _, sh := range c.shapes() {
		if sh.Contains(seg.Start) || sh.Contains(seg.End) {
			return true
		}
		for _, e := range sh.Segments() {
			if _, ok := geom.Intersect(e, seg); ok {
				return true
			}
		}
	}
	return false
}

func (c *Composite) shapes() []*geom.Shape {
	var out []*geom.Shape
	for _, m := range c.members {
		if s, ok := m.(interface{ shapes() []*geom.Shape }); ok {
			out = append(out, s.shapes()...)
		}
	}
	return out
}

func (c *Composite) valid() bool {
	for _, m := range c.members {
		if m.IsValid() {
			return true
		}
	}
	return false
}

func (c *Composite) randomPoint(r *rng.Source) geom.IntVector2 {
	if len(c.members) == 0 {
		return geom.IntVector2{}
	}
	return rng.Pick(r, c.members).RandomPoint()
}
