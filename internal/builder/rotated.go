package builder

import (
	"github.com/samdwyer/burrow/internal/geom"
	"github.com/samdwyer/burrow/internal/rng"
)

// RotatedTunnel is a sloped parallelogram: a run from origin to
// origin+offset, thickness cells tall, clipped to a rectangle.
//
// Clamping only guarantees that the clamped side meets its limit and that
// no side grows. A sloped edge may pull a neighbouring extreme in with it.
type RotatedTunnel struct {
	base
	origin    geom.IntVector2
	offset    geom.IntVector2
	thickness int
	clipLo    geom.IntVector2
	clipHi    geom.IntVector2
}

// NewRotatedTunnel creates a tunnel with a random slope starting at at.
func NewRotatedTunnel(r *rng.Source, at geom.IntVector2) *RotatedTunnel {
	offset := geom.Vec(r.Range(8, 16), r.Range(-6, 6))
	return RotatedTunnelAt(r, at, offset, r.Range(2, 3))
}

// RotatedTunnelAt creates an unclipped tunnel from origin along offset.
func RotatedTunnelAt(r *rng.Source, origin, offset geom.IntVector2, thickness int) *RotatedTunnel {
	if offset.X < 0 {
		origin = origin.Add(offset)
		offset = offset.Scale(-1)
	}
	t := &RotatedTunnel{origin: origin, offset: offset, thickness: max(0, thickness)}
	t.clipLo, t.clipHi = t.raw().Min(), t.raw().Max()
	t.init(KindRotatedTunnel, t, r)
	return t
}

func (t *RotatedTunnel) raw() *geom.Shape {
	up := geom.Vec(0, t.thickness)
	end := t.origin.Add(t.offset)
	return geom.MustShape(t.origin, t.origin.Add(up), end.Add(up), end)
}

func (t *RotatedTunnel) clipped() (*geom.Shape, bool) {
	return geom.ClipRect(t.raw(), t.clipLo, t.clipHi)
}

func (t *RotatedTunnel) extreme(d geom.Direction) int {
	s, ok := t.clipped()
	if !ok {
		return rectExtreme(t.clipLo, t.clipHi, d)
	}
	return rectExtreme(s.Min(), s.Max(), d)
}

func (t *RotatedTunnel) align(d geom.Direction, a int) {
	raw := t.raw()
	if grow := -geom.Beyond(d, rectExtreme(raw.Min(), raw.Max(), d), a); grow > 0 {
		switch d {
		case geom.Up:
			t.thickness += grow
		case geom.Down:
			t.origin.Y -= grow
			t.thickness += grow
		case geom.Right:
			t.offset.X += grow
		case geom.Left:
			t.origin.X -= grow
			t.offset.X += grow
		}
	}
	switch d {
	case geom.Up:
		t.clipHi.Y = a
	case geom.Down:
		t.clipLo.Y = a
	case geom.Right:
		t.clipHi.X = a
	case geom.Left:
		t.clipLo.X = a
	}
}

func (t *RotatedTunnel) cut(d geom.Direction, over int) {
	t.align(d, t.extreme(d)-over*d.Sign())
}

func (t *RotatedTunnel) shift(v geom.IntVector2) {
	t.origin = t.origin.Add(v)
	t.clipLo = t.clipLo.Add(v)
	t.clipHi = t.clipHi.Add(v)
}

func (t *RotatedTunnel) contains(p geom.IntVector2) bool {
	s, ok := t.clipped()
	return ok && s.Contains(p)
}

func (t *RotatedTunnel) shapes() []*geom.Shape {
	s, ok := t.clipped()
	if !ok {
		return nil
	}
	return []*geom.Shape{s}
}

func (t *RotatedTunnel) valid() bool {
	s, ok := t.clipped()
	return ok && t.thickness >= 2 && s.Max().X-s.Min().X >= 2
}

func (t *RotatedTunnel) randomPoint(r *rng.Source) geom.IntVector2 {
	s, ok := t.clipped()
	if !ok {
		return t.origin
	}
	for i := 0; i < 16; i++ {
		p := randomInRect(r, s.Min(), s.Max())
		if s.Contains(p) {
			return p
		}
	}
	return s.Vertex(0)
}
