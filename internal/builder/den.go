package builder

import (
	"github.com/samdwyer/burrow/internal/geom"
	"github.com/samdwyer/burrow/internal/rng"
	"github.com/samdwyer/burrow/internal/space"
)

// Den is a tent: a triangle standing on its base with the apex up. A
// column dx away from the center is radius-|dx| tall. Left, right and top
// limits clip the tent without moving it.
type Den struct {
	base
	center geom.IntVector2
	radius int
	clipL  int
	clipR  int
	clipT  int
	table  EnemyTable
	risk   int
}

// NewDen creates a den of random radius with its base centered on at.
func NewDen(r *rng.Source, at geom.IntVector2) *Den {
	return DenAt(r, at, r.Range(4, 7))
}

// DenAt creates an unclipped den with its base centered on at.
func DenAt(r *rng.Source, at geom.IntVector2, radius int) *Den {
	radius = max(0, radius)
	d := &Den{
		center: at,
		radius: radius,
		clipL:  at.X - radius,
		clipR:  at.X + radius,
		clipT:  at.Y + radius,
	}
	d.init(KindDen, d, r)
	return d
}

// Radius returns the half-width of the tent's base.
func (d *Den) Radius() int { return d.radius }

// Populate sets the enemy budget spent at Build time.
func (d *Den) Populate(table EnemyTable, risk int) {
	d.mutate()
	d.table = table
	d.risk = risk
}

func (d *Den) left() int  { return max(d.clipL, d.center.X-d.radius) }
func (d *Den) right() int { return min(d.clipR, d.center.X+d.radius) }

// columnTop is the highest cell of the column at x.
func (d *Den) columnTop(x int) int {
	return min(d.clipT, d.center.Y+d.radius-abs(x-d.center.X))
}

func (d *Den) extreme(dir geom.Direction) int {
	switch dir {
	case geom.Down:
		return d.center.Y
	case geom.Left:
		return d.left()
	case geom.Right:
		return d.right()
	default:
		x := min(max(d.center.X, d.left()), d.right())
		return d.columnTop(x)
	}
}

func (d *Den) align(dir geom.Direction, a int) {
	switch dir {
	case geom.Down:
		// The floor moves; the top limit stays where it was.
		d.center.Y = a
		d.clipT = max(d.clipT, a)
	case geom.Up:
		if need := a - d.center.Y; need > d.radius {
			d.radius = need
		}
		d.clipT = max(a, d.center.Y)
	case geom.Left:
		if need := d.center.X - a; need > d.radius {
			d.radius = need
		}
		d.clipL = a
		d.clipR = max(d.clipR, a)
	case geom.Right:
		if need := a - d.center.X; need > d.radius {
			d.radius = need
		}
		d.clipR = a
		d.clipL = min(d.clipL, a)
	}
}

// cut is a shrinking align: the tent has no anchor side to keep.
func (d *Den) cut(dir geom.Direction, over int) {
	d.align(dir, d.extreme(dir)-over*dir.Sign())
}

func (d *Den) shift(v geom.IntVector2) {
	d.center = d.center.Add(v)
	d.clipL += v.X
	d.clipR += v.X
	d.clipT += v.Y
}

func (d *Den) contains(p geom.IntVector2) bool {
	if p.X < d.left() || p.X > d.right() {
		return false
	}
	return p.Y >= d.center.Y && p.Y <= d.columnTop(p.X)
}

func (d *Den) shapes() []*geom.Shape {
	c, r := d.center, d.radius
	tent := geom.MustShape(c.Sub(geom.Vec(r, 0)), c.Add(geom.Vec(0, r)), c.Add(geom.Vec(r, 0)))
	if r == 0 {
		tent = geom.MustShape(c, c)
	}
	clipped, ok := geom.ClipRect(tent, geom.Vec(d.left(), c.Y), geom.Vec(d.right(), d.clipT))
	if !ok {
		return nil
	}
	return []*geom.Shape{clipped}
}

func (d *Den) valid() bool {
	return d.radius >= 2 && d.right()-d.left() >= 2 && d.extreme(geom.Up)-d.center.Y >= 1
}

func (d *Den) randomPoint(r *rng.Source) geom.IntVector2 {
	x := r.Range(d.left(), d.right())
	return geom.Vec(x, r.Range(d.center.Y, max(d.center.Y, d.columnTop(x))))
}

func (d *Den) decorate(sp *space.Space) error {
	return spawnEnemies(sp, d.table, d.risk, d.rng, func() geom.IntVector2 {
		x := d.rng.Range(d.left(), d.right())
		return geom.Vec(x, d.center.Y)
	})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
