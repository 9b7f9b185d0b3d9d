package builder

import (
	"github.com/samdwyer/burrow/internal/geom"
	"github.com/samdwyer/burrow/internal/rng"
)

// box is a rectangle kept as a center and a size. The bottom-left corner
// is center - size/2 and the top-right corner is that plus size, so odd
// sizes never lose a cell.
type box struct {
	center geom.IntVector2
	size   geom.IntVector2
}

func boxBetween(lo, hi geom.IntVector2) box {
	var b box
	b.setX(lo.X, hi.X)
	b.setY(lo.Y, hi.Y)
	return b
}

func (b *box) lo() geom.IntVector2 {
	return geom.Vec(b.center.X-b.size.X/2, b.center.Y-b.size.Y/2)
}

func (b *box) hi() geom.IntVector2 {
	return b.lo().Add(b.size)
}

func (b *box) setX(lo, hi int) {
	if hi < lo {
		hi = lo
	}
	b.size.X = hi - lo
	b.center.X = lo + b.size.X/2
}

func (b *box) setY(lo, hi int) {
	if hi < lo {
		hi = lo
	}
	b.size.Y = hi - lo
	b.center.Y = lo + b.size.Y/2
}

func (b *box) extreme(d geom.Direction) int {
	return rectExtreme(b.lo(), b.hi(), d)
}

func (b *box) align(d geom.Direction, a int) {
	lo, hi := b.lo(), b.hi()
	switch d {
	case geom.Up:
		b.setY(min(lo.Y, a), a)
	case geom.Down:
		b.setY(a, max(hi.Y, a))
	case geom.Right:
		b.setX(min(lo.X, a), a)
	case geom.Left:
		b.setX(a, max(hi.X, a))
	}
}

// cut on a centered box is a shrinking align: there is no single anchor
// side to keep.
func (b *box) cut(d geom.Direction, over int) {
	b.align(d, b.extreme(d)-over*d.Sign())
}

func (b *box) shift(v geom.IntVector2) { b.center = b.center.Add(v) }

func (b *box) contains(p geom.IntVector2) bool { return inRect(p, b.lo(), b.hi()) }

func (b *box) shapes() []*geom.Shape { return []*geom.Shape{geom.Rect(b.lo(), b.hi())} }

func (b *box) randomPoint(r *rng.Source) geom.IntVector2 { return randomInRect(r, b.lo(), b.hi()) }

// VAlign picks which horizontal edge of a vertical builder is its anchor.
type VAlign int

const (
	AlignTop VAlign = iota
	AlignMiddle
	AlignBottom
)

// vbox is a vertical rectangle anchored at its top, middle or bottom. The
// anchor's x is the horizontal center.
type vbox struct {
	anchor geom.IntVector2
	valign VAlign
	width  int
	height int
}

func (v *vbox) left() int  { return v.anchor.X - v.width/2 }
func (v *vbox) right() int { return v.left() + v.width }

func (v *vbox) bottom() int {
	switch v.valign {
	case AlignTop:
		return v.anchor.Y - v.height
	case AlignMiddle:
		return v.anchor.Y - v.height/2
	default:
		return v.anchor.Y
	}
}

func (v *vbox) top() int { return v.bottom() + v.height }

func (v *vbox) lo() geom.IntVector2 { return geom.Vec(v.left(), v.bottom()) }
func (v *vbox) hi() geom.IntVector2 { return geom.Vec(v.right(), v.top()) }

func (v *vbox) extreme(d geom.Direction) int { return rectExtreme(v.lo(), v.hi(), d) }

func (v *vbox) align(d geom.Direction, a int) {
	switch d {
	case geom.Up:
		b := min(v.bottom(), a)
		v.height = a - b
		v.valign = AlignTop
		v.anchor.Y = a
	case geom.Down:
		t := max(v.top(), a)
		v.height = t - a
		v.valign = AlignBottom
		v.anchor.Y = a
	case geom.Right:
		l := min(v.left(), a)
		v.width = a - l
		v.anchor.X = l + v.width/2
	case geom.Left:
		r := max(v.right(), a)
		v.width = r - a
		v.anchor.X = a + v.width/2
	}
}

func (v *vbox) cut(d geom.Direction, over int) {
	if d.Horizontal() {
		v.width = max(0, v.width-over)
		return
	}
	v.height = max(0, v.height-over)
}

func (v *vbox) shift(o geom.IntVector2) { v.anchor = v.anchor.Add(o) }

func (v *vbox) contains(p geom.IntVector2) bool { return inRect(p, v.lo(), v.hi()) }

func (v *vbox) shapes() []*geom.Shape { return []*geom.Shape{geom.Rect(v.lo(), v.hi())} }

func (v *vbox) randomPoint(r *rng.Source) geom.IntVector2 { return randomInRect(r, v.lo(), v.hi()) }

// HAlign picks which vertical edge of a horizontal builder is its anchor.
type HAlign int

const (
	AlignLeft HAlign = iota
	AlignCenter
	AlignRight
)

// hbox is a horizontal rectangle anchored at its left, center or right.
// The anchor's y is the floor.
type hbox struct {
	anchor geom.IntVector2
	halign HAlign
	width  int
	height int
}

func (h *hbox) left() int {
	switch h.halign {
	case AlignLeft:
		return h.anchor.X
	case AlignCenter:
		return h.anchor.X - h.width/2
	default:
		return h.anchor.X - h.width
	}
}

func (h *hbox) right() int  { return h.left() + h.width }
func (h *hbox) bottom() int { return h.anchor.Y }
func (h *hbox) top() int    { return h.anchor.Y + h.height }

func (h *hbox) lo() geom.IntVector2 { return geom.Vec(h.left(), h.bottom()) }
func (h *hbox) hi() geom.IntVector2 { return geom.Vec(h.right(), h.top()) }

func (h *hbox) extreme(d geom.Direction) int { return rectExtreme(h.lo(), h.hi(), d) }

func (h *hbox) align(d geom.Direction, a int) {
	switch d {
	case geom.Right:
		l := min(h.left(), a)
		h.width = a - l
		h.halign = AlignRight
		h.anchor.X = a
	case geom.Left:
		r := max(h.right(), a)
		h.width = r - a
		h.halign = AlignLeft
		h.anchor.X = a
	case geom.Up:
		b := min(h.bottom(), a)
		h.height = a - b
		h.anchor.Y = b
	case geom.Down:
		t := max(h.top(), a)
		h.height = t - a
		h.anchor.Y = a
	}
}

func (h *hbox) cut(d geom.Direction, over int) {
	if d.Horizontal() {
		h.width = max(0, h.width-over)
		return
	}
	h.height = max(0, h.height-over)
}

func (h *hbox) shift(o geom.IntVector2) { h.anchor = h.anchor.Add(o) }

func (h *hbox) contains(p geom.IntVector2) bool { return inRect(p, h.lo(), h.hi()) }

func (h *hbox) shapes() []*geom.Shape { return []*geom.Shape{geom.Rect(h.lo(), h.hi())} }

func (h *hbox) randomPoint(r *rng.Source) geom.IntVector2 { return randomInRect(r, h.lo(), h.hi()) }

func rectExtreme(lo, hi geom.IntVector2, d geom.Direction) int {
	switch d {
	case geom.Up:
		return hi.Y
	case geom.Down:
		return lo.Y
	case geom.Right:
		return hi.X
	default:
		return lo.X
	}
}

func inRect(p, lo, hi geom.IntVector2) bool {
	return p.X >= lo.X && p.X <= hi.X && p.Y >= lo.Y && p.Y <= hi.Y
}

func randomInRect(r *rng.Source, lo, hi geom.IntVector2) geom.IntVector2 {
	return geom.Vec(r.Range(lo.X, hi.X), r.Range(lo.Y, hi.Y))
}
