package builder

import (
	"github.com/samdwyer/burrow/internal/geom"
	"github.com/samdwyer/burrow/internal/rng"
	"github.com/samdwyer/burrow/internal/space"
)

// Shaft is a vertical rectangle anchored at its top, middle or bottom.
// Aligning its top caps it: the top row becomes a stone ceiling. An
// uncapped shaft stays open to whatever lies above.
//
// Tunnels are narrow shafts that never cap.
type Shaft struct {
	base
	vbox
	capped bool
	noCap  bool
}

// NewShaft creates a shaft of random size centered on at.
func NewShaft(r *rng.Source, at geom.IntVector2) *Shaft {
	return newShaft(KindShaft, r, vbox{anchor: at, valign: AlignMiddle, width: r.Range(3, 5), height: r.Range(10, 20)})
}

// NewTunnel creates a narrow uncapped shaft centered on at.
func NewTunnel(r *rng.Source, at geom.IntVector2) *Shaft {
	return newShaft(KindTunnel, r, vbox{anchor: at, valign: AlignMiddle, width: r.Range(1, 2), height: r.Range(8, 16)})
}

// ShaftBetween creates a bottom-anchored shaft covering lo..hi.
func ShaftBetween(r *rng.Source, lo, hi geom.IntVector2) *Shaft {
	return newShaft(KindShaft, r, vboxBetween(lo, hi))
}

// TunnelBetween creates a bottom-anchored tunnel covering lo..hi.
func TunnelBetween(r *rng.Source, lo, hi geom.IntVector2) *Shaft {
	return newShaft(KindTunnel, r, vboxBetween(lo, hi))
}

func vboxBetween(lo, hi geom.IntVector2) vbox {
	w := max(0, hi.X-lo.X)
	return vbox{anchor: geom.Vec(lo.X+w/2, lo.Y), valign: AlignBottom, width: w, height: max(0, hi.Y-lo.Y)}
}

func newShaft(kind Kind, r *rng.Source, v vbox) *Shaft {
	s := &Shaft{vbox: v, noCap: kind == KindTunnel}
	s.init(kind, s, r)
	return s
}

// SetHeight resizes the shaft around its anchor.
func (s *Shaft) SetHeight(h int) {
	s.mutate()
	s.height = max(0, h)
	s.recompute()
}

// SetWidth resizes the shaft around its horizontal center.
func (s *Shaft) SetWidth(w int) {
	s.mutate()
	s.width = max(0, w)
	s.recompute()
}

// SetAlignment re-anchors the shaft without moving it.
func (s *Shaft) SetAlignment(a VAlign) {
	s.mutate()
	bottom := s.bottom()
	s.valign = a
	switch a {
	case AlignTop:
		s.anchor.Y = bottom + s.height
	case AlignMiddle:
		s.anchor.Y = bottom + s.height/2
	default:
		s.anchor.Y = bottom
	}
	s.recompute()
}

// Height returns the shaft's current height.
func (s *Shaft) Height() int { return s.height }

// Width returns the shaft's current width.
func (s *Shaft) Width() int { return s.width }

// Capped reports whether the top has been pinned.
func (s *Shaft) Capped() bool { return s.capped }

func (s *Shaft) align(d geom.Direction, a int) {
	s.vbox.align(d, a)
	if d == geom.Up && !s.noCap {
		s.capped = true
	}
}

func (s *Shaft) isCapped() bool { return s.capped }

func (s *Shaft) valid() bool { return s.width >= 1 && s.height >= 3 }

func (s *Shaft) decorate(sp *space.Space) error {
	if !s.capped {
		return nil
	}
	top := s.top()
	for x := s.left(); x <= s.right(); x++ {
		if err := sp.SetBlock(geom.Vec(x, top), space.BlockStone); err != nil {
			return err
		}
	}
	return nil
}
