package builder

import (
	"github.com/samdwyer/burrow/internal/geom"
	"github.com/samdwyer/burrow/internal/rng"
)

// Room is a plain rectangular chamber kept as center and size.
type Room struct {
	base
	box
}

// NewRoom creates a room of random size centered on at.
func NewRoom(r *rng.Source, at geom.IntVector2) *Room {
	size := geom.Vec(r.Range(6, 12), r.Range(4, 8))
	lo := at.Sub(geom.Vec(size.X/2, size.Y/2))
	return RoomBetween(r, lo, lo.Add(size))
}

// RoomBetween creates a room covering lo..hi inclusive.
func RoomBetween(r *rng.Source, lo, hi geom.IntVector2) *Room {
	rm := &Room{box: boxBetween(lo, hi)}
	rm.init(KindRoom, rm, r)
	return rm
}

// SetSize resizes the room around its center.
func (rm *Room) SetSize(w, h int) {
	rm.mutate()
	rm.size = geom.Vec(max(0, w), max(0, h))
	rm.recompute()
}

// Size returns the room's width and height.
func (rm *Room) Size() (int, int) { return rm.size.X, rm.size.Y }

func (rm *Room) valid() bool { return rm.size.X >= 2 && rm.size.Y >= 2 }
