package builder

import (
	"github.com/samdwyer/burrow/internal/geom"
	"github.com/samdwyer/burrow/internal/rng"
	"github.com/samdwyer/burrow/internal/space"
)

// Corridor is a horizontal rectangle anchored at its left, center or
// right end. It may carry a spike floor and an enemy budget.
type Corridor struct {
	base
	hbox
	hazardous bool
	table     EnemyTable
	risk      int
}

// NewCorridor creates a corridor of random length centered on at.
func NewCorridor(r *rng.Source, at geom.IntVector2) *Corridor {
	c := &Corridor{hbox: hbox{anchor: at, halign: AlignCenter, width: r.Range(10, 20), height: r.Range(3, 4)}}
	c.hazardous = r.Chance(0.25)
	c.init(KindCorridor, c, r)
	return c
}

// CorridorBetween creates a left-anchored corridor covering lo..hi.
func CorridorBetween(r *rng.Source, lo, hi geom.IntVector2) *Corridor {
	c := &Corridor{hbox: hbox{anchor: lo, halign: AlignLeft, width: max(0, hi.X-lo.X), height: max(0, hi.Y-lo.Y)}}
	c.init(KindCorridor, c, r)
	return c
}

// SetWidth resizes the corridor around its anchor.
func (c *Corridor) SetWidth(w int) {
	c.mutate()
	c.width = max(0, w)
	c.recompute()
}

// SetHeight raises or lowers the ceiling.
func (c *Corridor) SetHeight(h int) {
	c.mutate()
	c.height = max(0, h)
	c.recompute()
}

// SetHazardous toggles the spike floor.
func (c *Corridor) SetHazardous(v bool) {
	c.mutate()
	c.hazardous = v
}

// Hazardous reports whether the corridor will get a spike floor.
func (c *Corridor) Hazardous() bool { return c.hazardous }

// Populate sets the enemy budget spent at Build time.
func (c *Corridor) Populate(table EnemyTable, risk int) {
	c.mutate()
	c.table = table
	c.risk = risk
}

func (c *Corridor) valid() bool { return c.width >= 3 && c.height >= 2 }

func (c *Corridor) decorate(sp *space.Space) error {
	floor := c.bottom()
	if c.hazardous {
		for x := c.left(); x <= c.right(); x += 2 {
			if err := sp.AddHazard(geom.Vec(x, floor), space.Hazard{Type: space.HazardSpikes, Facing: geom.Up}); err != nil {
				return err
			}
		}
	}
	lo, hi := c.left()+1, c.right()-1
	return spawnEnemies(sp, c.table, c.risk, c.rng, func() geom.IntVector2 {
		return geom.Vec(c.rng.Range(lo, hi), floor+1)
	})
}
