package space

import (
	"fmt"
	"math"

	"github.com/samdwyer/burrow/internal/geom"
	"github.com/samdwyer/burrow/internal/rng"
)

// ModifierType names a registered modifier.
type ModifierType string

const (
	ModifierCavernous  ModifierType = "cavernous"
	ModifierLaboratory ModifierType = "laboratory"
)

// Modifier decorates a finished space's cells without touching its
// geometry.
type Modifier interface {
	Type() ModifierType
	Apply(s *Space, r *rng.Source) error
}

// NewModifier returns the default modifier registered for t.
func NewModifier(t ModifierType) (Modifier, error) {
	switch t {
	case ModifierCavernous:
		return NewCavernous(), nil
	case ModifierLaboratory:
		return NewLaboratory(), nil
	default:
		return nil, fmt.Errorf("unknown modifier %q: %w", t, geom.ErrInvalidArgument)
	}
}

// Cavernous roughens a space's boundary and lines its floor and ceiling with
// spikes.
type Cavernous struct {
	MinRatio   float64
	MaxRatio   float64
	WallChance float64
}

// NewCavernous returns a Cavernous modifier with a 5-15% spike density.
func NewCavernous() *Cavernous {
	return &Cavernous{MinRatio: 0.05, MaxRatio: 0.15, WallChance: 0.2}
}

func (c *Cavernous) Type() ModifierType { return ModifierCavernous }

func (c *Cavernous) Apply(s *Space, r *rng.Source) error {
	samples := boundarySamples(s.extents.Outline())

	type spot struct {
		pos    geom.IntVector2
		facing geom.Direction
	}
	var candidates []spot
	for _, p := range samples {
		if !s.Contains(p) || s.blockAt(p).IsSolid() {
			continue
		}
		switch {
		case s.isSolidAt(p.Add(geom.Down.Vector())):
			candidates = append(candidates, spot{p, geom.Up})
		case s.isSolidAt(p.Add(geom.Up.Vector())):
			candidates = append(candidates, spot{p, geom.Down})
		}
	}

	budget := int(math.Round(float64(len(samples)) * r.Float(c.MinRatio, c.MaxRatio)))
	for len(candidates) > budget {
		i := r.Intn(len(candidates))
		candidates = append(candidates[:i], candidates[i+1:]...)
	}

	chosen := make(map[geom.IntVector2]bool, len(candidates))
	for _, sp := range candidates {
		s.hazards[sp.pos] = Hazard{Type: HazardSpikes, Facing: sp.facing}
		chosen[sp.pos] = true
	}
	if len(candidates) > 0 {
		s.hazardous = true
	}

	for _, p := range samples {
		if chosen[p] || !s.Contains(p) {
			continue
		}
		if r.Chance(c.WallChance) {
			s.overrides[p] = BlockDirt
		}
	}
	return nil
}

// Laboratory lights a space with a lamp on every eighth floor cell.
type Laboratory struct {
	Spacing int
}

// NewLaboratory returns a Laboratory modifier with the default spacing.
func NewLaboratory() *Laboratory {
	return &Laboratory{Spacing: 8}
}

func (l *Laboratory) Type() ModifierType { return ModifierLaboratory }

func (l *Laboratory) Apply(s *Space, _ *rng.Source) error {
	if l.Spacing <= 0 {
		return fmt.Errorf("laboratory spacing %d: %w", l.Spacing, geom.ErrInvalidArgument)
	}
	lo, hi := s.Min(), s.Max()
	n := 0
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			p := geom.Vec(x, y)
			if !s.Contains(p) || s.blockAt(p).IsSolid() {
				continue
			}
			if !s.isSolidAt(p.Add(geom.Down.Vector())) {
				continue
			}
			if n%l.Spacing == 0 {
				if _, hazard := s.hazards[p]; !hazard {
					s.props[p] = PropLamp
				}
			}
			n++
		}
	}
	return nil
}

// isSolidAt treats anything outside the space as solid ground.
func (s *Space) isSolidAt(p geom.IntVector2) bool {
	if !s.Contains(p) {
		return true
	}
	return s.blockAt(p).IsSolid()
}

// boundarySamples walks every edge of the outline one cell at a time and
// returns the distinct positions in walk order.
func boundarySamples(outline *geom.Shape) []geom.IntVector2 {
	if outline == nil {
		return nil
	}
	seen := make(map[geom.IntVector2]bool)
	var out []geom.IntVector2
	for _, e := range outline.Segments() {
		v := e.Vector()
		steps := max(abs(v.X), abs(v.Y))
		for i := 0; i <= steps; i++ {
			p := e.Start
			if steps > 0 {
				p = geom.Vec(
					e.Start.X+int(math.Round(float64(v.X*i)/float64(steps))),
					e.Start.Y+int(math.Round(float64(v.Y*i)/float64(steps))),
				)
			}
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
