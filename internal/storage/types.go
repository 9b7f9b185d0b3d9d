package storage

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/samdwyer/burrow/internal/geom"
	"github.com/samdwyer/burrow/internal/space"
)

// Version is written into every world record.
const Version = 1

// Point is a serialized grid position.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PointOf converts a grid position for a record.
func PointOf(v geom.IntVector2) Point { return Point{X: v.X, Y: v.Y} }

// Vec returns the grid position.
func (p Point) Vec() geom.IntVector2 { return geom.Vec(p.X, p.Y) }

// BlockEntry is a single block override.
type BlockEntry struct {
	Point
	Block string `json:"block"`
}

// HazardEntry is a single hazard placement.
type HazardEntry struct {
	Point
	Type   string `json:"type"`
	Facing string `json:"facing"`
}

// PropEntry is a single prop placement.
type PropEntry struct {
	Point
	Prop string `json:"prop"`
}

// EnemyEntry is a pending enemy spawn.
type EnemyEntry struct {
	Point
	Kind string `json:"kind"`
}

// SpaceRecord is the serializable representation of a finalized space.
type SpaceRecord struct {
	Name      string        `json:"name"`
	Kind      string        `json:"kind"`
	Parent    string        `json:"parent,omitempty"` // Owning space, for elevator landings
	Capped    bool          `json:"capped,omitempty"`
	Shapes    [][]Point     `json:"shapes"` // Polygon list in extents order
	Overrides []BlockEntry  `json:"overrides,omitempty"`
	Hazards   []HazardEntry `json:"hazards,omitempty"`
	Props     []PropEntry   `json:"props,omitempty"`
	Enemies   []EnemyEntry  `json:"enemies,omitempty"`
	Modifiers []string      `json:"modifiers,omitempty"` // Applied modifiers, in order
}

// BuilderRecord is a chunk builder snapshot.
type BuilderRecord struct {
	Key        Point          `json:"key"`
	Size       int            `json:"size"`
	Spaces     []string       `json:"spaces"`         // Attached space names, in attachment order
	Late       []string       `json:"late,omitempty"` // Attached after promotion; never materialized
	Enemies    []EnemyEntry   `json:"enemies,omitempty"`
	Boundaries map[string]int `json:"boundaries,omitempty"`
	Populated  bool           `json:"populated,omitempty"`
	Promoted   bool           `json:"promoted,omitempty"`
}

// WorldRecord holds world-level state: the seed, the name counter and the
// grid, with spaces stored separately by name.
type WorldRecord struct {
	Version      int             `json:"version"`
	Session      string          `json:"session"`
	Seed         int64           `json:"seed"`
	ChunkSize    int             `json:"chunk_size"`
	SurfaceLevel int             `json:"surface_level"`
	Counter      int             `json:"counter"` // Last number used in a space name
	Draws        uint64          `json:"draws"`   // Random values drawn since seeding
	Spaces       []string        `json:"spaces"`  // Registration order
	Builders     []BuilderRecord `json:"builders"`
}

// RecordFromSpace extracts serializable data from a space. Map-backed
// placements are written in row-major order so the output is stable.
func RecordFromSpace(sp *space.Space) SpaceRecord {
	rec := SpaceRecord{
		Name:   sp.Name(),
		Kind:   sp.Kind(),
		Parent: sp.Parent(),
		Capped: sp.Capped(),
	}
	for _, s := range sp.Extents().Shapes() {
		var pts []Point
		for _, v := range s.Vertices() {
			pts = append(pts, PointOf(v))
		}
		rec.Shapes = append(rec.Shapes, pts)
	}

	overrides := sp.Overrides()
	for _, p := range sortedKeys(overrides) {
		rec.Overrides = append(rec.Overrides, BlockEntry{Point: PointOf(p), Block: overrides[p].String()})
	}
	hazards := sp.Hazards()
	for _, p := range sortedKeys(hazards) {
		h := hazards[p]
		rec.Hazards = append(rec.Hazards, HazardEntry{Point: PointOf(p), Type: h.Type.String(), Facing: h.Facing.String()})
	}
	props := sp.Props()
	for _, p := range sortedKeys(props) {
		rec.Props = append(rec.Props, PropEntry{Point: PointOf(p), Prop: props[p].String()})
	}
	for _, e := range sp.Enemies() {
		rec.Enemies = append(rec.Enemies, EnemyEntry{Point: PointOf(e.Position), Kind: e.Kind})
	}
	for _, m := range sp.Modifiers() {
		rec.Modifiers = append(rec.Modifiers, string(m))
	}
	return rec
}

// Space rebuilds the space. Modifiers are recorded, not re-run: their
// output is already in the placements.
func (r SpaceRecord) Space() (*space.Space, error) {
	if r.Name == "" {
		return nil, fmt.Errorf("space without a name")
	}
	var shapes []*geom.Shape
	for i, pts := range r.Shapes {
		vs := make([]geom.IntVector2, len(pts))
		for j, p := range pts {
			vs[j] = p.Vec()
		}
		s, err := geom.NewShape(vs)
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		shapes = append(shapes, s)
	}
	if len(shapes) == 0 {
		return nil, fmt.Errorf("space %s has no shapes", r.Name)
	}

	sp := space.New(space.Params{
		Name:    r.Name,
		Kind:    r.Kind,
		Parent:  r.Parent,
		Extents: geom.NewExtents(shapes...),
		Capped:  r.Capped,
	})
	for _, o := range r.Overrides {
		b, err := space.ParseBlockType(o.Block)
		if err != nil {
			return nil, err
		}
		if err := sp.SetBlock(o.Vec(), b); err != nil {
			return nil, err
		}
	}
	for _, h := range r.Hazards {
		t, err := space.ParseHazardType(h.Type)
		if err != nil {
			return nil, err
		}
		facing, err := geom.ParseDirection(h.Facing)
		if err != nil {
			return nil, err
		}
		if err := sp.AddHazard(h.Vec(), space.Hazard{Type: t, Facing: facing}); err != nil {
			return nil, err
		}
	}
	for _, p := range r.Props {
		t, err := space.ParsePropType(p.Prop)
		if err != nil {
			return nil, err
		}
		if err := sp.AddProp(p.Vec(), t); err != nil {
			return nil, err
		}
	}
	for _, e := range r.Enemies {
		if err := sp.AddEnemy(space.EnemySpawn{Kind: e.Kind, Position: e.Vec()}); err != nil {
			return nil, err
		}
	}
	for _, m := range r.Modifiers {
		if err := sp.RecordModifier(space.ModifierType(m)); err != nil {
			return nil, err
		}
	}
	return sp, nil
}

// EnemyEntries converts spawns for a record.
func EnemyEntries(spawns []space.EnemySpawn) []EnemyEntry {
	var out []EnemyEntry
	for _, e := range spawns {
		out = append(out, EnemyEntry{Point: PointOf(e.Position), Kind: e.Kind})
	}
	return out
}

// Spawns converts record entries back into spawns.
func Spawns(entries []EnemyEntry) []space.EnemySpawn {
	var out []space.EnemySpawn
	for _, e := range entries {
		out = append(out, space.EnemySpawn{Kind: e.Kind, Position: e.Vec()})
	}
	return out
}

func sortedKeys[V any](m map[geom.IntVector2]V) []geom.IntVector2 {
	keys := make([]geom.IntVector2, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b geom.IntVector2) int {
		if a.Y != b.Y {
			return cmp.Compare(a.Y, b.Y)
		}
		return cmp.Compare(a.X, b.X)
	})
	return keys
}
