// Package space defines the immutable regions carved into the world and the
// modifiers that decorate them.
package space

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/samdwyer/burrow/internal/geom"
	"github.com/samdwyer/burrow/internal/rng"
)

// ErrSealed is returned when appending to a space that has already been
// read by materialization.
var ErrSealed = errors.New("space is sealed")

// Params describes a space at creation time.
type Params struct {
	Name    string
	Kind    string
	Parent  string
	Extents *geom.Extents
	Capped  bool
}

// Space is a named region of the world. Its geometry never changes after
// creation. Overrides, hazards, props and enemy spawns may be appended until
// the first cell lookup seals it.
type Space struct {
	name      string
	kind      string
	parent    string
	extents   *geom.Extents
	capped    bool
	hazardous bool

	overrides map[geom.IntVector2]BlockType
	hazards   map[geom.IntVector2]Hazard
	props     map[geom.IntVector2]PropType
	enemies   []EnemySpawn
	modifiers []ModifierType

	sealed bool
}

// New creates an unsealed space.
func New(p Params) *Space {
	ext := p.Extents
	if ext == nil {
		ext = geom.NewExtents()
	}
	return &Space{
		name:      p.Name,
		kind:      p.Kind,
		parent:    p.Parent,
		extents:   ext,
		capped:    p.Capped,
		overrides: make(map[geom.IntVector2]BlockType),
		hazards:   make(map[geom.IntVector2]Hazard),
		props:     make(map[geom.IntVector2]PropType),
	}
}

// Name returns the globally unique space name.
func (s *Space) Name() string { return s.name }

// Kind returns the builder kind that produced the space.
func (s *Space) Kind() string { return s.kind }

// Parent returns the name of the owning space, or "".
func (s *Space) Parent() string { return s.parent }

// Extents returns the space geometry.
func (s *Space) Extents() *geom.Extents { return s.extents }

// Capped reports whether the space was closed off from above.
func (s *Space) Capped() bool { return s.capped }

// Hazardous reports whether any hazard was placed in the space.
func (s *Space) Hazardous() bool { return s.hazardous }

// Sealed reports whether the space has been read by materialization.
func (s *Space) Sealed() bool { return s.sealed }

// Min returns the bottom-left corner of the bounding box.
func (s *Space) Min() geom.IntVector2 { return s.extents.Min() }

// Max returns the top-right corner of the bounding box.
func (s *Space) Max() geom.IntVector2 { return s.extents.Max() }

// Width is the horizontal span of the bounding box.
func (s *Space) Width() int { return s.extents.Max().X - s.extents.Min().X }

// Height is the vertical span of the bounding box.
func (s *Space) Height() int { return s.extents.Max().Y - s.extents.Min().Y }

// Contains reports whether p lies inside the space.
func (s *Space) Contains(p geom.IntVector2) bool {
	return s.extents.Contains(p)
}

// Seal freezes the space. Later appends fail with ErrSealed.
func (s *Space) Seal() { s.sealed = true }

// Cell returns the block, hazard and prop at p and seals the space.
func (s *Space) Cell(p geom.IntVector2) Cell {
	s.sealed = true
	return s.cellAt(p)
}

// BlockType returns the block at p and seals the space.
func (s *Space) BlockType(p geom.IntVector2) BlockType {
	s.sealed = true
	return s.blockAt(p)
}

func (s *Space) cellAt(p geom.IntVector2) Cell {
	return Cell{Block: s.blockAt(p), Hazard: s.hazards[p], Prop: s.props[p]}
}

// blockAt reads without sealing; modifiers use it while decorating.
func (s *Space) blockAt(p geom.IntVector2) BlockType {
	if b, ok := s.overrides[p]; ok {
		return b
	}
	return BlockNone
}

// SetBlock overrides the block at a position inside the space.
func (s *Space) SetBlock(p geom.IntVector2, b BlockType) error {
	if err := s.checkAppend(p); err != nil {
		return err
	}
	s.overrides[p] = b
	return nil
}

// AddHazard places a hazard inside the space and marks it hazardous.
func (s *Space) AddHazard(p geom.IntVector2, h Hazard) error {
	if err := s.checkAppend(p); err != nil {
		return err
	}
	s.hazards[p] = h
	s.hazardous = true
	return nil
}

// AddProp places a prop inside the space.
func (s *Space) AddProp(p geom.IntVector2, prop PropType) error {
	if err := s.checkAppend(p); err != nil {
		return err
	}
	s.props[p] = prop
	return nil
}

// AddEnemy appends an enemy spawn.
func (s *Space) AddEnemy(e EnemySpawn) error {
	if err := s.checkAppend(e.Position); err != nil {
		return err
	}
	s.enemies = append(s.enemies, e)
	return nil
}

// Apply runs a modifier over the space and records its type.
func (s *Space) Apply(m Modifier, r *rng.Source) error {
	if s.sealed {
		return fmt.Errorf("apply %s to %s: %w", m.Type(), s.name, ErrSealed)
	}
	if err := m.Apply(s, r); err != nil {
		return fmt.Errorf("apply %s to %s: %w", m.Type(), s.name, err)
	}
	s.modifiers = append(s.modifiers, m.Type())
	return nil
}

// RecordModifier notes a modifier as applied without running it. Storage
// uses it when rehydrating a space whose effects were saved cell by cell.
func (s *Space) RecordModifier(t ModifierType) error {
	if s.sealed {
		return fmt.Errorf("record %s on %s: %w", t, s.name, ErrSealed)
	}
	s.modifiers = append(s.modifiers, t)
	return nil
}

// Enemies returns the enemy spawns in insertion order.
func (s *Space) Enemies() []EnemySpawn { return slices.Clone(s.enemies) }

// Modifiers returns applied modifier types in order.
func (s *Space) Modifiers() []ModifierType { return slices.Clone(s.modifiers) }

// Overrides returns a copy of the block overrides.
func (s *Space) Overrides() map[geom.IntVector2]BlockType { return maps.Clone(s.overrides) }

// Hazards returns a copy of the hazard placements.
func (s *Space) Hazards() map[geom.IntVector2]Hazard { return maps.Clone(s.hazards) }

// Props returns a copy of the prop placements.
func (s *Space) Props() map[geom.IntVector2]PropType { return maps.Clone(s.props) }

func (s *Space) checkAppend(p geom.IntVector2) error {
	if s.sealed {
		return fmt.Errorf("space %s: %w", s.name, ErrSealed)
	}
	if !s.extents.Contains(p) {
		return fmt.Errorf("space %s: position %v outside extents: %w", s.name, p, geom.ErrInvalidArgument)
	}
	return nil
}
