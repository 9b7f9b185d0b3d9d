// Package entity provides the runtime things that live in a materialized
// world: enemies, the explorer, and the loader that creates them.
package entity

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/burrow/internal/gamedata"
	"github.com/samdwyer/burrow/internal/geom"
)

// Enemy represents a hostile creature placed by a chunk materialization.
type Enemy struct {
	Def    *gamedata.EnemyDef // Reference to the enemy definition (nil when the kind is unknown)
	Kind   string             // Kind the space asked for
	Name   string             // Display name (e.g., "Cave Grub")
	Symbol rune               // Display symbol
	Pos    geom.IntVector2    // World position
	HP     int                // Current hit points
	MaxHP  int                // Maximum hit points
}

// NewEnemy creates an enemy from a data-driven definition.
func NewEnemy(def *gamedata.EnemyDef, pos geom.IntVector2) *Enemy {
	return &Enemy{
		Def:    def,
		Kind:   def.ID,
		Name:   def.Name,
		Symbol: def.GlyphRune(),
		Pos:    pos,
		HP:     def.HP,
		MaxHP:  def.HP,
	}
}

// newUnknownEnemy stands in for a kind missing from the registry, such as
// one read back from an older save.
func newUnknownEnemy(kind string, pos geom.IntVector2) *Enemy {
	return &Enemy{
		Kind:   kind,
		Name:   kind,
		Symbol: '?',
		Pos:    pos,
		HP:     1,
		MaxHP:  1,
	}
}

// Position returns the enemy's world position.
func (e *Enemy) Position() geom.IntVector2 {
	return e.Pos
}

// Color returns the tcell color for this enemy.
func (e *Enemy) Color() tcell.Color {
	if e.Def != nil {
		return e.Def.TCellColor()
	}
	return tcell.ColorPurple
}

// ID returns the enemy's type identifier.
func (e *Enemy) ID() string {
	return e.Kind
}
