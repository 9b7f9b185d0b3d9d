package entity

import (
	"github.com/samdwyer/burrow/internal/gamedata"
	"github.com/samdwyer/burrow/internal/geom"
	"github.com/samdwyer/burrow/internal/space"
)

// Loader turns materialized cells into runtime state. It keeps the enemies
// it creates and counts the rest, which the viewer reads straight from the
// chunks.
type Loader struct {
	registry *gamedata.EnemyRegistry
	enemies  []*Enemy
	blocks   int
	hazards  int
	props    int
}

// NewLoader creates a loader that resolves enemy kinds through registry.
func NewLoader(registry *gamedata.EnemyRegistry) *Loader {
	return &Loader{registry: registry}
}

func (l *Loader) LoadBlock(space.BlockType, geom.IntVector2) {
	l.blocks++
}

func (l *Loader) LoadHazard(space.Hazard, geom.IntVector2) {
	l.hazards++
}

func (l *Loader) LoadProp(space.PropType, geom.IntVector2) {
	l.props++
}

// LoadEnemy creates an enemy of kind at pos. Unknown kinds still get an
// enemy so nothing a space recorded goes missing.
func (l *Loader) LoadEnemy(kind string, pos geom.IntVector2) {
	var e *Enemy
	if def := l.registry.GetByID(kind); def != nil {
		e = NewEnemy(def, pos)
	} else {
		e = newUnknownEnemy(kind, pos)
	}
	l.enemies = append(l.enemies, e)
}

// Enemies returns every enemy created so far.
func (l *Loader) Enemies() []*Enemy {
	out := make([]*Enemy, len(l.enemies))
	copy(out, l.enemies)
	return out
}

// EnemyAt returns the enemy standing on pos, if any.
func (l *Loader) EnemyAt(pos geom.IntVector2) *Enemy {
	for _, e := range l.enemies {
		if e.Pos == pos {
			return e
		}
	}
	return nil
}

// Counts returns how many blocks, hazards and props were loaded.
func (l *Loader) Counts() (blocks, hazards, props int) {
	return l.blocks, l.hazards, l.props
}
