package gamedata

import (
	"errors"

	"github.com/samdwyer/burrow/internal/rng"
)

// EnemyRegistry holds loaded enemy definitions and provides spawning utilities.
type EnemyRegistry struct {
	enemies     []EnemyDef
	totalWeight int
}

// NewEnemyRegistry creates a registry from loaded enemy definitions.
func NewEnemyRegistry(enemies []EnemyDef) *EnemyRegistry {
	totalWeight := 0
	for _, e := range enemies {
		totalWeight += e.SpawnWeight
	}
	return &EnemyRegistry{
		enemies:     enemies,
		totalWeight: totalWeight,
	}
}

// LoadEnemyRegistry loads and creates a registry from the embedded enemies.json.
func LoadEnemyRegistry() (*EnemyRegistry, error) {
	enemies, err := LoadEnemies()
	if err != nil {
		return nil, err
	}
	if len(enemies) == 0 {
		return nil, errors.New("no enemies loaded from enemies.json")
	}
	return NewEnemyRegistry(enemies), nil
}

// MustLoadEnemyRegistry loads a registry, panicking on error.
func MustLoadEnemyRegistry() *EnemyRegistry {
	registry, err := LoadEnemyRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// SpawnRandom selects a random enemy definition using weighted probability.
// Enemies with higher spawnWeight are more likely to be selected.
func (r *EnemyRegistry) SpawnRandom(src *rng.Source) *EnemyDef {
	if r.totalWeight <= 0 || len(r.enemies) == 0 {
		return nil
	}

	weights := make([]int, len(r.enemies))
	for i := range r.enemies {
		weights[i] = r.enemies[i].SpawnWeight
	}
	i := src.Weighted(weights)
	if i < 0 {
		return nil
	}
	return &r.enemies[i]
}

// Pick chooses an enemy kind and its risk cost. It lets a registry serve
// as a builder's enemy table.
func (r *EnemyRegistry) Pick(src *rng.Source) (string, int, bool) {
	def := r.SpawnRandom(src)
	if def == nil {
		return "", 0, false
	}
	return def.ID, def.Risk, true
}

// ForDepth returns a registry limited to enemies allowed at depth.
func (r *EnemyRegistry) ForDepth(depth int) *EnemyRegistry {
	var allowed []EnemyDef
	for _, e := range r.enemies {
		if e.MinDepth <= depth {
			allowed = append(allowed, e)
		}
	}
	return NewEnemyRegistry(allowed)
}

// GetByID returns the enemy definition with the given ID, or nil if not found.
func (r *EnemyRegistry) GetByID(id string) *EnemyDef {
	for i := range r.enemies {
		if r.enemies[i].ID == id {
			return &r.enemies[i]
		}
	}
	return nil
}

// Count returns the number of enemy types in the registry.
func (r *EnemyRegistry) Count() int {
	return len(r.enemies)
}
