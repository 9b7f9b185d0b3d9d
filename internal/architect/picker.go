package architect

import (
	"fmt"

	"github.com/samdwyer/burrow/internal/builder"
	"github.com/samdwyer/burrow/internal/chunk"
	"github.com/samdwyer/burrow/internal/gamedata"
	"github.com/samdwyer/burrow/internal/geom"
	"github.com/samdwyer/burrow/internal/rng"
	"github.com/samdwyer/burrow/internal/space"
)

// Picker chooses the space builders for a chunk being activated. The
// builders it returns are not yet clamped to the chunk.
type Picker interface {
	Pick(r *rng.Source, cb *chunk.Builder) ([]builder.SpaceBuilder, error)
}

// WeightedPicker rolls builder kinds from picker.json weights. Deeper and
// more remote chunks get a larger enemy budget.
type WeightedPicker struct {
	file    gamedata.PickerFile
	enemies *gamedata.EnemyRegistry
}

// NewWeightedPicker creates a picker over the given weights and enemies.
func NewWeightedPicker(file gamedata.PickerFile, enemies *gamedata.EnemyRegistry) *WeightedPicker {
	return &WeightedPicker{file: file, enemies: enemies}
}

// Risk returns the enemy budget for the chunk at key.
func (p *WeightedPicker) Risk(key geom.IntVector2, size int) int {
	remoteness := key.X / size
	if remoteness < 0 {
		remoteness = -remoteness
	}
	return chunk.Depth(key, size)*p.file.RiskPerDepth + remoteness*p.file.RiskPerRemoteness
}

func (p *WeightedPicker) Pick(r *rng.Source, cb *chunk.Builder) ([]builder.SpaceBuilder, error) {
	depth := cb.Depth()
	kinds, weights := p.file.Weights(depth)
	table := p.enemies.ForDepth(depth)
	risk := p.Risk(cb.Key(), cb.Size())

	var out []builder.SpaceBuilder
	for slot := 0; slot < p.file.MaxPerChunk; slot++ {
		i := r.Weighted(weights)
		if i < 0 || kinds[i] == "" {
			continue
		}
		lo, hi := cb.Min(), cb.Max()
		at := geom.Vec(r.Range(lo.X, hi.X), r.Range(lo.Y, hi.Y))
		sb, err := NewBuilder(builder.Kind(kinds[i]), r, at)
		if err != nil {
			return nil, err
		}

		if pop, ok := sb.(builder.Populator); ok && table.Count() > 0 {
			pop.Populate(table, risk)
		}
		switch sb.Kind() {
		case builder.KindRoom, builder.KindDen:
			if r.Chance(p.file.CavernousChance) {
				sb.AddModifier(space.ModifierCavernous)
			}
		}
		out = append(out, sb)
	}
	return out, nil
}

// NewBuilder creates a randomly sized builder of kind around at.
func NewBuilder(kind builder.Kind, r *rng.Source, at geom.IntVector2) (builder.SpaceBuilder, error) {
	switch kind {
	case builder.KindRoom:
		return builder.NewRoom(r, at), nil
	case builder.KindShaft:
		return builder.NewShaft(r, at), nil
	case builder.KindTunnel:
		return builder.NewTunnel(r, at), nil
	case builder.KindCorridor:
		return builder.NewCorridor(r, at), nil
	case builder.KindElevator:
		return builder.NewElevator(r, at), nil
	case builder.KindDen:
		return builder.NewDen(r, at), nil
	case builder.KindRotatedTunnel:
		return builder.NewRotatedTunnel(r, at), nil
	case builder.KindLaboratory:
		return builder.NewLaboratory(r, at), nil
	case builder.KindPlexus:
		return builder.NewPlexus(r, at), nil
	default:
		return nil, fmt.Errorf("builder kind %q: %w", kind, geom.ErrInvalidArgument)
	}
}
