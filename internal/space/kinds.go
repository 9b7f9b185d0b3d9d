package space

import (
	"fmt"

	"github.com/samdwyer/burrow/internal/geom"
)

// BlockType is the solid material placed in a cell.
type BlockType int

const (
	// BlockNone is an open cell.
	BlockNone BlockType = iota
	BlockDirt
	BlockStone
	BlockBrick
	BlockMetal
	BlockGlass
)

var blockNames = map[BlockType]string{
	BlockNone:  "none",
	BlockDirt:  "dirt",
	BlockStone: "stone",
	BlockBrick: "brick",
	BlockMetal: "metal",
	BlockGlass: "glass",
}

// String returns the block's data name.
func (b BlockType) String() string {
	if name, ok := blockNames[b]; ok {
		return name
	}
	return "unknown"
}

// IsSolid reports whether the block fills its cell.
func (b BlockType) IsSolid() bool {
	return b != BlockNone
}

// ParseBlockType converts a data name back into a BlockType.
func ParseBlockType(name string) (BlockType, error) {
	for b, n := range blockNames {
		if n == name {
			return b, nil
		}
	}
	return BlockNone, fmt.Errorf("unknown block type %q", name)
}

// HazardType is a damaging fixture placed in an open cell.
type HazardType int

const (
	HazardNone HazardType = iota
	HazardSpikes
	HazardAcid
)

// String returns the hazard's data name.
func (h HazardType) String() string {
	switch h {
	case HazardNone:
		return "none"
	case HazardSpikes:
		return "spikes"
	case HazardAcid:
		return "acid"
	default:
		return "unknown"
	}
}

// Hazard is a hazard placement with the direction it points.
type Hazard struct {
	Type   HazardType
	Facing geom.Direction
}

// PropType is a decorative or interactive fixture in an open cell.
type PropType int

const (
	PropNone PropType = iota
	PropLamp
	PropConsole
	PropElevatorStop
)

// String returns the prop's data name.
func (p PropType) String() string {
	switch p {
	case PropNone:
		return "none"
	case PropLamp:
		return "lamp"
	case PropConsole:
		return "console"
	case PropElevatorStop:
		return "elevator_stop"
	default:
		return "unknown"
	}
}

// EnemySpawn is a pending enemy placement inside a space.
type EnemySpawn struct {
	Kind     string
	Position geom.IntVector2
}

// Cell is everything a space says about one position.
type Cell struct {
	Block  BlockType
	Hazard Hazard
	Prop   PropType
}

// ParseHazardType converts a data name back into a HazardType.
func ParseHazardType(name string) (HazardType, error) {
	for h := HazardNone; h <= HazardAcid; h++ {
		if h.String() == name {
			return h, nil
		}
	}
	return HazardNone, fmt.Errorf("unknown hazard type %q", name)
}

// ParsePropType converts a data name back into a PropType.
func ParsePropType(name string) (PropType, error) {
	for p := PropNone; p <= PropElevatorStop; p++ {
		if p.String() == name {
			return p, nil
		}
	}
	return PropNone, fmt.Errorf("unknown prop type %q", name)
}
