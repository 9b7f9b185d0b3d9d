package gamedata

// KindWeight is one builder kind the picker may choose.
type KindWeight struct {
	Kind     string `json:"kind"`     // Builder kind (e.g., "corridor")
	Weight   int    `json:"weight"`   // Relative frequency
	MinDepth int    `json:"minDepth"` // Shallowest chunk row (counted downward) it appears at
}

// PickerFile represents the structure of picker.json.
type PickerFile struct {
	Kinds             []KindWeight `json:"kinds"`
	EmptyWeight       int          `json:"emptyWeight"`       // Weight of leaving a slot empty
	MaxPerChunk       int          `json:"maxPerChunk"`       // Slots rolled per activated chunk
	CavernousChance   float64      `json:"cavernousChance"`   // Chance a room or den turns cavernous
	RiskPerDepth      int          `json:"riskPerDepth"`      // Risk points per chunk row below the surface
	RiskPerRemoteness int          `json:"riskPerRemoteness"` // Risk points per chunk away from the origin column
}

// LoadPicker loads the embedded picker.json.
func LoadPicker() (PickerFile, error) {
	return Load[PickerFile]("picker.json")
}

// Weights returns the kinds and weights allowed at depth, with the empty
// choice last under the name "".
func (p PickerFile) Weights(depth int) ([]string, []int) {
	var kinds []string
	var weights []int
	for _, k := range p.Kinds {
		if k.MinDepth > depth {
			continue
		}
		kinds = append(kinds, k.Kind)
		weights = append(weights, k.Weight)
	}
	kinds = append(kinds, "")
	weights = append(weights, p.EmptyWeight)
	return kinds, weights
}
