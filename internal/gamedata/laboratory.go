package gamedata

import (
	"github.com/samdwyer/burrow/internal/builder"
	"github.com/samdwyer/burrow/internal/geom"
)

// LabMemberDef is one rectangle of the hand-authored laboratory, relative
// to the laboratory's origin.
type LabMemberDef struct {
	Kind string `json:"kind"` // shaft, tunnel, corridor or room
	Lo   [2]int `json:"lo"`   // Bottom-left corner
	Hi   [2]int `json:"hi"`   // Top-right corner
}

// LaboratoryFile represents the structure of laboratory.json.
type LaboratoryFile struct {
	Members []LabMemberDef `json:"members"`
}

// LoadLaboratory loads the embedded laboratory.json.
func LoadLaboratory() (LaboratoryFile, error) {
	return Load[LaboratoryFile]("laboratory.json")
}

// Layout converts the file into builder members placed at origin.
func (l LaboratoryFile) Layout(origin geom.IntVector2) []builder.Member {
	out := make([]builder.Member, 0, len(l.Members))
	for _, m := range l.Members {
		out = append(out, builder.Member{
			Kind: builder.Kind(m.Kind),
			Lo:   origin.Add(geom.Vec(m.Lo[0], m.Lo[1])),
			Hi:   origin.Add(geom.Vec(m.Hi[0], m.Hi[1])),
		})
	}
	return out
}
