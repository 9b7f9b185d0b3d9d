package entity

import "github.com/samdwyer/burrow/internal/geom"

// Explorer is the avatar the viewer follows through the world.
type Explorer struct {
	Pos    geom.IntVector2 // Current world position
	Symbol rune            // Display symbol ('@')
}

// NewExplorer creates an explorer at pos.
func NewExplorer(pos geom.IntVector2) *Explorer {
	return &Explorer{
		Pos:    pos,
		Symbol: '@',
	}
}

// Move updates the explorer position by the given delta.
func (e *Explorer) Move(d geom.IntVector2) {
	e.Pos = e.Pos.Add(d)
}

// Position returns the current world position.
func (e *Explorer) Position() geom.IntVector2 {
	return e.Pos
}
