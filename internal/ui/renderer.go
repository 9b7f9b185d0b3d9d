package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/burrow/internal/entity"
	"github.com/samdwyer/burrow/internal/gamedata"
	"github.com/samdwyer/burrow/internal/geom"
	"github.com/samdwyer/burrow/internal/space"
)

// World is the part of a generation session the renderer reads.
type World interface {
	CellAt(p geom.IntVector2) (space.Cell, bool)
}

// Renderer handles drawing the world to the screen.
type Renderer struct {
	screen  *Screen
	palette *gamedata.Palette
	skyLine int
}

// NewRenderer creates a renderer. Open cells at or above skyLine are drawn
// as sky.
func NewRenderer(screen *Screen, palette *gamedata.Palette, skyLine int) *Renderer {
	return &Renderer{screen: screen, palette: palette, skyLine: skyLine}
}

// Viewport maps world positions onto the screen around a center. World y
// grows upward and screen y grows downward.
type Viewport struct {
	Center        geom.IntVector2
	Width, Height int
}

// ToScreen returns the screen position of p and whether it is visible.
func (v Viewport) ToScreen(p geom.IntVector2) (int, int, bool) {
	x := v.Width/2 + (p.X - v.Center.X)
	y := v.Height/2 - (p.Y - v.Center.Y)
	return x, y, x >= 0 && x < v.Width && y >= 0 && y < v.Height
}

// ToWorld returns the world position drawn at screen (x, y).
func (v Viewport) ToWorld(x, y int) geom.IntVector2 {
	return geom.Vec(v.Center.X+x-v.Width/2, v.Center.Y-(y-v.Height/2))
}

// Look picks what to draw for a materialized cell at p.
func (r *Renderer) Look(cell space.Cell, p geom.IntVector2) gamedata.Look {
	switch {
	case cell.Hazard.Type != space.HazardNone:
		return r.palette.Hazard(cell.Hazard)
	case cell.Prop != space.PropNone:
		return r.palette.Prop(cell.Prop)
	case cell.Block == space.BlockNone && p.Y >= r.skyLine:
		return r.palette.Sky()
	default:
		return r.palette.Block(cell.Block)
	}
}

// Render draws the world around the explorer, the enemies on top, and a
// status line at the bottom.
func (r *Renderer) Render(w World, explorer *entity.Explorer, enemies []*entity.Enemy, status string) {
	r.screen.Clear()
	vp := r.screen.MapView(explorer.Position())

	// Unmaterialized cells stay blank.
	for y := 0; y < vp.Height; y++ {
		for x := 0; x < vp.Width; x++ {
			p := vp.ToWorld(x, y)
			cell, ok := w.CellAt(p)
			if !ok {
				continue
			}
			look := r.Look(cell, p)
			r.screen.SetContent(x, y, look.Glyph, look.Style)
		}
	}

	for _, e := range enemies {
		if x, y, ok := vp.ToScreen(e.Position()); ok {
			r.screen.SetContent(x, y, e.Symbol, tcell.StyleDefault.Foreground(e.Color()))
		}
	}

	explorerStyle := tcell.StyleDefault.
		Foreground(tcell.ColorYellow).
		Bold(true)
	x, y, _ := vp.ToScreen(explorer.Position())
	r.screen.SetContent(x, y, explorer.Symbol, explorerStyle)

	r.screen.DrawText(0, vp.Height, status, tcell.StyleDefault.Foreground(tcell.ColorWhite))
	r.screen.Show()
}
