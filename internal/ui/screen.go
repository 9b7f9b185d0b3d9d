// Package ui draws the world viewer on a terminal using tcell.
package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/burrow/internal/geom"
)

// StatusRows is the number of rows below the map reserved for text.
const StatusRows = 1

var baseStyle = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)

// Screen is the terminal the viewer draws on.
type Screen struct {
	screen tcell.Screen
}

// NewScreen opens the terminal.
func NewScreen() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return WrapScreen(s)
}

// WrapScreen initializes s, which may be a simulation screen.
func WrapScreen(s tcell.Screen) (*Screen, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.SetStyle(baseStyle)
	s.Clear()
	return &Screen{screen: s}, nil
}

// Close restores the terminal. A blocked PollEvent returns nil.
func (s *Screen) Close() { s.screen.Fini() }

// PollEvent waits for the next terminal event.
func (s *Screen) PollEvent() tcell.Event { return s.screen.PollEvent() }

func (s *Screen) Clear() { s.screen.Clear() }
func (s *Screen) Show()  { s.screen.Show() }
func (s *Screen) Sync()  { s.screen.Sync() }

// Size returns the terminal size in cells.
func (s *Screen) Size() (width, height int) { return s.screen.Size() }

// MapView returns the viewport of the map area centered on center. The
// bottom StatusRows rows are left for text.
func (s *Screen) MapView(center geom.IntVector2) Viewport {
	w, h := s.screen.Size()
	return Viewport{Center: center, Width: w, Height: max(h-StatusRows, 0)}
}

// SetContent draws one cell.
func (s *Screen) SetContent(x, y int, r rune, style tcell.Style) {
	s.screen.SetContent(x, y, r, nil, style)
}

// Content returns the rune and style drawn at x, y.
func (s *Screen) Content(x, y int) (rune, tcell.Style) {
	r, _, style, _ := s.screen.GetContent(x, y)
	return r, style
}

// DrawText writes text on row y from column x, clipped at the right edge.
// It returns the column after the last rune drawn.
func (s *Screen) DrawText(x, y int, text string, style tcell.Style) int {
	w, _ := s.screen.Size()
	for _, r := range text {
		if x >= w {
			break
		}
		s.screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}
