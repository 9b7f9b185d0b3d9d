package gamedata

import (
	"fmt"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/burrow/internal/geom"
	"github.com/samdwyer/burrow/internal/space"
)

// GlyphDef is one palette entry.
type GlyphDef struct {
	Name       string `json:"name"`       // Block, hazard or prop data name (e.g., "dirt")
	Glyph      string `json:"glyph"`      // Character drawn for the cell
	Color      string `json:"color"`      // Foreground hex color
	Background string `json:"background"` // Optional background hex color
}

// PaletteFile represents the structure of palette.json.
type PaletteFile struct {
	Blocks  []GlyphDef `json:"blocks"`
	Hazards []GlyphDef `json:"hazards"`
	Props   []GlyphDef `json:"props"`
	Sky     GlyphDef   `json:"sky"`
}

// Look is a resolved glyph and style.
type Look struct {
	Glyph rune
	Style tcell.Style
}

// Palette maps cell contents to what the renderer draws.
type Palette struct {
	blocks  map[space.BlockType]Look
	hazards map[space.HazardType]Look
	props   map[space.PropType]Look
	sky     Look
}

// LoadPalette loads the embedded palette.json.
func LoadPalette() (*Palette, error) {
	file, err := Load[PaletteFile]("palette.json")
	if err != nil {
		return nil, err
	}
	return NewPalette(file)
}

// NewPalette resolves a palette file. Unknown block names are an error;
// hazard and prop entries are matched by name.
func NewPalette(file PaletteFile) (*Palette, error) {
	p := &Palette{
		blocks:  make(map[space.BlockType]Look),
		hazards: make(map[space.HazardType]Look),
		props:   make(map[space.PropType]Look),
		sky:     file.Sky.look(),
	}
	for _, def := range file.Blocks {
		b, err := space.ParseBlockType(def.Name)
		if err != nil {
			return nil, fmt.Errorf("palette: %w", err)
		}
		p.blocks[b] = def.look()
	}
	for _, def := range file.Hazards {
		for _, h := range []space.HazardType{space.HazardSpikes, space.HazardAcid} {
			if h.String() == def.Name {
				p.hazards[h] = def.look()
			}
		}
	}
	for _, def := range file.Props {
		for _, pr := range []space.PropType{space.PropLamp, space.PropConsole, space.PropElevatorStop} {
			if pr.String() == def.Name {
				p.props[pr] = def.look()
			}
		}
	}
	return p, nil
}

func (g GlyphDef) look() Look {
	r, _ := utf8.DecodeRuneInString(g.Glyph)
	if r == utf8.RuneError {
		r = '?'
	}
	style := tcell.StyleDefault.Foreground(colorOr(g.Color, tcell.ColorWhite))
	if g.Background != "" {
		style = style.Background(colorOr(g.Background, tcell.ColorDefault))
	}
	return Look{Glyph: r, Style: style}
}

func colorOr(s string, fallback tcell.Color) tcell.Color {
	c, err := ParseColor(s)
	if err != nil {
		return fallback
	}
	return c
}

// Block returns the look of a block.
func (p *Palette) Block(b space.BlockType) Look {
	if l, ok := p.blocks[b]; ok {
		return l
	}
	return Look{Glyph: '?', Style: tcell.StyleDefault}
}

// Hazard returns the look of a hazard. Spikes pointing down use 'v'.
func (p *Palette) Hazard(h space.Hazard) Look {
	l, ok := p.hazards[h.Type]
	if !ok {
		return Look{Glyph: '!', Style: tcell.StyleDefault.Foreground(tcell.ColorRed)}
	}
	if h.Type == space.HazardSpikes && h.Facing == geom.Down {
		l.Glyph = 'v'
	}
	return l
}

// Prop returns the look of a prop.
func (p *Palette) Prop(pr space.PropType) Look {
	if l, ok := p.props[pr]; ok {
		return l
	}
	return Look{Glyph: '?', Style: tcell.StyleDefault}
}

// Sky returns the look of open air above the surface.
func (p *Palette) Sky() Look { return p.sky }
