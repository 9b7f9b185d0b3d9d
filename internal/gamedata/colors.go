package gamedata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// ParseColor reads a palette color: "#RRGGBB", bare "RRGGBB", or one of
// tcell's named colors such as "gold".
func ParseColor(s string) (tcell.Color, error) {
	s = strings.TrimSpace(s)
	if c, ok := tcell.ColorNames[strings.ToLower(s)]; ok {
		return c, nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return tcell.ColorDefault, fmt.Errorf("color %q: want #RRGGBB or a name", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("color %q: %w", s, err)
	}
	return tcell.NewHexColor(int32(v)), nil
}
