package geom

import "fmt"

// Direction is one of the eight compass directions in grid space.
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
	UpRight
	DownRight
	DownLeft
	UpLeft
)

// Cardinals lists the four axis-aligned directions in table order.
var Cardinals = [4]Direction{Up, Right, Down, Left}

// IsCardinal reports whether d is Up, Right, Down or Left.
func (d Direction) IsCardinal() bool {
	return d >= Up && d <= Left
}

// Horizontal reports whether d moves along the x axis only.
func (d Direction) Horizontal() bool {
	return d == Left || d == Right
}

// Sign is +1 for directions that grow a coordinate (Up, Right) and -1 for
// Down and Left.
func (d Direction) Sign() int {
	if d == Up || d == Right {
		return 1
	}
	return -1
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	case UpRight:
		return DownLeft
	case DownLeft:
		return UpRight
	case UpLeft:
		return DownRight
	default:
		return UpLeft
	}
}

// Vector returns the unit step for d.
func (d Direction) Vector() IntVector2 {
	switch d {
	case Up:
		return IntVector2{0, 1}
	case Down:
		return IntVector2{0, -1}
	case Left:
		return IntVector2{-1, 0}
	case Right:
		return IntVector2{1, 0}
	case UpRight:
		return IntVector2{1, 1}
	case DownRight:
		return IntVector2{1, -1}
	case DownLeft:
		return IntVector2{-1, -1}
	default:
		return IntVector2{-1, 1}
	}
}

// Index returns the slot of a cardinal direction in a [4]int table.
func (d Direction) Index() int {
	return int(d)
}

// RequireCardinal returns an ErrInvalidArgument wrapped error for ordinal
// directions.
func RequireCardinal(d Direction) error {
	if !d.IsCardinal() {
		return fmt.Errorf("direction %s is not cardinal: %w", d, ErrInvalidArgument)
	}
	return nil
}

// String returns a human-readable direction name.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	case UpRight:
		return "up-right"
	case DownRight:
		return "down-right"
	case DownLeft:
		return "down-left"
	case UpLeft:
		return "up-left"
	default:
		return "unknown"
	}
}

// ParseDirection converts a name produced by String back into a Direction.
func ParseDirection(name string) (Direction, error) {
	for d := Up; d <= UpLeft; d++ {
		if d.String() == name {
			return d, nil
		}
	}
	return Up, fmt.Errorf("direction %q: %w", name, ErrInvalidArgument)
}

// Beyond reports how far value sits past limit when travelling in d.
// Positive means value overhangs the limit.
func Beyond(d Direction, value, limit int) int {
	return (value - limit) * d.Sign()
}
