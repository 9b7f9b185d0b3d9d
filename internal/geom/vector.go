// Package geom provides the integer geometry used to describe spaces:
// vectors, directions, segments, polygons and multi-polygon extents.
package geom

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgument is returned for degenerate shapes and for operations
// that only accept cardinal directions.
var ErrInvalidArgument = errors.New("invalid argument")

// IntVector2 is an integer 2D vector. The y axis grows upward.
type IntVector2 struct {
	X, Y int
}

// Vec is shorthand for IntVector2{X: x, Y: y}.
func Vec(x, y int) IntVector2 {
	return IntVector2{X: x, Y: y}
}

// Add returns v + o.
func (v IntVector2) Add(o IntVector2) IntVector2 {
	return IntVector2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v IntVector2) Sub(o IntVector2) IntVector2 {
	return IntVector2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale multiplies both components by k.
func (v IntVector2) Scale(k int) IntVector2 {
	return IntVector2{X: v.X * k, Y: v.Y * k}
}

// Magnitude returns the euclidean length of v.
func (v IntVector2) Magnitude() float64 {
	return math.Hypot(float64(v.X), float64(v.Y))
}

// Cross returns the z component of the cross product v × o.
func (v IntVector2) Cross(o IntVector2) int {
	return v.X*o.Y - v.Y*o.X
}

// IsCollinear reports whether v lies on the infinite line through a and b.
func (v IntVector2) IsCollinear(a, b IntVector2) bool {
	return b.Sub(a).Cross(v.Sub(a)) == 0
}

// IsBetween reports whether v lies on the segment a-b. The range check is
// done on the dominant axis of the segment.
func (v IntVector2) IsBetween(a, b IntVector2) bool {
	if !v.IsCollinear(a, b) {
		return false
	}
	d := b.Sub(a)
	if abs(d.X) >= abs(d.Y) {
		return within(v.X, a.X, b.X)
	}
	return within(v.Y, a.Y, b.Y)
}

// Component returns the coordinate of v on the axis of d.
func (v IntVector2) Component(d Direction) int {
	if d.Horizontal() {
		return v.X
	}
	return v.Y
}

func (v IntVector2) String() string {
	return fmt.Sprintf("(%d,%d)", v.X, v.Y)
}

// MinOf returns the component-wise minimum of a and b.
func MinOf(a, b IntVector2) IntVector2 {
	return IntVector2{X: min(a.X, b.X), Y: min(a.Y, b.Y)}
}

// MaxOf returns the component-wise maximum of a and b.
func MaxOf(a, b IntVector2) IntVector2 {
	return IntVector2{X: max(a.X, b.X), Y: max(a.Y, b.Y)}
}

func within(v, a, b int) bool {
	if a > b {
		a, b = b, a
	}
	return v >= a && v <= b
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
