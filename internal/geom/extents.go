package geom

import (
	"errors"
	"fmt"
	"slices"
)

// ErrDuplicateShape is reported when a shape equal to a member is added.
var ErrDuplicateShape = errors.New("duplicate shape")

// Extents is a possibly disjoint region made of one or more shapes.
type Extents struct {
	shapes   []*Shape
	min, max IntVector2
	outline  *Shape
	problems []error
}

// NewExtents builds an Extents from shapes in order. Duplicates are
// dropped; what Add reported is kept in Problems for the caller to log.
func NewExtents(shapes ...*Shape) *Extents {
	e := &Extents{}
	for _, s := range shapes {
		if err := e.Add(s); err != nil {
			e.problems = append(e.problems, err)
		}
	}
	return e
}

// Add appends a shape to the region. A shape equal to one already present
// is ignored with ErrDuplicateShape. A shape the outline cannot absorb
// (ErrDisjoint, ErrMergeFailed) is still kept for Contains, but the
// outline stays as it was and the merge error is returned.
func (e *Extents) Add(s *Shape) error {
	if s == nil {
		return nil
	}
	for _, existing := range e.shapes {
		if existing.Equal(s) {
			return fmt.Errorf("%v: %w", s, ErrDuplicateShape)
		}
	}

	if len(e.shapes) == 0 {
		e.min, e.max = s.Min(), s.Max()
		e.outline = s
		e.shapes = append(e.shapes, s)
		return nil
	}

	e.shapes = append(e.shapes, s)
	e.min = MinOf(e.min, s.Min())
	e.max = MaxOf(e.max, s.Max())

	merged, err := Merge(e.outline, s)
	if err != nil {
		return fmt.Errorf("outline with %v: %w", s, err)
	}
	e.outline = merged
	return nil
}

// Problems returns what Add reported while NewExtents built the region.
func (e *Extents) Problems() []error { return slices.Clone(e.problems) }

// Contains reports whether any member shape contains p.
func (e *Extents) Contains(p IntVector2) bool {
	if len(e.shapes) == 0 {
		return false
	}
	if p.X < e.min.X || p.X > e.max.X || p.Y < e.min.Y || p.Y > e.max.Y {
		return false
	}
	for _, s := range e.shapes {
		if s.Contains(p) {
			return true
		}
	}
	return false
}

// Shapes returns the member shapes in insertion order.
func (e *Extents) Shapes() []*Shape {
	return slices.Clone(e.shapes)
}

// Len returns the number of member shapes.
func (e *Extents) Len() int { return len(e.shapes) }

// Min returns the bottom-left corner of the combined bounding box.
func (e *Extents) Min() IntVector2 { return e.min }

// Max returns the top-right corner of the combined bounding box.
func (e *Extents) Max() IntVector2 { return e.max }

// Outline returns the merged outline of all shapes, or nil when empty.
func (e *Extents) Outline() *Shape { return e.outline }
