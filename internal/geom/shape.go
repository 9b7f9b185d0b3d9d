package geom

import (
	"fmt"
	"math"
	"slices"
)

// Shape is a closed polygon. Consecutive vertices, and the last and first
// vertex, are joined by edges. Vertices are kept in clockwise order.
type Shape struct {
	vertices []IntVector2
	min, max IntVector2
}

// NewShape builds a polygon from at least two vertices. Counter-clockwise
// input is reversed so that the interior is always on the right of each edge.
func NewShape(vertices []IntVector2) (*Shape, error) {
	if len(vertices) < 2 {
		return nil, fmt.Errorf("shape needs at least 2 vertices, got %d: %w", len(vertices), ErrInvalidArgument)
	}

	vs := slices.Clone(vertices)
	if signedArea(vs) > 0 {
		slices.Reverse(vs)
	}

	s := &Shape{vertices: vs, min: vs[0], max: vs[0]}
	for _, v := range vs[1:] {
		s.min = MinOf(s.min, v)
		s.max = MaxOf(s.max, v)
	}
	return s, nil
}

// MustShape is NewShape for literal vertex lists that are known to be valid.
func MustShape(vertices ...IntVector2) *Shape {
	s, err := NewShape(vertices)
	if err != nil {
		panic(err)
	}
	return s
}

// Rect returns the clockwise rectangle spanning lo to hi inclusive.
func Rect(lo, hi IntVector2) *Shape {
	return MustShape(
		IntVector2{lo.X, lo.Y},
		IntVector2{lo.X, hi.Y},
		IntVector2{hi.X, hi.Y},
		IntVector2{hi.X, lo.Y},
	)
}

// Vertices returns a copy of the vertex list.
func (s *Shape) Vertices() []IntVector2 {
	return slices.Clone(s.vertices)
}

// Len returns the number of vertices.
func (s *Shape) Len() int {
	return len(s.vertices)
}

// Vertex returns the i-th vertex, wrapping around the polygon.
func (s *Shape) Vertex(i int) IntVector2 {
	n := len(s.vertices)
	return s.vertices[((i%n)+n)%n]
}

// Edge returns the segment from vertex i to vertex i+1.
func (s *Shape) Edge(i int) Segment {
	return Segment{Start: s.Vertex(i), End: s.Vertex(i + 1)}
}

// Segments returns every edge of the polygon in order.
func (s *Shape) Segments() []Segment {
	out := make([]Segment, len(s.vertices))
	for i := range s.vertices {
		out[i] = s.Edge(i)
	}
	return out
}

// Min returns the bottom-left corner of the bounding box.
func (s *Shape) Min() IntVector2 { return s.min }

// Max returns the top-right corner of the bounding box.
func (s *Shape) Max() IntVector2 { return s.max }

// Contains reports whether p is inside or on the boundary of the polygon.
// A point strictly left of any edge is outside. Zero-length edges have no
// orientation and are skipped, so repeated vertices stay inside; see
// TestDegenerateEdgesAreSkipped.
func (s *Shape) Contains(p IntVector2) bool {
	if p.X < s.min.X || p.X > s.max.X || p.Y < s.min.Y || p.Y > s.max.Y {
		return false
	}

	constrained := false
	for i := range s.vertices {
		e := s.Edge(i)
		if e.IsDegenerate() {
			continue
		}
		constrained = true
		if e.Vector().Cross(p.Sub(e.Start)) > 0 {
			return false
		}
	}
	if !constrained {
		return p == s.vertices[0]
	}
	return true
}

// ContainsStrictly is Contains without the boundary.
func (s *Shape) ContainsStrictly(p IntVector2) bool {
	constrained := false
	for i := range s.vertices {
		e := s.Edge(i)
		if e.IsDegenerate() {
			continue
		}
		constrained = true
		if e.Vector().Cross(p.Sub(e.Start)) >= 0 {
			return false
		}
	}
	return constrained
}

// Equal reports whether both shapes have the same vertex sequence.
func (s *Shape) Equal(o *Shape) bool {
	if s == nil || o == nil {
		return s == o
	}
	return slices.Equal(s.vertices, o.vertices)
}

// Translate returns a copy of s moved by v.
func (s *Shape) Translate(v IntVector2) *Shape {
	vs := make([]IntVector2, len(s.vertices))
	for i, p := range s.vertices {
		vs[i] = p.Add(v)
	}
	return &Shape{vertices: vs, min: s.min.Add(v), max: s.max.Add(v)}
}

func (s *Shape) String() string {
	return fmt.Sprintf("Shape%v", s.vertices)
}

// DoesIntersect is a cheap overlap test: true if any vertex of a lies in b.
func DoesIntersect(a, b *Shape) bool {
	for _, v := range a.vertices {
		if b.Contains(v) {
			return true
		}
	}
	return false
}

// ClipRect clips a convex shape to the rectangle lo..hi. It reports false
// when nothing of the shape remains.
func ClipRect(s *Shape, lo, hi IntVector2) (*Shape, bool) {
	pts := slices.Clone(s.vertices)
	planes := []struct {
		d     Direction
		limit int
	}{
		{Left, lo.X}, {Right, hi.X}, {Down, lo.Y}, {Up, hi.Y},
	}
	for _, pl := range planes {
		pts = clipPlane(pts, pl.d, pl.limit)
		if len(pts) == 0 {
			return nil, false
		}
	}

	pts = dedupe(pts)
	if len(pts) < 2 {
		if len(pts) == 1 {
			pts = append(pts, pts[0])
		} else {
			return nil, false
		}
	}
	out, err := NewShape(pts)
	if err != nil {
		return nil, false
	}
	return out, true
}

// clipPlane keeps the part of the polygon that does not overhang limit in d.
func clipPlane(pts []IntVector2, d Direction, limit int) []IntVector2 {
	inside := func(p IntVector2) bool { return Beyond(d, p.Component(d), limit) <= 0 }
	var out []IntVector2
	n := len(pts)
	for i := 0; i < n; i++ {
		cur, next := pts[i], pts[(i+1)%n]
		cin, nin := inside(cur), inside(next)
		if cin {
			out = append(out, cur)
		}
		if cin != nin {
			out = append(out, crossAt(cur, next, d, limit))
		}
	}
	return out
}

func crossAt(a, b IntVector2, d Direction, limit int) IntVector2 {
	ca, cb := a.Component(d), b.Component(d)
	t := float64(limit-ca) / float64(cb-ca)
	p := IntVector2{
		X: a.X + int(math.Round(t*float64(b.X-a.X))),
		Y: a.Y + int(math.Round(t*float64(b.Y-a.Y))),
	}
	return project(p, d, limit)
}

func dedupe(pts []IntVector2) []IntVector2 {
	out := pts[:0:0]
	for i, p := range pts {
		if i > 0 && p == out[len(out)-1] {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

// signedArea is twice the shoelace area; positive for counter-clockwise
// winding with y up.
func signedArea(vs []IntVector2) int {
	sum := 0
	for i := range vs {
		a, b := vs[i], vs[(i+1)%len(vs)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum
}
