package geom

import (
	"errors"
	"fmt"
)

var (
	// ErrDisjoint is returned when merging shapes that do not overlap.
	ErrDisjoint = errors.New("shapes do not overlap")
	// ErrMergeFailed is returned when the outline walk does not close.
	ErrMergeFailed = errors.New("outline walk did not close")
)

// Merge splices the outlines of two overlapping shapes into one polygon
// covering both. It is meant for the rectangle-like convex shapes produced
// by the builders; non-convex or self-intersecting input is not supported.
func Merge(a, b *Shape) (*Shape, error) {
	if containsAll(a, b) {
		return a, nil
	}
	if containsAll(b, a) {
		return b, nil
	}
	if !overlaps(a, b) {
		return nil, fmt.Errorf("merge %v with %v: %w", a, b, ErrDisjoint)
	}

	start := -1
	for i, v := range a.vertices {
		if !b.Contains(v) {
			start = i
			break
		}
	}

	first := a.vertices[start]
	out := []IntVector2{first}
	cur, other := a, b
	idx := start
	pt := first

	limit := 4*(a.Len()+b.Len()) + 8
	for step := 0; step < limit; step++ {
		target := cur.Vertex(idx + 1)
		if hit, j, ok := nearestCrossing(Segment{Start: pt, End: target}, cur, other); ok {
			out = append(out, hit)
			cur, other = other, cur
			idx = j
			pt = hit
			if pt == cur.Vertex(idx+1) {
				idx++
			}
			continue
		}

		idx++
		pt = target
		if cur == a && pt == first {
			return NewShape(dedupe(out))
		}
		out = append(out, pt)
	}
	return nil, fmt.Errorf("merge %v with %v: %w", a, b, ErrMergeFailed)
}

// nearestCrossing finds the first point along edge where the walk should
// leave cur and continue on other. Crossings where other's boundary heads
// into cur are ignored.
func nearestCrossing(edge Segment, cur, other *Shape) (IntVector2, int, bool) {
	var (
		best     IntVector2
		bestEdge = -1
		bestDist = -1
	)
	for j := 0; j < other.Len(); j++ {
		oe := other.Edge(j)
		if oe.IsDegenerate() {
			continue
		}
		q, ok := Intersect(edge, oe)
		if !ok || q == edge.Start {
			continue
		}
		next := other.Vertex(j + 1)
		if next == q {
			next = other.Vertex(j + 2)
		}
		if containsMidpointStrictly(cur, q, next) {
			continue
		}
		d := q.Sub(edge.Start)
		dist := d.X*d.X + d.Y*d.Y
		if bestEdge < 0 || dist < bestDist {
			best, bestEdge, bestDist = q, j, dist
		}
	}
	return best, bestEdge, bestEdge >= 0
}

// containsMidpointStrictly tests the midpoint of p-q against s using doubled
// coordinates so the test stays on integers.
func containsMidpointStrictly(s *Shape, p, q IntVector2) bool {
	m := p.Add(q)
	constrained := false
	for i := range s.vertices {
		e := s.Edge(i)
		if e.IsDegenerate() {
			continue
		}
		constrained = true
		if e.Vector().Cross(m.Sub(e.Start.Scale(2))) >= 0 {
			return false
		}
	}
	return constrained
}

func containsAll(outer, inner *Shape) bool {
	for _, v := range inner.vertices {
		if !outer.Contains(v) {
			return false
		}
	}
	return true
}

func overlaps(a, b *Shape) bool {
	if DoesIntersect(a, b) || DoesIntersect(b, a) {
		return true
	}
	for i := 0; i < a.Len(); i++ {
		for j := 0; j < b.Len(); j++ {
			if _, ok := Intersect(a.Edge(i), b.Edge(j)); ok {
				return true
			}
		}
	}
	return false
}
