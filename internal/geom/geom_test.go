package geom

import (
	"errors"
	"testing"
)

func TestIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Segment
		want IntVector2
		ok   bool
	}{
		{"parallel", Seg(Vec(-5, 0), Vec(5, 0)), Seg(Vec(-5, 1), Vec(5, 1)), IntVector2{}, false},
		{"disjoint", Seg(Vec(-2, -2), Vec(-2, 2)), Seg(Vec(-1, 3), Vec(1, 3)), IntVector2{}, false},
		{"shared endpoint", Seg(Vec(-5, 0), Vec(5, 0)), Seg(Vec(-5, 0), Vec(-5, 5)), Vec(-5, 0), true},
		{"cross", Seg(Vec(-3, 0), Vec(3, 0)), Seg(Vec(0, -3), Vec(0, 3)), Vec(0, 0), true},
		{"diagonal", Seg(Vec(0, 0), Vec(4, 4)), Seg(Vec(0, 4), Vec(4, 0)), Vec(2, 2), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := Intersect(tt.a, tt.b)
			q, okSwapped := Intersect(tt.b, tt.a)
			if ok != tt.ok || okSwapped != tt.ok {
				t.Fatalf("Intersect ok = %v/%v, want %v", ok, okSwapped, tt.ok)
			}
			if ok && (p != tt.want || q != tt.want) {
				t.Errorf("Intersect = %v/%v, want %v", p, q, tt.want)
			}
		})
	}
}

func TestSegmentTrim(t *testing.T) {
	s := Seg(Vec(0, 0), Vec(4, 8))

	got, err := s.Trim(Up, 4)
	if err != nil {
		t.Fatalf("Trim: %v", err)
	}
	if got.Start != Vec(0, 0) || got.End != Vec(2, 4) {
		t.Errorf("Trim(Up, 4) = %v, want (0,0)-(2,4)", got)
	}

	got, _ = s.Trim(Up, 10)
	if got != s {
		t.Errorf("Trim inside limit changed segment: %v", got)
	}

	got, _ = s.Trim(Down, 10)
	if !got.IsDegenerate() || got.Start.Y != 10 {
		t.Errorf("Trim past both endpoints = %v, want collapsed at y=10", got)
	}

	// The anchor is the endpoint farther from the direction, even if it is End.
	got, _ = Seg(Vec(4, 8), Vec(0, 0)).Trim(Up, 4)
	if got.End != Vec(0, 0) || got.Start != Vec(2, 4) {
		t.Errorf("reversed Trim = %v, want (2,4)-(0,0)", got)
	}

	if _, err := s.Trim(UpLeft, 3); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Trim with ordinal direction: err = %v, want ErrInvalidArgument", err)
	}
}

func TestNewShapeRejectsDegenerateInput(t *testing.T) {
	if _, err := NewShape(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("NewShape(nil) err = %v", err)
	}
	if _, err := NewShape([]IntVector2{{1, 1}}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("NewShape(1 vertex) err = %v", err)
	}
}

func TestShapeContainsOwnVertices(t *testing.T) {
	shapes := [][]IntVector2{
		{{-2, -2}, {-2, 2}, {2, 2}, {2, -2}},
		{{-2, -2}, {2, -2}, {2, 2}, {-2, 2}}, // counter-clockwise input
		{{-3, 0}, {0, 3}, {3, 0}},
		{{0, 0}, {5, 5}},
		{{1, 1}, {1, 1}},
		{{0, 0}, {0, 4}, {3, 7}, {6, 4}, {6, 0}},
	}
	for _, vs := range shapes {
		s, err := NewShape(vs)
		if err != nil {
			t.Fatalf("NewShape(%v): %v", vs, err)
		}
		for _, v := range vs {
			if !s.Contains(v) {
				t.Errorf("%v does not contain its vertex %v", s, v)
			}
		}
	}
}

func TestRectContains(t *testing.T) {
	s := Rect(Vec(-2, -2), Vec(2, 2))
	for x := -5; x <= 5; x++ {
		for y := -5; y <= 5; y++ {
			want := x >= -2 && x <= 2 && y >= -2 && y <= 2
			if got := s.Contains(Vec(x, y)); got != want {
				t.Errorf("Contains(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestDegenerateEdgesAreSkipped(t *testing.T) {
	// (0,4) repeats, giving one zero-length edge.
	s := MustShape(Vec(0, 0), Vec(0, 4), Vec(0, 4), Vec(4, 4), Vec(4, 0))
	tests := []struct {
		p    IntVector2
		want bool
	}{
		{Vec(0, 4), true},
		{Vec(2, 2), true},
		{Vec(4, 0), true},
		{Vec(5, 2), false},
		{Vec(2, -1), false},
	}
	for _, tt := range tests {
		if got := s.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestTwoPointShapeIsASegment(t *testing.T) {
	s := MustShape(Vec(0, 0), Vec(4, 4))
	if !s.Contains(Vec(2, 2)) {
		t.Error("segment shape should contain its midpoint")
	}
	if s.Contains(Vec(2, 3)) || s.Contains(Vec(5, 5)) {
		t.Error("segment shape should not contain off-segment points")
	}
}

func TestMergeOverlappingRectangles(t *testing.T) {
	a := Rect(Vec(-2, -2), Vec(2, 2))
	b := Rect(Vec(0, 0), Vec(4, 4))

	merged, err := Merge(a, b)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	want := []IntVector2{
		{-2, -2}, {-2, 2}, {0, 2}, {0, 4}, {4, 4}, {4, 0}, {2, 0}, {2, -2},
	}
	got := merged.Vertices()
	if len(got) != len(want) {
		t.Fatalf("Merge vertices = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Merge vertices = %v, want %v", got, want)
		}
	}
}

func TestMergeContainedAndDisjoint(t *testing.T) {
	outer := Rect(Vec(0, 0), Vec(10, 10))
	inner := Rect(Vec(2, 2), Vec(4, 4))

	merged, err := Merge(outer, inner)
	if err != nil || !merged.Equal(outer) {
		t.Errorf("Merge(outer, inner) = %v, %v; want outer", merged, err)
	}
	merged, err = Merge(inner, outer)
	if err != nil || !merged.Equal(outer) {
		t.Errorf("Merge(inner, outer) = %v, %v; want outer", merged, err)
	}

	far := Rect(Vec(20, 20), Vec(22, 22))
	if _, err := Merge(outer, far); !errors.Is(err, ErrDisjoint) {
		t.Errorf("Merge of disjoint shapes: err = %v, want ErrDisjoint", err)
	}
}

func TestDoesIntersect(t *testing.T) {
	a := Rect(Vec(0, 0), Vec(4, 4))
	b := Rect(Vec(3, 3), Vec(6, 6))
	c := Rect(Vec(10, 10), Vec(12, 12))
	if !DoesIntersect(a, b) {
		t.Error("overlapping rects should intersect")
	}
	if DoesIntersect(a, c) {
		t.Error("far rects should not intersect")
	}
}

func TestExtents(t *testing.T) {
	a := Rect(Vec(-2, -2), Vec(2, 2))
	b := Rect(Vec(0, 0), Vec(4, 4))
	e := NewExtents(a, b, Rect(Vec(-2, -2), Vec(2, 2)))

	if e.Len() != 2 {
		t.Fatalf("duplicate shape should be ignored, got %d shapes", e.Len())
	}
	if e.Min() != Vec(-2, -2) || e.Max() != Vec(4, 4) {
		t.Errorf("bounds = %v..%v", e.Min(), e.Max())
	}
	if !e.Contains(Vec(3, 3)) || !e.Contains(Vec(-1, -1)) {
		t.Error("extents should contain points of both shapes")
	}
	if e.Contains(Vec(3, -1)) {
		t.Error("extents should not contain the notch of the L")
	}
	if e.Outline().Len() != 8 {
		t.Errorf("outline = %v, want 8 vertices", e.Outline())
	}

	if probs := e.Problems(); len(probs) != 1 || !errors.Is(probs[0], ErrDuplicateShape) {
		t.Errorf("problems = %v, want one duplicate", probs)
	}

	// A disjoint member is kept for Contains; the outline is left alone.
	outline := e.Outline()
	if err := e.Add(Rect(Vec(10, 10), Vec(11, 11))); !errors.Is(err, ErrDisjoint) {
		t.Errorf("disjoint Add err = %v, want ErrDisjoint", err)
	}
	if e.Outline() != outline {
		t.Errorf("outline = %v after disjoint Add, want it unchanged", e.Outline())
	}
	if !e.Contains(Vec(10, 10)) || e.Max() != Vec(11, 11) {
		t.Error("disjoint member missing from the region")
	}
}

func TestClipRect(t *testing.T) {
	tri := MustShape(Vec(-3, 0), Vec(0, 3), Vec(3, 0))
	clipped, ok := ClipRect(tri, Vec(-10, -10), Vec(10, 1))
	if !ok {
		t.Fatal("clip removed everything")
	}
	if clipped.Max().Y != 1 || clipped.Min().X != -3 || clipped.Max().X != 3 {
		t.Errorf("clipped bounds = %v..%v", clipped.Min(), clipped.Max())
	}
	if _, ok := ClipRect(tri, Vec(5, 5), Vec(6, 6)); ok {
		t.Error("clip outside the shape should report false")
	}
}

func TestDirection(t *testing.T) {
	for _, d := range Cardinals {
		if !d.IsCardinal() {
			t.Errorf("%v should be cardinal", d)
		}
		if d.Opposite().Opposite() != d {
			t.Errorf("%v opposite round trip failed", d)
		}
		if d.Vector().Add(d.Opposite().Vector()) != (IntVector2{}) {
			t.Errorf("%v vector does not cancel its opposite", d)
		}
	}
	if err := RequireCardinal(DownLeft); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("RequireCardinal(DownLeft) = %v", err)
	}
}
