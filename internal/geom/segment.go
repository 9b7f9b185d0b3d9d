package geom

import "math"

// Segment is a directed line segment between two grid points.
type Segment struct {
	Start, End IntVector2
}

// Seg is shorthand for Segment{Start: a, End: b}.
func Seg(a, b IntVector2) Segment {
	return Segment{Start: a, End: b}
}

// Vector returns End - Start.
func (s Segment) Vector() IntVector2 {
	return s.End.Sub(s.Start)
}

// Length returns the euclidean length of the segment.
func (s Segment) Length() float64 {
	return s.Vector().Magnitude()
}

// Angle returns the direction of the segment in radians, measured from +x.
func (s Segment) Angle() float64 {
	v := s.Vector()
	return math.Atan2(float64(v.Y), float64(v.X))
}

// IsDegenerate reports whether the segment has zero length.
func (s Segment) IsDegenerate() bool {
	return s.Start == s.End
}

// Trim limits the segment so no point lies past value in direction d.
// The endpoint farther from d is kept; the other endpoint slides along the
// segment until its coordinate equals value. A segment that lies entirely
// past value collapses onto the anchor, projected onto value.
func (s Segment) Trim(d Direction, value int) (Segment, error) {
	if err := RequireCardinal(d); err != nil {
		return s, err
	}

	startOver := Beyond(d, s.Start.Component(d), value)
	endOver := Beyond(d, s.End.Component(d), value)
	if startOver <= 0 && endOver <= 0 {
		return s, nil
	}

	anchor, other := s.Start, s.End
	anchorIsStart := true
	if startOver > endOver {
		anchor, other = s.End, s.Start
		anchorIsStart = false
	}

	var moved IntVector2
	if Beyond(d, anchor.Component(d), value) > 0 {
		moved = project(anchor, d, value)
		anchor = moved
	} else {
		ca := anchor.Component(d)
		co := other.Component(d)
		t := float64(value-ca) / float64(co-ca)
		delta := other.Sub(anchor)
		moved = IntVector2{
			X: anchor.X + int(math.Round(t*float64(delta.X))),
			Y: anchor.Y + int(math.Round(t*float64(delta.Y))),
		}
		moved = project(moved, d, value)
	}

	if anchorIsStart {
		return Segment{Start: anchor, End: moved}, nil
	}
	return Segment{Start: moved, End: anchor}, nil
}

// Intersect returns the point where a and b cross. It reports false for
// parallel segments and for crossings that fall outside either segment.
func Intersect(a, b Segment) (IntVector2, bool) {
	a1, b1, c1 := lineOf(a)
	a2, b2, c2 := lineOf(b)

	delta := a1*b2 - a2*b1
	if delta == 0 {
		return IntVector2{}, false
	}

	p := IntVector2{
		X: roundDiv(b2*c1-b1*c2, delta),
		Y: roundDiv(a1*c2-a2*c1, delta),
	}
	if !inRange(p, a) || !inRange(p, b) {
		return IntVector2{}, false
	}
	return p, true
}

// lineOf returns the coefficients of Ax + By = C through the segment.
func lineOf(s Segment) (int, int, int) {
	a := s.End.Y - s.Start.Y
	b := s.Start.X - s.End.X
	return a, b, a*s.Start.X + b*s.Start.Y
}

func inRange(p IntVector2, s Segment) bool {
	if p.IsCollinear(s.Start, s.End) {
		return p.IsBetween(s.Start, s.End)
	}
	// Rounded crossings of sloped lines are only range-checked.
	return within(p.X, s.Start.X, s.End.X) && within(p.Y, s.Start.Y, s.End.Y)
}

func roundDiv(n, d int) int {
	return int(math.Round(float64(n) / float64(d)))
}

func project(p IntVector2, d Direction, value int) IntVector2 {
	if d.Horizontal() {
		p.X = value
	} else {
		p.Y = value
	}
	return p
}
