package builder

import (
	"github.com/samdwyer/burrow/internal/geom"
	"github.com/samdwyer/burrow/internal/rng"
	"github.com/samdwyer/burrow/internal/space"
)

// MinStoryHeight is the lowest story an elevator will choose on its own.
const MinStoryHeight = 4

// Elevator is a shaft divided into equal stories. Its height is always
// StoryHeight × Stories. Each story gets a stop in the shaft and a landing
// room beside it.
type Elevator struct {
	base
	vbox
	storyHeight int
	stories     int
	stops       []geom.IntVector2
	landings    []SpaceBuilder
}

// NewElevator creates a bottom-anchored elevator with random stories
// standing on at.
func NewElevator(r *rng.Source, at geom.IntVector2) *Elevator {
	return ElevatorAt(r, at, r.Range(5, 7), r.Range(2, 4))
}

// ElevatorAt creates a bottom-anchored elevator standing on at.
func ElevatorAt(r *rng.Source, at geom.IntVector2, storyHeight, stories int) *Elevator {
	e := &Elevator{
		vbox:        vbox{anchor: at, valign: AlignBottom, width: 3},
		storyHeight: max(0, storyHeight),
		stories:     max(1, stories),
	}
	e.height = e.storyHeight * e.stories
	e.init(KindElevator, e, r)
	return e
}

// StoryHeight returns the height of one story.
func (e *Elevator) StoryHeight() int { return e.storyHeight }

// Stories returns the number of stories.
func (e *Elevator) Stories() int { return e.stories }

// Height returns StoryHeight × Stories.
func (e *Elevator) Height() int { return e.height }

// Width returns the shaft width.
func (e *Elevator) Width() int { return e.width }

// SetStoryHeight keeps the story count and scales the height.
func (e *Elevator) SetStoryHeight(h int) {
	e.mutate()
	e.storyHeight = max(0, h)
	e.height = e.storyHeight * e.stories
	e.recompute()
}

// SetStories keeps the story height and scales the height.
func (e *Elevator) SetStories(n int) {
	e.mutate()
	e.stories = max(1, n)
	e.height = e.storyHeight * e.stories
	e.recompute()
}

// SetHeight asks for a total height. The story count is kept when h
// divides evenly into stories no shorter than MinStoryHeight; otherwise
// the nearest story count that does is used, and below MinStoryHeight the
// whole shaft becomes one story.
func (e *Elevator) SetHeight(h int) {
	e.mutate()
	e.reconcile(max(0, h))
	e.recompute()
}

// SetWidth resizes the shaft around its center.
func (e *Elevator) SetWidth(w int) {
	e.mutate()
	e.width = max(0, w)
	e.recompute()
}

func (e *Elevator) reconcile(h int) {
	best := 0
	for n := 1; n <= h/MinStoryHeight; n++ {
		if h%n != 0 {
			continue
		}
		if best == 0 || abs(n-e.stories) < abs(best-e.stories) {
			best = n
		}
	}
	if best == 0 {
		best = 1
	}
	e.stories = best
	e.storyHeight = h / best
	e.height = e.storyHeight * e.stories
}

func (e *Elevator) align(d geom.Direction, a int) {
	e.vbox.align(d, a)
	if !d.Horizontal() {
		e.reconcile(e.height)
	}
}

func (e *Elevator) cut(d geom.Direction, over int) {
	e.vbox.cut(d, over)
	if !d.Horizontal() {
		e.reconcile(e.height)
	}
}

func (e *Elevator) valid() bool {
	return e.width >= 2 && e.stories >= 1 && e.storyHeight >= MinStoryHeight
}

// Stops returns the stop positions, one per story, once built.
func (e *Elevator) Stops() []geom.IntVector2 { return e.stops }

// Dependents returns the landing rooms, one per story, once built.
func (e *Elevator) Dependents() []SpaceBuilder { return e.landings }

func (e *Elevator) decorate(sp *space.Space) error {
	x := e.left() + e.width/2
	bottom := e.bottom()
	for i := 0; i < e.stories; i++ {
		floor := bottom + i*e.storyHeight
		stop := geom.Vec(x, floor+1)
		if err := sp.AddProp(stop, space.PropElevatorStop); err != nil {
			return err
		}
		e.stops = append(e.stops, stop)

		w := e.rng.Range(4, 6)
		h := min(e.storyHeight-1, 3)
		var lo geom.IntVector2
		if e.rng.CoinFlip() {
			lo = geom.Vec(e.right(), floor)
		} else {
			lo = geom.Vec(e.left()-w, floor)
		}
		e.landings = append(e.landings, RoomBetween(e.rng, lo, lo.Add(geom.Vec(w, h))))
	}
	return nil
}
