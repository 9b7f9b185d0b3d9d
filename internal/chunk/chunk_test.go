package chunk

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samdwyer/burrow/internal/builder"
	"github.com/samdwyer/burrow/internal/geom"
	"github.com/samdwyer/burrow/internal/rng"
	"github.com/samdwyer/burrow/internal/space"
)

const size = 25

func TestKeyOf(t *testing.T) {
	tests := []struct {
		in, want geom.IntVector2
	}{
		{geom.Vec(0, 0), geom.Vec(0, 0)},
		{geom.Vec(12, 12), geom.Vec(0, 0)},
		{geom.Vec(13, 0), geom.Vec(25, 0)},
		{geom.Vec(-12, 0), geom.Vec(0, 0)},
		{geom.Vec(-13, 0), geom.Vec(-25, 0)},
		{geom.Vec(37, -38), geom.Vec(25, -50)},
	}
	for _, tt := range tests {
		if got := KeyOf(tt.in, size); got != tt.want {
			t.Errorf("KeyOf(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for x := -60; x <= 60; x++ {
		p := geom.Vec(x, -x)
		lo, hi := Corners(KeyOf(p, size), size)
		if p.X < lo.X || p.X > hi.X || p.Y < lo.Y || p.Y > hi.Y {
			t.Fatalf("%v lies outside its chunk %v..%v", p, lo, hi)
		}
	}
}

func TestFillFollowsSurface(t *testing.T) {
	if got := FillFor(geom.Vec(0, 25), size, 1); got != space.BlockNone {
		t.Errorf("row 1 fill = %v, want none", got)
	}
	if got := FillFor(geom.Vec(0, 0), size, 1); got != space.BlockDirt {
		t.Errorf("row 0 fill = %v, want dirt", got)
	}
	if got := Depth(geom.Vec(0, -75), size); got != 3 {
		t.Errorf("Depth(row -3) = %d, want 3", got)
	}
}

func TestAddSpaceClampsToBoundaries(t *testing.T) {
	r := rng.New(1)
	b := NewBuilder(geom.Vec(0, 0), size, 1)
	if err := b.AddBoundary(geom.Right); err != nil {
		t.Fatal(err)
	}

	room := builder.RoomBetween(r, geom.Vec(0, 0), geom.Vec(20, 4))
	if err := b.AddSpace(room); err != nil {
		t.Fatal(err)
	}
	if v, _ := room.MaximalValue(geom.Right); v != 12 {
		t.Errorf("room right = %d, want 12", v)
	}

	// A boundary added later squeezes builders already present.
	corridor := builder.CorridorBetween(r, geom.Vec(-20, 0), geom.Vec(0, 3))
	if err := b.AddSpace(corridor); err != nil {
		t.Fatal(err)
	}
	if err := b.AddBoundary(geom.Left); err != nil {
		t.Fatal(err)
	}
	if v, _ := corridor.MaximalValue(geom.Left); v != -12 {
		t.Errorf("corridor left = %d, want -12", v)
	}

	if err := b.AddBoundary(geom.UpLeft); !errors.Is(err, geom.ErrInvalidArgument) {
		t.Errorf("AddBoundary(UpLeft) err = %v", err)
	}
}

func TestAttachAndPromote(t *testing.T) {
	b := NewBuilder(geom.Vec(0, 0), size, 1)
	sp := space.New(space.Params{Name: "room-1", Extents: geom.NewExtents(geom.Rect(geom.Vec(0, 0), geom.Vec(3, 3)))})

	if err := b.Attach(sp); err != nil {
		t.Fatal(err)
	}
	if err := b.Attach(sp); !errors.Is(err, ErrDuplicateSpace) {
		t.Errorf("second Attach err = %v, want ErrDuplicateSpace", err)
	}

	if _, _, err := b.Promote(nil); err != nil {
		t.Fatal(err)
	}
	if _, _, err := b.Promote(nil); !errors.Is(err, ErrPromoted) {
		t.Errorf("second Promote err = %v, want ErrPromoted", err)
	}
	other := space.New(space.Params{Name: "room-2", Extents: geom.NewExtents(geom.Rect(geom.Vec(0, 0), geom.Vec(1, 1)))})
	if err := b.Attach(other); !errors.Is(err, ErrPromoted) {
		t.Errorf("Attach after Promote err = %v, want ErrPromoted", err)
	}
}

func TestLateSpacesNeverReachCells(t *testing.T) {
	b := NewBuilder(geom.Vec(0, 0), size, 1)
	c, m, err := b.Promote(newRecorder())
	if err != nil {
		t.Fatal(err)
	}
	late := space.New(space.Params{Name: "room-late", Extents: geom.NewExtents(geom.Rect(geom.Vec(-2, -2), geom.Vec(2, 2)))})
	if err := c.Attach(late); err != nil {
		t.Fatal(err)
	}
	if err := c.Attach(late); !errors.Is(err, ErrDuplicateSpace) {
		t.Errorf("second Attach err = %v, want ErrDuplicateSpace", err)
	}
	if !m.Step(time.Hour, nil) {
		t.Fatal("materialization did not finish")
	}

	p := geom.Vec(0, 0)
	if got := c.ContainingSpace(p); got != late {
		t.Errorf("ContainingSpace = %v, want the late room", got)
	}
	if c.Owner(p) != nil {
		t.Errorf("late room owns a cell")
	}
	if cell, _ := c.CellAt(p); cell.Block != c.Fill() {
		t.Errorf("cell = %+v, want fill %v", cell, c.Fill())
	}
	if len(c.Spaces()) != 0 || len(c.Late()) != 1 {
		t.Errorf("spaces %v late %v", c.Spaces(), c.Late())
	}
}

type recorder struct {
	blocks  map[geom.IntVector2]space.BlockType
	hazards int
	props   int
	enemies []string
}

func newRecorder() *recorder {
	return &recorder{blocks: make(map[geom.IntVector2]space.BlockType)}
}

func (r *recorder) LoadBlock(kind space.BlockType, pos geom.IntVector2) { r.blocks[pos] = kind }
func (r *recorder) LoadHazard(space.Hazard, geom.IntVector2)            { r.hazards++ }
func (r *recorder) LoadProp(space.PropType, geom.IntVector2)            { r.props++ }
func (r *recorder) LoadEnemy(kind string, _ geom.IntVector2)            { r.enemies = append(r.enemies, kind) }

func TestMaterializationFirstRegisteredWins(t *testing.T) {
	a := space.New(space.Params{Name: "a", Extents: geom.NewExtents(geom.Rect(geom.Vec(-5, -5), geom.Vec(5, 5)))})
	if err := a.SetBlock(geom.Vec(0, 0), space.BlockStone); err != nil {
		t.Fatal(err)
	}
	if err := a.AddProp(geom.Vec(1, -5), space.PropLamp); err != nil {
		t.Fatal(err)
	}
	bsp := space.New(space.Params{Name: "b", Extents: geom.NewExtents(geom.Rect(geom.Vec(0, 0), geom.Vec(10, 10)))})

	cb := NewBuilder(geom.Vec(0, 0), size, 1)
	_ = cb.Attach(a)
	_ = cb.Attach(bsp)

	rec := newRecorder()
	c, m, err := cb.Promote(rec)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Step(time.Hour, nil) {
		t.Fatal("a one-hour budget should finish the chunk")
	}

	tests := []struct {
		p     geom.IntVector2
		block space.BlockType
		owner *space.Space
	}{
		{geom.Vec(0, 0), space.BlockStone, a},
		{geom.Vec(3, 3), space.BlockNone, a},
		{geom.Vec(7, 7), space.BlockNone, bsp},
		{geom.Vec(-11, -11), space.BlockDirt, nil},
	}
	for _, tt := range tests {
		cell, ok := c.CellAt(tt.p)
		if !ok {
			t.Fatalf("CellAt(%v) not filled", tt.p)
		}
		if cell.Block != tt.block {
			t.Errorf("CellAt(%v) = %v, want %v", tt.p, cell.Block, tt.block)
		}
		if got := c.Owner(tt.p); got != tt.owner {
			t.Errorf("Owner(%v) = %v, want %v", tt.p, got, tt.owner)
		}
	}

	if rec.blocks[geom.Vec(0, 0)] != space.BlockStone || rec.blocks[geom.Vec(-11, -11)] != space.BlockDirt {
		t.Error("loader did not receive the solid blocks")
	}
	if _, ok := rec.blocks[geom.Vec(7, 7)]; ok {
		t.Error("open cells should not be loaded as blocks")
	}
	if rec.props != 1 {
		t.Errorf("loaded %d props, want 1", rec.props)
	}
	if !a.Sealed() || !bsp.Sealed() {
		t.Error("spaces read by materialization should be sealed")
	}
}

func TestMaterializationYieldsOnBudget(t *testing.T) {
	now := time.Unix(0, 0)
	clock := func() time.Time {
		now = now.Add(time.Millisecond)
		return now
	}

	cb := NewBuilder(geom.Vec(0, 0), size, 1)
	c, m, _ := cb.Promote(nil)

	if m.Step(3*time.Millisecond, clock) {
		t.Fatal("first step should not finish the chunk")
	}
	lo := c.Min()
	if _, ok := c.CellAt(lo.Add(geom.Vec(2, 0))); !ok {
		t.Error("third cell should be filled after one step")
	}
	if _, ok := c.CellAt(lo.Add(geom.Vec(3, 0))); ok {
		t.Error("fourth cell should wait for the next step")
	}

	for !m.Step(3*time.Millisecond, clock) {
	}
	if !c.Materialized() {
		t.Error("chunk should be materialized")
	}
	if want := (size*size + 2) / 3; m.Steps() != want {
		t.Errorf("took %d steps, want %d", m.Steps(), want)
	}
}

func TestMaterializationLoadsEnemiesInside(t *testing.T) {
	sp := space.New(space.Params{Name: "den-1", Extents: geom.NewExtents(geom.Rect(geom.Vec(5, 0), geom.Vec(20, 4)))})
	_ = sp.AddEnemy(space.EnemySpawn{Kind: "grub", Position: geom.Vec(6, 1)})
	_ = sp.AddEnemy(space.EnemySpawn{Kind: "bat", Position: geom.Vec(18, 1)})

	cb := NewBuilder(geom.Vec(0, 0), size, 1)
	_ = cb.Attach(sp)
	cb.AddEnemy(space.EnemySpawn{Kind: "crawler", Position: geom.Vec(-3, -3)})

	rec := newRecorder()
	_, m, _ := cb.Promote(rec)
	m.Step(time.Hour, nil)

	if len(rec.enemies) != 2 || rec.enemies[0] != "grub" || rec.enemies[1] != "crawler" {
		t.Errorf("loaded enemies %v, want [grub crawler]", rec.enemies)
	}
}

func TestQueueRunsInOrder(t *testing.T) {
	q := NewQueue(time.Hour)
	var want []geom.IntVector2
	for i := 0; i < 3; i++ {
		key := geom.Vec(i*size, 0)
		_, m, _ := NewBuilder(key, size, 1).Promote(nil)
		q.Enqueue(m)
		want = append(want, key)
	}

	done := q.Drain(context.Background())
	if len(done) != len(want) {
		t.Fatalf("finished %d chunks, want %d", len(done), len(want))
	}
	for i, c := range done {
		if c.Key() != want[i] {
			t.Errorf("chunk %d = %v, want %v", i, c.Key(), want[i])
		}
	}
}

func TestQueueCancelKeepsInFlight(t *testing.T) {
	now := time.Unix(0, 0)
	clock := func() time.Time {
		now = now.Add(time.Millisecond)
		return now
	}
	q := NewQueue(5*time.Millisecond, WithClock(clock))

	first, m1, _ := NewBuilder(geom.Vec(0, 0), size, 1).Promote(nil)
	second, m2, _ := NewBuilder(geom.Vec(size, 0), size, 1).Promote(nil)
	q.Enqueue(m1)
	q.Enqueue(m2)

	if c := q.Tick(context.Background()); c != nil {
		t.Fatal("first tick should not finish a chunk")
	}
	if !q.Busy() || q.Pending() != 1 {
		t.Fatalf("busy %v pending %d, want in flight with one queued", q.Busy(), q.Pending())
	}

	if n := q.CancelPending(); n != 1 {
		t.Errorf("cancelled %d, want 1", n)
	}
	done := q.Drain(context.Background())
	if len(done) != 1 || done[0] != first {
		t.Fatalf("drained %v, want only the in-flight chunk", done)
	}
	if !first.Materialized() {
		t.Error("in-flight chunk should run to completion")
	}
	if second.Materialized() {
		t.Error("cancelled chunk should never materialize")
	}
}
