package space

import (
	"errors"
	"testing"

	"github.com/samdwyer/burrow/internal/geom"
	"github.com/samdwyer/burrow/internal/rng"
)

func boxSpace(name string, lo, hi geom.IntVector2) *Space {
	return New(Params{Name: name, Kind: "room", Extents: geom.NewExtents(geom.Rect(lo, hi))})
}

func TestSpaceSealsOnFirstRead(t *testing.T) {
	s := boxSpace("room-1", geom.Vec(-2, -2), geom.Vec(2, 2))

	if err := s.SetBlock(geom.Vec(0, 0), BlockStone); err != nil {
		t.Fatalf("SetBlock before read: %v", err)
	}
	if got := s.BlockType(geom.Vec(0, 0)); got != BlockStone {
		t.Errorf("BlockType = %v, want stone", got)
	}
	if !s.Sealed() {
		t.Fatal("space should be sealed after a read")
	}

	if err := s.SetBlock(geom.Vec(1, 1), BlockDirt); !errors.Is(err, ErrSealed) {
		t.Errorf("SetBlock after read: err = %v, want ErrSealed", err)
	}
	if err := s.AddEnemy(EnemySpawn{Kind: "grub", Position: geom.Vec(0, 0)}); !errors.Is(err, ErrSealed) {
		t.Errorf("AddEnemy after read: err = %v, want ErrSealed", err)
	}
	if err := s.Apply(NewLaboratory(), rng.New(1)); !errors.Is(err, ErrSealed) {
		t.Errorf("Apply after read: err = %v, want ErrSealed", err)
	}
}

func TestSpaceRejectsPlacementsOutsideExtents(t *testing.T) {
	s := boxSpace("room-1", geom.Vec(-2, -2), geom.Vec(2, 2))
	if err := s.AddProp(geom.Vec(5, 5), PropLamp); !errors.Is(err, geom.ErrInvalidArgument) {
		t.Errorf("AddProp outside: err = %v, want ErrInvalidArgument", err)
	}
}

func TestSpaceSize(t *testing.T) {
	s := boxSpace("room-1", geom.Vec(-3, 0), geom.Vec(7, 4))
	if s.Width() != 10 || s.Height() != 4 {
		t.Errorf("size = %dx%d, want 10x4", s.Width(), s.Height())
	}
}

func TestCavernousIsDeterministic(t *testing.T) {
	run := func() map[geom.IntVector2]Hazard {
		s := boxSpace("cave-1", geom.Vec(-5, -5), geom.Vec(5, 5))
		if err := s.Apply(NewCavernous(), rng.New(42)); err != nil {
			t.Fatalf("Apply: %v", err)
		}
		return s.Hazards()
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("hazard counts differ: %d vs %d", len(a), len(b))
	}
	for p, h := range a {
		if b[p] != h {
			t.Errorf("hazard at %v differs: %v vs %v", p, h, b[p])
		}
	}
}

func TestCavernousPlacement(t *testing.T) {
	s := boxSpace("cave-1", geom.Vec(-5, -5), geom.Vec(5, 5))
	if err := s.Apply(NewCavernous(), rng.New(7)); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	// 40 boundary samples at no more than 15%.
	hazards := s.Hazards()
	if len(hazards) > 6 {
		t.Errorf("placed %d hazards, budget is at most 6", len(hazards))
	}
	for p, h := range hazards {
		switch {
		case p.Y == -5 && h.Facing != geom.Up:
			t.Errorf("floor spike at %v faces %v, want up", p, h.Facing)
		case p.Y == 5 && h.Facing != geom.Down:
			t.Errorf("ceiling spike at %v faces %v, want down", p, h.Facing)
		case p.Y != -5 && p.Y != 5:
			t.Errorf("spike at %v is neither on the floor nor the ceiling", p)
		}
	}
	if len(hazards) > 0 && !s.Hazardous() {
		t.Error("space with hazards should be hazardous")
	}
	if got := s.Modifiers(); len(got) != 1 || got[0] != ModifierCavernous {
		t.Errorf("Modifiers = %v", got)
	}
}

func TestLaboratoryLamps(t *testing.T) {
	s := boxSpace("lab-1", geom.Vec(-5, -5), geom.Vec(5, 5))
	if err := s.Apply(NewLaboratory(), rng.New(1)); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	props := s.Props()
	want := []geom.IntVector2{geom.Vec(-5, -5), geom.Vec(3, -5)}
	if len(props) != len(want) {
		t.Fatalf("props = %v, want lamps at %v", props, want)
	}
	for _, p := range want {
		if props[p] != PropLamp {
			t.Errorf("no lamp at %v", p)
		}
	}
	if s.Overrides()[geom.Vec(0, -5)] != BlockNone {
		t.Error("laboratory should not touch blocks")
	}
}

func TestNewModifier(t *testing.T) {
	for _, mt := range []ModifierType{ModifierCavernous, ModifierLaboratory} {
		m, err := NewModifier(mt)
		if err != nil || m.Type() != mt {
			t.Errorf("NewModifier(%q) = %v, %v", mt, m, err)
		}
	}
	if _, err := NewModifier("glitter"); err == nil {
		t.Error("NewModifier should reject unknown types")
	}
}

func TestParseBlockType(t *testing.T) {
	for b := BlockNone; b <= BlockGlass; b++ {
		got, err := ParseBlockType(b.String())
		if err != nil || got != b {
			t.Errorf("ParseBlockType(%q) = %v, %v", b.String(), got, err)
		}
	}
	if _, err := ParseBlockType("cheese"); err == nil {
		t.Error("ParseBlockType should reject unknown names")
	}
}
