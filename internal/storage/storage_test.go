package storage

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samdwyer/burrow/internal/builder"
	"github.com/samdwyer/burrow/internal/geom"
	"github.com/samdwyer/burrow/internal/rng"
	"github.com/samdwyer/burrow/internal/space"
)

type grubTable struct{}

func (grubTable) Pick(*rng.Source) (string, int, bool) { return "grub", 1, true }

func builtSpaces(t *testing.T) []*space.Space {
	t.Helper()
	r := rng.New(11)

	corridor := builder.CorridorBetween(r, geom.Vec(-8, 0), geom.Vec(8, 3))
	corridor.SetHazardous(true)
	corridor.Populate(grubTable{}, 3)

	room := builder.RoomBetween(r, geom.Vec(-6, -6), geom.Vec(6, 6))
	room.AddModifier(space.ModifierCavernous)

	den := builder.DenAt(r, geom.Vec(0, 0), 5)
	den.Populate(grubTable{}, 2)

	elevator := builder.ElevatorAt(r, geom.Vec(0, 0), 5, 3)

	lab, err := builder.LaboratoryFromLayout(r, []builder.Member{
		{Kind: builder.KindShaft, Lo: geom.Vec(-1, -6), Hi: geom.Vec(1, 6)},
		{Kind: builder.KindCorridor, Lo: geom.Vec(1, -6), Hi: geom.Vec(12, -3)},
	})
	if err != nil {
		t.Fatal(err)
	}

	var out []*space.Space
	for i, sb := range []builder.SpaceBuilder{corridor, room, den, elevator, lab} {
		sp, err := sb.Build(string(sb.Kind()) + "-" + string(rune('1'+i)))
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, sp)
	}
	return out
}

func TestSpaceRoundTrip(t *testing.T) {
	st, err := New(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}

	for _, sp := range builtSpaces(t) {
		if err := st.SaveSpace(sp); err != nil {
			t.Fatalf("save %s: %v", sp.Name(), err)
		}
		got, err := st.LoadSpace(sp.Name())
		if err != nil {
			t.Fatalf("load %s: %v", sp.Name(), err)
		}

		if got.Kind() != sp.Kind() || got.Parent() != sp.Parent() || got.Capped() != sp.Capped() || got.Hazardous() != sp.Hazardous() {
			t.Errorf("%s: header mismatch", sp.Name())
		}
		if len(got.Enemies()) != len(sp.Enemies()) || len(got.Modifiers()) != len(sp.Modifiers()) {
			t.Errorf("%s: %d enemies %d modifiers, want %d %d", sp.Name(),
				len(got.Enemies()), len(got.Modifiers()), len(sp.Enemies()), len(sp.Modifiers()))
		}

		lo, hi := sp.Min(), sp.Max()
		for y := lo.Y - 2; y <= hi.Y+2; y++ {
			for x := lo.X - 2; x <= hi.X+2; x++ {
				p := geom.Vec(x, y)
				if got.Contains(p) != sp.Contains(p) {
					t.Fatalf("%s: Contains(%v) differs after reload", sp.Name(), p)
				}
				if got.Cell(p) != sp.Cell(p) {
					t.Fatalf("%s: Cell(%v) = %+v, want %+v", sp.Name(), p, got.Cell(p), sp.Cell(p))
				}
			}
		}
	}
}

func TestLoadSpaceErrors(t *testing.T) {
	dir := t.TempDir()
	st, err := New(dir, nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := st.LoadSpace("room-404"); !errors.Is(err, ErrSpaceNotFound) {
		t.Errorf("missing space err = %v, want ErrSpaceNotFound", err)
	}
	if _, err := st.LoadSpace("../world"); !errors.Is(err, ErrSpaceNotFound) {
		t.Errorf("path name err = %v, want ErrSpaceNotFound", err)
	}

	files := map[string]string{
		"garbled":   `{"name": "garbled", "shapes": [[`,
		"point":     `{"name": "point", "kind": "room", "shapes": [[{"x": 0, "y": 0}]]}`,
		"renamed":   `{"name": "other", "kind": "room", "shapes": [[{"x": 0, "y": 0}, {"x": 2, "y": 2}]]}`,
		"bad-block": `{"name": "bad-block", "kind": "room", "shapes": [[{"x": 0, "y": 0}, {"x": 0, "y": 2}, {"x": 2, "y": 2}, {"x": 2, "y": 0}]], "overrides": [{"x": 1, "y": 1, "block": "cheese"}]}`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, "spaces", name+".json"), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := st.LoadSpace(name)
		if !errors.Is(err, ErrSpaceMalformed) {
			t.Errorf("%s: err = %v, want ErrSpaceMalformed", name, err)
		}
		if errors.Is(err, ErrSpaceNotFound) {
			t.Errorf("%s: malformed record reported as not found", name)
		}
	}
}

func TestLoadSpaceLogsDuplicateShapes(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	st, err := New(dir, slog.New(slog.NewTextHandler(&buf, nil)))
	if err != nil {
		t.Fatal(err)
	}
	square := `[{"x": 0, "y": 0}, {"x": 0, "y": 2}, {"x": 2, "y": 2}, {"x": 2, "y": 0}]`
	body := `{"name": "room-9", "kind": "room", "shapes": [` + square + `, ` + square + `]}`
	if err := os.WriteFile(filepath.Join(dir, "spaces", "room-9.json"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	sp, err := st.LoadSpace("room-9")
	if err != nil {
		t.Fatal(err)
	}
	if n := sp.Extents().Len(); n != 1 {
		t.Errorf("loaded %d shapes, want the duplicate dropped", n)
	}
	if out := buf.String(); !strings.Contains(out, "level=WARN") || !strings.Contains(out, "duplicate shape") {
		t.Errorf("log = %q, want a duplicate shape warning", out)
	}
}

func TestWorldRoundTrip(t *testing.T) {
	st, err := New(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.LoadWorld(); !errors.Is(err, ErrWorldNotFound) {
		t.Fatalf("empty dir err = %v, want ErrWorldNotFound", err)
	}

	w := &WorldRecord{
		Session:   "abc",
		Seed:      42,
		ChunkSize: 25,
		Counter:   17,
		Spaces:    []string{"laboratory-1", "room-2"},
		Builders: []BuilderRecord{{
			Key:        Point{X: 25, Y: -25},
			Size:       25,
			Spaces:     []string{"room-2"},
			Enemies:    []EnemyEntry{{Point: Point{X: 20, Y: -30}, Kind: "bat"}},
			Boundaries: map[string]int{"left": 13},
		}},
	}
	if err := st.SaveWorld(w); err != nil {
		t.Fatal(err)
	}
	got, err := st.LoadWorld()
	if err != nil {
		t.Fatal(err)
	}
	if got.Counter != 17 || got.Seed != 42 || got.Session != "abc" || len(got.Builders) != 1 {
		t.Fatalf("got %+v", got)
	}
	b := got.Builders[0]
	if b.Key.Vec() != geom.Vec(25, -25) || b.Boundaries["left"] != 13 || Spawns(b.Enemies)[0].Kind != "bat" {
		t.Errorf("builder record = %+v", b)
	}
}
