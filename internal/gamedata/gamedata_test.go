package gamedata

import (
	"testing"
	"testing/fstest"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/burrow/internal/builder"
	"github.com/samdwyer/burrow/internal/geom"
	"github.com/samdwyer/burrow/internal/rng"
	"github.com/samdwyer/burrow/internal/space"
)

func TestLoadEnemies(t *testing.T) {
	enemies, err := LoadEnemies()
	if err != nil {
		t.Fatalf("Failed to load enemies: %v", err)
	}

	if len(enemies) != 4 {
		t.Errorf("Expected 4 enemies, got %d", len(enemies))
	}

	// Verify expected enemies exist
	expectedIDs := map[string]bool{"grub": false, "bat": false, "crawler": false, "mole_king": false}
	for _, e := range enemies {
		if _, ok := expectedIDs[e.ID]; ok {
			expectedIDs[e.ID] = true
		}
		if e.Risk <= 0 {
			t.Errorf("Enemy %q has no risk cost", e.ID)
		}
	}

	for id, found := range expectedIDs {
		if !found {
			t.Errorf("Expected enemy %q not found", id)
		}
	}
}

func TestEnemyRegistry(t *testing.T) {
	registry, err := LoadEnemyRegistry()
	if err != nil {
		t.Fatalf("Failed to load registry: %v", err)
	}

	grub := registry.GetByID("grub")
	if grub == nil {
		t.Fatal("Grub not found by ID")
	}
	if grub.Name != "Cave Grub" {
		t.Errorf("Expected name 'Cave Grub', got %q", grub.Name)
	}

	// Test weighted spawning is deterministic with same seed
	rng1 := rng.New(12345)
	rng2 := rng.New(12345)

	for i := 0; i < 10; i++ {
		a, costA, okA := registry.Pick(rng1)
		b, costB, okB := registry.Pick(rng2)
		if a != b || costA != costB || okA != okB {
			t.Errorf("Pick %d mismatch: %s/%d != %s/%d", i, a, costA, b, costB)
		}
	}
}

func TestEnemyRegistryForDepth(t *testing.T) {
	registry := MustLoadEnemyRegistry()

	shallow := registry.ForDepth(0)
	if shallow.Count() != 2 {
		t.Errorf("Expected 2 enemies at depth 0, got %d", shallow.Count())
	}
	if shallow.GetByID("mole_king") != nil {
		t.Error("Mole king should not appear at depth 0")
	}
	if registry.ForDepth(10).Count() != registry.Count() {
		t.Error("Every enemy should appear deep down")
	}

	empty := NewEnemyRegistry(nil)
	if _, _, ok := empty.Pick(rng.New(1)); ok {
		t.Error("Empty registry should not pick")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		input string
		want  tcell.Color
		valid bool
	}{
		{"#FF0000", tcell.NewRGBColor(255, 0, 0), true},
		{"8B5A2B", tcell.NewRGBColor(0x8B, 0x5A, 0x2B), true},
		{"gold", tcell.ColorGold, true},
		{" Gold ", tcell.ColorGold, true},
		{"invalid", tcell.ColorDefault, false},
		{"#FFF", tcell.ColorDefault, false},
		{"#GG0000", tcell.ColorDefault, false},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.input)
		if tt.valid != (err == nil) {
			t.Errorf("ParseColor(%q) error = %v, want valid %v", tt.input, err, tt.valid)
			continue
		}
		if tt.valid && got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestPalette(t *testing.T) {
	p, err := LoadPalette()
	if err != nil {
		t.Fatalf("Failed to load palette: %v", err)
	}

	if got := p.Block(space.BlockStone).Glyph; got != '█' {
		t.Errorf("Stone glyph = %q", got)
	}
	if got := p.Hazard(space.Hazard{Type: space.HazardSpikes, Facing: geom.Up}).Glyph; got != '^' {
		t.Errorf("Upward spike glyph = %q", got)
	}
	if got := p.Hazard(space.Hazard{Type: space.HazardSpikes, Facing: geom.Down}).Glyph; got != 'v' {
		t.Errorf("Downward spike glyph = %q", got)
	}
	if got := p.Prop(space.PropLamp).Glyph; got != '*' {
		t.Errorf("Lamp glyph = %q", got)
	}

	if _, err := NewPalette(PaletteFile{Blocks: []GlyphDef{{Name: "cheese"}}}); err == nil {
		t.Error("Unknown block names should be rejected")
	}
}

func TestPickerWeights(t *testing.T) {
	p, err := LoadPicker()
	if err != nil {
		t.Fatalf("Failed to load picker: %v", err)
	}

	kinds, weights := p.Weights(0)
	if len(kinds) != len(weights) {
		t.Fatalf("kinds and weights differ in length: %d vs %d", len(kinds), len(weights))
	}
	if kinds[len(kinds)-1] != "" {
		t.Error("The empty choice should come last")
	}
	for _, k := range kinds {
		if k == "laboratory" {
			t.Error("Laboratories should not be picked at the surface")
		}
	}

	deep, _ := p.Weights(10)
	if len(deep) != len(p.Kinds)+1 {
		t.Errorf("Expected every kind deep down, got %v", deep)
	}
}

func TestLaboratoryLayout(t *testing.T) {
	lab, err := LoadLaboratory()
	if err != nil {
		t.Fatalf("Failed to load laboratory: %v", err)
	}

	layout := lab.Layout(geom.Vec(0, 0))
	if len(layout) == 0 {
		t.Fatal("Laboratory layout is empty")
	}
	if _, err := builder.LaboratoryFromLayout(rng.New(1), layout); err != nil {
		t.Errorf("Laboratory layout does not build: %v", err)
	}

	moved := lab.Layout(geom.Vec(100, 50))
	if moved[0].Lo != layout[0].Lo.Add(geom.Vec(100, 50)) {
		t.Errorf("Layout origin not applied: %v", moved[0].Lo)
	}
}

func TestLoadFromOverride(t *testing.T) {
	fsys := fstest.MapFS{
		"enemies.json": {Data: []byte(`{"enemies":[{"id":"slug","risk":1,"spawnWeight":1}]}`)},
	}
	file, err := LoadFrom[EnemiesFile](fsys, "enemies.json")
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if len(file.Enemies) != 1 || file.Enemies[0].ID != "slug" {
		t.Errorf("Unexpected enemies: %+v", file.Enemies)
	}
	if _, err := LoadFrom[EnemiesFile](fsys, "missing.json"); err == nil {
		t.Error("Missing file should fail")
	}
}

func TestEnemyDefMethods(t *testing.T) {
	def := EnemyDef{
		ID:          "test",
		Name:        "Test Enemy",
		Glyph:       "T",
		Color:       "#FF0000",
		HP:          10,
		Risk:        2,
		SpawnWeight: 50,
	}

	if def.GlyphRune() != 'T' {
		t.Errorf("Expected glyph 'T', got %c", def.GlyphRune())
	}

	color := def.TCellColor()
	if color == 0 {
		t.Error("TCellColor returned zero color")
	}
}
