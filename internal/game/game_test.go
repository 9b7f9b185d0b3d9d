package game

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/burrow/internal/config"
	"github.com/samdwyer/burrow/internal/geom"
	"github.com/samdwyer/burrow/internal/storage"
	"github.com/samdwyer/burrow/internal/ui"
)

func newTestGame(t *testing.T, seed int64, opts ...Option) (*Game, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	screen, err := ui.WrapScreen(sim)
	if err != nil {
		t.Fatal(err)
	}
	sim.SetSize(60, 20)
	t.Cleanup(screen.Close)

	cfg := config.DefaultConfig()
	cfg.Seed = seed
	g, err := New(cfg, screen, opts...)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	return g, sim
}

func key(k tcell.Key, r rune) *tcell.EventKey {
	return tcell.NewEventKey(k, r, tcell.ModNone)
}

func TestMovementFollowsCells(t *testing.T) {
	ctx := context.Background()
	g, _ := newTestGame(t, 21)

	keys := []struct {
		ev  *tcell.EventKey
		dir geom.Direction
	}{
		{key(tcell.KeyRight, 0), geom.Right},
		{key(tcell.KeyRune, 'h'), geom.Left},
		{key(tcell.KeyUp, 0), geom.Up},
		{key(tcell.KeyRune, 'j'), geom.Down},
		{key(tcell.KeyLeft, 0), geom.Left},
	}
	for _, k := range keys {
		from := g.Explorer().Position()
		target := from.Add(k.dir.Vector())
		cell, ok := g.Session().CellAt(target)
		open := ok && !cell.Block.IsSolid() && g.loader.EnemyAt(target) == nil

		if err := g.handleKeyEvent(ctx, k.ev); err != nil {
			t.Fatal(err)
		}
		want := from
		if open {
			want = target
		}
		if got := g.Explorer().Position(); got != want {
			t.Errorf("%v from %v: at %v, want %v", k.dir, from, got, want)
		}
	}
}

func TestResetStartsNextSeed(t *testing.T) {
	g, _ := newTestGame(t, 4)
	first := g.Session()
	queue := first.Queue()

	if err := g.handleKeyEvent(context.Background(), key(tcell.KeyRune, 'r')); err != nil {
		t.Fatal(err)
	}
	if g.Session() == first || g.Session().ID() == first.ID() {
		t.Fatal("reset kept the old session")
	}
	if g.Session().Config().Seed != 5 {
		t.Errorf("seed after reset = %d, want 5", g.Session().Config().Seed)
	}
	if g.Session().Queue() != queue {
		t.Error("reset did not share the activation queue")
	}
	if g.Explorer().Position() != geom.Vec(0, 0) {
		t.Errorf("explorer at %v after reset", g.Explorer().Position())
	}
	if g.Session().ChunkCount() == 0 {
		t.Error("reset did not activate the origin")
	}
}

func TestSaveThenRestore(t *testing.T) {
	st, err := storage.New(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	g, _ := newTestGame(t, 8, WithStorage(st))
	if err := g.handleKeyEvent(context.Background(), key(tcell.KeyRune, 's')); err != nil {
		t.Fatal(err)
	}
	if g.status != "saved" {
		t.Fatalf("status = %q after save", g.status)
	}

	again, _ := newTestGame(t, 99, WithStorage(st))
	if again.Session().ID() != g.Session().ID() {
		t.Errorf("restored session %s, want %s", again.Session().ID(), g.Session().ID())
	}
	if again.Session().Config().Seed != 8 {
		t.Errorf("restored seed = %d, want 8", again.Session().Config().Seed)
	}
}

func TestRunQuits(t *testing.T) {
	g, sim := newTestGame(t, 2)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	if err := g.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if ctx.Err() != nil {
		t.Error("Run only stopped at the deadline")
	}
}
