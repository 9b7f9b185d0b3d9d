// Package game runs the interactive world viewer: an explorer walks a
// world that is generated and materialized around it a frame at a time.
package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/burrow/internal/architect"
	"github.com/samdwyer/burrow/internal/chunk"
	"github.com/samdwyer/burrow/internal/config"
	"github.com/samdwyer/burrow/internal/entity"
	"github.com/samdwyer/burrow/internal/gamedata"
	"github.com/samdwyer/burrow/internal/geom"
	"github.com/samdwyer/burrow/internal/inspect"
	"github.com/samdwyer/burrow/internal/storage"
	"github.com/samdwyer/burrow/internal/telemetry"
	"github.com/samdwyer/burrow/internal/ui"
)

// FrameInterval is the time between materialization ticks and redraws.
const FrameInterval = 16 * time.Millisecond

// Game holds the viewer state.
type Game struct {
	cfg       config.Config
	log       *slog.Logger
	screen    *ui.Screen
	renderer  *ui.Renderer
	registry  *gamedata.EnemyRegistry
	store     *storage.Storage
	inspector *inspect.Server

	queue    *chunk.Queue
	session  *architect.Session
	loader   *entity.Loader
	explorer *entity.Explorer
	status   string
	running  bool
}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(g *Game) { g.log = log }
}

// WithStorage enables saving, and restoring a saved world at startup.
func WithStorage(st *storage.Storage) Option {
	return func(g *Game) { g.store = st }
}

// WithInspector runs inspector queries on the game loop.
func WithInspector(srv *inspect.Server) Option {
	return func(g *Game) { g.inspector = srv }
}

// New creates a viewer drawing to screen.
func New(cfg *config.Config, screen *ui.Screen, opts ...Option) (*Game, error) {
	palette, err := gamedata.LoadPalette()
	if err != nil {
		return nil, err
	}
	registry, err := gamedata.LoadEnemyRegistry()
	if err != nil {
		return nil, err
	}

	// Open cells from the bottom edge of the surface row upward are sky.
	skyLine := cfg.SurfaceLevel*cfg.ChunkSize - cfg.ChunkSize/2

	g := &Game{
		cfg:      *cfg,
		screen:   screen,
		renderer: ui.NewRenderer(screen, palette, skyLine),
		registry: registry,
		queue:    chunk.NewQueue(cfg.FrameBudget),
		running:  true,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return g, nil
}

// Session returns the world being viewed.
func (g *Game) Session() *architect.Session { return g.session }

// Explorer returns the explorer.
func (g *Game) Explorer() *entity.Explorer { return g.explorer }

// Start loads or generates the first world and materializes the chunks
// around the origin.
func (g *Game) Start(ctx context.Context) error {
	ctx, span := telemetry.Tracer("game").Start(ctx, "game.init")
	defer span.End()

	restored := false
	if g.store != nil {
		loader := entity.NewLoader(g.registry)
		s, err := architect.Restore(&g.cfg, g.store, g.sessionOptions(loader)...)
		switch {
		case err == nil:
			g.session, g.loader = s, loader
			g.cfg = s.Config()
			restored = true
		case !errors.Is(err, storage.ErrWorldNotFound):
			span.RecordError(err)
			return err
		}
	}
	if g.session == nil {
		if err := g.newWorld(g.cfg.Seed); err != nil {
			span.RecordError(err)
			return err
		}
	}

	g.explorer = entity.NewExplorer(geom.Vec(0, 0))
	if err := g.session.Generate(ctx, g.cfg.Radius); err != nil {
		span.RecordError(err)
		return err
	}
	if g.inspector != nil {
		g.inspector.SetWorld(g.session)
	}

	span.SetAttributes(
		attribute.String("session", g.session.ID()),
		attribute.Bool("restored", restored),
		attribute.Int("chunks", g.session.ChunkCount()),
	)
	g.status = fmt.Sprintf("world %s", g.session.ID())
	return nil
}

func (g *Game) sessionOptions(loader *entity.Loader) []architect.Option {
	return []architect.Option{
		architect.WithLogger(g.log),
		architect.WithLoader(loader),
		architect.WithQueue(g.queue),
	}
}

// newWorld replaces the session with an empty world. The shared queue
// keeps whatever chunk is in flight; the old loader still receives it.
func (g *Game) newWorld(seed int64) error {
	cfg := g.cfg
	cfg.Seed = seed
	loader := entity.NewLoader(g.registry)
	s, err := architect.NewSession(&cfg, g.sessionOptions(loader)...)
	if err != nil {
		return err
	}
	g.cfg.Seed = seed
	g.session, g.loader = s, loader
	return nil
}

// Run executes the viewer loop until the player quits or ctx is done.
func (g *Game) Run(ctx context.Context) error {
	if g.session == nil {
		if err := g.Start(ctx); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(FrameInterval)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	var calls <-chan func()
	if g.inspector != nil {
		calls = g.inspector.Calls()
	}

	g.render()
	for g.running {
		select {
		case <-ctx.Done():
			g.running = false
		case ev := <-events:
			if err := g.handleEvent(ctx, ev); err != nil {
				return err
			}
		case fn := <-calls:
			fn()
		case <-ticker.C:
			g.session.Tick(ctx)
			g.render()
		}
	}
	return nil
}

func (g *Game) render() {
	pos := g.explorer.Position()
	where := "rock"
	if sp := g.session.ContainingSpace(pos); sp != nil {
		where = sp.Name()
	}
	q := g.session.Queue()
	line := fmt.Sprintf("%s  (%d,%d) depth %d  chunks %d  queued %d  |  %s",
		where, pos.X, pos.Y, chunk.Depth(g.session.KeyOf(pos), g.cfg.ChunkSize),
		g.session.ChunkCount(), q.Pending(), g.status)
	g.renderer.Render(g.session, g.explorer, g.loader.Enemies(), line)
}

func (g *Game) handleEvent(ctx context.Context, ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return g.handleKeyEvent(ctx, ev)
	case *tcell.EventResize:
		g.screen.Sync()
	}
	return nil
}

// handleKeyEvent processes keyboard input.
func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) error {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		g.running = false
	case tcell.KeyUp:
		return g.tryMove(ctx, geom.Up)
	case tcell.KeyDown:
		return g.tryMove(ctx, geom.Down)
	case tcell.KeyLeft:
		return g.tryMove(ctx, geom.Left)
	case tcell.KeyRight:
		return g.tryMove(ctx, geom.Right)

	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			g.running = false
		case 'k':
			return g.tryMove(ctx, geom.Up)
		case 'j':
			return g.tryMove(ctx, geom.Down)
		case 'h':
			return g.tryMove(ctx, geom.Left)
		case 'l':
			return g.tryMove(ctx, geom.Right)
		case 's':
			g.save()
		case 'r':
			return g.reset(ctx)
		}
	}
	return nil
}

// tryMove steps the explorer in d if the target cell is materialized and
// open, then activates the chunks around the new position.
func (g *Game) tryMove(ctx context.Context, d geom.Direction) error {
	target := g.explorer.Position().Add(d.Vector())
	cell, ok := g.session.CellAt(target)
	switch {
	case !ok:
		g.status = "not yet dug"
		return nil
	case cell.Block.IsSolid():
		return nil
	}
	if e := g.loader.EnemyAt(target); e != nil {
		g.status = fmt.Sprintf("%s blocks the way", e.Name)
		return nil
	}

	g.explorer.Move(d.Vector())
	return g.session.ActivateAround(ctx, target, g.cfg.Radius)
}

func (g *Game) save() {
	if g.store == nil {
		g.status = "no data directory"
		return
	}
	if err := g.session.Save(g.store); err != nil {
		g.log.Error("save failed", "error", err)
		g.status = "save failed"
		return
	}
	g.status = "saved"
}

// reset drops pending activations and starts a new world with the next
// seed. The chunk being materialized finishes in the background.
func (g *Game) reset(ctx context.Context) error {
	dropped := g.session.Reset()
	if err := g.newWorld(g.cfg.Seed + 1); err != nil {
		return err
	}
	g.explorer = entity.NewExplorer(geom.Vec(0, 0))
	if err := g.session.ActivateAround(ctx, g.explorer.Position(), g.cfg.Radius); err != nil {
		return err
	}
	if g.inspector != nil {
		g.inspector.SetWorld(g.session)
	}
	g.log.Info("world reset", "seed", g.cfg.Seed, "dropped", dropped)
	g.status = fmt.Sprintf("world %s", g.session.ID())
	return nil
}
