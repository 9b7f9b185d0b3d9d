// Package architect owns world generation state: the grid of pending and
// promoted chunks, the registry of named spaces, and the policy that fills
// newly activated chunks with spaces.
//
// A Session is not safe for concurrent use. Everything that touches it
// runs on one loop.
package architect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/burrow/internal/builder"
	"github.com/samdwyer/burrow/internal/chunk"
	"github.com/samdwyer/burrow/internal/config"
	"github.com/samdwyer/burrow/internal/gamedata"
	"github.com/samdwyer/burrow/internal/geom"
	"github.com/samdwyer/burrow/internal/rng"
	"github.com/samdwyer/burrow/internal/space"
	"github.com/samdwyer/burrow/internal/telemetry"
)

// ErrInvalidOperation marks lifecycle defects: a space registered twice
// with the same chunk, or two spaces sharing a name. Generation must stop.
var ErrInvalidOperation = errors.New("invalid operation")

// Session is one world being generated.
type Session struct {
	id     string
	cfg    config.Config
	rng    *rng.Source
	log    *slog.Logger
	tracer trace.Tracer
	picker Picker
	loader chunk.Loader
	queue  *chunk.Queue

	origin    []builder.Member
	originSet bool

	builders map[geom.IntVector2]*chunk.Builder
	chunks   map[geom.IntVector2]*chunk.Chunk
	names    map[string]*space.Space
	spaces   []*space.Space
	counter  int
}

// Option configures a Session.
type Option func(*Session)

// WithID sets the session id. By default a random UUID is used.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithTracer sets the tracer used for generation spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Session) { s.tracer = t }
}

// WithPicker replaces the weighted picker.
func WithPicker(p Picker) Option {
	return func(s *Session) { s.picker = p }
}

// WithLoader sets the loader handed every materialized cell.
func WithLoader(l chunk.Loader) Option {
	return func(s *Session) { s.loader = l }
}

// WithQueue shares an activation queue between sessions, so a reset can
// let the in-flight chunk finish while a new world starts.
func WithQueue(q *chunk.Queue) Option {
	return func(s *Session) { s.queue = q }
}

// WithOriginLayout replaces the laboratory placed at the world origin. An
// empty layout places nothing.
func WithOriginLayout(layout []builder.Member) Option {
	return func(s *Session) {
		s.origin = layout
		s.originSet = true
	}
}

// NewSession creates an empty world for cfg. The picker, origin layout
// and enemies come from the embedded game data unless overridden.
func NewSession(cfg *config.Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		cfg:      *cfg,
		rng:      rng.New(cfg.Seed),
		builders: make(map[geom.IntVector2]*chunk.Builder),
		chunks:   make(map[geom.IntVector2]*chunk.Chunk),
		names:    make(map[string]*space.Space),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.id == "" {
		s.id = uuid.NewString()
	}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s.log = s.log.With("session", s.id)
	if s.tracer == nil {
		s.tracer = telemetry.Tracer("architect")
	}
	if s.loader == nil {
		s.loader = chunk.NopLoader{}
	}
	if s.queue == nil {
		s.queue = chunk.NewQueue(cfg.FrameBudget)
	}
	if s.picker == nil {
		file, err := gamedata.LoadPicker()
		if err != nil {
			return nil, fmt.Errorf("load picker: %w", err)
		}
		enemies, err := gamedata.LoadEnemyRegistry()
		if err != nil {
			return nil, fmt.Errorf("load enemies: %w", err)
		}
		s.picker = NewWeightedPicker(file, enemies)
	}
	if !s.originSet {
		lab, err := gamedata.LoadLaboratory()
		if err != nil {
			return nil, fmt.Errorf("load laboratory: %w", err)
		}
		s.origin = lab.Layout(geom.Vec(0, 0))
	}
	return s, nil
}

func (s *Session) ID() string                              { return s.id }
func (s *Session) Config() config.Config                   { return s.cfg }
func (s *Session) Counter() int                            { return s.counter }
func (s *Session) Queue() *chunk.Queue                     { return s.queue }
func (s *Session) Logger() *slog.Logger                    { return s.log }
func (s *Session) Spaces() []*space.Space                  { return append([]*space.Space(nil), s.spaces...) }
func (s *Session) ChunkCount() int                         { return len(s.chunks) }
func (s *Session) BuilderCount() int                       { return len(s.builders) }
func (s *Session) KeyOf(p geom.IntVector2) geom.IntVector2 { return chunk.KeyOf(p, s.cfg.ChunkSize) }

// nextName returns the next unused space name for kind.
func (s *Session) nextName(kind builder.Kind) string {
	s.counter++
	return fmt.Sprintf("%s-%d", kind, s.counter)
}

func (s *Session) neighbour(key geom.IntVector2, d geom.Direction) geom.IntVector2 {
	return key.Add(d.Vector().Scale(s.cfg.ChunkSize))
}

// builderFor returns the pending builder at key, creating it if needed.
// A new builder records a boundary against every promoted neighbour.
func (s *Session) builderFor(key geom.IntVector2) (*chunk.Builder, bool, error) {
	if cb, ok := s.builders[key]; ok {
		return cb, false, nil
	}
	cb := chunk.NewBuilder(key, s.cfg.ChunkSize, s.cfg.SurfaceLevel)
	for _, d := range geom.Cardinals {
		if _, ok := s.chunks[s.neighbour(key, d)]; ok {
			if err := cb.AddBoundary(d); err != nil {
				return nil, false, err
			}
		}
	}
	s.builders[key] = cb
	s.log.Debug("chunk builder created", "chunk", key)
	return cb, true, nil
}

// ensureBuilder is builderFor plus the registration of any fixed spaces a
// new builder commits to.
func (s *Session) ensureBuilder(ctx context.Context, key geom.IntVector2) (*chunk.Builder, error) {
	cb, created, err := s.builderFor(key)
	if err != nil || !created {
		return cb, err
	}
	committed, err := s.commit(cb)
	if err != nil {
		return nil, err
	}
	for _, sp := range committed {
		if err := s.register(ctx, sp); err != nil {
			return nil, err
		}
	}
	return cb, nil
}

// commit builds the spaces a builder is obliged to hold because of where
// it is. Only the origin has any: the hand-authored laboratory.
func (s *Session) commit(cb *chunk.Builder) ([]*space.Space, error) {
	if cb.Key() != s.KeyOf(geom.Vec(0, 0)) || len(s.origin) == 0 {
		return nil, nil
	}
	lab, err := builder.LaboratoryFromLayout(s.rng, s.origin)
	if err != nil {
		return nil, err
	}
	if err := cb.AddSpace(lab); err != nil {
		return nil, err
	}
	sp, err := s.finish(lab)
	if err != nil || sp == nil {
		return nil, err
	}
	return []*space.Space{sp}, nil
}

// finish builds sb under a fresh name. Invalid or emptied builders are
// skipped and yield nil.
func (s *Session) finish(sb builder.SpaceBuilder) (*space.Space, error) {
	if !sb.IsValid() {
		lo, hi := sb.Bounds()
		s.log.Debug("skipping invalid builder", "kind", sb.Kind(), "min", lo, "max", hi)
		return nil, nil
	}
	sp, err := sb.Build(s.nextName(sb.Kind()))
	if errors.Is(err, builder.ErrEmpty) {
		s.log.Debug("skipping empty builder", "kind", sb.Kind())
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for _, err := range sp.Extents().Problems() {
		s.log.Warn("space extents problem", "space", sp.Name(), "error", err)
	}
	return sp, nil
}

// Activate populates the chunk at key if needed, promotes it and queues
// its materialization. Active chunks are left alone.
func (s *Session) Activate(ctx context.Context, key geom.IntVector2) error {
	if _, ok := s.chunks[key]; ok {
		return nil
	}
	if key != s.KeyOf(key) {
		return fmt.Errorf("activate %v: not a chunk key: %w", key, geom.ErrInvalidArgument)
	}
	cb, err := s.ensureBuilder(ctx, key)
	if err != nil {
		return err
	}
	if !cb.Populated() {
		if err := s.populate(ctx, cb); err != nil {
			return err
		}
	}

	c, m, err := cb.Promote(s.loader)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOperation, err)
	}
	s.chunks[key] = c
	delete(s.builders, key)
	s.queue.Enqueue(m)

	for _, d := range geom.Cardinals {
		if nb, ok := s.builders[s.neighbour(key, d)]; ok {
			if err := nb.AddBoundary(d.Opposite()); err != nil {
				return err
			}
		}
	}
	s.log.Debug("chunk activated", "chunk", key, "spaces", len(c.Spaces()), "queued", s.queue.Pending())
	return nil
}

// ActivateAround activates every chunk within radius chunks of pos,
// nearest rows first.
func (s *Session) ActivateAround(ctx context.Context, pos geom.IntVector2, radius int) error {
	center := s.KeyOf(pos)
	for ring := 0; ring <= radius; ring++ {
		for dy := -ring; dy <= ring; dy++ {
			for dx := -ring; dx <= ring; dx++ {
				if max(abs(dx), abs(dy)) != ring {
					continue
				}
				key := center.Add(geom.Vec(dx, dy).Scale(s.cfg.ChunkSize))
				if err := s.Activate(ctx, key); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Tick spends one frame budget on queued materialization.
func (s *Session) Tick(ctx context.Context) *chunk.Chunk {
	c := s.queue.Tick(ctx)
	if c != nil {
		s.log.Debug("chunk materialized", "chunk", c.Key())
	}
	return c
}

// Generate activates the chunks within radius of the origin and
// materializes all of them.
func (s *Session) Generate(ctx context.Context, radius int) error {
	ctx, span := s.tracer.Start(ctx, "world.generate")
	defer span.End()

	if err := s.ActivateAround(ctx, geom.Vec(0, 0), radius); err != nil {
		span.RecordError(err)
		return err
	}
	done := s.queue.Drain(ctx)

	span.SetAttributes(
		attribute.String("session", s.id),
		attribute.Int("chunks", len(done)),
		attribute.Int("spaces", len(s.spaces)),
	)
	s.log.Info("world generated", "radius", radius, "chunks", len(done), "spaces", len(s.spaces))
	return nil
}

// Reset drops queued activations that have not started and returns how
// many were dropped. The chunk in flight still finishes.
func (s *Session) Reset() int {
	n := s.queue.CancelPending()
	s.log.Info("activation queue reset", "dropped", n)
	return n
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
