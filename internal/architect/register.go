package architect

import (
	"context"
	"errors"
	"fmt"

	"github.com/zyedidia/generic/mapset"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/burrow/internal/builder"
	"github.com/samdwyer/burrow/internal/chunk"
	"github.com/samdwyer/burrow/internal/geom"
	"github.com/samdwyer/burrow/internal/space"
)

// attachment is one space waiting to be attached to one grid cell.
type attachment struct {
	sp  *space.Space
	key geom.IntVector2
}

// Register records a finished space under its name and attaches it to
// every grid cell its bounds cover, creating builders as needed.
func (s *Session) Register(ctx context.Context, sp *space.Space) error {
	return s.register(ctx, sp)
}

// register walks a FIFO worklist of attachments. A builder created along
// the way may commit further spaces; their attachments join the back of
// the list instead of recursing. Promoted chunks take the space as a late
// attachment and keep their cells.
func (s *Session) register(ctx context.Context, sp *space.Space) error {
	_, span := s.tracer.Start(ctx, "architect.register")
	defer span.End()

	if err := s.claim(sp); err != nil {
		span.RecordError(err)
		return err
	}

	work := s.attachments(sp)
	visited := mapset.New[attachment]()
	attached, late, created := 0, 0, 0
	for len(work) > 0 {
		a := work[0]
		work = work[1:]
		if visited.Has(a) {
			continue
		}
		visited.Put(a)

		if c, ok := s.chunks[a.key]; ok {
			if err := c.Attach(a.sp); err != nil {
				err = fmt.Errorf("%w: %w", ErrInvalidOperation, err)
				span.RecordError(err)
				return err
			}
			s.log.Debug("space reaches promoted chunk", "space", a.sp.Name(), "chunk", a.key)
			late++
			continue
		}
		cb, isNew, err := s.builderFor(a.key)
		if err != nil {
			span.RecordError(err)
			return err
		}
		if err := cb.Attach(a.sp); err != nil {
			if errors.Is(err, chunk.ErrDuplicateSpace) {
				err = fmt.Errorf("%w: %w", ErrInvalidOperation, err)
			}
			span.RecordError(err)
			return err
		}
		attached++

		if isNew {
			created++
			committed, err := s.commit(cb)
			if err != nil {
				span.RecordError(err)
				return err
			}
			for _, c := range committed {
				if err := s.claim(c); err != nil {
					span.RecordError(err)
					return err
				}
				work = append(work, s.attachments(c)...)
			}
		}
	}

	span.SetAttributes(
		attribute.String("space", sp.Name()),
		attribute.String("kind", sp.Kind()),
		attribute.Int("attached", attached),
		attribute.Int("late", late),
		attribute.Int("created", created),
	)
	s.log.Debug("space registered", "space", sp.Name(), "chunks", attached, "late", late)
	return nil
}

// claim adds sp to the name registry.
func (s *Session) claim(sp *space.Space) error {
	if _, dup := s.names[sp.Name()]; dup {
		return fmt.Errorf("space name %s: %w", sp.Name(), ErrInvalidOperation)
	}
	s.names[sp.Name()] = sp
	s.spaces = append(s.spaces, sp)
	return nil
}

// attachments lists the grid cells covered by sp's bounding box, bottom
// row first.
func (s *Session) attachments(sp *space.Space) []attachment {
	size := s.cfg.ChunkSize
	lo, hi := s.KeyOf(sp.Min()), s.KeyOf(sp.Max())
	var out []attachment
	for y := lo.Y; y <= hi.Y; y += size {
		for x := lo.X; x <= hi.X; x += size {
			out = append(out, attachment{sp: sp, key: geom.Vec(x, y)})
		}
	}
	return out
}

// populate fills a builder with the picker's choices. Each choice is
// clamped to the chunk, built and registered, followed by its dependents.
func (s *Session) populate(ctx context.Context, cb *chunk.Builder) error {
	ctx, span := s.tracer.Start(ctx, "architect.populate")
	defer span.End()

	cb.MarkPopulated()
	picks, err := s.picker.Pick(s.rng, cb)
	if err != nil {
		span.RecordError(err)
		return err
	}

	placed := 0
	for _, sb := range picks {
		if err := cb.AddSpace(sb); err != nil {
			span.RecordError(err)
			return err
		}
		n, err := s.place(ctx, sb)
		if err != nil {
			span.RecordError(err)
			return err
		}
		placed += n
	}

	span.SetAttributes(
		attribute.Int("chunk.x", cb.Key().X),
		attribute.Int("chunk.y", cb.Key().Y),
		attribute.Int("depth", cb.Depth()),
		attribute.Int("picked", len(picks)),
		attribute.Int("placed", placed),
	)
	return nil
}

// place builds and registers sb, then does the same for each of its
// dependents with sb's space as their parent. It returns how many spaces
// were registered.
func (s *Session) place(ctx context.Context, sb builder.SpaceBuilder) (int, error) {
	sp, err := s.finish(sb)
	if err != nil || sp == nil {
		return 0, err
	}
	if err := s.register(ctx, sp); err != nil {
		return 0, err
	}
	placed := 1

	dep, ok := sb.(builder.Dependent)
	if !ok {
		return placed, nil
	}
	for _, d := range dep.Dependents() {
		d.SetParent(sp.Name())
		lo, hi := d.Bounds()
		key := s.KeyOf(geom.Vec((lo.X+hi.X)/2, (lo.Y+hi.Y)/2))
		if _, active := s.chunks[key]; active {
			// No builder left to clamp against; the landing is
			// registered as built and only answers queries there.
			s.log.Debug("dependent lands in promoted chunk", "parent", sp.Name(), "chunk", key)
		} else {
			cb, err := s.ensureBuilder(ctx, key)
			if err != nil {
				return placed, err
			}
			if err := cb.AddSpace(d); err != nil {
				return placed, err
			}
		}
		dsp, err := s.finish(d)
		if err != nil {
			return placed, err
		}
		if dsp == nil {
			continue
		}
		if err := s.register(ctx, dsp); err != nil {
			return placed, err
		}
		placed++
	}
	return placed, nil
}
