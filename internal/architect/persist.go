package architect

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/samdwyer/burrow/internal/chunk"
	"github.com/samdwyer/burrow/internal/config"
	"github.com/samdwyer/burrow/internal/geom"
	"github.com/samdwyer/burrow/internal/space"
	"github.com/samdwyer/burrow/internal/storage"
)

// Save writes every registered space and a world record holding the name
// counter and a snapshot of every grid cell.
func (s *Session) Save(st *storage.Storage) error {
	w := &storage.WorldRecord{
		Session:      s.id,
		Seed:         s.cfg.Seed,
		ChunkSize:    s.cfg.ChunkSize,
		SurfaceLevel: s.cfg.SurfaceLevel,
		Counter:      s.counter,
		Draws:        s.rng.Draws(),
	}
	for _, sp := range s.spaces {
		if err := st.SaveSpace(sp); err != nil {
			return fmt.Errorf("save space %s: %w", sp.Name(), err)
		}
		w.Spaces = append(w.Spaces, sp.Name())
	}

	for _, key := range sortedKeys(s.chunks) {
		c := s.chunks[key]
		w.Builders = append(w.Builders, storage.BuilderRecord{
			Key:       storage.PointOf(key),
			Size:      c.Size(),
			Spaces:    spaceNames(c.Spaces()),
			Late:      spaceNames(c.Late()),
			Enemies:   storage.EnemyEntries(c.Enemies()),
			Populated: true,
			Promoted:  true,
		})
	}
	for _, key := range sortedKeys(s.builders) {
		cb := s.builders[key]
		rec := storage.BuilderRecord{
			Key:       storage.PointOf(key),
			Size:      cb.Size(),
			Spaces:    spaceNames(cb.Spaces()),
			Enemies:   storage.EnemyEntries(cb.Enemies()),
			Populated: cb.Populated(),
		}
		for d, v := range cb.Boundaries() {
			if rec.Boundaries == nil {
				rec.Boundaries = make(map[string]int)
			}
			rec.Boundaries[d.String()] = v
		}
		w.Builders = append(w.Builders, rec)
	}

	if err := st.SaveWorld(w); err != nil {
		return err
	}
	s.log.Info("session saved", "dir", st.Dir(), "spaces", len(w.Spaces), "counter", s.counter)
	return nil
}

// Restore rebuilds a saved session. Chunks that were promoted are promoted
// again and queued for materialization; their cells come out identical
// because every space answers the same after reload. The random source is
// replayed to its saved position, so generation continues exactly as it
// would have without the save.
//
// A space missing from storage is storage.ErrSpaceNotFound and a corrupt
// one storage.ErrSpaceMalformed; both abort the restore.
func Restore(cfg *config.Config, st *storage.Storage, opts ...Option) (*Session, error) {
	w, err := st.LoadWorld()
	if err != nil {
		return nil, err
	}
	c := *cfg
	c.Seed = w.Seed
	c.ChunkSize = w.ChunkSize
	c.SurfaceLevel = w.SurfaceLevel

	s, err := NewSession(&c, append([]Option{WithID(w.Session)}, opts...)...)
	if err != nil {
		return nil, err
	}
	s.counter = w.Counter
	s.rng.Resume(w.Seed, w.Draws)

	for _, name := range w.Spaces {
		sp, err := st.LoadSpace(name)
		if err != nil {
			return nil, err
		}
		if err := s.claim(sp); err != nil {
			return nil, err
		}
	}

	for _, rec := range w.Builders {
		if err := s.restoreBuilder(rec); err != nil {
			return nil, err
		}
	}
	s.log.Info("session restored", "dir", st.Dir(), "spaces", len(s.spaces),
		"chunks", len(s.chunks), "builders", len(s.builders))
	return s, nil
}

func (s *Session) restoreBuilder(rec storage.BuilderRecord) error {
	key := rec.Key.Vec()
	if rec.Size != s.cfg.ChunkSize || key != s.KeyOf(key) {
		return fmt.Errorf("builder %v size %d: %w", key, rec.Size, storage.ErrSpaceMalformed)
	}
	cb := chunk.NewBuilder(key, rec.Size, s.cfg.SurfaceLevel)
	for name, v := range rec.Boundaries {
		d, err := geom.ParseDirection(name)
		if err != nil {
			return fmt.Errorf("builder %v: %w", key, err)
		}
		if err := cb.SetBoundary(d, v); err != nil {
			return fmt.Errorf("builder %v: %w", key, err)
		}
	}
	for _, name := range rec.Spaces {
		sp, ok := s.names[name]
		if !ok {
			return fmt.Errorf("builder %v references %s: %w", key, name, storage.ErrSpaceNotFound)
		}
		if err := cb.Attach(sp); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidOperation, err)
		}
	}
	for _, e := range storage.Spawns(rec.Enemies) {
		cb.AddEnemy(e)
	}
	if rec.Populated {
		cb.MarkPopulated()
	}

	if !rec.Promoted {
		s.builders[key] = cb
		return nil
	}
	c, m, err := cb.Promote(s.loader)
	if err != nil {
		return err
	}
	for _, name := range rec.Late {
		sp, ok := s.names[name]
		if !ok {
			return fmt.Errorf("chunk %v references %s: %w", key, name, storage.ErrSpaceNotFound)
		}
		if err := c.Attach(sp); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidOperation, err)
		}
	}
	s.chunks[key] = c
	s.queue.Enqueue(m)
	return nil
}

func spaceNames(spaces []*space.Space) []string {
	names := make([]string, len(spaces))
	for i, sp := range spaces {
		names[i] = sp.Name()
	}
	return names
}

func sortedKeys[V any](m map[geom.IntVector2]V) []geom.IntVector2 {
	return slices.SortedFunc(maps.Keys(m), func(a, b geom.IntVector2) int {
		if a.Y != b.Y {
			return cmp.Compare(a.Y, b.Y)
		}
		return cmp.Compare(a.X, b.X)
	})
}
