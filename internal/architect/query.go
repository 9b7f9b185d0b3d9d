package architect

import (
	"github.com/samdwyer/burrow/internal/chunk"
	"github.com/samdwyer/burrow/internal/geom"
	"github.com/samdwyer/burrow/internal/space"
)

// ContainingChunk returns the promoted chunk owning p, or nil.
func (s *Session) ContainingChunk(p geom.IntVector2) *chunk.Chunk {
	return s.chunks[s.KeyOf(p)]
}

// ContainingBuilder returns the pending builder owning p, or nil.
func (s *Session) ContainingBuilder(p geom.IntVector2) *chunk.Builder {
	return s.builders[s.KeyOf(p)]
}

// BuilderAt returns the pending builder whose key is exactly origin. Unlike
// ContainingBuilder it does not round.
func (s *Session) BuilderAt(origin geom.IntVector2) *chunk.Builder {
	return s.builders[origin]
}

// ChunkAt returns the promoted chunk whose key is exactly key.
func (s *Session) ChunkAt(key geom.IntVector2) *chunk.Chunk {
	return s.chunks[key]
}

// ContainingSpace returns the space that owns p: the first one attached to
// p's chunk or builder that contains it.
func (s *Session) ContainingSpace(p geom.IntVector2) *space.Space {
	key := s.KeyOf(p)
	if c, ok := s.chunks[key]; ok {
		return c.ContainingSpace(p)
	}
	if cb, ok := s.builders[key]; ok {
		for _, sp := range cb.Spaces() {
			if sp.Contains(p) {
				return sp
			}
		}
	}
	return nil
}

// SpaceByName looks a space up in the name registry.
func (s *Session) SpaceByName(name string) (*space.Space, bool) {
	sp, ok := s.names[name]
	return sp, ok
}

// CellAt returns the materialized cell at p. It reports false until p's
// chunk has been activated and filled that far.
func (s *Session) CellAt(p geom.IntVector2) (space.Cell, bool) {
	c := s.ContainingChunk(p)
	if c == nil {
		return space.Cell{}, false
	}
	return c.CellAt(p)
}
