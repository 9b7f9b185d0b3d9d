package inspect

import (
	"fmt"

	"github.com/samdwyer/burrow/internal/chunk"
	"github.com/samdwyer/burrow/internal/geom"
	"github.com/samdwyer/burrow/internal/space"
	"github.com/samdwyer/burrow/internal/storage"
)

// Query operations.
const (
	OpStats     = "stats"
	OpSpaceAt   = "space_at"
	OpSpace     = "space"
	OpChunkAt   = "chunk_at"
	OpBuilderAt = "builder_at"
	OpCellAt    = "cell_at"
)

// Request is one client query.
type Request struct {
	ID   int    `json:"id"`             // Echoed back in the response
	Op   string `json:"op"`             // One of the Op constants
	X    int    `json:"x,omitempty"`    // Position for positional queries
	Y    int    `json:"y,omitempty"`    // Position for positional queries
	Name string `json:"name,omitempty"` // Space name for OpSpace
}

// Response answers one Request. Exactly one payload is set unless Error is.
type Response struct {
	ID      int          `json:"id"`
	Op      string       `json:"op"`
	Error   string       `json:"error,omitempty"`
	Stats   *Stats       `json:"stats,omitempty"`
	Space   *SpaceInfo   `json:"space,omitempty"`
	Chunk   *ChunkInfo   `json:"chunk,omitempty"`
	Builder *BuilderInfo `json:"builder,omitempty"`
	Cell    *CellInfo    `json:"cell,omitempty"`
}

// Stats summarizes the world.
type Stats struct {
	Session  string `json:"session"`
	Counter  int    `json:"counter"`  // Spaces named so far
	Chunks   int    `json:"chunks"`   // Promoted chunks
	Builders int    `json:"builders"` // Pending builders
}

// SpaceInfo describes a space.
type SpaceInfo struct {
	Name      string        `json:"name"`
	Kind      string        `json:"kind"`
	Parent    string        `json:"parent,omitempty"`
	Min       storage.Point `json:"min"`
	Max       storage.Point `json:"max"`
	Capped    bool          `json:"capped,omitempty"`
	Hazardous bool          `json:"hazardous,omitempty"`
	Modifiers []string      `json:"modifiers,omitempty"`
	Enemies   int           `json:"enemies"`
}

// ChunkInfo describes a promoted chunk.
type ChunkInfo struct {
	Key          storage.Point `json:"key"`
	Materialized bool          `json:"materialized"`
	Spaces       []string      `json:"spaces"`
	Late         []string      `json:"late,omitempty"`
}

// BuilderInfo describes a pending chunk builder.
type BuilderInfo struct {
	Key        storage.Point  `json:"key"`
	Populated  bool           `json:"populated"`
	Spaces     []string       `json:"spaces"`
	Boundaries map[string]int `json:"boundaries,omitempty"`
}

// CellInfo describes one materialized cell.
type CellInfo struct {
	Block  string `json:"block"`
	Hazard string `json:"hazard,omitempty"`
	Prop   string `json:"prop,omitempty"`
	Owner  string `json:"owner,omitempty"`
}

// answer runs on the owning loop.
func (s *Server) answer(req Request) Response {
	resp := Response{ID: req.ID, Op: req.Op}
	if s.world == nil {
		resp.Error = "no world loaded"
		return resp
	}
	p := geom.Vec(req.X, req.Y)

	switch req.Op {
	case OpStats:
		resp.Stats = &Stats{
			Session:  s.world.ID(),
			Counter:  s.world.Counter(),
			Chunks:   s.world.ChunkCount(),
			Builders: s.world.BuilderCount(),
		}
	case OpSpaceAt:
		if sp := s.world.ContainingSpace(p); sp != nil {
			resp.Space = spaceInfo(sp)
		} else {
			resp.Error = fmt.Sprintf("no space at %v", p)
		}
	case OpSpace:
		if sp, ok := s.world.SpaceByName(req.Name); ok {
			resp.Space = spaceInfo(sp)
		} else {
			resp.Error = fmt.Sprintf("no space named %q", req.Name)
		}
	case OpChunkAt:
		if c := s.world.ContainingChunk(p); c != nil {
			resp.Chunk = &ChunkInfo{
				Key:          storage.PointOf(c.Key()),
				Materialized: c.Materialized(),
				Spaces:       names(c.Spaces()),
				Late:         names(c.Late()),
			}
		} else {
			resp.Error = fmt.Sprintf("no chunk at %v", p)
		}
	case OpBuilderAt:
		if cb := s.world.ContainingBuilder(p); cb != nil {
			resp.Builder = builderInfo(cb)
		} else {
			resp.Error = fmt.Sprintf("no builder at %v", p)
		}
	case OpCellAt:
		cell, ok := s.world.CellAt(p)
		if !ok {
			resp.Error = fmt.Sprintf("cell %v not materialized", p)
			break
		}
		info := &CellInfo{Block: cell.Block.String()}
		if cell.Hazard.Type != space.HazardNone {
			info.Hazard = cell.Hazard.Type.String()
		}
		if cell.Prop != space.PropNone {
			info.Prop = cell.Prop.String()
		}
		if owner := s.world.ContainingChunk(p).Owner(p); owner != nil {
			info.Owner = owner.Name()
		}
		resp.Cell = info
	default:
		resp.Error = fmt.Sprintf("unknown op %q", req.Op)
	}
	return resp
}

func spaceInfo(sp *space.Space) *SpaceInfo {
	info := &SpaceInfo{
		Name:      sp.Name(),
		Kind:      sp.Kind(),
		Parent:    sp.Parent(),
		Min:       storage.PointOf(sp.Min()),
		Max:       storage.PointOf(sp.Max()),
		Capped:    sp.Capped(),
		Hazardous: sp.Hazardous(),
		Enemies:   len(sp.Enemies()),
	}
	for _, m := range sp.Modifiers() {
		info.Modifiers = append(info.Modifiers, string(m))
	}
	return info
}

func builderInfo(cb *chunk.Builder) *BuilderInfo {
	info := &BuilderInfo{
		Key:       storage.PointOf(cb.Key()),
		Populated: cb.Populated(),
		Spaces:    names(cb.Spaces()),
	}
	for d, v := range cb.Boundaries() {
		if info.Boundaries == nil {
			info.Boundaries = make(map[string]int)
		}
		info.Boundaries[d.String()] = v
	}
	return info
}

func names(spaces []*space.Space) []string {
	out := make([]string, len(spaces))
	for i, sp := range spaces {
		out[i] = sp.Name()
	}
	return out
}
