// Package storage persists spaces and world state as JSON files.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/samdwyer/burrow/internal/space"
)

var (
	// ErrSpaceNotFound means no record exists under the name. Callers may
	// regenerate the space.
	ErrSpaceNotFound = errors.New("space not found")
	// ErrSpaceMalformed means a record exists but cannot be read back.
	// Callers should abort rather than regenerate.
	ErrSpaceMalformed = errors.New("space record malformed")
	// ErrWorldNotFound means the directory holds no saved world.
	ErrWorldNotFound = errors.New("world not found")
)

// Storage handles file-based persistence for one world directory.
type Storage struct {
	dir string
	log *slog.Logger
}

// New creates a new Storage rooted at dir, creating subdirectories as needed.
func New(dir string, log *slog.Logger) (*Storage, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	dirs := []string{
		dir,
		filepath.Join(dir, "spaces"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", d, err)
		}
	}
	return &Storage{dir: dir, log: log}, nil
}

// Dir returns the world directory.
func (s *Storage) Dir() string { return s.dir }

func (s *Storage) spacePath(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("space name %q: %w", name, ErrSpaceNotFound)
	}
	return filepath.Join(s.dir, "spaces", name+".json"), nil
}

// SaveSpace writes spaces/<name>.json atomically.
func (s *Storage) SaveSpace(sp *space.Space) error {
	path, err := s.spacePath(sp.Name())
	if err != nil {
		return err
	}
	rec := RecordFromSpace(sp)
	return s.atomicWriteJSON(path, &rec)
}

// LoadSpace reads spaces/<name>.json and rebuilds the space. A missing
// file is ErrSpaceNotFound; anything unreadable after that is
// ErrSpaceMalformed.
func (s *Storage) LoadSpace(name string) (*space.Space, error) {
	path, err := s.spacePath(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load space %s: %w", name, ErrSpaceNotFound)
		}
		return nil, fmt.Errorf("read space %s: %w", name, err)
	}

	var rec SpaceRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse space %s: %w: %w", name, ErrSpaceMalformed, err)
	}
	if rec.Name != name {
		return nil, fmt.Errorf("space file %s holds %q: %w", name, rec.Name, ErrSpaceMalformed)
	}
	sp, err := rec.Space()
	if err != nil {
		return nil, fmt.Errorf("rebuild space %s: %w: %w", name, ErrSpaceMalformed, err)
	}
	for _, err := range sp.Extents().Problems() {
		s.log.Warn("space extents problem", "space", name, "error", err)
	}
	return sp, nil
}

// SaveWorld writes world.json atomically.
func (s *Storage) SaveWorld(w *WorldRecord) error {
	w.Version = Version
	path := filepath.Join(s.dir, "world.json")
	if err := s.atomicWriteJSON(path, w); err != nil {
		return err
	}
	s.log.Info("saved world", "path", path, "spaces", len(w.Spaces), "builders", len(w.Builders))
	return nil
}

// LoadWorld reads world.json.
func (s *Storage) LoadWorld() (*WorldRecord, error) {
	path := filepath.Join(s.dir, "world.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", path, ErrWorldNotFound)
		}
		return nil, fmt.Errorf("read world: %w", err)
	}

	var w WorldRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parse world: %w", err)
	}
	if w.Version != Version {
		return nil, fmt.Errorf("world version %d, want %d", w.Version, Version)
	}
	s.log.Info("loaded world", "path", path, "session", w.Session, "spaces", len(w.Spaces))
	return &w, nil
}

// atomicWriteJSON marshals v to JSON and writes it atomically using a temp file + rename.
func (s *Storage) atomicWriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
