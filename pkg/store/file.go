package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/gofrs/flock"

	"github.com/GrayFrost/z-tab/pkg/grid"
)

// File names inside a file store directory.
const (
	TilesFile    = "tiles.json"
	SettingsFile = "settings.json"
	lockFile     = ".lock"
)

// FileStore keeps tiles and settings as two JSON documents in a directory.
//
// Every operation holds an advisory file lock, shared for reads and
// exclusive for writes, so several processes can use the same directory.
// Documents are replaced atomically through a temp file and rename.
// Setting values must be JSON.
type FileStore struct {
	mu   sync.Mutex
	dir  string
	lock *flock.Flock
}

// NewFileStore creates a file store in dir.
// If dir is empty, defaults to [DefaultDir].
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{dir: dir, lock: flock.New(filepath.Join(dir, lockFile))}, nil
}

// Path returns the store directory.
func (s *FileStore) Path() string { return s.dir }

// Files returns the paths of the documents the store writes.
func (s *FileStore) Files() []string {
	return []string{filepath.Join(s.dir, TilesFile), filepath.Join(s.dir, SettingsFile)}
}

// Get reads one setting from the settings document under a shared lock.
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		value []byte
		found bool
	)
	err := s.withLock(false, func() error {
		settings, err := s.readSettings()
		if err != nil {
			return err
		}
		raw, ok := settings[key]
		value, found = slices.Clone([]byte(raw)), ok
		return nil
	})
	return value, found, err
}

// Set rewrites the settings document with key set to value, which must be JSON.
func (s *FileStore) Set(ctx context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("setting %q: value is not JSON", key)
	}
	return s.withLock(true, func() error {
		settings, err := s.readSettings()
		if err != nil {
			return err
		}
		settings[key] = json.RawMessage(slices.Clone(value))
		return s.writeJSON(SettingsFile, settings)
	})
}

// GetAll reads the tiles document in stored order.
func (s *FileStore) GetAll(ctx context.Context) ([]grid.Tile, error) {
	var tiles []grid.Tile
	err := s.withLock(false, func() error {
		var err error
		tiles, err = s.readTiles()
		return err
	})
	return tiles, err
}

// Add appends t, or replaces the tile with the same ID in place.
func (s *FileStore) Add(ctx context.Context, t grid.Tile) error {
	return s.modifyTiles(func(tiles []grid.Tile) ([]grid.Tile, error) {
		if i := indexOf(tiles, t.ID); i >= 0 {
			tiles[i] = t
			return tiles, nil
		}
		return append(tiles, t), nil
	})
}

// Update replaces the tile with t.ID, returning ErrNotFound when absent.
func (s *FileStore) Update(ctx context.Context, t grid.Tile) error {
	return s.modifyTiles(func(tiles []grid.Tile) ([]grid.Tile, error) {
		i := indexOf(tiles, t.ID)
		if i < 0 {
			return nil, ErrNotFound
		}
		tiles[i] = t
		return tiles, nil
	})
}

// Delete removes the tile with id. Removing a missing tile is not an error.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	return s.modifyTiles(func(tiles []grid.Tile) ([]grid.Tile, error) {
		return slices.DeleteFunc(tiles, func(t grid.Tile) bool { return t.ID == id }), nil
	})
}

// SaveAll replaces the tiles document. A repeated ID keeps its first position
// and its last value.
func (s *FileStore) SaveAll(ctx context.Context, tiles []grid.Tile) error {
	return s.modifyTiles(func([]grid.Tile) ([]grid.Tile, error) {
		return dedupe(tiles), nil
	})
}

// Clear removes both documents.
func (s *FileStore) Clear(ctx context.Context) error {
	return s.withLock(true, func() error {
		for _, name := range []string{TilesFile, SettingsFile} {
			if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
				return unavailable("clear store", err)
			}
		}
		return nil
	})
}

// Close does nothing; the lock is only held during operations.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) withLock(exclusive bool, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if exclusive {
		err = s.lock.Lock()
	} else {
		err = s.lock.RLock()
	}
	if err != nil {
		return unavailable("lock store", err)
	}
	defer s.lock.Unlock()
	return fn()
}

func (s *FileStore) modifyTiles(fn func([]grid.Tile) ([]grid.Tile, error)) error {
	return s.withLock(true, func() error {
		tiles, err := s.readTiles()
		if err != nil {
			return err
		}
		tiles, err = fn(tiles)
		if err != nil {
			return err
		}
		if tiles == nil {
			tiles = []grid.Tile{}
		}
		return s.writeJSON(TilesFile, tiles)
	})
}

func (s *FileStore) readTiles() ([]grid.Tile, error) {
	var tiles []grid.Tile
	if err := s.readJSON(TilesFile, &tiles); err != nil {
		return nil, err
	}
	return tiles, nil
}

func (s *FileStore) readSettings() (map[string]json.RawMessage, error) {
	settings := make(map[string]json.RawMessage)
	if err := s.readJSON(SettingsFile, &settings); err != nil {
		return nil, err
	}
	if settings == nil {
		settings = make(map[string]json.RawMessage)
	}
	return settings, nil
}

// readJSON decodes name into v. A missing file leaves v untouched.
func (s *FileStore) readJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return unavailable("read "+name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// writeJSON replaces name atomically.
func (s *FileStore) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return unavailable("write "+name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return unavailable("write "+name, err)
	}
	if err := tmp.Close(); err != nil {
		return unavailable("write "+name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return unavailable("write "+name, err)
	}
	return nil
}

func indexOf(tiles []grid.Tile, id string) int {
	return slices.IndexFunc(tiles, func(t grid.Tile) bool { return t.ID == id })
}

// dedupe keeps the last tile for each id at the position of the first.
func dedupe(tiles []grid.Tile) []grid.Tile {
	out := make([]grid.Tile, 0, len(tiles))
	for _, t := range tiles {
		if i := indexOf(out, t.ID); i >= 0 {
			out[i] = t
			continue
		}
		out = append(out, t)
	}
	return out
}

var _ Store = (*FileStore)(nil)
