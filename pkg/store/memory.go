package store

import (
	"context"
	"slices"
	"sync"

	"github.com/GrayFrost/z-tab/pkg/grid"
)

// MemoryStore keeps everything in process memory.
// Tiles are returned in insertion order.
type MemoryStore struct {
	mu       sync.RWMutex
	order    []string
	tiles    map[string]grid.Tile
	settings map[string][]byte
}

// NewMemoryStore creates an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tiles:    make(map[string]grid.Tile),
		settings: make(map[string][]byte),
	}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.settings[key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(v), true, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = slices.Clone(value)
	return nil
}

func (s *MemoryStore) GetAll(ctx context.Context) ([]grid.Tile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]grid.Tile, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tiles[id])
	}
	return out, nil
}

func (s *MemoryStore) Add(ctx context.Context, t grid.Tile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tiles[t.ID]; !ok {
		s.order = append(s.order, t.ID)
	}
	s.tiles[t.ID] = t
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, t grid.Tile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tiles[t.ID]; !ok {
		return ErrNotFound
	}
	s.tiles[t.ID] = t
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tiles[id]; !ok {
		return nil
	}
	delete(s.tiles, id)
	s.order = slices.DeleteFunc(s.order, func(x string) bool { return x == id })
	return nil
}

func (s *MemoryStore) SaveAll(ctx context.Context, tiles []grid.Tile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = s.order[:0]
	clear(s.tiles)
	for _, t := range tiles {
		if _, ok := s.tiles[t.ID]; !ok {
			s.order = append(s.order, t.ID)
		}
		s.tiles[t.ID] = t
	}
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	clear(s.tiles)
	clear(s.settings)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
