package store

import (
	"context"

	"github.com/GrayFrost/z-tab/pkg/grid"
)

// NullStore is a no-op store that never keeps anything.
// Useful for ephemeral sessions where nothing should touch disk.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() *NullStore {
	return &NullStore{}
}

// Get always reports a miss.
func (s *NullStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set does nothing.
func (s *NullStore) Set(ctx context.Context, key string, value []byte) error { return nil }

// GetAll always returns no tiles.
func (s *NullStore) GetAll(ctx context.Context) ([]grid.Tile, error) { return nil, nil }

// Add does nothing.
func (s *NullStore) Add(ctx context.Context, t grid.Tile) error { return nil }

// Update does nothing.
func (s *NullStore) Update(ctx context.Context, t grid.Tile) error { return nil }

// Delete does nothing.
func (s *NullStore) Delete(ctx context.Context, id string) error { return nil }

// SaveAll does nothing.
func (s *NullStore) SaveAll(ctx context.Context, tiles []grid.Tile) error { return nil }

// Clear does nothing.
func (s *NullStore) Clear(ctx context.Context) error { return nil }

// Close does nothing.
func (s *NullStore) Close() error { return nil }

// Ensure NullStore implements Store.
var _ Store = (*NullStore)(nil)
