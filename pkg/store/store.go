// Package store persists dashboard tiles, the global layout and settings.
//
// The [Store] interface has one implementation per backend:
//   - memory: in-process maps for tests and ephemeral runs
//   - null: discards writes and reads empty
//   - file: JSON documents in a directory, guarded by a cross-process lock
//   - sqlite: a single database file (pure-Go driver, no cgo)
//   - redis: a hash of tiles and string keys for settings
//   - mongo: a tiles and a settings collection
//
// Tiles are keyed by id. GetAll returns them in a backend-defined order;
// the visual order is rebuilt from the layout by the caller. Settings are
// opaque byte values under string keys; the layout lives under [LayoutKey].
//
// # Usage
//
//	st, err := store.Open(ctx, store.Config{Backend: store.BackendFile, Dir: dir})
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	tiles, err := st.GetAll(ctx)
//	layout, ok, err := store.LoadLayout(ctx, st)
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/GrayFrost/z-tab/pkg/grid"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned by Update when the tile does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable wraps backend I/O failures.
	ErrUnavailable = errors.New("store unavailable")

	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown store backend")
)

// Setting keys.
const (
	LayoutKey          = "widget-layout"
	GridKey            = "widget-layout-grid"
	ThemeKey           = "theme"
	IconStyleKey       = "icon-style"
	AutoHideButtonsKey = "auto-hide-buttons"
)

// Store is the persistent collaborator of a board.
type Store interface {
	// Get returns the setting stored under key.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a setting.
	Set(ctx context.Context, key string, value []byte) error

	// GetAll returns every stored tile.
	GetAll(ctx context.Context) ([]grid.Tile, error)
	// Add inserts or replaces a tile.
	Add(ctx context.Context, t grid.Tile) error
	// Update replaces an existing tile and returns ErrNotFound if absent.
	Update(ctx context.Context, t grid.Tile) error
	// Delete removes a tile. A missing id is not an error.
	Delete(ctx context.Context, id string) error
	// SaveAll replaces every stored tile with tiles.
	SaveAll(ctx context.Context, tiles []grid.Tile) error

	// Clear removes all tiles and settings.
	Clear(ctx context.Context) error
	// Close releases the backend.
	Close() error
}

// unavailable wraps a backend failure so errors.Is(err, ErrUnavailable)
// holds while keeping the cause.
func unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}

// =============================================================================
// Layout and settings helpers
// =============================================================================

// LoadLayout reads the global layout and the grid it was written for.
// A layout saved without grid dimensions reports the zero Grid.
func LoadLayout(ctx context.Context, s Store) ([]grid.Placement, grid.Grid, bool, error) {
	data, ok, err := s.Get(ctx, LayoutKey)
	if err != nil || !ok {
		return nil, grid.Grid{}, false, err
	}
	var layout []grid.Placement
	if err := json.Unmarshal(data, &layout); err != nil {
		return nil, grid.Grid{}, false, fmt.Errorf("parse layout: %w", err)
	}

	var g grid.Grid
	if data, ok, err := s.Get(ctx, GridKey); err != nil {
		return nil, grid.Grid{}, false, err
	} else if ok {
		if err := json.Unmarshal(data, &g); err != nil {
			return nil, grid.Grid{}, false, fmt.Errorf("parse layout grid: %w", err)
		}
	}
	return layout, g, true, nil
}

// SaveLayout writes the global layout together with its grid dimensions.
func SaveLayout(ctx context.Context, s Store, g grid.Grid, layout []grid.Placement) error {
	if layout == nil {
		layout = []grid.Placement{}
	}
	data, err := json.Marshal(layout)
	if err != nil {
		return fmt.Errorf("marshal layout: %w", err)
	}
	dims, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("marshal layout grid: %w", err)
	}
	if err := s.Set(ctx, GridKey, dims); err != nil {
		return err
	}
	return s.Set(ctx, LayoutKey, data)
}

// Settings are the user preferences kept next to the layout.
type Settings struct {
	Theme           string `json:"theme"`
	IconStyle       string `json:"iconStyle"`
	AutoHideButtons bool   `json:"autoHideButtons"`
}

// DefaultSettings returns the preferences used before anything is saved.
func DefaultSettings() Settings {
	return Settings{Theme: "light", IconStyle: "minimal"}
}

// LoadSettings reads the saved preferences over the defaults.
// Unknown or malformed values keep their default.
func LoadSettings(ctx context.Context, s Store) (Settings, error) {
	out := DefaultSettings()
	read := func(key string, dst any) error {
		data, ok, err := s.Get(ctx, key)
		if err != nil || !ok {
			return err
		}
		_ = json.Unmarshal(data, dst)
		return nil
	}

	var theme, icon string
	if err := read(ThemeKey, &theme); err != nil {
		return out, err
	}
	if err := read(IconStyleKey, &icon); err != nil {
		return out, err
	}
	if err := read(AutoHideButtonsKey, &out.AutoHideButtons); err != nil {
		return out, err
	}
	if theme == "light" || theme == "dark" {
		out.Theme = theme
	}
	if icon == "minimal" || icon == "colorful" {
		out.IconStyle = icon
	}
	return out, nil
}

// SaveSettings writes every preference.
func SaveSettings(ctx context.Context, s Store, v Settings) error {
	values := []struct {
		key string
		val any
	}{
		{ThemeKey, v.Theme},
		{IconStyleKey, v.IconStyle},
		{AutoHideButtonsKey, v.AutoHideButtons},
	}
	for _, kv := range values {
		data, err := json.Marshal(kv.val)
		if err != nil {
			return err
		}
		if err := s.Set(ctx, kv.key, data); err != nil {
			return err
		}
	}
	return nil
}
