// Package pkg holds the libraries behind ztab, a paginated tile board.
//
// # Overview
//
// ztab lays site shortcuts and widgets out on fixed-size grid pages, like
// the new tab page of a browser. The packages split into three areas:
//
//  1. [grid] - tiles, first-fit packing, pagination and layout repair
//  2. [board] - the in-memory board with its persistence policy
//  3. [store] - storage backends (file, sqlite, redis, mongo, memory)
//
// Supporting packages: [config] for the TOML configuration, [preset] for
// the initial tiles and widget catalog, [favicon] for site icons,
// [debounce] for drag persistence, [observability] for hooks and
// [errors] for coded errors.
//
// # Data flow
//
//	store (tiles + layout)
//	         ↓
//	    [board] Load (restore order, reconcile)
//	         ↓
//	    [grid] Paginate → PlacePage per page
//	         ↓
//	    HTTP API / CLI rendering
//
// # Quick Start
//
//	import (
//	    "github.com/GrayFrost/z-tab/pkg/board"
//	    "github.com/GrayFrost/z-tab/pkg/preset"
//	    "github.com/GrayFrost/z-tab/pkg/store"
//	)
//
//	s := store.NewMemoryStore()
//	b := board.New(s, board.Options{Preset: preset.Default()})
//	if err := b.Load(ctx); err != nil {
//	    return err
//	}
//	defer b.Close()
//
//	tile, err := b.AddSite(ctx, "go.dev")
//
// [grid]: github.com/GrayFrost/z-tab/pkg/grid
// [board]: github.com/GrayFrost/z-tab/pkg/board
// [store]: github.com/GrayFrost/z-tab/pkg/store
// [config]: github.com/GrayFrost/z-tab/pkg/config
// [preset]: github.com/GrayFrost/z-tab/pkg/preset
// [favicon]: github.com/GrayFrost/z-tab/pkg/favicon
// [debounce]: github.com/GrayFrost/z-tab/pkg/debounce
// [observability]: github.com/GrayFrost/z-tab/pkg/observability
// [errors]: github.com/GrayFrost/z-tab/pkg/errors
package pkg
