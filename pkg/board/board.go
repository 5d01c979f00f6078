package board

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/GrayFrost/z-tab/pkg/debounce"
	apperrors "github.com/GrayFrost/z-tab/pkg/errors"
	"github.com/GrayFrost/z-tab/pkg/grid"
	"github.com/GrayFrost/z-tab/pkg/observability"
	"github.com/GrayFrost/z-tab/pkg/preset"
	"github.com/GrayFrost/z-tab/pkg/store"
)

// State tells whether the in-memory layout matches the stored one.
type State int

const (
	// Derived means the layout was computed in memory and not yet written.
	Derived State = iota
	// Persisted means the last layout write succeeded.
	Persisted
)

func (s State) String() string {
	if s == Persisted {
		return "persisted"
	}
	return "derived"
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Options configures a Board.
type Options struct {
	// Grid is the page size. The zero value selects grid.Default.
	Grid grid.Grid
	// Debounce delays layout writes after drags. Zero selects
	// debounce.DefaultDelay; a negative value writes immediately.
	Debounce time.Duration
	// Preset seeds an empty store. The zero value selects preset.Default.
	Preset preset.Preset
	// Logger receives persistence failures. Nil selects log.Default.
	Logger *log.Logger
}

// Board is the single owner of a board's tiles and layout.
// It is safe for concurrent use.
type Board struct {
	store  store.Store
	grid   grid.Grid
	preset preset.Preset
	logger *log.Logger
	save   *debounce.Debouncer

	mu      sync.Mutex
	tiles   []grid.Tile
	pages   [][]grid.Tile
	global  []grid.Placement
	state   State
	version uint64

	// writer queue, guarded by mu
	queue   []write
	writing bool
	idle    *sync.Cond
	closed  bool
}

// Snapshot is a consistent copy of a board.
type Snapshot struct {
	Grid   grid.Grid        `json:"grid"`
	State  State            `json:"state"`
	Tiles  []grid.Tile      `json:"tiles"`
	Pages  [][]grid.Tile    `json:"-"`
	Global []grid.Placement `json:"layout"`
}

// New creates a board over s. Call [Board.Load] before use; until then the
// board shows the preset.
func New(s store.Store, opts Options) *Board {
	if !opts.Grid.Valid() {
		opts.Grid = grid.Default
	}
	if opts.Preset.Tiles == nil {
		opts.Preset = preset.Default()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Debounce == 0 {
		opts.Debounce = debounce.DefaultDelay
	}

	b := &Board{
		store:  s,
		grid:   opts.Grid,
		preset: opts.Preset,
		logger: opts.Logger,
	}
	b.idle = sync.NewCond(&b.mu)
	if opts.Debounce > 0 {
		b.save = debounce.New(opts.Debounce, b.scheduleLayoutWrite)
	}
	b.resetLocked()
	return b
}

// =============================================================================
// Loading
// =============================================================================

// Load replaces the board's state with the store's contents.
//
// An empty store is seeded from the preset and written back. When the stored
// layout was written for another grid size it is regenerated from the tile
// order; otherwise it is reconciled with the current pages. If the store
// cannot be read the board falls back to the preset in memory, writes
// nothing, and Load returns a STORE_UNAVAILABLE error.
func (b *Board) Load(ctx context.Context) error {
	start := time.Now()
	tiles, err := b.store.GetAll(ctx)
	var (
		layout    []grid.Placement
		saved     grid.Grid
		hasLayout bool
	)
	if err == nil {
		var lerr error
		layout, saved, hasLayout, lerr = store.LoadLayout(ctx, b.store)
		switch {
		case errors.Is(lerr, store.ErrUnavailable):
			err = lerr
		case lerr != nil:
			b.logger.Warn("discarding unreadable layout", "err", lerr)
			layout, hasLayout = nil, false
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.resetLocked()
		b.version++
		err = apperrors.Wrap(apperrors.ErrCodeStoreUnavailable, err, "load board")
		b.logger.Warn("store unreadable, showing preset", "err", err)
		observability.Board().OnLoad(ctx, len(b.tiles), len(b.pages), false, time.Since(start), err)
		return err
	}

	if len(tiles) == 0 {
		b.resetLocked()
		b.version++
		b.logger.Debug("empty store, seeding preset", "preset", b.preset.Name, "tiles", len(b.tiles))
		b.enqueueTilesLocked()
		b.enqueueLayoutLocked()
		observability.Board().OnLoad(ctx, len(b.tiles), len(b.pages), false, time.Since(start), nil)
		return nil
	}

	tiles = grid.EnsureAddControl(tiles)
	repaired := false
	switch {
	case !hasLayout:
		b.setLocked(tiles, nil)
		repaired = true
	case saved.Valid() && saved != b.grid:
		b.logger.Warn("layout was saved for another grid, regenerating", "saved", saved, "grid", b.grid)
		b.setLocked(saved.RestoreOrder(tiles, layout), nil)
		repaired = true
	default:
		ordered := b.grid.RestoreOrder(tiles, layout)
		rep := b.setLocked(ordered, layout)
		if !rep.Clean() {
			b.logger.Info("repaired stored layout", "dropped", rep.Dropped, "filled", rep.Filled, "repacked", rep.Repacked)
			repaired = true
		}
	}

	b.version++
	if repaired {
		b.state = Derived
		b.enqueueLayoutLocked()
	} else {
		b.state = Persisted
	}
	observability.Board().OnLoad(ctx, len(b.tiles), len(b.pages), repaired, time.Since(start), nil)
	return nil
}

// resetLocked puts the preset into memory.
func (b *Board) resetLocked() {
	b.setLocked(grid.EnsureAddControl(slices.Clone(b.preset.Tiles)), nil)
	b.state = Derived
}

// setLocked installs tiles in order, paginates them and fits layout to the
// pages. A nil layout is derived from scratch.
func (b *Board) setLocked(tiles []grid.Tile, layout []grid.Placement) grid.Repair {
	b.tiles = tiles
	b.pages = b.grid.Paginate(tiles)
	var rep grid.Repair
	b.global, rep = b.grid.Reconcile(b.tiles, b.pages, layout)
	return rep
}

// =============================================================================
// Snapshots
// =============================================================================

// Grid returns the board's page size.
func (b *Board) Grid() grid.Grid { return b.grid }

// State reports whether the current layout has been written.
func (b *Board) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Tiles returns the tiles in visual order, add-control last.
func (b *Board) Tiles() []grid.Tile {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.tiles)
}

// Pages returns the tiles split into pages.
func (b *Board) Pages() [][]grid.Tile {
	b.mu.Lock()
	defer b.mu.Unlock()
	return clonePages(b.pages)
}

// PageCount returns the number of pages.
func (b *Board) PageCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pages)
}

// Global returns the global layout.
func (b *Board) Global() []grid.Placement {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.global)
}

// PageLayout returns the page-local placement of page i.
func (b *Board) PageLayout(i int) ([]grid.Placement, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkPageLocked(i); err != nil {
		return nil, err
	}
	return b.grid.ExtractPageFromGlobal(b.pages, i, b.global), nil
}

// Snapshot returns a consistent copy of the whole board.
func (b *Board) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Snapshot{
		Grid:   b.grid,
		State:  b.state,
		Tiles:  slices.Clone(b.tiles),
		Pages:  clonePages(b.pages),
		Global: slices.Clone(b.global),
	}
}

// Tile returns the tile with the given id.
func (b *Board) Tile(id string) (grid.Tile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i, err := b.indexLocked(id)
	if err != nil {
		return grid.Tile{}, err
	}
	return b.tiles[i], nil
}

func (b *Board) indexLocked(id string) (int, error) {
	i := slices.IndexFunc(b.tiles, func(t grid.Tile) bool { return t.ID == id })
	if i < 0 {
		return -1, apperrors.New(apperrors.ErrCodeTileNotFound, "no tile with id %q", id)
	}
	return i, nil
}

func (b *Board) checkPageLocked(i int) error {
	if i < 0 || i >= len(b.pages) {
		return apperrors.New(apperrors.ErrCodePageOutOfRange, "page %d out of range (board has %d)", i, len(b.pages))
	}
	return nil
}

func clonePages(pages [][]grid.Tile) [][]grid.Tile {
	out := make([][]grid.Tile, len(pages))
	for i, p := range pages {
		out[i] = slices.Clone(p)
	}
	return out
}
