package board

import (
	"context"
	"slices"

	apperrors "github.com/GrayFrost/z-tab/pkg/errors"
	"github.com/GrayFrost/z-tab/pkg/favicon"
	"github.com/GrayFrost/z-tab/pkg/grid"
	"github.com/GrayFrost/z-tab/pkg/observability"
	"github.com/GrayFrost/z-tab/pkg/preset"
	"github.com/GrayFrost/z-tab/pkg/store"
)

// Mutation names reported to the observability hooks.
const (
	OpAddSite      = "add-site"
	OpAddWidget    = "add-widget"
	OpUpdate       = "update"
	OpDelete       = "delete"
	OpDragStop     = "drag-stop"
	OpLayoutChange = "layout-change"
	OpReset        = "reset"
)

// =============================================================================
// Tiles
// =============================================================================

// AddSite adds a site tile for rawURL in front of the add-control.
// A URL without a scheme gets https://. The title and favicon are derived
// from the host.
func (b *Board) AddSite(ctx context.Context, rawURL string) (grid.Tile, error) {
	u, err := favicon.Normalize(rawURL)
	if err != nil {
		return grid.Tile{}, err
	}
	t := grid.NewSite(preset.NewSiteID(), grid.Size1x1, favicon.SiteName(u), u, favicon.URL(u))
	b.insert(ctx, OpAddSite, t)
	return t, nil
}

// AddWidget adds the catalog widget called name in front of the add-control.
func (b *Board) AddWidget(ctx context.Context, name string) (grid.Tile, error) {
	w, err := preset.LookupWidget(name)
	if err != nil {
		return grid.Tile{}, err
	}
	t := grid.NewWidget(preset.NewWidgetID(), w.Size, w.Name, w.Title)
	b.insert(ctx, OpAddWidget, t)
	return t, nil
}

func (b *Board) insert(ctx context.Context, op string, t grid.Tile) {
	b.mu.Lock()
	defer b.mu.Unlock()

	tiles := grid.EnsureAddControl(append(slices.Clone(b.tiles), t))
	rep := b.setLocked(tiles, b.global)
	b.logRepairLocked(op, rep)
	b.mutatedLocked()
	b.enqueueTileLocked("add", t)
	b.enqueueLayoutLocked()
	observability.Board().OnMutation(ctx, op, t.ID)
}

// UpdateTile replaces the editable fields of an existing tile: title, URL,
// favicon and size of a site; title and size of a widget. The tile's kind
// cannot change. An empty site favicon resets it to the default for the URL.
// A size change re-fits the layout around the tile.
func (b *Board) UpdateTile(ctx context.Context, t grid.Tile) (grid.Tile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i, err := b.indexLocked(t.ID)
	if err != nil {
		return grid.Tile{}, err
	}
	old := b.tiles[i]
	updated, err := edit(old, t)
	if err != nil {
		return grid.Tile{}, err
	}

	tiles := slices.Clone(b.tiles)
	tiles[i] = updated
	if updated.Size != old.Size {
		rep := b.setLocked(tiles, b.global)
		b.logRepairLocked(OpUpdate, rep)
		b.enqueueLayoutLocked()
	} else {
		b.tiles = tiles
		b.pages = b.grid.Paginate(tiles)
	}
	b.mutatedLocked()
	b.enqueueTileLocked("update", updated)
	observability.Board().OnMutation(ctx, OpUpdate, t.ID)
	return updated, nil
}

// edit applies the editable fields of next to old.
func edit(old, next grid.Tile) (grid.Tile, error) {
	if old.IsAddControl() {
		return grid.Tile{}, apperrors.New(apperrors.ErrCodeInvalidInput, "the add-control cannot be edited")
	}
	size := old.Size
	if next.Size != "" {
		if !next.Size.Valid() {
			return grid.Tile{}, apperrors.New(apperrors.ErrCodeInvalidSize, "unsupported tile size %q", next.Size)
		}
		size = next.Size
	}
	if next.Kind != nil && next.KindName() != old.KindName() {
		return grid.Tile{}, apperrors.New(apperrors.ErrCodeInvalidKind, "tile %q is a %s, not a %s", old.ID, old.KindName(), next.KindName())
	}

	switch k := old.Kind.(type) {
	case grid.Site:
		n, _ := next.Kind.(grid.Site)
		if n.URL != "" {
			u, err := favicon.Normalize(n.URL)
			if err != nil {
				return grid.Tile{}, err
			}
			if u != k.URL && n.Favicon == "" {
				k.Favicon = ""
			}
			k.URL = u
		}
		if n.Title != "" {
			if err := apperrors.ValidateTitle(n.Title); err != nil {
				return grid.Tile{}, err
			}
			k.Title = n.Title
		}
		if n.Favicon != "" {
			k.Favicon = n.Favicon
		}
		if k.Favicon == "" {
			k.Favicon = favicon.URL(k.URL)
		}
		return grid.NewSite(old.ID, size, k.Title, k.URL, k.Favicon), nil

	case grid.Widget:
		n, _ := next.Kind.(grid.Widget)
		if n.Title != "" {
			if err := apperrors.ValidateTitle(n.Title); err != nil {
				return grid.Tile{}, err
			}
			k.Title = n.Title
		}
		return grid.NewWidget(old.ID, size, k.Name, k.Title), nil

	default:
		return grid.Tile{}, apperrors.New(apperrors.ErrCodeInvalidKind, "tile %q has no kind", old.ID)
	}
}

// SetFavicon sets a custom favicon on a site tile. An empty icon restores
// the default favicon for the site's URL.
func (b *Board) SetFavicon(ctx context.Context, id, icon string) (grid.Tile, error) {
	t, err := b.Tile(id)
	if err != nil {
		return grid.Tile{}, err
	}
	site, ok := t.Kind.(grid.Site)
	if !ok {
		return grid.Tile{}, apperrors.New(apperrors.ErrCodeInvalidKind, "tile %q is not a site", id)
	}
	if icon == "" {
		icon = favicon.URL(site.URL)
	}
	site.Favicon = icon
	return b.UpdateTile(ctx, grid.Tile{ID: id, Kind: site})
}

// NextFavicon switches a site tile to the next favicon candidate, as a
// browser does when an icon fails to load. It reports false, leaving the
// tile unchanged, once the candidates are exhausted.
func (b *Board) NextFavicon(ctx context.Context, id string) (grid.Tile, bool, error) {
	t, err := b.Tile(id)
	if err != nil {
		return grid.Tile{}, false, err
	}
	site, ok := t.Kind.(grid.Site)
	if !ok {
		return grid.Tile{}, false, apperrors.New(apperrors.ErrCodeInvalidKind, "tile %q is not a site", id)
	}
	next, ok := favicon.Next(site.URL, site.Favicon)
	if !ok {
		return t, false, nil
	}
	site.Favicon = next
	t, err = b.UpdateTile(ctx, grid.Tile{ID: id, Kind: site})
	return t, err == nil, err
}

// Delete removes a tile. The add-control cannot be deleted. The layout is
// regenerated from the remaining order, so trailing pages may collapse.
func (b *Board) Delete(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	i, err := b.indexLocked(id)
	if err != nil {
		return err
	}
	if b.tiles[i].IsAddControl() {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "the add-control cannot be deleted")
	}

	tiles := slices.Delete(slices.Clone(b.tiles), i, i+1)
	b.setLocked(tiles, nil)
	b.mutatedLocked()
	b.enqueueDeleteLocked(id)
	b.enqueueLayoutLocked()
	observability.Board().OnMutation(ctx, OpDelete, id)
	return nil
}

// =============================================================================
// Layout
// =============================================================================

// DragStop applies the final placement of a drag on page. The tile order
// follows the dropped positions and the board is re-paginated. When the
// edited page keeps its tiles the drop positions are kept as given;
// otherwise the page is packed afresh. The write is debounced.
func (b *Board) DragStop(ctx context.Context, page int, placements []grid.Placement) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dragStopLocked(ctx, page, placements)
}

func (b *Board) dragStopLocked(ctx context.Context, page int, placements []grid.Placement) error {
	if err := b.checkPageLocked(page); err != nil {
		return err
	}
	order, changed := b.grid.ReorderFromPageEdit(b.tiles, b.pages, page, placements)
	pages := b.grid.Paginate(order)

	edited := placements
	if page >= len(pages) || !samePage(b.pages[page], pages[page]) {
		edited = nil
		if page < len(pages) {
			edited = b.grid.PlacePage(pages[page])
		}
	}
	merged := b.grid.MergePageIntoGlobal(order, pages, page, edited, b.global)

	b.tiles, b.pages = order, pages
	var rep grid.Repair
	b.global, rep = b.grid.Reconcile(b.tiles, b.pages, merged)
	b.logRepairLocked(OpDragStop, rep)
	if changed {
		b.logger.Debug("drag reordered tiles", "page", page)
	}
	b.mutatedLocked()
	b.layoutChangedLocked()
	observability.Board().OnMutation(ctx, OpDragStop, "")
	return nil
}

// LayoutChange records an intermediate placement of page without touching
// the tile order. Bursts of calls are coalesced into one write.
func (b *Board) LayoutChange(ctx context.Context, page int, placements []grid.Placement) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkPageLocked(page); err != nil {
		return err
	}
	merged := b.grid.MergePageIntoGlobal(b.tiles, b.pages, page, placements, b.global)
	var rep grid.Repair
	b.global, rep = b.grid.Reconcile(b.tiles, b.pages, merged)
	b.logRepairLocked(OpLayoutChange, rep)
	b.mutatedLocked()
	b.layoutChangedLocked()
	observability.Board().OnMutation(ctx, OpLayoutChange, "")
	return nil
}

// Move places tile id at column x, row y of its page, as if it had been
// dragged there. Tiles in the way are pushed to the next free cells.
func (b *Board) Move(ctx context.Context, id string, x, y int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	i, err := b.indexLocked(id)
	if err != nil {
		return err
	}
	t := b.tiles[i]
	if t.IsAddControl() {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "the add-control cannot be moved")
	}
	w, h := t.Size.Span()
	if x < 0 || y < 0 || x+w > b.grid.Cols || y+h > b.grid.Rows {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "%s does not fit at %d,%d on a %s page", t.Size, x, y, b.grid)
	}
	page := grid.PageIndex(b.pages, id)
	local := b.grid.ExtractPageFromGlobal(b.pages, page, b.global)
	return b.dragStopLocked(ctx, page, dropAt(local, id, x, y))
}

// dropAt moves id to (x, y). Tiles it would cover are left out of the
// edit so they flow into the next free cells.
func dropAt(local []grid.Placement, id string, x, y int) []grid.Placement {
	var moved grid.Placement
	for _, p := range local {
		if p.ID == id {
			moved = p
			moved.X, moved.Y = x, y
		}
	}
	out := make([]grid.Placement, 0, len(local))
	for _, p := range local {
		switch {
		case p.ID == id:
			out = append(out, moved)
		case !p.Overlaps(moved):
			out = append(out, p)
		}
	}
	return out
}

func samePage(a, b []grid.Tile) bool {
	if len(a) != len(b) {
		return false
	}
	ids := make(map[string]bool, len(a))
	for _, t := range a {
		ids[t.ID] = true
	}
	for _, t := range b {
		if !ids[t.ID] {
			return false
		}
	}
	return true
}

// =============================================================================
// Reset and settings
// =============================================================================

// Reset clears the store and restores the preset.
func (b *Board) Reset(ctx context.Context) error {
	b.Flush()
	err := b.store.Clear(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStoreUnavailable, err, "clear store")
	}
	b.resetLocked()
	b.mutatedLocked()
	b.enqueueTilesLocked()
	b.enqueueLayoutLocked()
	observability.Board().OnMutation(ctx, OpReset, "")
	return nil
}

// Settings reads the saved preferences.
func (b *Board) Settings(ctx context.Context) (store.Settings, error) {
	s, err := store.LoadSettings(ctx, b.store)
	if err != nil {
		return s, apperrors.Wrap(apperrors.ErrCodeStoreUnavailable, err, "load settings")
	}
	return s, nil
}

// SaveSettings validates and writes the preferences.
func (b *Board) SaveSettings(ctx context.Context, s store.Settings) error {
	if s.Theme != "light" && s.Theme != "dark" {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "theme must be light or dark, got %q", s.Theme)
	}
	if s.IconStyle != "minimal" && s.IconStyle != "colorful" {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "icon style must be minimal or colorful, got %q", s.IconStyle)
	}
	if err := store.SaveSettings(ctx, b.store, s); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStoreUnavailable, err, "save settings")
	}
	return nil
}

func (b *Board) logRepairLocked(op string, rep grid.Repair) {
	if rep.Clean() {
		return
	}
	b.logger.Debug("layout repaired", "op", op, "dropped", rep.Dropped, "filled", rep.Filled, "repacked", rep.Repacked)
}
