package grid

import "sort"

// ReorderFromPageEdit applies the result of a drag on one page to the tile
// order.
//
// The tiles of the edited page are sorted row-major by their placement in
// edited; tiles missing from edited keep their relative order after the
// placed ones. Every other page keeps its order, and the add-control goes
// last. The second result reports whether the order differs from all.
// An out-of-range page returns all unchanged.
func (g Grid) ReorderFromPageEdit(all []Tile, pages [][]Tile, page int, edited []Placement) ([]Tile, bool) {
	if page < 0 || page >= len(pages) {
		return all, false
	}

	pos := IndexPlacements(edited)
	current, _, _ := splitAddControl(pages[page])
	sort.SliceStable(current, func(a, b int) bool {
		pa, oka := pos[current[a].ID]
		pb, okb := pos[current[b].ID]
		if oka != okb {
			return oka
		}
		if !oka {
			return false
		}
		return pa.Before(pb)
	})

	out := make([]Tile, 0, len(all))
	seen := make(map[string]bool, len(all))
	for i, p := range pages {
		src := p
		if i == page {
			src = current
		}
		for _, t := range src {
			if t.IsAddControl() || seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			out = append(out, t)
		}
	}
	others, add, hasAdd := splitAddControl(all)
	for _, t := range others {
		if !seen[t.ID] {
			out = append(out, t)
		}
	}
	if hasAdd {
		out = append(out, add)
	}

	return out, !sameOrder(out, all)
}

func sameOrder(a, b []Tile) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

// YOffset returns the global row at which page starts.
//
// It is the larger of page × Rows and the bottom row of every known global
// placement on the pages before it. The offset is derived from the prior
// tiles' saved placements rather than by re-packing them, so edits on one
// page never shift another.
func (g Grid) YOffset(global []Placement, pages [][]Tile, page int) int {
	return g.yOffset(IndexPlacements(global), pages, page)
}

func (g Grid) yOffset(byID map[string]Placement, pages [][]Tile, page int) int {
	off := max(page, 0) * g.Rows
	for i := 0; i < page && i < len(pages); i++ {
		for _, t := range pages[i] {
			if t.IsAddControl() {
				continue
			}
			if p, ok := byID[t.ID]; ok && p.Placed() {
				off = max(off, p.Bottom())
			}
		}
	}
	return off
}

// MergePageIntoGlobal writes the page-local placement of one edited page into
// the global layout.
//
// The merge starts from previous, or from a freshly derived layout when
// previous is nil. Every regular tile of the edited page takes x from edited
// and y = local y + [Grid.YOffset]; entries of other pages are copied
// untouched. The add-control entry is always recomputed, never taken from
// edited. The result is ordered like all; entries for ids not in all are
// dropped.
func (g Grid) MergePageIntoGlobal(all []Tile, pages [][]Tile, page int, edited []Placement, previous []Placement) []Placement {
	base := previous
	if base == nil {
		base = g.GlobalLayout(pages)
	}
	byID := IndexPlacements(base)
	tiles := IndexTiles(all)

	if page >= 0 && page < len(pages) {
		off := g.yOffset(byID, pages, page)
		onPage := make(map[string]bool, len(pages[page]))
		for _, t := range pages[page] {
			onPage[t.ID] = true
		}
		for _, p := range edited {
			t, ok := tiles[p.ID]
			if !ok || t.IsAddControl() || !onPage[p.ID] || !p.Placed() {
				continue
			}
			byID[p.ID] = g.place(t, p.X, p.Y+off)
		}
	}

	others, add, hasAdd := splitAddControl(all)
	out := make([]Placement, 0, len(all))
	for _, t := range others {
		if p, ok := byID[t.ID]; ok {
			out = append(out, p)
		}
	}
	if hasAdd {
		out = append(out, g.deriveAddControl(add, out))
	}
	return out
}

// deriveAddControl places add on the page of the row-major last entry, at
// the earliest free cell strictly after it or else at the earliest free
// cell of that page. Only a full page sends the add-control to the next
// page, which is where [Grid.Paginate] puts it too.
func (g Grid) deriveAddControl(add Tile, entries []Placement) Placement {
	last, ok := lastOf(entries)
	if !ok || !g.Valid() {
		return g.place(add, 0, 0)
	}
	top := g.PageOf(last.Y) * g.Rows
	occ := newOccupancy(g)
	for _, e := range entries {
		if e.Placed() && g.PageOf(e.Y)*g.Rows == top {
			occ.claim(e.Shift(-top))
		}
	}
	w, h := add.Size.Span()
	if x, y, ok := occ.addControlCell(w, h, last.Shift(-top), true); ok {
		return g.place(add, x, y+top)
	}
	return g.place(add, 0, top+g.Rows)
}

// ExtractPageFromGlobal returns the page-local placement of one page.
//
// Each regular tile's global entry is shifted up by [Grid.YOffset] and must
// land inside the page without overlapping an earlier tile. If any tile is
// missing or fails that check, the whole page is re-packed with
// [Grid.PlacePage] rather than rendered partially. The add-control is
// recomputed in the page frame. The result follows the order of the page.
func (g Grid) ExtractPageFromGlobal(pages [][]Tile, page int, global []Placement) []Placement {
	if page < 0 || page >= len(pages) {
		return nil
	}
	byID := IndexPlacements(global)
	off := g.yOffset(byID, pages, page)
	if local, _, ok := g.layerPage(pages[page], byID, off, true); ok {
		return local
	}
	return g.PlacePage(pages[page])
}

// layerPage converts the saved global entries of one page into page-local
// placements. Tiles without a usable entry are placed first-fit into the
// remaining free cells, unless strict is set, in which case any such tile
// fails the page. The add-control goes after the last tile, or into the
// earliest free cell when nothing is free after it. The second result lists
// the ids placed fresh.
func (g Grid) layerPage(page []Tile, byID map[string]Placement, off int, strict bool) ([]Placement, []string, bool) {
	if !g.Valid() {
		return nil, nil, false
	}
	occ := newOccupancy(g)
	out := make([]Placement, len(page))
	done := make([]bool, len(page))
	var placed []Placement

	for i, t := range page {
		if t.IsAddControl() {
			continue
		}
		p, ok := byID[t.ID]
		if !ok || !p.Placed() {
			continue
		}
		local := g.place(t, p.X, p.Y-off)
		if occ.claim(local) {
			out[i], done[i] = local, true
			placed = append(placed, local)
		}
	}

	var filled []string
	for i, t := range page {
		if done[i] || t.IsAddControl() {
			continue
		}
		if strict {
			return nil, nil, false
		}
		w, h := t.Size.Span()
		x, y, ok := occ.firstFit(w, h, 0)
		if !ok {
			return nil, nil, false
		}
		occ.mark(x, y, w, h)
		out[i], done[i] = g.place(t, x, y), true
		placed = append(placed, out[i])
		filled = append(filled, t.ID)
	}

	for i, t := range page {
		if done[i] {
			continue
		}
		w, h := t.Size.Span()
		last, has := lastOf(placed)
		x, y, ok := occ.addControlCell(w, h, last, has)
		if !ok {
			return nil, nil, false
		}
		occ.mark(x, y, w, h)
		out[i], done[i] = g.place(t, x, y), true
		placed = append(placed, out[i])
	}
	return out, filled, true
}
