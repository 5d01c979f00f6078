package grid

// Repair describes what [Grid.Reconcile] had to change in a stored layout.
type Repair struct {
	Dropped  []string // stored ids that no longer name a tile
	Filled   []string // tiles placed fresh on top of the stored layout
	Repacked []int    // pages whose stored layout could not be salvaged
}

// Clean reports whether the stored layout was used verbatim.
func (r Repair) Clean() bool {
	return len(r.Dropped) == 0 && len(r.Filled) == 0 && len(r.Repacked) == 0
}

// GlobalLayout derives a global layout from pages with fresh packing: each
// page is placed with [Grid.PlacePage] and shifted to its global rows.
func (g Grid) GlobalLayout(pages [][]Tile) []Placement {
	var out []Placement
	for i, page := range pages {
		off := i * g.Rows
		for _, p := range g.PlacePage(page) {
			if p.Placed() {
				p = p.Shift(off)
			}
			out = append(out, p)
		}
	}
	return out
}

// Reconcile fits a stored global layout to the current pages.
//
// Entries for ids that are no longer tiles are dropped. For each page the
// stored entries that still land inside the page without overlap are kept
// as they are; tiles without such an entry are placed first-fit into the
// free cells around them. Only when that fails is the page re-packed from
// scratch. The add-control is recomputed on its page. A nil stored layout
// yields [Grid.GlobalLayout].
//
// The result is ordered page by page, in page order.
func (g Grid) Reconcile(all []Tile, pages [][]Tile, stored []Placement) ([]Placement, Repair) {
	if stored == nil {
		return g.GlobalLayout(pages), Repair{}
	}

	var rep Repair
	known := IndexTiles(all)
	for _, page := range pages {
		for _, t := range page {
			known[t.ID] = t
		}
	}
	dropped := make(map[string]bool)
	for _, p := range stored {
		if _, ok := known[p.ID]; !ok && !dropped[p.ID] {
			dropped[p.ID] = true
			rep.Dropped = append(rep.Dropped, p.ID)
		}
	}

	byID := IndexPlacements(stored)
	result := make(map[string]Placement, len(stored))
	out := make([]Placement, 0, len(all))
	for i, page := range pages {
		off := g.yOffset(result, pages, i)
		local, filled, ok := g.layerPage(page, byID, off, false)
		if !ok {
			local = g.PlacePage(page)
			rep.Repacked = append(rep.Repacked, i)
		} else {
			rep.Filled = append(rep.Filled, filled...)
		}
		for _, p := range local {
			if p.Placed() {
				p = p.Shift(off)
			}
			result[p.ID] = p
			out = append(out, p)
		}
	}
	return out, rep
}
