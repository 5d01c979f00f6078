package grid

import "sort"

// RestoreOrder rebuilds the visual tile order from a saved global layout.
//
// Each tile is bucketed by the page its global row falls on; tiles without a
// saved entry go to page 0 after the saved ones. Within a page tiles sort
// row-major by (y, x), pages concatenate in ascending order, and the
// add-control always comes last. With no saved layout the input order is
// kept.
func (g Grid) RestoreOrder(tiles []Tile, global []Placement) []Tile {
	others, add, hasAdd := splitAddControl(tiles)
	if len(global) == 0 || !g.Valid() {
		if hasAdd {
			others = append(others, add)
		}
		return others
	}

	saved := IndexPlacements(global)
	type entry struct {
		tile  Tile
		pos   Placement
		known bool
	}
	buckets := make(map[int][]entry)
	for _, t := range others {
		p, ok := saved[t.ID]
		ok = ok && p.Placed()
		page := 0
		if ok {
			page = g.PageOf(p.Y)
		}
		buckets[page] = append(buckets[page], entry{tile: t, pos: p, known: ok})
	}

	indices := make([]int, 0, len(buckets))
	for i := range buckets {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	out := make([]Tile, 0, len(tiles))
	for _, i := range indices {
		bucket := buckets[i]
		sort.SliceStable(bucket, func(a, b int) bool {
			ea, eb := bucket[a], bucket[b]
			if ea.known != eb.known {
				return ea.known
			}
			if !ea.known {
				return false
			}
			return ea.pos.Before(eb.pos)
		})
		for _, e := range bucket {
			out = append(out, e.tile)
		}
	}
	if hasAdd {
		out = append(out, add)
	}
	return out
}
