package grid

// Paginate splits tiles into the fewest ordered pages whose packing fits.
//
// A candidate page grows one tile at a time and is re-packed with
// [Grid.PlacePage]; the real packer is required because multi-row tiles can
// strand cells that a cell count would consider free. When the grown page no
// longer fits, the page is closed without the new tile, which starts the next
// page. An empty page always accepts its first tile, so an oversized tile
// gets a page of its own instead of looping forever.
//
// The add-control joins the last page while that page has a free cell and
// otherwise starts a page alone. The result always has at least one page.
func (g Grid) Paginate(tiles []Tile) [][]Tile {
	others, add, hasAdd := splitAddControl(tiles)

	var (
		pages [][]Tile
		cur   []Tile
	)
	for _, t := range others {
		if len(cur) == 0 || g.fits(append(cloneTiles(cur), t)) {
			cur = append(cur, t)
			continue
		}
		pages = append(pages, cur)
		cur = []Tile{t}
	}

	if hasAdd {
		switch {
		case len(cur) == 0:
			cur = []Tile{add}
		case g.fits(append(cloneTiles(cur), add)):
			cur = append(cur, add)
		default:
			pages = append(pages, cur)
			cur = []Tile{add}
		}
	}
	if len(cur) > 0 {
		pages = append(pages, cur)
	}
	if len(pages) == 0 {
		return [][]Tile{{}}
	}
	return pages
}

// PageIndex returns the index of the page holding id, or -1.
func PageIndex(pages [][]Tile, id string) int {
	for i, page := range pages {
		for _, t := range page {
			if t.ID == id {
				return i
			}
		}
	}
	return -1
}

// Flatten concatenates pages back into one ordered tile list.
func Flatten(pages [][]Tile) []Tile {
	var out []Tile
	for _, page := range pages {
		out = append(out, page...)
	}
	return out
}

func cloneTiles(tiles []Tile) []Tile {
	return append(make([]Tile, 0, len(tiles)+1), tiles...)
}
