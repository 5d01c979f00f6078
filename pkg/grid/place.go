package grid

// occupancy is the cell bitmap of one page.
type occupancy struct {
	cols, rows int
	cells      []bool
}

func newOccupancy(g Grid) *occupancy {
	return &occupancy{cols: g.Cols, rows: g.Rows, cells: make([]bool, max(g.Cells(), 0))}
}

// fits reports whether a w×h rectangle at (x, y) is in bounds and free.
func (o *occupancy) fits(x, y, w, h int) bool {
	if x < 0 || y < 0 || w <= 0 || h <= 0 || x+w > o.cols || y+h > o.rows {
		return false
	}
	for dy := 0; dy < h; dy++ {
		row := (y + dy) * o.cols
		for dx := 0; dx < w; dx++ {
			if o.cells[row+x+dx] {
				return false
			}
		}
	}
	return true
}

func (o *occupancy) mark(x, y, w, h int) {
	for dy := 0; dy < h; dy++ {
		row := (y + dy) * o.cols
		for dx := 0; dx < w; dx++ {
			o.cells[row+x+dx] = true
		}
	}
}

// claim marks the rectangle of p if it fits, and reports whether it did.
func (o *occupancy) claim(p Placement) bool {
	if !o.fits(p.X, p.Y, p.W, p.H) {
		return false
	}
	o.mark(p.X, p.Y, p.W, p.H)
	return true
}

// firstFit scans top-left cells row-major starting at cell index from and
// returns the first position where a w×h rectangle fits.
func (o *occupancy) firstFit(w, h, from int) (x, y int, ok bool) {
	for i := max(from, 0); i < len(o.cells); i++ {
		x, y = i%o.cols, i/o.cols
		if o.fits(x, y, w, h) {
			return x, y, true
		}
	}
	return Unplaced, Unplaced, false
}

// firstFitAfter is firstFit restricted to positions strictly after p.
func (o *occupancy) firstFitAfter(w, h int, p Placement) (x, y int, ok bool) {
	return o.firstFit(w, h, p.Y*o.cols+p.X+1)
}

// addControlCell finds the cell of the add-control: the earliest free cell
// strictly after last, or, when a drop has filled every cell after last,
// the earliest free cell of the page. It fails only on a full page.
func (o *occupancy) addControlCell(w, h int, last Placement, hasLast bool) (x, y int, ok bool) {
	if hasLast {
		if x, y, ok = o.firstFitAfter(w, h, last); ok {
			return x, y, true
		}
	}
	return o.firstFit(w, h, 0)
}

// PlacePage lays out one page of tiles with first-fit packing.
//
// Tiles are placed in input order; each takes the first top-left cell,
// scanning row-major, where its whole rectangle is free and inside the page.
// A tile that cannot be placed gets [Unplaced] coordinates so the caller can
// move it to another page. The add-control is placed after all other tiles
// at the earliest free cell strictly after the last placed tile, falling
// back to the earliest free cell of the page; it is unplaced only when the
// page is full.
//
// The result has one entry per input tile, in input order.
func (g Grid) PlacePage(tiles []Tile) []Placement {
	out := make([]Placement, len(tiles))
	if !g.Valid() {
		for i, t := range tiles {
			out[i] = g.place(t, Unplaced, Unplaced)
		}
		return out
	}

	occ := newOccupancy(g)
	var (
		last     Placement
		hasLast  bool
		deferred []int
	)
	for i, t := range tiles {
		switch t.Kind.(type) {
		case AddControl:
			deferred = append(deferred, i)
			continue
		}
		w, h := t.Size.Span()
		x, y, ok := occ.firstFit(w, h, 0)
		if !ok {
			out[i] = g.place(t, Unplaced, Unplaced)
			continue
		}
		occ.mark(x, y, w, h)
		out[i] = g.place(t, x, y)
		if !hasLast || last.Before(out[i]) {
			last, hasLast = out[i], true
		}
	}

	for _, i := range deferred {
		t := tiles[i]
		w, h := t.Size.Span()
		x, y, ok := occ.addControlCell(w, h, last, hasLast)
		if !ok {
			out[i] = g.place(t, Unplaced, Unplaced)
			continue
		}
		occ.mark(x, y, w, h)
		out[i] = g.place(t, x, y)
		last, hasLast = out[i], true
	}
	return out
}

// fits reports whether every tile of page is placed within the page.
func (g Grid) fits(page []Tile) bool {
	for _, p := range g.PlacePage(page) {
		if !p.Placed() || p.Bottom() > g.Rows || p.Right() > g.Cols {
			return false
		}
	}
	return true
}
