package grid

// Unplaced is the x and y of a placement whose tile did not fit the page.
const Unplaced = -1

// Placement is the resolved grid position and span of one tile.
// The JSON shape is the persisted layout record entry.
type Placement struct {
	ID        string `json:"i"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	W         int    `json:"w"`
	H         int    `json:"h"`
	MinW      int    `json:"minW"`
	MinH      int    `json:"minH"`
	MaxW      int    `json:"maxW"`
	MaxH      int    `json:"maxH"`
	Resizable bool   `json:"isResizable"`
	Draggable bool   `json:"isDraggable"`
	Static    bool   `json:"static"`
}

// Placed reports whether p has real coordinates.
func (p Placement) Placed() bool { return p.X >= 0 && p.Y >= 0 }

// Right returns the column just past the right edge.
func (p Placement) Right() int { return p.X + p.W }

// Bottom returns the row just past the bottom edge.
func (p Placement) Bottom() int { return p.Y + p.H }

// Overlaps reports whether p and q share any cell.
func (p Placement) Overlaps(q Placement) bool {
	return p.X < q.Right() && q.X < p.Right() && p.Y < q.Bottom() && q.Y < p.Bottom()
}

// Before reports whether p comes strictly before q in row-major order.
func (p Placement) Before(q Placement) bool {
	if p.Y != q.Y {
		return p.Y < q.Y
	}
	return p.X < q.X
}

// Shift returns p moved dy rows down.
func (p Placement) Shift(dy int) Placement {
	p.Y += dy
	return p
}

// place builds the placement of t at (x, y) with the flags its kind implies.
// All sizes have resizing disabled; the add-control is static.
func (g Grid) place(t Tile, x, y int) Placement {
	w, h := t.Size.Span()
	static := t.IsAddControl()
	return Placement{
		ID:        t.ID,
		X:         x,
		Y:         y,
		W:         w,
		H:         h,
		MinW:      1,
		MinH:      1,
		MaxW:      g.Cols,
		MaxH:      g.Rows,
		Resizable: false,
		Draggable: !static,
		Static:    static,
	}
}

// IndexPlacements maps placement ids to placements.
// When an id appears twice the first entry wins.
func IndexPlacements(ps []Placement) map[string]Placement {
	m := make(map[string]Placement, len(ps))
	for _, p := range ps {
		if _, dup := m[p.ID]; !dup {
			m[p.ID] = p
		}
	}
	return m
}

// lastOf returns the row-major last placed entry of ps.
func lastOf(ps []Placement) (Placement, bool) {
	var last Placement
	found := false
	for _, p := range ps {
		if !p.Placed() {
			continue
		}
		if !found || last.Before(p) {
			last, found = p, true
		}
	}
	return last, found
}
