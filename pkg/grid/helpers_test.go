package grid

import (
	"fmt"
	"testing"
)

// sites returns n site tiles of one size with ids s1..sn.
func sites(n int, size Size) []Tile {
	return named("s", n, size)
}

func named(prefix string, n int, size Size) []Tile {
	out := make([]Tile, n)
	for i := range n {
		id := fmt.Sprintf("%s%d", prefix, i+1)
		out[i] = NewSite(id, size, id, "https://"+id+".example", "")
	}
	return out
}

func withAdd(tiles ...Tile) []Tile {
	return append(append([]Tile(nil), tiles...), NewAddControl())
}

func concat(lists ...[]Tile) []Tile {
	var out []Tile
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

func ids(tiles []Tile) []string {
	out := make([]string, len(tiles))
	for i, t := range tiles {
		out[i] = t.ID
	}
	return out
}

type xy struct{ X, Y int }

func positions(ps []Placement) map[string]xy {
	m := make(map[string]xy, len(ps))
	for _, p := range ps {
		m[p.ID] = xy{p.X, p.Y}
	}
	return m
}

func wantAt(t *testing.T, ps []Placement, id string, x, y int) {
	t.Helper()
	p, ok := IndexPlacements(ps)[id]
	if !ok {
		t.Fatalf("%s: no placement", id)
	}
	if p.X != x || p.Y != y {
		t.Errorf("%s at (%d,%d), want (%d,%d)", id, p.X, p.Y, x, y)
	}
}

// checkPage asserts the page-local packing invariants.
func checkPage(t *testing.T, g Grid, page []Tile, ps []Placement) {
	t.Helper()
	if len(ps) != len(page) {
		t.Fatalf("got %d placements for %d tiles", len(ps), len(page))
	}
	cells := 0
	for i, p := range ps {
		if p.ID != page[i].ID {
			t.Errorf("placement %d is %s, want %s", i, p.ID, page[i].ID)
		}
		if !p.Placed() {
			t.Errorf("%s unplaced", p.ID)
			continue
		}
		if p.Right() > g.Cols || p.Bottom() > g.Rows {
			t.Errorf("%s out of bounds: %+v", p.ID, p)
		}
		cells += p.W * p.H
		for _, q := range ps[i+1:] {
			if q.Placed() && p.Overlaps(q) {
				t.Errorf("%s overlaps %s", p.ID, q.ID)
			}
		}
	}
	if cells > g.Cells() {
		t.Errorf("page uses %d cells, capacity %d", cells, g.Cells())
	}

	var add *Placement
	for i := range ps {
		if page[i].IsAddControl() {
			if add != nil {
				t.Fatalf("two add-controls on one page")
			}
			add = &ps[i]
		}
	}
	if add == nil {
		return
	}
	if !add.Static || add.Draggable {
		t.Errorf("add-control flags: %+v", *add)
	}

	// The add-control follows the last tile unless a drop filled every cell
	// after it; then it takes the earliest free cell of the page.
	occ := newOccupancy(g)
	var regular []Placement
	for i, p := range ps {
		if !page[i].IsAddControl() && p.Placed() {
			occ.claim(p)
			regular = append(regular, p)
		}
	}
	last, hasLast := lastOf(regular)
	if !hasLast || last.Before(*add) {
		if x, y, _ := occ.addControlCell(1, 1, last, hasLast); x != add.X || y != add.Y {
			t.Errorf("add-control at (%d,%d), want earliest free cell after %s (%d,%d)", add.X, add.Y, last.ID, x, y)
		}
		return
	}
	if _, _, ok := occ.firstFitAfter(1, 1, last); ok {
		t.Errorf("add-control at (%d,%d) before %s at (%d,%d) with cells free after it", add.X, add.Y, last.ID, last.X, last.Y)
	}
	if x, y, _ := occ.firstFit(1, 1, 0); x != add.X || y != add.Y {
		t.Errorf("add-control at (%d,%d), want earliest free cell (%d,%d)", add.X, add.Y, x, y)
	}
}
