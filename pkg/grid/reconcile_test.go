package grid

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"
)

// randomTiles returns a deterministic mixed-size tile list ending in the
// add-control.
func randomTiles(r *rand.Rand, n int) []Tile {
	sizes := Sizes()
	out := make([]Tile, 0, n+1)
	for i := range n {
		id := fmt.Sprintf("t%d", i+1)
		out = append(out, NewSite(id, sizes[r.Intn(len(sizes))], id, "https://"+id, ""))
	}
	return withAdd(out...)
}

func TestYOffset(t *testing.T) {
	tiles := withAdd(concat(sites(32, Size1x1), named("p", 1, Size1x1))...)
	pages := Default.Paginate(tiles)
	global := Default.GlobalLayout(pages)

	if got := Default.YOffset(global, pages, 0); got != 0 {
		t.Errorf("page 0 offset = %d", got)
	}
	if got := Default.YOffset(global, pages, 1); got != 4 {
		t.Errorf("page 1 offset = %d, want 4", got)
	}

	// A saved entry reaching below the page boundary pushes the next page down.
	for i := range global {
		if global[i].ID == "s32" {
			global[i].Y, global[i].H = 4, 2
		}
	}
	if got := Default.YOffset(global, pages, 1); got != 6 {
		t.Errorf("page 1 offset with tall entry = %d, want 6", got)
	}
}

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for _, g := range []Grid{Default, {Cols: 4, Rows: 2}, {Cols: 6, Rows: 5}} {
		for trial := range 20 {
			tiles := randomTiles(r, trial*3)
			pages := g.Paginate(tiles)
			global := g.GlobalLayout(pages)

			for i, page := range pages {
				local := g.ExtractPageFromGlobal(pages, i, global)
				if want := g.PlacePage(page); !reflect.DeepEqual(local, want) {
					t.Fatalf("%v trial %d page %d: extract = %+v, want %+v", g, trial, i, local, want)
				}
				checkPage(t, g, page, local)

				merged := g.MergePageIntoGlobal(tiles, pages, i, local, global)
				if !reflect.DeepEqual(merged, global) {
					t.Fatalf("%v trial %d page %d: merge is not idempotent\n got %+v\nwant %+v", g, trial, i, merged, global)
				}
			}

			again, rep := g.Reconcile(tiles, pages, global)
			if !rep.Clean() {
				t.Errorf("%v trial %d: repair of a fresh layout: %+v", g, trial, rep)
			}
			if !reflect.DeepEqual(again, global) {
				t.Errorf("%v trial %d: reconcile changed a fresh layout", g, trial)
			}
		}
	}
	// Dropping the last tile on the last free cell of its page leaves no
	// cell after it; the drop must survive merge, reconcile and extract.
	drops := []struct {
		name  string
		g     Grid
		tiles []Tile
		id    string
		to    xy
		add   xy
	}{
		{name: "corner", g: Default, tiles: withAdd(sites(3, Size1x1)...), id: "s3", to: xy{7, 3}, add: xy{2, 0}},
		{name: "one cell left", g: Grid{Cols: 4, Rows: 2}, tiles: withAdd(sites(7, Size1x1)...), id: "s7", to: xy{3, 1}, add: xy{2, 1}},
		{name: "second page", g: Grid{Cols: 4, Rows: 2}, tiles: withAdd(sites(10, Size1x1)...), id: "s10", to: xy{3, 1}, add: xy{1, 0}},
	}
	for _, tt := range drops {
		t.Run("DropOnLastCell/"+tt.name, func(t *testing.T) {
			g := tt.g
			pages := g.Paginate(tt.tiles)
			page := PageIndex(pages, tt.id)
			if PageIndex(pages, AddControlID) != page {
				t.Fatalf("add-control not on the page of %s: %v", tt.id, pages)
			}
			global := g.GlobalLayout(pages)
			edited := g.ExtractPageFromGlobal(pages, page, global)
			for i := range edited {
				if edited[i].ID == tt.id {
					edited[i].X, edited[i].Y = tt.to.X, tt.to.Y
				}
			}

			merged := g.MergePageIntoGlobal(tt.tiles, pages, page, edited, global)
			off := page * g.Rows
			wantAt(t, merged, tt.id, tt.to.X, tt.to.Y+off)
			wantAt(t, merged, AddControlID, tt.add.X, tt.add.Y+off)

			again, rep := g.Reconcile(tt.tiles, pages, merged)
			if !rep.Clean() {
				t.Errorf("repair after the drop: %+v", rep)
			}
			wantAt(t, again, tt.id, tt.to.X, tt.to.Y+off)

			local := g.ExtractPageFromGlobal(pages, page, again)
			wantAt(t, local, tt.id, tt.to.X, tt.to.Y)
			wantAt(t, local, AddControlID, tt.add.X, tt.add.Y)
			checkPage(t, g, pages[page], local)

			if order := g.RestoreOrder(tt.tiles, again); !reflect.DeepEqual(ids(order), ids(tt.tiles)) {
				t.Errorf("order after reload = %v, want %v", ids(order), ids(tt.tiles))
			}
		})
	}
}

func TestExtractPageFromGlobal(t *testing.T) {
	tiles := withAdd(sites(3, Size1x1)...)
	pages := Default.Paginate(tiles)

	t.Run("Shifted", func(t *testing.T) {
		global := []Placement{
			Default.place(tiles[0], 4, 2),
			Default.place(tiles[1], 0, 3),
			Default.place(tiles[2], 7, 0),
		}
		got := Default.ExtractPageFromGlobal(pages, 0, global)
		wantAt(t, got, "s1", 4, 2)
		wantAt(t, got, "s2", 0, 3)
		wantAt(t, got, "s3", 7, 0)
		// s2 at (0,3) is the row-major last tile.
		wantAt(t, got, AddControlID, 1, 3)
	})

	t.Run("MissingEntryRepacksPage", func(t *testing.T) {
		global := []Placement{Default.place(tiles[0], 5, 1)}
		got := Default.ExtractPageFromGlobal(pages, 0, global)
		if want := Default.PlacePage(pages[0]); !reflect.DeepEqual(got, want) {
			t.Errorf("got %+v, want fresh placement %+v", got, want)
		}
	})

	t.Run("OverlapRepacksPage", func(t *testing.T) {
		global := []Placement{
			Default.place(tiles[0], 0, 0),
			Default.place(tiles[1], 0, 0),
			Default.place(tiles[2], 1, 0),
		}
		got := Default.ExtractPageFromGlobal(pages, 0, global)
		checkPage(t, Default, pages[0], got)
		wantAt(t, got, "s2", 1, 0)
	})

	t.Run("OutOfRange", func(t *testing.T) {
		if got := Default.ExtractPageFromGlobal(pages, 3, nil); got != nil {
			t.Errorf("got %+v", got)
		}
		if got := Default.ExtractPageFromGlobal(pages, -1, nil); got != nil {
			t.Errorf("got %+v", got)
		}
	})
}

func TestMergePageIntoGlobal(t *testing.T) {
	tiles := withAdd(sites(3, Size1x1)...)
	pages := Default.Paginate(tiles)
	global := Default.GlobalLayout(pages)

	t.Run("NilPreviousDerives", func(t *testing.T) {
		got := Default.MergePageIntoGlobal(tiles, pages, 0, nil, nil)
		if !reflect.DeepEqual(got, global) {
			t.Errorf("got %+v, want %+v", got, global)
		}
	})

	t.Run("AddControlRecomputed", func(t *testing.T) {
		edited := []Placement{
			Default.place(tiles[0], 0, 0),
			Default.place(tiles[1], 1, 0),
			Default.place(tiles[2], 5, 2),
			{ID: AddControlID, X: 0, Y: 3, W: 1, H: 1},
		}
		got := Default.MergePageIntoGlobal(tiles, pages, 0, edited, global)
		wantAt(t, got, "s3", 5, 2)
		wantAt(t, got, AddControlID, 6, 2)
		if last := got[len(got)-1]; last.ID != AddControlID || !last.Static {
			t.Errorf("last entry = %+v", last)
		}
	})

	t.Run("AddControlStaysOnFullRow", func(t *testing.T) {
		edited := []Placement{
			Default.place(tiles[0], 0, 0),
			Default.place(tiles[1], 1, 0),
			Default.place(tiles[2], 7, 3),
		}
		got := Default.MergePageIntoGlobal(tiles, pages, 0, edited, global)
		wantAt(t, got, "s3", 7, 3)
		wantAt(t, got, AddControlID, 2, 0)
	})

	t.Run("ForeignIDsIgnored", func(t *testing.T) {
		edited := []Placement{{ID: "other", X: 3, Y: 3, W: 1, H: 1}}
		got := Default.MergePageIntoGlobal(tiles, pages, 0, edited, global)
		if !reflect.DeepEqual(got, global) {
			t.Errorf("got %+v, want %+v", got, global)
		}
	})

	t.Run("StaleEntriesDropped", func(t *testing.T) {
		prev := append([]Placement{{ID: "gone", X: 6, Y: 3, W: 1, H: 1}}, global...)
		got := Default.MergePageIntoGlobal(tiles, pages, 0, nil, prev)
		if !reflect.DeepEqual(got, global) {
			t.Errorf("got %+v, want %+v", got, global)
		}
	})

	t.Run("SizeNormalized", func(t *testing.T) {
		edited := []Placement{{ID: "s1", X: 2, Y: 1, W: 3, H: 3, Resizable: true}}
		got := Default.MergePageIntoGlobal(tiles, pages, 0, edited, global)
		p := IndexPlacements(got)["s1"]
		if p.W != 1 || p.H != 1 || p.Resizable {
			t.Errorf("s1 = %+v", p)
		}
	})
}

func TestReorderFromPageEdit(t *testing.T) {
	tiles := withAdd(sites(34, Size1x1)...)
	pages := Default.Paginate(tiles)

	t.Run("Unchanged", func(t *testing.T) {
		local := Default.ExtractPageFromGlobal(pages, 1, Default.GlobalLayout(pages))
		got, changed := Default.ReorderFromPageEdit(tiles, pages, 1, local)
		if changed {
			t.Error("changed = true for an identity edit")
		}
		if !reflect.DeepEqual(ids(got), ids(tiles)) {
			t.Errorf("order = %v", ids(got))
		}
	})

	t.Run("Swap", func(t *testing.T) {
		edited := []Placement{
			Default.place(tiles[33], 0, 0),
			Default.place(tiles[32], 1, 0),
		}
		got, changed := Default.ReorderFromPageEdit(tiles, pages, 1, edited)
		if !changed {
			t.Error("changed = false")
		}
		want := append(ids(tiles[:32]), "s34", "s33", AddControlID)
		if !reflect.DeepEqual(ids(got), want) {
			t.Errorf("order = %v, want %v", ids(got), want)
		}
	})

	t.Run("MissingFromEditGoLast", func(t *testing.T) {
		edited := []Placement{Default.place(tiles[33], 2, 0)}
		got, _ := Default.ReorderFromPageEdit(tiles, pages, 1, edited)
		want := append(ids(tiles[:32]), "s34", "s33", AddControlID)
		if !reflect.DeepEqual(ids(got), want) {
			t.Errorf("order = %v, want %v", ids(got), want)
		}
	})

	t.Run("OutOfRange", func(t *testing.T) {
		got, changed := Default.ReorderFromPageEdit(tiles, pages, 5, nil)
		if changed || !reflect.DeepEqual(got, tiles) {
			t.Error("out-of-range page should return the input unchanged")
		}
	})
}

func TestReconcile(t *testing.T) {
	a := NewSite("a", Size1x1, "a", "https://a", "")
	b := NewSite("b", Size1x1, "b", "https://b", "")
	c := NewSite("c", Size1x1, "c", "https://c", "")
	tiles := withAdd(a, b, c)
	pages := Default.Paginate(tiles)

	t.Run("NilStored", func(t *testing.T) {
		got, rep := Default.Reconcile(tiles, pages, nil)
		if !rep.Clean() || !reflect.DeepEqual(got, Default.GlobalLayout(pages)) {
			t.Errorf("got %+v %+v", got, rep)
		}
	})

	t.Run("MissingTileFilled", func(t *testing.T) {
		stored := []Placement{Default.place(a, 3, 0), Default.place(b, 0, 1)}
		got, rep := Default.Reconcile(tiles, pages, stored)
		wantAt(t, got, "a", 3, 0)
		wantAt(t, got, "b", 0, 1)
		wantAt(t, got, "c", 0, 0)
		wantAt(t, got, AddControlID, 1, 1)
		if !reflect.DeepEqual(rep.Filled, []string{"c"}) || len(rep.Repacked) != 0 {
			t.Errorf("repair = %+v", rep)
		}
	})

	t.Run("StaleDropped", func(t *testing.T) {
		stored := append(Default.GlobalLayout(pages), Placement{ID: "gone", X: 5, Y: 0, W: 1, H: 1})
		got, rep := Default.Reconcile(tiles, pages, stored)
		if !reflect.DeepEqual(rep.Dropped, []string{"gone"}) {
			t.Errorf("dropped = %v", rep.Dropped)
		}
		if _, ok := IndexPlacements(got)["gone"]; ok {
			t.Error("stale entry kept")
		}
	})

	t.Run("OverlapRefilled", func(t *testing.T) {
		stored := []Placement{Default.place(a, 0, 0), Default.place(b, 0, 0), Default.place(c, 2, 0)}
		got, rep := Default.Reconcile(tiles, pages, stored)
		wantAt(t, got, "a", 0, 0)
		wantAt(t, got, "b", 1, 0)
		wantAt(t, got, "c", 2, 0)
		if !reflect.DeepEqual(rep.Filled, []string{"b"}) {
			t.Errorf("filled = %v", rep.Filled)
		}
	})

	t.Run("OffPageRefilled", func(t *testing.T) {
		stored := []Placement{Default.place(a, 0, 9), Default.place(b, 1, 0), Default.place(c, 2, 0)}
		got, _ := Default.Reconcile(tiles, pages, stored)
		wantAt(t, got, "a", 0, 0)
	})

	t.Run("Repacked", func(t *testing.T) {
		g := Grid{Cols: 3, Rows: 1}
		wide := NewWidget("w", Size2x1, "clock", "Clock")
		tiles := []Tile{a, wide}
		pages := g.Paginate(tiles)
		stored := []Placement{g.place(a, 1, 0)}
		got, rep := g.Reconcile(tiles, pages, stored)
		if !reflect.DeepEqual(rep.Repacked, []int{0}) {
			t.Errorf("repacked = %v", rep.Repacked)
		}
		wantAt(t, got, "a", 0, 0)
		wantAt(t, got, "w", 1, 0)
	})

	t.Run("GridChanged", func(t *testing.T) {
		// A layout saved for a wider grid is folded onto the current one.
		wide := Grid{Cols: 12, Rows: 4}
		many := withAdd(sites(40, Size1x1)...)
		stored := wide.GlobalLayout(wide.Paginate(many))
		pages := Default.Paginate(many)
		got, rep := Default.Reconcile(many, pages, stored)
		if rep.Clean() {
			t.Error("expected repairs")
		}
		for i, page := range pages {
			checkPage(t, Default, page, Default.ExtractPageFromGlobal(pages, i, got))
		}
	})
}

func TestRepairClean(t *testing.T) {
	if !(Repair{}).Clean() {
		t.Error("zero Repair should be clean")
	}
	if (Repair{Repacked: []int{1}}).Clean() {
		t.Error("repacked page reported clean")
	}
}
