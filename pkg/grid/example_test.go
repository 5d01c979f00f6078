package grid_test

import (
	"fmt"

	"github.com/GrayFrost/z-tab/pkg/grid"
)

func ExampleGrid_Paginate() {
	g := grid.Grid{Cols: 4, Rows: 1}
	tiles := []grid.Tile{
		grid.NewSite("gh", grid.Size1x1, "GitHub", "https://github.com", ""),
		grid.NewWidget("clock", grid.Size2x1, "clock", "Clock"),
		grid.NewSite("go", grid.Size1x1, "Go", "https://go.dev", ""),
		grid.NewAddControl(),
	}
	for i, page := range g.Paginate(tiles) {
		for _, p := range g.PlacePage(page) {
			fmt.Printf("page %d: %s at (%d,%d) %dx%d\n", i, p.ID, p.X, p.Y, p.W, p.H)
		}
	}
	// Output:
	// page 0: gh at (0,0) 1x1
	// page 0: clock at (1,0) 2x1
	// page 0: go at (3,0) 1x1
	// page 1: add-site at (0,0) 1x1
}

func ExampleGrid_MergePageIntoGlobal() {
	g := grid.Grid{Cols: 2, Rows: 1}
	tiles := []grid.Tile{
		grid.NewSite("a", grid.Size1x1, "A", "https://a.example", ""),
		grid.NewSite("b", grid.Size1x1, "B", "https://b.example", ""),
		grid.NewSite("c", grid.Size1x1, "C", "https://c.example", ""),
		grid.NewSite("d", grid.Size1x1, "D", "https://d.example", ""),
	}
	pages := g.Paginate(tiles)
	global := g.GlobalLayout(pages)

	// Swap c and d on the second page.
	edited := g.ExtractPageFromGlobal(pages, 1, global)
	edited[0].X, edited[1].X = 1, 0

	for _, p := range g.MergePageIntoGlobal(tiles, pages, 1, edited, global) {
		fmt.Printf("%s (%d,%d)\n", p.ID, p.X, p.Y)
	}
	// Output:
	// a (0,0)
	// b (1,0)
	// c (1,1)
	// d (0,1)
}

func ExampleGrid_RestoreOrder() {
	g := grid.Default
	tiles := []grid.Tile{
		grid.NewSite("a", grid.Size1x1, "A", "https://a.example", ""),
		grid.NewSite("b", grid.Size1x1, "B", "https://b.example", ""),
		grid.NewAddControl(),
	}
	saved := []grid.Placement{
		{ID: "a", X: 0, Y: 4, W: 1, H: 1},
		{ID: "b", X: 3, Y: 0, W: 1, H: 1},
	}
	for _, t := range g.RestoreOrder(tiles, saved) {
		fmt.Println(t.ID)
	}
	// Output:
	// b
	// a
	// add-site
}
