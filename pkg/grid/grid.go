package grid

import "fmt"

// Grid holds the fixed dimensions of one page.
// Cols is the number of columns and Rows the number of rows per page.
type Grid struct {
	Cols int `json:"cols" toml:"cols"`
	Rows int `json:"rows" toml:"rows"`
}

// Default is the reference configuration: 8 columns, 4 rows per page.
var Default = Grid{Cols: 8, Rows: 4}

// Valid reports whether both dimensions are positive.
func (g Grid) Valid() bool { return g.Cols > 0 && g.Rows > 0 }

// HoldsAllSizes reports whether every supported tile size fits on one page.
// On a smaller grid an oversized tile can never be placed, so its saved
// position carries no page and its order is lost on reload.
func (g Grid) HoldsAllSizes() bool {
	for _, s := range Sizes() {
		if w, h := s.Span(); w > g.Cols || h > g.Rows {
			return false
		}
	}
	return true
}

// Cells returns the number of 1x1 cells on one page.
func (g Grid) Cells() int { return g.Cols * g.Rows }

// String returns the grid as "colsxrows".
func (g Grid) String() string { return fmt.Sprintf("%dx%d", g.Cols, g.Rows) }

// PageOf returns the page index holding global row y.
// Negative rows map to page 0.
func (g Grid) PageOf(y int) int {
	if y < 0 || g.Rows <= 0 {
		return 0
	}
	return y / g.Rows
}
