// Package grid implements the tile layout and pagination engine.
//
// A dashboard is an ordered list of [Tile] values: site shortcuts, functional
// widgets and exactly one add-control. The engine packs them onto a grid of
// [Grid.Cols] columns, splits them into fixed-height pages of [Grid.Rows]
// rows, and keeps a single global layout (what gets persisted) in step with
// the page-local layouts a drag surface edits.
//
// # Coordinates
//
// A page placement has y relative to its page, 0 <= y and y+h <= Rows.
// A global placement has y in one continuous space spanning all pages:
//
//	global y = page index × Rows + page-local y
//
// # Operations
//
//   - [Grid.PlacePage]: first-fit packing of one page
//   - [Grid.Paginate]: greedy split into pages using the real packer
//   - [Grid.RestoreOrder]: rebuild visual order from a saved global layout
//   - [Grid.ReorderFromPageEdit]: apply a drag reorder to the tile order
//   - [Grid.MergePageIntoGlobal]: write an edited page back into the global layout
//   - [Grid.ExtractPageFromGlobal]: the inverse, with fallback re-placement
//   - [Grid.Reconcile]: repair a stored layout against the current pages
//
// All functions are pure: the caller owns the current tile list and global
// layout and threads them through each call. None of them panic or return
// errors; invalid input degrades to a fresh placement of the affected page.
//
// # Example
//
//	g := grid.Default
//	tiles := []grid.Tile{
//	    grid.NewSite("gh", grid.Size1x1, "GitHub", "https://github.com", ""),
//	    grid.NewAddControl(),
//	}
//	pages := g.Paginate(tiles)
//	global, _ := g.Reconcile(tiles, pages, nil)
package grid
