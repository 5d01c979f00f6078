// Package board owns the in-memory state of one tile board.
//
// A [Board] holds the ordered tiles, their pagination and the global layout,
// and keeps them consistent across mutations. Every mutation runs under a
// single mutex and ends with a call into the layout engine in
// [github.com/GrayFrost/z-tab/pkg/grid], so readers only ever observe a
// board whose pages satisfy the grid invariants.
//
// # Persistence
//
// Writes to the [store.Store] are fire-and-forget. They run in order on a
// background writer; failures are logged and reported to the observability
// hooks but never surface to the caller and are never retried. Layout writes
// caused by dragging are debounced so a burst of layout callbacks costs one
// write. [Board.Flush] forces pending writes out and waits for them.
//
//	b := board.New(s, board.Options{Grid: grid.Default})
//	if err := b.Load(ctx); err != nil {
//	    logger.Warn("starting from preset", "err", err)
//	}
//	defer b.Close()
//
//	tile, err := b.AddSite(ctx, "go.dev")
//
// # State
//
// [Board.State] is [Persisted] once the current layout has been written, and
// [Derived] while the layout only exists in memory: after a mutation, after
// a repair of the stored layout, or when the store could not be read.
package board
