package board

import (
	"context"
	"slices"
	"time"

	"github.com/GrayFrost/z-tab/pkg/grid"
	"github.com/GrayFrost/z-tab/pkg/observability"
	"github.com/GrayFrost/z-tab/pkg/store"
)

// writeTimeout bounds a single background store write.
const writeTimeout = 10 * time.Second

// write is one queued store operation.
type write struct {
	what   string
	layout bool
	run    func(ctx context.Context) error
}

// mutatedLocked marks the in-memory layout as newer than the stored one.
func (b *Board) mutatedLocked() {
	b.version++
	b.state = Derived
}

// layoutChangedLocked schedules a debounced layout write.
func (b *Board) layoutChangedLocked() {
	if b.save == nil {
		b.enqueueLayoutLocked()
		return
	}
	b.save.Trigger()
}

// scheduleLayoutWrite is the debouncer callback.
func (b *Board) scheduleLayoutWrite() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enqueueLayoutLocked()
}

func (b *Board) enqueueTileLocked(what string, t grid.Tile) {
	b.enqueueLocked(write{what: "tile " + what, run: func(ctx context.Context) error {
		return b.store.Add(ctx, t)
	}})
}

func (b *Board) enqueueDeleteLocked(id string) {
	b.enqueueLocked(write{what: "tile delete", run: func(ctx context.Context) error {
		return b.store.Delete(ctx, id)
	}})
}

func (b *Board) enqueueTilesLocked() {
	tiles := slices.Clone(b.tiles)
	b.enqueueLocked(write{what: "tiles", run: func(ctx context.Context) error {
		return b.store.SaveAll(ctx, tiles)
	}})
}

// enqueueLayoutLocked queues a layout write. The layout is read when the
// write runs, so one queued layout write covers every change before it.
func (b *Board) enqueueLayoutLocked() {
	for _, w := range b.queue {
		if w.layout {
			return
		}
	}
	b.enqueueLocked(write{what: "layout", layout: true, run: b.writeLayout})
}

func (b *Board) writeLayout(ctx context.Context) error {
	b.mu.Lock()
	g, global, version := b.grid, slices.Clone(b.global), b.version
	b.mu.Unlock()

	if err := store.SaveLayout(ctx, b.store, g, global); err != nil {
		return err
	}

	b.mu.Lock()
	if b.version == version {
		b.state = Persisted
	}
	b.mu.Unlock()
	return nil
}

func (b *Board) enqueueLocked(w write) {
	if b.closed {
		b.logger.Debug("board closed, dropping write", "what", w.what)
		return
	}
	b.queue = append(b.queue, w)
	if !b.writing {
		b.writing = true
		go b.drain()
	}
}

// drain runs queued writes in order until the queue is empty.
func (b *Board) drain() {
	for {
		b.mu.Lock()
		if len(b.queue) == 0 {
			b.writing = false
			b.idle.Broadcast()
			b.mu.Unlock()
			return
		}
		w := b.queue[0]
		b.queue = b.queue[1:]
		b.mu.Unlock()

		b.runWrite(w)
	}
}

func (b *Board) runWrite(w write) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	start := time.Now()
	err := w.run(ctx)
	if err != nil {
		b.logger.Error("persist failed", "what", w.what, "err", err)
	}
	observability.Board().OnPersist(ctx, w.what, time.Since(start), err)
}

// wait blocks until the writer queue is empty.
func (b *Board) wait() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for b.writing {
		b.idle.Wait()
	}
}

// Flush runs a pending debounced write now and waits for every queued write
// to finish.
func (b *Board) Flush() {
	b.save.Flush()
	b.wait()
}

// Close flushes pending writes and stops accepting new ones. The store is
// not closed.
func (b *Board) Close() error {
	b.Flush()
	b.save.Stop()

	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()

	b.wait()
	return nil
}
