package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/GrayFrost/z-tab/pkg/board"
	"github.com/GrayFrost/z-tab/pkg/debounce"
	"github.com/GrayFrost/z-tab/pkg/store"
)

// reloadDelay coalesces the events of one atomic document replace.
const reloadDelay = 250 * time.Millisecond

// Loader is reloaded when the store changes.
type Loader interface {
	Flush()
	Load(ctx context.Context) error
}

var _ Loader = (*board.Board)(nil)

// watchStore reloads b whenever a document of the file store in dir is
// written, created or replaced. It returns when ctx is done.
func watchStore(ctx context.Context, dir string, b Loader, logger *log.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create store watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	reload := debounce.New(reloadDelay, func() {
		b.Flush()
		if err := b.Load(ctx); err != nil {
			logger.Warn("reload failed", "err", err)
			return
		}
		logger.Debug("board reloaded from disk", "dir", dir)
	})
	defer reload.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isStoreDocument(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				reload.Trigger()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("store watcher", "err", err)
		}
	}
}

func isStoreDocument(path string) bool {
	switch filepath.Base(path) {
	case store.TilesFile, store.SettingsFile:
		return true
	}
	return false
}
