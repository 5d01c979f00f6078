// Package cli implements the ztab command-line interface.
//
// Every command opens the configured store, loads a board over it, applies
// its change and flushes the board before exiting, so the CLI and a running
// "ztab serve" can share a file or database store.
//
// # Commands
//
//   - serve: run the HTTP API
//   - tiles: list, add, edit and remove tiles
//   - pages: render the paginated grid
//   - move: drop a tile at a cell of its page
//   - view: browse pages interactively
//   - store, reset, catalog: store maintenance and the widget catalog
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/GrayFrost/z-tab/pkg/board"
	"github.com/GrayFrost/z-tab/pkg/buildinfo"
	"github.com/GrayFrost/z-tab/pkg/config"
	"github.com/GrayFrost/z-tab/pkg/observability"
	"github.com/GrayFrost/z-tab/pkg/preset"
	"github.com/GrayFrost/z-tab/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "ztab"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	backend    string
	ephemeral  bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "ztab arranges site and widget tiles on paginated grid pages",
		Long:         `ztab keeps a board of site shortcuts and widgets laid out on fixed-size grid pages. Tiles flow onto as many pages as they need, and drag results are stored so the layout survives restarts.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.Path()+")")
	root.PersistentFlags().StringVar(&c.backend, "store", "", "store backend: memory, null, file, sqlite, redis, mongo")
	root.PersistentFlags().BoolVar(&c.ephemeral, "ephemeral", false, "keep the board in memory only")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.tilesCommand())
	root.AddCommand(c.pagesCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.resetCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config, store and board
// =============================================================================

// loadConfig reads the config file and applies the command-line overrides.
func (c *CLI) loadConfig() (config.Config, error) {
	path := c.configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return cfg, err
	}
	switch {
	case c.ephemeral:
		cfg.Store.Backend = store.BackendMemory
	case c.backend != "":
		b, err := store.ParseBackend(c.backend)
		if err != nil {
			return cfg, err
		}
		cfg.Store.Backend = b
	}
	// --verbose wins over the configured level.
	if c.Logger != nil && c.Logger.GetLevel() == log.InfoLevel {
		c.Logger.SetLevel(cfg.LogLevel())
	}
	return cfg, nil
}

// openStore opens the configured backend, reporting its calls to the
// observability hooks.
func (c *CLI) openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	s, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	loggerFromContext(ctx).Debug("store opened", "backend", cfg.Store.Backend, "location", cfg.Store.Location())
	return store.Instrument(s, cfg.Store.Backend), nil
}

// session is an open store with a loaded board.
type session struct {
	cfg   config.Config
	store store.Store
	board *board.Board
}

// Close flushes the board and closes the store.
func (s *session) Close() error {
	s.board.Close()
	return s.store.Close()
}

// openBoard loads config, opens the store and loads the board. A store that
// cannot be read is an error for one-shot commands.
func (c *CLI) openBoard(ctx context.Context) (*session, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	logger := loggerFromContext(ctx)
	if logger.GetLevel() <= log.DebugLevel {
		observability.NewLogHooks(logger).Register()
	}

	p, err := preset.Resolve(cfg.UI.Preset)
	if err != nil {
		return nil, err
	}
	s, err := c.openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	b := board.New(s, board.Options{
		Grid:     cfg.GridSize(),
		Debounce: cfg.Debounce(),
		Preset:   p,
		Logger:   logger,
	})
	if err := b.Load(ctx); err != nil {
		b.Close()
		s.Close()
		return nil, err
	}
	return &session{cfg: cfg, store: s, board: b}, nil
}
