package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/GrayFrost/z-tab/internal/server"
	"github.com/GrayFrost/z-tab/pkg/board"
	"github.com/GrayFrost/z-tab/pkg/observability"
	"github.com/GrayFrost/z-tab/pkg/preset"
	"github.com/GrayFrost/z-tab/pkg/store"
)

const shutdownTimeout = 5 * time.Second

// serveCommand runs the HTTP API until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board over HTTP",
		Long: `Serve the board as a JSON API.

With --watch and the file backend, the board is reloaded when another
process (such as "ztab tiles add-site") changes the store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			logger := loggerFromContext(ctx)
			if f := withLogFile(logger, os.Stderr, cfg.Log); f != nil {
				defer f.Close()
			}
			observability.NewLogHooks(logger).Register()

			p, err := preset.Resolve(cfg.UI.Preset)
			if err != nil {
				return err
			}
			s, err := c.openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			prog := newProgress(logger)
			b := board.New(s, board.Options{
				Grid:     cfg.GridSize(),
				Debounce: cfg.Debounce(),
				Preset:   p,
				Logger:   logger,
			})
			defer b.Close()
			if err := b.Load(ctx); err != nil {
				logger.Warn("serving the preset until the store recovers", "err", err)
			}
			prog.done("Board loaded")

			srv := server.New(b, server.Options{Addr: cfg.Server.Addr, Logger: logger})
			ln, err := srv.Listen()
			if err != nil {
				return err
			}

			if watch {
				if cfg.Store.Backend != store.BackendFile {
					printWarning("--watch only works with the file backend, not %s", cfg.Store.Backend)
				} else {
					dir := cfg.Store.Location()
					go func() {
						if err := watchStore(ctx, dir, b, logger); err != nil {
							logger.Error("store watch stopped", "err", err)
						}
					}()
				}
			}

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Serve(ln) }()
			printSuccess("Serving on http://%s", srv.Addr())
			printDetail("Grid %s · %s store at %s", cfg.GridSize(), cfg.Store.Backend, cfg.Store.Location())

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload when the file store changes on disk")

	return cmd
}
