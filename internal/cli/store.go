package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GrayFrost/z-tab/pkg/preset"
	"github.com/GrayFrost/z-tab/pkg/store"
)

// storeCommand creates the store maintenance command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect and clear the tile store",
	}

	cmd.AddCommand(c.storePathCommand())
	cmd.AddCommand(c.storeClearCommand())

	return cmd
}

func (c *CLI) storePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show where the board is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			printKeyValue("backend", string(cfg.Store.Backend))
			printKeyValue("location", cfg.Store.Location())
			if cfg.Store.Backend == store.BackendFile {
				fs, err := store.NewFileStore(cfg.Store.Dir)
				if err != nil {
					return err
				}
				defer fs.Close()
				for _, f := range fs.Files() {
					printDetail("%s", f)
				}
			}
			return nil
		},
	}
}

func (c *CLI) storeClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every tile, the layout and the settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			s, err := c.openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Clear(cmd.Context()); err != nil {
				return err
			}
			printSuccess("Cleared %s store", cfg.Store.Backend)
			printDetail("Location: %s", cfg.Store.Location())
			return nil
		},
	}
}

// resetCommand clears the store and reseeds it with the preset.
func (c *CLI) resetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Replace the board with the configured preset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openBoard(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.board.Reset(cmd.Context()); err != nil {
				return err
			}
			printSuccess("Board reset to preset %q", s.cfg.UI.Preset)
			printDetail("%d tiles on %d pages", len(s.board.Tiles()), s.board.PageCount())
			return nil
		},
	}
}

// catalogCommand lists the widgets that can be added.
func (c *CLI) catalogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the available widgets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, w := range preset.Catalog() {
				fmt.Println(styleKind.Render(w.Name) + " " + styleSize.Render(string(w.Size)) + " " +
					StyleValue.Render(w.Title) + " " + StyleDim.Render(w.Description))
			}
			return nil
		},
	}
}
