package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	apperrors "github.com/GrayFrost/z-tab/pkg/errors"
	"github.com/GrayFrost/z-tab/pkg/grid"
	"github.com/GrayFrost/z-tab/pkg/preset"
)

// tilesCommand creates the tile management command.
func (c *CLI) tilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tiles",
		Short: "List, add, edit and remove tiles",
	}

	cmd.AddCommand(c.tilesListCommand())
	cmd.AddCommand(c.tilesAddSiteCommand())
	cmd.AddCommand(c.tilesAddWidgetCommand())
	cmd.AddCommand(c.tilesRemoveCommand())
	cmd.AddCommand(c.tilesEditCommand())
	cmd.AddCommand(c.tilesFaviconCommand())

	return cmd
}

func (c *CLI) tilesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tiles in visual order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openBoard(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			pages := s.board.Pages()
			for i, page := range pages {
				fmt.Println(pageHeader(i, len(pages), s.board.Grid()))
				for _, t := range page {
					fmt.Println("  " + tileLine(t))
				}
			}
			return nil
		},
	}
}

func (c *CLI) tilesAddSiteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add-site <url>",
		Short: "Add a site shortcut in front of the add button",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openBoard(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			t, err := s.board.AddSite(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSuccess("Added %s", t.Title())
			printDetail("%s on page %d", t.ID, grid.PageIndex(s.board.Pages(), t.ID)+1)
			return nil
		},
	}
}

func (c *CLI) tilesAddWidgetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add-widget <name>",
		Short: "Add a widget from the catalog",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			var names []string
			for _, w := range preset.Catalog() {
				names = append(names, w.Name)
			}
			return names, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openBoard(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			t, err := s.board.AddWidget(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSuccess("Added %s widget (%s)", t.Title(), t.Size)
			printDetail("%s on page %d", t.ID, grid.PageIndex(s.board.Pages(), t.ID)+1)
			return nil
		},
	}
}

func (c *CLI) tilesRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"remove"},
		Short:   "Remove tiles",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openBoard(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			for _, id := range args {
				if err := s.board.Delete(cmd.Context(), id); err != nil {
					return err
				}
				printSuccess("Removed %s", id)
			}
			printDetail("%d pages", len(s.board.Pages()))
			return nil
		},
	}
}

func (c *CLI) tilesEditCommand() *cobra.Command {
	var title, url, icon, size string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a tile's title, URL, favicon or size",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openBoard(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			current, err := s.board.Tile(args[0])
			if err != nil {
				return err
			}
			patch := grid.Tile{ID: current.ID, Size: grid.Size(size)}
			switch current.Kind.(type) {
			case grid.Site:
				patch.Kind = grid.Site{Title: title, URL: url, Favicon: icon}
			case grid.Widget:
				if url != "" || icon != "" {
					return apperrors.New(apperrors.ErrCodeInvalidInput, "widgets have no URL or favicon")
				}
				patch.Kind = grid.Widget{Title: title}
			}

			t, err := s.board.UpdateTile(cmd.Context(), patch)
			if err != nil {
				return err
			}
			printSuccess("Updated %s", t.ID)
			fmt.Println("  " + tileLine(t))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&url, "url", "", "new URL (sites only)")
	cmd.Flags().StringVar(&icon, "favicon", "", "custom favicon URL (sites only)")
	cmd.Flags().StringVar(&size, "size", "", "new size: 1x1, 2x1, 2x2 or 4x2")

	return cmd
}

func (c *CLI) tilesFaviconCommand() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "favicon <id>",
		Short: "Switch a site to its next favicon source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openBoard(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if reset {
				t, err := s.board.SetFavicon(cmd.Context(), args[0], "")
				if err != nil {
					return err
				}
				printSuccess("Favicon reset to %s", t.Kind.(grid.Site).Favicon)
				return nil
			}
			t, ok, err := s.board.NextFavicon(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				printWarning("No more favicon sources for %s", t.Title())
				return nil
			}
			printSuccess("Favicon now %s", t.Kind.(grid.Site).Favicon)
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "go back to the default favicon")

	return cmd
}
