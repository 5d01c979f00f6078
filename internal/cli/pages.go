package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/GrayFrost/z-tab/pkg/errors"
)

// pagesCommand renders the board, or one page of it.
func (c *CLI) pagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pages [n]",
		Short: "Render the grid pages",
		Long:  `Render every page of the board, or only page n (1-based), as a grid of boxes.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openBoard(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			snap := s.board.Snapshot()
			first, last := 0, len(snap.Pages)-1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return apperrors.New(apperrors.ErrCodeInvalidInput, "page must be a number, got %q", args[0])
				}
				first, last = n-1, n-1
			}

			pal := flavorPalette(s.cfg.UI.Theme)
			for i := first; i <= last; i++ {
				layout, err := s.board.PageLayout(i)
				if err != nil {
					return err
				}
				fmt.Println(pageHeader(i, len(snap.Pages), snap.Grid))
				fmt.Println(renderPage(snap.Grid, snap.Pages[i], layout, pal))
			}
			printDetail("%d tiles · %s", len(snap.Tiles), snap.State)
			return nil
		},
	}
}

// moveCommand simulates dropping a tile at a cell of its page.
func (c *CLI) moveCommand() *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "move <id> --to col,row",
		Short: "Move a tile to a cell of its page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y, err := parseCell(to)
			if err != nil {
				return err
			}
			s, err := c.openBoard(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.board.Move(cmd.Context(), args[0], x, y); err != nil {
				return err
			}
			printSuccess("Moved %s to %d,%d", args[0], x, y)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "target cell as col,row (0-based)")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

// parseCell parses "col,row".
func parseCell(s string) (x, y int, err error) {
	col, row, ok := strings.Cut(s, ",")
	if ok {
		x, err = strconv.Atoi(strings.TrimSpace(col))
		if err == nil {
			y, err = strconv.Atoi(strings.TrimSpace(row))
		}
	}
	if !ok || err != nil {
		return 0, 0, apperrors.New(apperrors.ErrCodeInvalidInput, "cell must be col,row, got %q", s)
	}
	return x, y, nil
}
