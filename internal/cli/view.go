package cli

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/GrayFrost/z-tab/pkg/grid"
)

// viewCommand opens the interactive page viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var theme string

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse the pages interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openBoard(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if theme == "" {
				theme = s.cfg.UI.Theme
				if settings, err := s.board.Settings(cmd.Context()); err == nil {
					theme = settings.Theme
				}
			}
			pages := make([][]grid.Placement, s.board.PageCount())
			for i := range pages {
				if pages[i], err = s.board.PageLayout(i); err != nil {
					return err
				}
			}
			snap := s.board.Snapshot()
			m := newViewModel(snap.Grid, snap.Pages, pages, theme)
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "", "light or dark (default from settings)")

	return cmd
}

// =============================================================================
// viewModel - page pager
// =============================================================================

type viewKeys struct {
	Prev  key.Binding
	Next  key.Binding
	First key.Binding
	Last  key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func (k viewKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Help, k.Quit}
}

func (k viewKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Prev, k.Next}, {k.First, k.Last}, {k.Help, k.Quit}}
}

func defaultViewKeys() viewKeys {
	return viewKeys{
		Prev:  key.NewBinding(key.WithKeys("left", "h", "pgup"), key.WithHelp("←/h", "previous page")),
		Next:  key.NewBinding(key.WithKeys("right", "l", "pgdown", " "), key.WithHelp("→/l", "next page")),
		First: key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home/g", "first page")),
		Last:  key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end/G", "last page")),
		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// viewModel swipes through pages like the new tab page does.
type viewModel struct {
	grid    grid.Grid
	pages   [][]grid.Tile
	layouts [][]grid.Placement
	page    int
	keys    viewKeys
	help    help.Model
	palette palette
}

func newViewModel(g grid.Grid, pages [][]grid.Tile, layouts [][]grid.Placement, theme string) viewModel {
	return viewModel{
		grid:    g,
		pages:   pages,
		layouts: layouts,
		keys:    defaultViewKeys(),
		help:    help.New(),
		palette: flavorPalette(theme),
	}
}

func (m viewModel) Init() tea.Cmd {
	return nil
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Prev):
			if m.page > 0 {
				m.page--
			}
		case key.Matches(msg, m.keys.Next):
			if m.page < len(m.pages)-1 {
				m.page++
			}
		case key.Matches(msg, m.keys.First):
			m.page = 0
		case key.Matches(msg, m.keys.Last):
			m.page = len(m.pages) - 1
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}
	return m, nil
}

func (m viewModel) View() string {
	if len(m.pages) == 0 {
		return "no pages\n"
	}
	var b strings.Builder
	b.WriteString(pageHeader(m.page, len(m.pages), m.grid))
	b.WriteString("\n")
	b.WriteString(renderPage(m.grid, m.pages[m.page], m.layouts[m.page], m.palette))
	b.WriteString("\n")
	b.WriteString(m.dots())
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

// dots is the page indicator under the grid.
func (m viewModel) dots() string {
	active := lipgloss.NewStyle().Foreground(m.palette.site.GetForeground())
	parts := make([]string, len(m.pages))
	for i := range m.pages {
		if i == m.page {
			parts[i] = active.Render("●")
		} else {
			parts[i] = m.palette.empty.Render("○")
		}
	}
	return strings.Join(parts, " ")
}
