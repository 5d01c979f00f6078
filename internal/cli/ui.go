package cli

import (
	"fmt"
	"strings"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"

	"github.com/GrayFrost/z-tab/pkg/grid"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleKind        = lipgloss.NewStyle().Foreground(colorGray).Width(8)
	styleSize        = lipgloss.NewStyle().Foreground(colorCyan).Width(4)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented dim line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// tileLine formats one tile for listings.
func tileLine(t grid.Tile) string {
	line := styleKind.Render(t.KindName()) + " " + styleSize.Render(string(t.Size)) + " " +
		StyleValue.Render(t.Title()) + " " + StyleDim.Render(t.ID)
	if site, ok := t.Kind.(grid.Site); ok {
		line += " " + StyleDim.Render(iconArrow) + " " + StyleLink.Render(site.URL)
	}
	return line
}

// =============================================================================
// Grid rendering
// =============================================================================

// palette colors the tiles of a rendered page.
type palette struct {
	empty, site, widget, add, border lipgloss.Style
}

// defaultPalette uses the CLI colors.
func defaultPalette() palette {
	return palette{
		empty:  lipgloss.NewStyle().Foreground(colorDim),
		site:   lipgloss.NewStyle().Foreground(colorBlue),
		widget: lipgloss.NewStyle().Foreground(colorGreen),
		add:    lipgloss.NewStyle().Foreground(colorYellow),
		border: lipgloss.NewStyle().Foreground(colorGray),
	}
}

// flavorPalette derives tile colors from a catppuccin flavor: Latte for the
// light theme, Mocha for dark.
func flavorPalette(theme string) palette {
	var f catppuccin.Flavor = catppuccin.Latte
	if theme == "dark" {
		f = catppuccin.Mocha
	}
	color := func(c catppuccin.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex))
	}
	return palette{
		empty:  color(f.Surface2()),
		site:   color(f.Blue()),
		widget: color(f.Green()),
		add:    color(f.Peach()),
		border: color(f.Overlay1()),
	}
}

const (
	cellWidth  = 12
	cellHeight = 3
)

type paint int

const (
	paintEmpty paint = iota
	paintSite
	paintWidget
	paintAdd
)

// canvas is a character grid where each rune remembers which style paints it.
type canvas struct {
	w, h  int
	runes [][]rune
	paint [][]paint
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, runes: make([][]rune, h), paint: make([][]paint, h)}
	for y := range c.runes {
		c.runes[y] = []rune(strings.Repeat(" ", w))
		c.paint[y] = make([]paint, w)
	}
	return c
}

func (c *canvas) set(x, y int, r rune, p paint) {
	if x >= 0 && x < c.w && y >= 0 && y < c.h {
		c.runes[y][x], c.paint[y][x] = r, p
	}
}

// box draws a rounded box with label on its first inner line.
func (c *canvas) box(x, y, w, h int, label string, p paint) {
	right, bottom := x+w-1, y+h-1
	for i := x + 1; i < right; i++ {
		c.set(i, y, '─', p)
		c.set(i, bottom, '─', p)
	}
	for j := y + 1; j < bottom; j++ {
		c.set(x, j, '│', p)
		c.set(right, j, '│', p)
	}
	c.set(x, y, '╭', p)
	c.set(right, y, '╮', p)
	c.set(x, bottom, '╰', p)
	c.set(right, bottom, '╯', p)

	inner := []rune(label)
	if room := w - 4; len(inner) > room {
		if room <= 1 {
			inner = nil
		} else {
			inner = append(inner[:room-1], '…')
		}
	}
	for i, r := range inner {
		c.set(x+2+i, y+1, r, p)
	}
}

// render writes the canvas row by row, styling runs of equal paint.
func (c *canvas) render(pal palette) string {
	styles := map[paint]lipgloss.Style{
		paintEmpty:  pal.empty,
		paintSite:   pal.site,
		paintWidget: pal.widget,
		paintAdd:    pal.add,
	}
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		start := 0
		for x := 1; x <= c.w; x++ {
			if x < c.w && c.paint[y][x] == c.paint[y][start] {
				continue
			}
			b.WriteString(styles[c.paint[y][start]].Render(string(c.runes[y][start:x])))
			start = x
		}
		if y < c.h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// renderPage draws one page of tiles at their page-local placement. Free
// cells show a dot.
func renderPage(g grid.Grid, page []grid.Tile, layout []grid.Placement, pal palette) string {
	c := newCanvas(g.Cols*cellWidth, g.Rows*cellHeight)
	for y := 0; y < g.Rows; y++ {
		for x := 0; x < g.Cols; x++ {
			c.set(x*cellWidth+cellWidth/2, y*cellHeight+cellHeight/2, '·', paintEmpty)
		}
	}

	tiles := grid.IndexTiles(page)
	for _, p := range layout {
		t, ok := tiles[p.ID]
		if !ok || !p.Placed() {
			continue
		}
		kind := paintSite
		label := t.Title()
		switch t.Kind.(type) {
		case grid.Widget:
			kind = paintWidget
		case grid.AddControl:
			kind, label = paintAdd, "+"
		}
		c.box(p.X*cellWidth, p.Y*cellHeight, p.W*cellWidth, p.H*cellHeight, label, kind)
	}

	frame := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(pal.border.GetForeground())
	return frame.Render(c.render(pal))
}

// pageHeader titles page i of n.
func pageHeader(i, n int, g grid.Grid) string {
	return StyleTitle.Render(fmt.Sprintf("Page %d/%d", i+1, n)) + " " + StyleDim.Render(g.String())
}
