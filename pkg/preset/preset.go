// Package preset provides the tiles a new board starts with and the
// catalog of widgets.
//
// A preset file is YAML:
//
//	name: work
//	tiles:
//	  - type: site
//	    url: https://github.com
//	  - type: widget
//	    widget: clock
//	  - type: site
//	    url: https://go.dev
//	    title: Go
//	    size: 2x1
//
// Omitted fields are derived: ids are generated, site titles and icons
// come from the URL, widget sizes and titles from the catalog. The
// add-control is always appended.
package preset

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	apperrors "github.com/GrayFrost/z-tab/pkg/errors"
	"github.com/GrayFrost/z-tab/pkg/favicon"
	"github.com/GrayFrost/z-tab/pkg/grid"
)

// DefaultName names the built-in preset.
const DefaultName = "default"

// Preset is a named starting set of tiles.
type Preset struct {
	Name  string
	Tiles []grid.Tile
}

type file struct {
	Name  string      `yaml:"name"`
	Tiles []tileEntry `yaml:"tiles"`
}

type tileEntry struct {
	ID      string `yaml:"id"`
	Type    string `yaml:"type"`
	Size    string `yaml:"size"`
	Title   string `yaml:"title"`
	URL     string `yaml:"url"`
	Favicon string `yaml:"favicon"`
	Widget  string `yaml:"widget"`
}

// Default returns the built-in preset.
func Default() Preset {
	sites := []struct{ id, url, title string }{
		{"site-github", "https://github.com", "GitHub"},
		{"site-go", "https://go.dev", "Go"},
		{"site-wikipedia", "https://www.wikipedia.org", "Wikipedia"},
		{"site-hn", "https://news.ycombinator.com", "Hacker News"},
	}
	tiles := make([]grid.Tile, 0, len(sites)+2)
	clock, _ := LookupWidget("clock")
	tiles = append(tiles, grid.NewWidget("widget-clock", clock.Size, clock.Name, clock.Title))
	for _, s := range sites {
		tiles = append(tiles, grid.NewSite(s.id, grid.Size1x1, s.title, s.url, favicon.URL(s.url)))
	}
	return Preset{Name: DefaultName, Tiles: grid.EnsureAddControl(tiles)}
}

// Resolve returns the built-in preset for "" or [DefaultName] and loads
// any other value as a preset file path.
func Resolve(nameOrPath string) (Preset, error) {
	if nameOrPath == "" || nameOrPath == DefaultName {
		return Default(), nil
	}
	return Load(nameOrPath)
}

// Load reads a preset file.
func Load(path string) (Preset, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Preset{}, apperrors.New(apperrors.ErrCodePresetNotFound, "preset file %s does not exist", path)
	}
	if err != nil {
		return Preset{}, fmt.Errorf("read preset: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML preset.
func Parse(data []byte) (Preset, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Preset{}, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "parse preset")
	}
	p := Preset{Name: f.Name}
	seen := make(map[string]bool, len(f.Tiles))
	for i, e := range f.Tiles {
		t, err := e.tile()
		if err != nil {
			return Preset{}, fmt.Errorf("preset tile %d: %w", i+1, err)
		}
		if t.IsAddControl() {
			continue
		}
		if seen[t.ID] {
			return Preset{}, apperrors.New(apperrors.ErrCodeInvalidInput, "preset tile %d: duplicate id %q", i+1, t.ID)
		}
		seen[t.ID] = true
		p.Tiles = append(p.Tiles, t)
	}
	p.Tiles = grid.EnsureAddControl(p.Tiles)
	return p, nil
}

func (e tileEntry) tile() (grid.Tile, error) {
	var size grid.Size
	if e.Size != "" {
		s, err := grid.ParseSize(e.Size)
		if err != nil {
			return grid.Tile{}, err
		}
		size = s
	}

	switch e.Type {
	case grid.KindSite, "":
		url, err := favicon.Normalize(e.URL)
		if err != nil {
			return grid.Tile{}, err
		}
		id := e.ID
		if id == "" {
			id = NewSiteID()
		}
		if err := apperrors.ValidateTileID(id); err != nil {
			return grid.Tile{}, err
		}
		title := e.Title
		if title == "" {
			title = favicon.SiteName(url)
		}
		icon := e.Favicon
		if icon == "" {
			icon = favicon.URL(url)
		}
		if size == "" {
			size = grid.Size1x1
		}
		return grid.NewSite(id, size, title, url, icon), nil

	case grid.KindWidget:
		w, err := LookupWidget(e.Widget)
		if err != nil {
			return grid.Tile{}, err
		}
		id := e.ID
		if id == "" {
			id = NewWidgetID()
		}
		if err := apperrors.ValidateTileID(id); err != nil {
			return grid.Tile{}, err
		}
		title := e.Title
		if title == "" {
			title = w.Title
		}
		if size == "" {
			size = w.Size
		}
		return grid.NewWidget(id, size, w.Name, title), nil

	case grid.KindAddControl:
		return grid.NewAddControl(), nil

	default:
		return grid.Tile{}, apperrors.New(apperrors.ErrCodeInvalidKind, "unknown tile type %q", e.Type)
	}
}

// NewSiteID returns a fresh id for a site tile.
func NewSiteID() string { return "site-" + uuid.NewString() }

// NewWidgetID returns a fresh id for a widget tile.
func NewWidgetID() string { return "widget-" + uuid.NewString() }
