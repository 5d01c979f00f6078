package grid

import (
	"encoding/json"
	"fmt"

	apperrors "github.com/GrayFrost/z-tab/pkg/errors"
)

// Size is the cell span of a tile, written "wxh".
type Size string

// Supported tile sizes.
const (
	Size1x1 Size = "1x1"
	Size2x1 Size = "2x1"
	Size2x2 Size = "2x2"
	Size4x2 Size = "4x2"
)

var spans = map[Size][2]int{
	Size1x1: {1, 1},
	Size2x1: {2, 1},
	Size2x2: {2, 2},
	Size4x2: {4, 2},
}

// Sizes returns every supported size, smallest first.
func Sizes() []Size {
	return []Size{Size1x1, Size2x1, Size2x2, Size4x2}
}

// ParseSize validates s as one of the supported sizes.
func ParseSize(s string) (Size, error) {
	size := Size(s)
	if !size.Valid() {
		return "", apperrors.New(apperrors.ErrCodeInvalidSize, "unsupported tile size %q (want 1x1, 2x1, 2x2 or 4x2)", s)
	}
	return size, nil
}

// Valid reports whether s is a supported size.
func (s Size) Valid() bool {
	_, ok := spans[s]
	return ok
}

// Span returns the width and height of s in cells.
// Unknown sizes span a single cell.
func (s Size) Span() (w, h int) {
	if sp, ok := spans[s]; ok {
		return sp[0], sp[1]
	}
	return 1, 1
}

// Kind names used on the wire.
const (
	KindSite       = "site"
	KindWidget     = "widget"
	KindAddControl = "add-site"
)

// Kind is the closed set of tile variants: [Site], [Widget] and [AddControl].
type Kind interface {
	kindName() string
}

// Site is a shortcut to a web site.
type Site struct {
	Title   string
	URL     string
	Favicon string
}

// Widget is a functional widget such as a clock.
// Name selects the widget implementation; Title is its label.
type Widget struct {
	Name  string
	Title string
}

// AddControl is the fixed "add a site" tile. Its position is always derived.
type AddControl struct{}

func (Site) kindName() string       { return KindSite }
func (Widget) kindName() string     { return KindWidget }
func (AddControl) kindName() string { return KindAddControl }

// AddControlID is the id of the canonical add-control tile.
const AddControlID = "add-site"

// Tile is a unit placed on the grid.
type Tile struct {
	ID   string
	Size Size
	Kind Kind
}

// NewSite returns a site tile.
func NewSite(id string, size Size, title, url, favicon string) Tile {
	return Tile{ID: id, Size: size, Kind: Site{Title: title, URL: url, Favicon: favicon}}
}

// NewWidget returns a functional widget tile.
func NewWidget(id string, size Size, name, title string) Tile {
	return Tile{ID: id, Size: size, Kind: Widget{Name: name, Title: title}}
}

// NewAddControl returns the canonical add-control tile.
func NewAddControl() Tile {
	return Tile{ID: AddControlID, Size: Size1x1, Kind: AddControl{}}
}

// IsAddControl reports whether t is the add-control.
func (t Tile) IsAddControl() bool {
	_, ok := t.Kind.(AddControl)
	return ok
}

// KindName returns the wire name of the tile's kind, or "" when unset.
func (t Tile) KindName() string {
	if t.Kind == nil {
		return ""
	}
	return t.Kind.kindName()
}

// Title returns the display label of the tile.
func (t Tile) Title() string {
	switch k := t.Kind.(type) {
	case Site:
		return k.Title
	case Widget:
		return k.Title
	case AddControl:
		return "Add site"
	default:
		return t.ID
	}
}

// String implements fmt.Stringer.
func (t Tile) String() string {
	return fmt.Sprintf("%s(%s %s)", t.ID, t.KindName(), t.Size)
}

// tileWire is the stored JSON shape of a tile.
type tileWire struct {
	ID      string `json:"id"`
	Size    Size   `json:"size"`
	Type    string `json:"type"`
	Title   string `json:"title,omitempty"`
	URL     string `json:"url,omitempty"`
	Favicon string `json:"favicon,omitempty"`
	Widget  string `json:"widget,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (t Tile) MarshalJSON() ([]byte, error) {
	w := tileWire{ID: t.ID, Size: t.Size}
	switch k := t.Kind.(type) {
	case Site:
		w.Type, w.Title, w.URL, w.Favicon = KindSite, k.Title, k.URL, k.Favicon
	case Widget:
		w.Type, w.Title, w.Widget = KindWidget, k.Title, k.Name
	case AddControl:
		w.Type = KindAddControl
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidKind, "tile %q has no kind", t.ID)
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Tile) UnmarshalJSON(data []byte) error {
	var w tileWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if !w.Size.Valid() {
		return apperrors.New(apperrors.ErrCodeInvalidSize, "tile %q: unsupported size %q", w.ID, w.Size)
	}
	kind, err := KindFromWire(w.Type, w.Title, w.URL, w.Favicon, w.Widget)
	if err != nil {
		return fmt.Errorf("tile %q: %w", w.ID, err)
	}
	*t = Tile{ID: w.ID, Size: w.Size, Kind: kind}
	return nil
}

// KindFromWire builds a Kind from its wire name and fields.
func KindFromWire(name, title, url, favicon, widget string) (Kind, error) {
	switch name {
	case KindSite:
		return Site{Title: title, URL: url, Favicon: favicon}, nil
	case KindWidget:
		return Widget{Name: widget, Title: title}, nil
	case KindAddControl:
		return AddControl{}, nil
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidKind, "unknown tile type %q", name)
	}
}

// EnsureAddControl returns tiles with exactly one add-control, at the end.
// Extra add-controls are dropped; a missing one is appended.
func EnsureAddControl(tiles []Tile) []Tile {
	out := make([]Tile, 0, len(tiles)+1)
	var add *Tile
	for _, t := range tiles {
		if t.IsAddControl() {
			if add == nil {
				a := t
				add = &a
			}
			continue
		}
		out = append(out, t)
	}
	if add == nil {
		a := NewAddControl()
		add = &a
	}
	return append(out, *add)
}

// splitAddControl separates the first add-control from the other tiles.
func splitAddControl(tiles []Tile) (others []Tile, add Tile, ok bool) {
	others = make([]Tile, 0, len(tiles))
	for _, t := range tiles {
		if t.IsAddControl() {
			if !ok {
				add, ok = t, true
			}
			continue
		}
		others = append(others, t)
	}
	return others, add, ok
}

// IndexTiles maps tile ids to tiles.
func IndexTiles(tiles []Tile) map[string]Tile {
	m := make(map[string]Tile, len(tiles))
	for _, t := range tiles {
		m[t.ID] = t
	}
	return m
}
