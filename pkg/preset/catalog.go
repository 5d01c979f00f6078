package preset

import (
	"github.com/GrayFrost/z-tab/pkg/grid"

	apperrors "github.com/GrayFrost/z-tab/pkg/errors"
)

// Widget is an entry of the widget catalog.
type Widget struct {
	Name        string    `json:"name" yaml:"name"`
	Title       string    `json:"title" yaml:"title"`
	Size        grid.Size `json:"size" yaml:"size"`
	Description string    `json:"description" yaml:"description"`
}

var catalog = []Widget{
	{Name: "clock", Title: "Clock", Size: grid.Size2x1, Description: "Local time"},
	{Name: "date", Title: "Date", Size: grid.Size2x2, Description: "Date with lunar calendar"},
	{Name: "weather", Title: "Weather", Size: grid.Size1x1, Description: "Current conditions"},
	{Name: "notes", Title: "Notes", Size: grid.Size1x1, Description: "Quick notes"},
	{Name: "banner", Title: "Banner", Size: grid.Size4x2, Description: "Large banner"},
	{Name: "stats", Title: "Stats", Size: grid.Size2x2, Description: "Usage statistics"},
}

// Catalog returns the widgets that can be added to a board.
func Catalog() []Widget {
	return append([]Widget(nil), catalog...)
}

// LookupWidget returns the catalog entry called name.
func LookupWidget(name string) (Widget, error) {
	for _, w := range catalog {
		if w.Name == name {
			return w, nil
		}
	}
	return Widget{}, apperrors.New(apperrors.ErrCodeWidgetNotFound, "no widget named %q", name)
}
