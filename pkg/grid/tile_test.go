package grid

import (
	"encoding/json"
	"reflect"
	"testing"

	apperrors "github.com/GrayFrost/z-tab/pkg/errors"
)

func TestSizeSpan(t *testing.T) {
	tests := []struct {
		size Size
		w, h int
	}{
		{Size1x1, 1, 1},
		{Size2x1, 2, 1},
		{Size2x2, 2, 2},
		{Size4x2, 4, 2},
		{Size("3x3"), 1, 1},
	}
	for _, tt := range tests {
		w, h := tt.size.Span()
		if w != tt.w || h != tt.h {
			t.Errorf("%s.Span() = %d,%d, want %d,%d", tt.size, w, h, tt.w, tt.h)
		}
	}
}

func TestParseSize(t *testing.T) {
	for _, s := range Sizes() {
		got, err := ParseSize(string(s))
		if err != nil || got != s {
			t.Errorf("ParseSize(%q) = %q, %v", s, got, err)
		}
	}
	_, err := ParseSize("3x1")
	if apperrors.GetCode(err) != apperrors.ErrCodeInvalidSize {
		t.Errorf("ParseSize(3x1) code = %v", apperrors.GetCode(err))
	}
}

func TestTileJSON(t *testing.T) {
	tests := []struct {
		name string
		tile Tile
		want string
	}{
		{
			name: "Site",
			tile: NewSite("gh", Size1x1, "GitHub", "https://github.com", "https://github.com/favicon.ico"),
			want: `{"id":"gh","size":"1x1","type":"site","title":"GitHub","url":"https://github.com","favicon":"https://github.com/favicon.ico"}`,
		},
		{
			name: "Widget",
			tile: NewWidget("clock", Size2x1, "clock", "Clock"),
			want: `{"id":"clock","size":"2x1","type":"widget","title":"Clock","widget":"clock"}`,
		},
		{
			name: "AddControl",
			tile: NewAddControl(),
			want: `{"id":"add-site","size":"1x1","type":"add-site"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.tile)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal = %s, want %s", data, tt.want)
			}
			var back Tile
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(back, tt.tile) {
				t.Errorf("Unmarshal = %+v, want %+v", back, tt.tile)
			}
		})
	}
}

func TestTileJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code apperrors.Code
	}{
		{"BadSize", `{"id":"x","size":"9x9","type":"site"}`, apperrors.ErrCodeInvalidSize},
		{"BadType", `{"id":"x","size":"1x1","type":"folder"}`, apperrors.ErrCodeInvalidKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tile Tile
			err := json.Unmarshal([]byte(tt.data), &tile)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := apperrors.GetCode(err); got != tt.code {
				t.Errorf("code = %v, want %v", got, tt.code)
			}
		})
	}

	if _, err := json.Marshal(Tile{ID: "bare", Size: Size1x1}); err == nil {
		t.Error("marshal of a tile without kind should fail")
	}
}

func TestEnsureAddControl(t *testing.T) {
	s := sites(2, Size1x1)
	tests := []struct {
		name  string
		tiles []Tile
		want  []string
	}{
		{"Missing", s, []string{"s1", "s2", AddControlID}},
		{"First", append([]Tile{NewAddControl()}, s...), []string{"s1", "s2", AddControlID}},
		{"Duplicate", []Tile{NewAddControl(), s[0], NewAddControl()}, []string{"s1", AddControlID}},
		{"Empty", nil, []string{AddControlID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(EnsureAddControl(tt.tiles)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("EnsureAddControl = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTileTitle(t *testing.T) {
	tests := []struct {
		tile Tile
		want string
	}{
		{NewSite("a", Size1x1, "Alpha", "https://a", ""), "Alpha"},
		{NewWidget("w", Size2x2, "date", "Date"), "Date"},
		{NewAddControl(), "Add site"},
		{Tile{ID: "raw"}, "raw"},
	}
	for _, tt := range tests {
		if got := tt.tile.Title(); got != tt.want {
			t.Errorf("%s.Title() = %q, want %q", tt.tile.ID, got, tt.want)
		}
	}
}

func TestGridPageOf(t *testing.T) {
	tests := []struct {
		y, want int
	}{
		{-3, 0}, {0, 0}, {3, 0}, {4, 1}, {11, 2},
	}
	for _, tt := range tests {
		if got := Default.PageOf(tt.y); got != tt.want {
			t.Errorf("PageOf(%d) = %d, want %d", tt.y, got, tt.want)
		}
	}
	if Default.String() != "8x4" || Default.Cells() != 32 {
		t.Errorf("Default = %s with %d cells", Default, Default.Cells())
	}
}

func TestGridHoldsAllSizes(t *testing.T) {
	tests := []struct {
		g    Grid
		want bool
	}{
		{Default, true},
		{Grid{Cols: 4, Rows: 2}, true},
		{Grid{Cols: 8, Rows: 1}, false},
		{Grid{Cols: 3, Rows: 4}, false},
		{Grid{}, false},
	}
	for _, tt := range tests {
		if got := tt.g.HoldsAllSizes(); got != tt.want {
			t.Errorf("%v.HoldsAllSizes() = %v, want %v", tt.g, got, tt.want)
		}
	}
}
