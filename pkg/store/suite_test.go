package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/GrayFrost/z-tab/pkg/grid"
)

func tileIDs(tiles []grid.Tile) []string {
	out := make([]string, len(tiles))
	for i, t := range tiles {
		out[i] = t.ID
	}
	return out
}

// runSuite checks the Store contract. Backends that return tiles in
// insertion order set ordered.
func runSuite(t *testing.T, open func(t *testing.T) Store, ordered bool) {
	ctx := context.Background()
	a := grid.NewSite("a", grid.Size1x1, "Alpha", "https://a.example", "https://a.example/favicon.ico")
	b := grid.NewWidget("b", grid.Size2x1, "clock", "Clock")
	c := grid.NewSite("c", grid.Size2x2, "Gamma", "https://c.example", "")

	t.Run("Settings", func(t *testing.T) {
		s := open(t)
		if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
			t.Fatalf("Get(missing) = %v, %v", ok, err)
		}
		if err := s.Set(ctx, ThemeKey, []byte(`"dark"`)); err != nil {
			t.Fatalf("Set: %v", err)
		}
		got, ok, err := s.Get(ctx, ThemeKey)
		if err != nil || !ok || string(got) != `"dark"` {
			t.Errorf("Get = %s, %v, %v", got, ok, err)
		}
	})

	t.Run("Tiles", func(t *testing.T) {
		s := open(t)
		for _, tile := range []grid.Tile{a, b, c} {
			if err := s.Add(ctx, tile); err != nil {
				t.Fatalf("Add(%s): %v", tile.ID, err)
			}
		}
		got, err := s.GetAll(ctx)
		if err != nil {
			t.Fatalf("GetAll: %v", err)
		}
		if want := []grid.Tile{a, b, c}; !reflect.DeepEqual(got, want) {
			t.Errorf("GetAll = %v, want %v", got, want)
		}

		renamed := grid.NewSite("a", grid.Size1x1, "Renamed", "https://a.example", "")
		if err := s.Update(ctx, renamed); err != nil {
			t.Fatalf("Update: %v", err)
		}
		if err := s.Update(ctx, grid.NewSite("zz", grid.Size1x1, "", "https://z", "")); !errors.Is(err, ErrNotFound) {
			t.Errorf("Update(missing) = %v, want ErrNotFound", err)
		}
		if err := s.Delete(ctx, "b"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if err := s.Delete(ctx, "b"); err != nil {
			t.Errorf("second Delete: %v", err)
		}

		got, _ = s.GetAll(ctx)
		if want := []grid.Tile{renamed, c}; !reflect.DeepEqual(got, want) {
			t.Errorf("after update/delete = %v, want %v", got, want)
		}
	})

	t.Run("AddIsUpsert", func(t *testing.T) {
		s := open(t)
		_ = s.Add(ctx, a)
		_ = s.Add(ctx, b)
		moved := grid.NewSite("a", grid.Size2x2, "Alpha", "https://a.example", "")
		if err := s.Add(ctx, moved); err != nil {
			t.Fatal(err)
		}
		got, _ := s.GetAll(ctx)
		if len(got) != 2 {
			t.Fatalf("GetAll = %v", tileIDs(got))
		}
		if ordered && !reflect.DeepEqual(got[0], moved) {
			t.Errorf("upsert moved the tile: %v", tileIDs(got))
		}
	})

	t.Run("SaveAll", func(t *testing.T) {
		s := open(t)
		_ = s.Add(ctx, a)
		if err := s.SaveAll(ctx, []grid.Tile{c, b}); err != nil {
			t.Fatal(err)
		}
		got, _ := s.GetAll(ctx)
		want := []string{"c", "b"}
		if !ordered {
			want = []string{"b", "c"}
		}
		if !reflect.DeepEqual(tileIDs(got), want) {
			t.Errorf("GetAll = %v, want %v", tileIDs(got), want)
		}
		if err := s.SaveAll(ctx, nil); err != nil {
			t.Fatal(err)
		}
		if got, _ := s.GetAll(ctx); len(got) != 0 {
			t.Errorf("after empty SaveAll: %v", tileIDs(got))
		}
	})

	t.Run("Clear", func(t *testing.T) {
		s := open(t)
		_ = s.Add(ctx, a)
		_ = s.Set(ctx, LayoutKey, []byte(`[]`))
		if err := s.Clear(ctx); err != nil {
			t.Fatal(err)
		}
		if got, _ := s.GetAll(ctx); len(got) != 0 {
			t.Errorf("tiles after Clear: %v", tileIDs(got))
		}
		if _, ok, _ := s.Get(ctx, LayoutKey); ok {
			t.Error("layout survived Clear")
		}
	})

	t.Run("Layout", func(t *testing.T) {
		s := open(t)
		if _, _, ok, err := LoadLayout(ctx, s); ok || err != nil {
			t.Fatalf("LoadLayout on empty store = %v, %v", ok, err)
		}
		tiles := []grid.Tile{a, b, grid.NewAddControl()}
		layout := grid.Default.GlobalLayout(grid.Default.Paginate(tiles))
		if err := SaveLayout(ctx, s, grid.Default, layout); err != nil {
			t.Fatal(err)
		}
		got, g, ok, err := LoadLayout(ctx, s)
		if err != nil || !ok {
			t.Fatalf("LoadLayout = %v, %v", ok, err)
		}
		if g != grid.Default {
			t.Errorf("grid = %v", g)
		}
		if !reflect.DeepEqual(got, layout) {
			t.Errorf("layout = %+v, want %+v", got, layout)
		}
	})

	t.Run("Settings helpers", func(t *testing.T) {
		s := open(t)
		got, err := LoadSettings(ctx, s)
		if err != nil || got != DefaultSettings() {
			t.Fatalf("LoadSettings on empty store = %+v, %v", got, err)
		}
		want := Settings{Theme: "dark", IconStyle: "colorful", AutoHideButtons: true}
		if err := SaveSettings(ctx, s, want); err != nil {
			t.Fatal(err)
		}
		if got, _ := LoadSettings(ctx, s); got != want {
			t.Errorf("LoadSettings = %+v, want %+v", got, want)
		}
	})
}
