package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	apperrors "github.com/GrayFrost/z-tab/pkg/errors"
	"github.com/GrayFrost/z-tab/pkg/grid"
	"github.com/GrayFrost/z-tab/pkg/store"
)

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := []string{"serve", "tiles", "pages", "move", "view", "store", "reset", "catalog", "completion"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	for _, flag := range []string{"config", "store", "ephemeral"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s missing", flag)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish"} {
		t.Run(shell, func(t *testing.T) {
			root := New(io.Discard, LogInfo).RootCommand()
			var out strings.Builder
			root.SetOut(&out)
			root.SetArgs([]string{"completion", shell})
			if err := root.Execute(); err != nil {
				t.Fatalf("completion %s: %v", shell, err)
			}
			if !strings.Contains(out.String(), appName) {
				t.Errorf("completion %s script does not mention %s", shell, appName)
			}
		})
	}

	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"completion", "powershell"})
	if err := root.Execute(); err == nil {
		t.Error("completion powershell succeeded, want unsupported shell error")
	}
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		in      string
		x, y    int
		wantErr bool
	}{
		{in: "0,0", x: 0, y: 0},
		{in: "3,1", x: 3, y: 1},
		{in: " 2 , 5 ", x: 2, y: 5},
		{in: "3", wantErr: true},
		{in: "a,1", wantErr: true},
		{in: "1,b", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			x, y, err := parseCell(tt.in)
			if tt.wantErr {
				if !apperrors.IsInvalid(err) {
					t.Fatalf("parseCell(%q) error = %v, want invalid input", tt.in, err)
				}
				return
			}
			if err != nil || x != tt.x || y != tt.y {
				t.Errorf("parseCell(%q) = %d, %d, %v; want %d, %d", tt.in, x, y, err, tt.x, tt.y)
			}
		})
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("ZTAB_STORE_BACKEND", "")
	path := writeConfig(t, "[store]\nbackend = \"file\"\ndir = \"/tmp/ztab-test\"\n")

	tests := []struct {
		name      string
		backend   string
		ephemeral bool
		want      store.Backend
		wantErr   bool
	}{
		{name: "config file", want: store.BackendFile},
		{name: "store flag", backend: "sqlite", want: store.BackendSQLite},
		{name: "ephemeral wins", backend: "sqlite", ephemeral: true, want: store.BackendMemory},
		{name: "unknown backend", backend: "etcd", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &CLI{Logger: newLogger(io.Discard, log.InfoLevel), configPath: path, backend: tt.backend, ephemeral: tt.ephemeral}
			cfg, err := c.loadConfig()
			if tt.wantErr {
				if err == nil {
					t.Fatal("loadConfig() succeeded, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("loadConfig() error = %v", err)
			}
			if cfg.Store.Backend != tt.want {
				t.Errorf("backend = %q, want %q", cfg.Store.Backend, tt.want)
			}
		})
	}
}

func TestLoadConfigLogLevel(t *testing.T) {
	path := writeConfig(t, "[log]\nlevel = \"warn\"\n")

	c := &CLI{Logger: newLogger(io.Discard, log.InfoLevel), configPath: path}
	if _, err := c.loadConfig(); err != nil {
		t.Fatal(err)
	}
	if got := c.Logger.GetLevel(); got != log.WarnLevel {
		t.Errorf("level = %v, want warn from config", got)
	}

	verbose := &CLI{Logger: newLogger(io.Discard, log.DebugLevel), configPath: path}
	if _, err := verbose.loadConfig(); err != nil {
		t.Fatal(err)
	}
	if got := verbose.Logger.GetLevel(); got != log.DebugLevel {
		t.Errorf("level = %v, want debug kept over config", got)
	}
}

func TestRenderPage(t *testing.T) {
	g := grid.Grid{Cols: 3, Rows: 1}
	page := []grid.Tile{
		grid.NewSite("go", grid.Size2x1, "Go", "https://go.dev", ""),
		grid.NewAddControl(),
	}
	layout := g.PlacePage(page)

	out := renderPage(g, page, layout, defaultPalette())
	if !strings.Contains(out, "Go") {
		t.Errorf("rendered page missing site title:\n%s", out)
	}
	if !strings.Contains(out, "+") {
		t.Errorf("rendered page missing add control:\n%s", out)
	}
	if lines := strings.Count(out, "\n") + 1; lines != g.Rows*cellHeight+2 {
		t.Errorf("rendered %d lines, want %d", lines, g.Rows*cellHeight+2)
	}
}

func TestIsStoreDocument(t *testing.T) {
	tests := map[string]bool{
		filepath.Join("data", store.TilesFile):        true,
		filepath.Join("data", store.SettingsFile):     true,
		filepath.Join("data", store.TilesFile+".tmp"): false,
		filepath.Join("data", ".lock"):                false,
	}
	for path, want := range tests {
		if got := isStoreDocument(path); got != want {
			t.Errorf("isStoreDocument(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestViewModelPaging(t *testing.T) {
	g := grid.Grid{Cols: 1, Rows: 1}
	pages := [][]grid.Tile{
		{grid.NewSite("a", grid.Size1x1, "A", "https://a.example", "")},
		{grid.NewSite("b", grid.Size1x1, "B", "https://b.example", "")},
		{grid.NewAddControl()},
	}
	layouts := make([][]grid.Placement, len(pages))
	for i, p := range pages {
		layouts[i] = g.PlacePage(p)
	}

	var m tea.Model = newViewModel(g, pages, layouts, "dark")
	press := func(k tea.KeyMsg) {
		m, _ = m.Update(k)
	}
	page := func() int { return m.(viewModel).page }

	press(tea.KeyMsg{Type: tea.KeyLeft})
	if page() != 0 {
		t.Fatalf("page = %d after left on first page, want 0", page())
	}
	press(tea.KeyMsg{Type: tea.KeyRight})
	press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	if page() != 2 {
		t.Fatalf("page = %d after two rights, want 2", page())
	}
	press(tea.KeyMsg{Type: tea.KeyRight})
	if page() != 2 {
		t.Fatalf("page = %d after right on last page, want 2", page())
	}
	press(tea.KeyMsg{Type: tea.KeyHome})
	if page() != 0 {
		t.Fatalf("page = %d after home, want 0", page())
	}
	if v := m.View(); !strings.Contains(v, "Page 1/3") || !strings.Contains(v, "A") {
		t.Errorf("view missing header or tile:\n%s", v)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}

type countingLoader struct {
	loads atomic.Int32
}

func (l *countingLoader) Flush() {}

func (l *countingLoader) Load(context.Context) error {
	l.loads.Add(1)
	return nil
}

func TestWatchStoreReloads(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loader := &countingLoader{}
	done := make(chan error, 1)
	go func() { done <- watchStore(ctx, dir, loader, newLogger(io.Discard, log.InfoLevel)) }()

	deadline := time.Now().Add(5 * time.Second)
	for loader.loads.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("board was not reloaded after the tiles document changed")
		}
		if err := os.WriteFile(filepath.Join(dir, store.TilesFile), []byte("[]"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(100 * time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("watchStore() = %v, want nil after cancel", err)
	}
}

func TestCommandsWithFileStore(t *testing.T) {
	t.Setenv("ZTAB_STORE_BACKEND", "")
	dataDir := filepath.Join(t.TempDir(), "data")
	path := writeConfig(t, "[grid]\ncols = 4\nrows = 2\n\n[store]\nbackend = \"file\"\ndir = \""+filepath.ToSlash(dataDir)+"\"\n")

	run := func(args ...string) error {
		root := New(io.Discard, LogInfo).RootCommand()
		root.SetOut(io.Discard)
		root.SetErr(io.Discard)
		root.SetArgs(append([]string{"--config", path}, args...))
		return root.ExecuteContext(context.Background())
	}

	if err := run("tiles", "add-site", "https://example.org"); err != nil {
		t.Fatalf("tiles add-site: %v", err)
	}

	fs, err := store.NewFileStore(dataDir)
	if err != nil {
		t.Fatal(err)
	}
	tiles, err := fs.GetAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	var added grid.Tile
	for _, tile := range tiles {
		if s, ok := tile.Kind.(grid.Site); ok && strings.Contains(s.URL, "example.org") {
			added = tile
		}
	}
	if added.ID == "" {
		t.Fatalf("added site not stored, tiles = %v", tiles)
	}
	layout, _, ok, err := store.LoadLayout(context.Background(), fs)
	if err != nil || !ok {
		t.Fatalf("layout not stored: ok=%v err=%v", ok, err)
	}
	if _, found := grid.IndexPlacements(layout)[added.ID]; !found {
		t.Errorf("stored layout has no entry for %s", added.ID)
	}

	if err := run("tiles", "rm", added.ID); err != nil {
		t.Fatalf("tiles rm: %v", err)
	}
	if err := run("tiles", "rm", added.ID); !apperrors.IsNotFound(err) {
		t.Errorf("second rm error = %v, want not found", err)
	}
	if err := run("pages", "9"); err == nil {
		t.Error("pages 9 should be out of range")
	}
	if err := run("move", grid.AddControlID, "--to", "0,0"); !apperrors.IsInvalid(err) {
		t.Errorf("moving the add control: error = %v, want invalid input", err)
	}
}
