// Package config loads the ztab configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/ztab/config.toml, falling
// back to ~/.config/ztab/config.toml. A missing file yields [DefaultConfig].
//
//	[grid]
//	cols = 8
//	rows = 4
//
//	[store]
//	backend = "sqlite"
//	dir = "/var/lib/ztab"
//
//	[server]
//	addr = "127.0.0.1:7780"
//
//	[log]
//	level = "info"
//	file = "/var/log/ztab.log"
//
//	[ui]
//	theme = "dark"
//	debounce_ms = 100
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	apperrors "github.com/GrayFrost/z-tab/pkg/errors"
	"github.com/GrayFrost/z-tab/pkg/grid"
	"github.com/GrayFrost/z-tab/pkg/preset"
	"github.com/GrayFrost/z-tab/pkg/store"
)

const appName = "ztab"

// FileName is the configuration file name inside the config directory.
const FileName = "config.toml"

// EnvBackend overrides [StoreConfig.Backend] when set.
const EnvBackend = "ZTAB_STORE_BACKEND"

// Config is the full application configuration.
type Config struct {
	Grid   GridConfig   `toml:"grid"`
	Store  store.Config `toml:"store"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
	UI     UIConfig     `toml:"ui"`
}

type GridConfig struct {
	Cols int `toml:"cols"`
	Rows int `toml:"rows"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LogConfig controls the logger. File is only used by long-running
// commands; it is rotated once it grows past MaxSizeMB.
type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

type UIConfig struct {
	Theme      string `toml:"theme"`
	DebounceMS int    `toml:"debounce_ms"`
	Preset     string `toml:"preset"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Grid:   GridConfig{Cols: grid.Default.Cols, Rows: grid.Default.Rows},
		Store:  store.DefaultConfig(),
		Server: ServerConfig{Addr: "127.0.0.1:7780"},
		Log:    LogConfig{Level: "info", MaxSizeMB: 10, MaxBackups: 3},
		UI: UIConfig{
			Theme:      "light",
			DebounceMS: 100,
			Preset:     preset.DefaultName,
		},
	}
}

// Load reads the configuration from the default path.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the configuration at path over the defaults and applies
// environment overrides. A missing file is not an error.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return cfg, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "read %s", path)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return DefaultConfig(), apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	}

	if b := os.Getenv(EnvBackend); b != "" {
		cfg.Store.Backend = store.Backend(b)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	if !c.GridSize().Valid() {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "grid must have positive cols and rows, got %dx%d", c.Grid.Cols, c.Grid.Rows)
	}
	if !c.GridSize().HoldsAllSizes() {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "grid %s is too small for a %s tile", c.GridSize(), grid.Size4x2)
	}
	if c.Store.Backend != "" {
		b, err := store.ParseBackend(string(c.Store.Backend))
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "store.backend")
		}
		c.Store.Backend = b
	}
	if c.Log.Level != "" {
		if _, err := log.ParseLevel(c.Log.Level); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "log.level")
		}
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "log.max_size_mb and log.max_backups must not be negative")
	}
	switch c.UI.Theme {
	case "light", "dark":
	default:
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "ui.theme must be light or dark, got %q", c.UI.Theme)
	}
	if c.UI.DebounceMS < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "ui.debounce_ms must not be negative")
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "server.addr is empty")
	}
	return nil
}

// GridSize returns the configured grid dimensions.
func (c Config) GridSize() grid.Grid {
	return grid.Grid{Cols: c.Grid.Cols, Rows: c.Grid.Rows}
}

// Debounce returns the drag persistence delay.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.UI.DebounceMS) * time.Millisecond
}

// LogLevel returns the parsed log level, or info when unset.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Path returns the default configuration file path.
func Path() string {
	return filepath.Join(Dir(), FileName)
}

// Dir returns the configuration directory using the XDG convention.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", appName)
	}
	return filepath.Join(home, ".config", appName)
}
