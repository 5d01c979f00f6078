package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Backend names a store implementation.
type Backend string

// Supported backends.
const (
	BackendMemory Backend = "memory"
	BackendNull   Backend = "null"
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendRedis  Backend = "redis"
	BackendMongo  Backend = "mongo"
)

// Backends returns every supported backend name.
func Backends() []Backend {
	return []Backend{BackendMemory, BackendNull, BackendFile, BackendSQLite, BackendRedis, BackendMongo}
}

// ParseBackend validates a backend name, case-insensitively.
func ParseBackend(s string) (Backend, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Backends() {
		if b == known {
			return b, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBackend, s)
}

// Config selects and configures a backend.
type Config struct {
	Backend Backend `toml:"backend"`

	// Dir is the data directory of the file backend and the default
	// location of the sqlite database.
	Dir string `toml:"dir"`

	// DSN is the sqlite database path or the mongo connection URI.
	DSN string `toml:"dsn"`

	// Redis
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`

	// Database is the mongo database name.
	Database string `toml:"database"`
}

// DefaultConfig returns a file store in the default data directory.
func DefaultConfig() Config {
	return Config{
		Backend:  BackendFile,
		Addr:     "localhost:6379",
		Prefix:   "ztab:",
		Database: "ztab",
	}
}

// DefaultDir returns the data directory: $XDG_DATA_HOME/ztab, falling back
// to ~/.local/share/ztab.
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "ztab"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "ztab"), nil
}

// Location describes where cfg keeps its data, for display.
func (c Config) Location() string {
	switch c.Backend {
	case BackendFile:
		if c.Dir != "" {
			return c.Dir
		}
		dir, _ := DefaultDir()
		return dir
	case BackendSQLite:
		return c.sqlitePath()
	case BackendRedis:
		return "redis://" + c.Addr + "/" + c.Prefix
	case BackendMongo:
		return c.DSN + " (" + c.Database + ")"
	default:
		return string(c.Backend)
	}
}

func (c Config) sqlitePath() string {
	if c.DSN != "" {
		return c.DSN
	}
	dir := c.Dir
	if dir == "" {
		dir, _ = DefaultDir()
	}
	return filepath.Join(dir, "ztab.sqlite")
}

// Open creates the store selected by cfg.Backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendNull:
		return NewNullStore(), nil
	case BackendFile, "":
		return NewFileStore(cfg.Dir)
	case BackendSQLite:
		return NewSQLiteStore(ctx, cfg.sqlitePath())
	case BackendRedis:
		return retry(ctx, connectAttempts, connectDelay, func() (Store, error) {
			return NewRedisStore(ctx, RedisConfig{
				Addr:     cfg.Addr,
				Password: cfg.Password,
				DB:       cfg.DB,
				Prefix:   cfg.Prefix,
			})
		})
	case BackendMongo:
		return retry(ctx, connectAttempts, connectDelay, func() (Store, error) {
			return NewMongoStore(ctx, cfg.DSN, cfg.Database)
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
