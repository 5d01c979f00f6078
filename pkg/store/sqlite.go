package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/GrayFrost/z-tab/pkg/grid"
)

// SQLiteStore keeps tiles and settings in one SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	// modernc.org/sqlite registers itself as "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, unavailable("open sqlite", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, unavailable("open sqlite", err)
		}
	}
	s := &SQLiteStore{db: db, path: path}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tiles (
			id TEXT PRIMARY KEY,
			json TEXT NOT NULL,
			position INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS settings (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
	}
	for _, st := range stmts {
		if _, err := s.db.ExecContext(ctx, st); err != nil {
			return unavailable("migrate sqlite", err)
		}
	}
	return nil
}

// Path returns the database file.
func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT v FROM settings WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, unavailable("get setting", err)
	}
	return []byte(v), true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings(k, v) VALUES(?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v`,
		key, string(value))
	return unavailable("set setting", err)
}

func (s *SQLiteStore) GetAll(ctx context.Context) ([]grid.Tile, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT json FROM tiles ORDER BY position, id`)
	if err != nil {
		return nil, unavailable("list tiles", err)
	}
	defer rows.Close()

	var tiles []grid.Tile
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, unavailable("list tiles", err)
		}
		var t grid.Tile
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			return nil, fmt.Errorf("parse tile: %w", err)
		}
		tiles = append(tiles, t)
	}
	return tiles, unavailable("list tiles", rows.Err())
}

func (s *SQLiteStore) Add(ctx context.Context, t grid.Tile) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tiles(id, json, position)
		 VALUES(?, ?, (SELECT COALESCE(MAX(position) + 1, 0) FROM tiles))
		 ON CONFLICT(id) DO UPDATE SET json = excluded.json`,
		t.ID, string(data))
	return unavailable("add tile", err)
}

func (s *SQLiteStore) Update(ctx context.Context, t grid.Tile) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE tiles SET json = ? WHERE id = ?`, string(data), t.ID)
	if err != nil {
		return unavailable("update tile", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tiles WHERE id = ?`, id)
	return unavailable("delete tile", err)
}

func (s *SQLiteStore) SaveAll(ctx context.Context, tiles []grid.Tile) error {
	return s.tx(ctx, "save tiles", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tiles`); err != nil {
			return err
		}
		for i, t := range tiles {
			data, err := json.Marshal(t)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO tiles(id, json, position) VALUES(?, ?, ?)
				 ON CONFLICT(id) DO UPDATE SET json = excluded.json`,
				t.ID, string(data), i); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	return s.tx(ctx, "clear store", func(tx *sql.Tx) error {
		for _, st := range []string{`DELETE FROM tiles`, `DELETE FROM settings`} {
			if _, err := tx.ExecContext(ctx, st); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) tx(ctx context.Context, op string, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable(op, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return unavailable(op, err)
	}
	return unavailable(op, tx.Commit())
}

var _ Store = (*SQLiteStore)(nil)
