package store

import (
	"context"
	"time"

	"github.com/GrayFrost/z-tab/pkg/grid"
	"github.com/GrayFrost/z-tab/pkg/observability"
)

// Instrument wraps s so that every call is reported to the registered
// [observability.StoreHooks] under the given backend name.
func Instrument(s Store, backend Backend) Store {
	return &instrumented{next: s, backend: string(backend)}
}

type instrumented struct {
	next    Store
	backend string
}

func (s *instrumented) report(ctx context.Context, op string, start time.Time, err error) {
	observability.Store().OnStoreOp(ctx, s.backend, op, time.Since(start), err)
}

func (s *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	v, ok, err := s.next.Get(ctx, key)
	s.report(ctx, "get", start, err)
	return v, ok, err
}

func (s *instrumented) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := s.next.Set(ctx, key, value)
	s.report(ctx, "set", start, err)
	return err
}

func (s *instrumented) GetAll(ctx context.Context) ([]grid.Tile, error) {
	start := time.Now()
	tiles, err := s.next.GetAll(ctx)
	s.report(ctx, "get-all", start, err)
	return tiles, err
}

func (s *instrumented) Add(ctx context.Context, t grid.Tile) error {
	start := time.Now()
	err := s.next.Add(ctx, t)
	s.report(ctx, "add", start, err)
	return err
}

func (s *instrumented) Update(ctx context.Context, t grid.Tile) error {
	start := time.Now()
	err := s.next.Update(ctx, t)
	s.report(ctx, "update", start, err)
	return err
}

func (s *instrumented) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := s.next.Delete(ctx, id)
	s.report(ctx, "delete", start, err)
	return err
}

func (s *instrumented) SaveAll(ctx context.Context, tiles []grid.Tile) error {
	start := time.Now()
	err := s.next.SaveAll(ctx, tiles)
	s.report(ctx, "save-all", start, err)
	return err
}

func (s *instrumented) Clear(ctx context.Context) error {
	start := time.Now()
	err := s.next.Clear(ctx)
	s.report(ctx, "clear", start, err)
	return err
}

func (s *instrumented) Close() error { return s.next.Close() }

var _ Store = (*instrumented)(nil)
