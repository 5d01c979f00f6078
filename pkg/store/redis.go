package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/GrayFrost/z-tab/pkg/grid"
)

// RedisConfig configures a Redis store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Prefix is prepended to every key, e.g. "ztab:".
	Prefix string
}

// RedisStore keeps tiles in one hash (id -> JSON) and each setting in its
// own string key. Tiles are returned sorted by id.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, unavailable("connect redis", err)
	}
	return &RedisStore{client: client, prefix: cfg.Prefix}, nil
}

func (s *RedisStore) tilesKey() string             { return s.prefix + "tiles" }
func (s *RedisStore) settingKey(key string) string { return s.prefix + "setting:" + key }

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.settingKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, unavailable("get setting", err)
	}
	return data, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return unavailable("set setting", s.client.Set(ctx, s.settingKey(key), value, 0).Err())
}

func (s *RedisStore) GetAll(ctx context.Context) ([]grid.Tile, error) {
	all, err := s.client.HGetAll(ctx, s.tilesKey()).Result()
	if err != nil {
		return nil, unavailable("list tiles", err)
	}
	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	tiles := make([]grid.Tile, 0, len(ids))
	for _, id := range ids {
		var t grid.Tile
		if err := json.Unmarshal([]byte(all[id]), &t); err != nil {
			return nil, fmt.Errorf("parse tile %q: %w", id, err)
		}
		tiles = append(tiles, t)
	}
	return tiles, nil
}

func (s *RedisStore) Add(ctx context.Context, t grid.Tile) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return unavailable("add tile", s.client.HSet(ctx, s.tilesKey(), t.ID, data).Err())
}

func (s *RedisStore) Update(ctx context.Context, t grid.Tile) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	key := s.tilesKey()
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.HExists(ctx, key, t.ID).Result()
		if err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.HSet(ctx, key, t.ID, data)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return unavailable("update tile", err)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return unavailable("delete tile", s.client.HDel(ctx, s.tilesKey(), id).Err())
}

func (s *RedisStore) SaveAll(ctx context.Context, tiles []grid.Tile) error {
	values := make([]any, 0, 2*len(tiles))
	for _, t := range tiles {
		data, err := json.Marshal(t)
		if err != nil {
			return err
		}
		values = append(values, t.ID, data)
	}
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, s.tilesKey())
		if len(values) > 0 {
			p.HSet(ctx, s.tilesKey(), values...)
		}
		return nil
	})
	return unavailable("save tiles", err)
}

func (s *RedisStore) Clear(ctx context.Context) error {
	keys := []string{s.tilesKey()}
	iter := s.client.Scan(ctx, 0, s.settingKey("*"), 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return unavailable("clear store", err)
	}
	return unavailable("clear store", s.client.Del(ctx, keys...).Err())
}

func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
