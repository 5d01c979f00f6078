//go:build integration

package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// These tests need live servers:
//
//	ZTAB_TEST_REDIS_ADDR=localhost:6379 ZTAB_TEST_MONGO_URI=mongodb://localhost:27017 \
//	    go test -tags integration ./pkg/store/

func TestRedisStore_Integration(t *testing.T) {
	addr := os.Getenv("ZTAB_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("ZTAB_TEST_REDIS_ADDR not set")
	}
	runSuite(t, func(t *testing.T) Store {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s, err := NewRedisStore(ctx, RedisConfig{Addr: addr, Prefix: "ztab-test:" + uuid.NewString() + ":"})
		if err != nil {
			t.Fatalf("NewRedisStore() error: %v", err)
		}
		t.Cleanup(func() {
			_ = s.Clear(context.Background())
			_ = s.Close()
		})
		return s
	}, false)
}

func TestMongoStore_Integration(t *testing.T) {
	uri := os.Getenv("ZTAB_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("ZTAB_TEST_MONGO_URI not set")
	}
	runSuite(t, func(t *testing.T) Store {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s, err := NewMongoStore(ctx, uri, "ztab_test_"+uuid.NewString()[:8])
		if err != nil {
			t.Fatalf("NewMongoStore() error: %v", err)
		}
		t.Cleanup(func() {
			_ = s.Clear(context.Background())
			_ = s.Close()
		})
		return s
	}, true)
}
