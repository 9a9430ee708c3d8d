package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
)

const defaultTestRedisAddr = "localhost:6379"

// testKeyPrefix namespaces integration-test keys so FlushTestKeys never
// touches anything else living in a shared Redis.
const testKeyPrefix = "chittycharge-test:"

// NewTestRedis returns a Redis client for integration tests, skipping the
// test when no server is reachable.
func NewTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = defaultTestRedisAddr
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		t.Skipf("skipping Redis integration tests: %v", err)
	}

	t.Cleanup(func() {
		FlushTestKeys(t, rdb)
		_ = rdb.Close()
	})

	return rdb
}

// TestKey prefixes a key into the integration-test namespace.
func TestKey(key string) string {
	return testKeyPrefix + key
}

// FlushTestKeys deletes every key in the integration-test namespace.
func FlushTestKeys(t *testing.T, rdb *redis.Client) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Stores prepend their own key prefixes, so match the namespace anywhere
	// in the key.
	keys, err := rdb.Keys(ctx, "*"+testKeyPrefix+"*").Result()
	if err != nil {
		t.Fatalf("list test keys: %v", err)
	}
	if len(keys) == 0 {
		return
	}
	if err := rdb.Del(ctx, keys...).Err(); err != nil {
		t.Fatalf("delete test keys: %v", err)
	}
}
