package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// exerciseBackend runs the Cache contract against a live backend.
func exerciseBackend(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()
	key := "flowlayout-test:" + Hash([]byte(t.Name()+time.Now().String()))

	if _, hit, err := c.Get(ctx, key); err != nil || hit {
		t.Fatalf("fresh key: hit=%v err=%v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "payload" {
		t.Fatalf("Get = (%q, %v, %v)", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("deleted key should miss")
	}
}

func TestRedisCache(t *testing.T) {
	url := os.Getenv("FLOWLAYOUT_REDIS_URL")
	if url == "" {
		t.Skip("FLOWLAYOUT_REDIS_URL not set")
	}
	c, err := NewRedisCache(context.Background(), url)
	if err != nil {
		t.Fatalf("NewRedisCache error: %v", err)
	}
	defer c.Close()
	exerciseBackend(t, c)
}

func TestMongoCache(t *testing.T) {
	uri := os.Getenv("FLOWLAYOUT_MONGO_URI")
	if uri == "" {
		t.Skip("FLOWLAYOUT_MONGO_URI not set")
	}
	c, err := NewMongoCache(context.Background(), uri, "", "cache_test")
	if err != nil {
		t.Fatalf("NewMongoCache error: %v", err)
	}
	defer c.Close()
	exerciseBackend(t, c)
}

func TestRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "://nope"); err == nil {
		t.Error("NewRedisCache should reject a malformed URL")
	}
}
