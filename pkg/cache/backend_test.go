package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// Backend tests run against live servers when configured:
//
//	SGVIZ_TEST_REDIS_ADDR=localhost:6379
//	SGVIZ_TEST_MONGO_URI=mongodb://localhost:27017

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("SGVIZ_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SGVIZ_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisConfig{Addr: addr})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	exerciseCache(t, c)
}

func TestMongoCache(t *testing.T) {
	uri := os.Getenv("SGVIZ_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("SGVIZ_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	c, err := NewMongoCache(ctx, MongoConfig{URI: uri, Database: "sgviz_test"})
	if err != nil {
		t.Fatalf("NewMongoCache: %v", err)
	}
	defer c.Close()

	exerciseCache(t, c)
}

func exerciseCache(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()
	key := "test:" + time.Now().Format(time.RFC3339Nano)

	if _, hit, err := c.Get(ctx, key); hit || err != nil {
		t.Fatalf("Get fresh key: hit=%v err=%v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "payload" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("Get after Delete should miss")
	}
}
