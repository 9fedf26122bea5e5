package redisStore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/akolanti/docqa/internal/config"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func testStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), DB: 0})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client), mr
}

func TestJSONRoundTrip(t *testing.T) {
	s, mr := testStore(t)
	ctx := context.Background()

	if err := s.SetJSON(ctx, "k", record{Name: "a", Count: 2}, time.Minute); err != nil {
		t.Fatalf("SetJSON failed: %v", err)
	}
	if ttl := mr.TTL("k"); ttl != time.Minute {
		t.Errorf("ttl = %v", ttl)
	}

	var got record
	found, err := s.GetJSON(ctx, "k", &got)
	if err != nil || !found {
		t.Fatalf("GetJSON found=%v err=%v", found, err)
	}
	if got != (record{Name: "a", Count: 2}) {
		t.Errorf("got %+v", got)
	}
}

func TestGetJSON_Missing(t *testing.T) {
	s, _ := testStore(t)
	var got record
	found, err := s.GetJSON(context.Background(), "nothing", &got)
	if err != nil || found {
		t.Fatalf("missing key: found=%v err=%v", found, err)
	}
}

func TestGetJSON_Corrupt(t *testing.T) {
	s, mr := testStore(t)
	_ = mr.Set("bad", "{oops")
	var got record
	if _, err := s.GetJSON(context.Background(), "bad", &got); err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestDel(t *testing.T) {
	s, mr := testStore(t)
	_ = mr.Set("a", "1")

	n, err := s.Del(context.Background(), "a", "b")
	if err != nil || n != 1 {
		t.Fatalf("Del = %d, %v", n, err)
	}
	if mr.Exists("a") {
		t.Error("key still present")
	}
}

func TestClientOptions(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("REDIS_PASSWORD", "")
	opts := clientOptions(config.RedisJobStore)
	if opts.Addr != config.RedisAddr || opts.DB != config.RedisJobStore {
		t.Errorf("defaults not applied: %+v", opts)
	}

	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("REDIS_PASSWORD", "secret")
	opts = clientOptions(3)
	if opts.Addr != "redis:6380" || opts.Password != "secret" || opts.DB != 3 {
		t.Errorf("env not applied: %+v", opts)
	}
}

func TestGetRedisStore_Offline(t *testing.T) {
	t.Setenv("REDIS_ADDR", "127.0.0.1:1")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if s := GetRedisStore(ctx, 15); s != nil {
		t.Fatal("expected nil store when redis is unreachable")
	}
}
