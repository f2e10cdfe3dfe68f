package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func newTestCache(t *testing.T, ttl time.Duration) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	r := miniredis.RunT(t)
	cache, err := NewRedisCache(context.Background(), fmt.Sprintf("redis://%s", r.Addr()), ttl)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = cache.Close() })
	return cache, r
}

func TestSetGetJSON(t *testing.T) {
	cache, r := newTestCache(t, 0)
	ctx := context.Background()

	type Test struct {
		Name string
		Age  int
	}
	if err := cache.SetJSON(ctx, "jsontest", Test{Name: "jsontest", Age: 10}); err != nil {
		t.Fatal(err)
	}

	// Confirm the value is stored in the cache as a JSON string
	js, err := r.Get("jsontest")
	if err != nil {
		t.Fatal(err)
	}
	if js != `{"Name":"jsontest","Age":10}` {
		t.Errorf("expected `{\"Name\":\"jsontest\",\"Age\":10}`, got %s", js)
	}

	var got Test
	ok, err := cache.GetJSON(ctx, "jsontest", &got)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected key to be found")
	}
	if got.Name != "jsontest" || got.Age != 10 {
		t.Errorf("expected {jsontest 10}, got %v", got)
	}
}

func TestGetJSONMissing(t *testing.T) {
	cache, _ := newTestCache(t, 0)

	var v map[string]any
	ok, err := cache.GetJSON(context.Background(), "missing", &v)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected missing key to report false")
	}
}

func TestDelete(t *testing.T) {
	cache, r := newTestCache(t, 0)
	ctx := context.Background()

	if err := cache.SetJSON(ctx, "a", 1); err != nil {
		t.Fatal(err)
	}
	if err := cache.Delete(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if r.Exists("a") {
		t.Error("expected key to be deleted")
	}
}

func TestTTL(t *testing.T) {
	cache, r := newTestCache(t, time.Minute)
	ctx := context.Background()

	if err := cache.SetJSON(ctx, "a", 1); err != nil {
		t.Fatal(err)
	}
	if ttl := r.TTL("a"); ttl != time.Minute {
		t.Errorf("expected ttl of one minute, got %v", ttl)
	}

	r.FastForward(2 * time.Minute)

	var v int
	ok, err := cache.GetJSON(ctx, "a", &v)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected key to expire")
	}
}
