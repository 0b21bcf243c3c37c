package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache(nil)
	defer c.Close()
	ctx := context.Background()

	if _, err := c.Get(ctx, "missing"); err != ErrKeyNotFound {
		t.Errorf("Get(missing) = %v, want ErrKeyNotFound", err)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("Get(k) = %q, %v", got, err)
	}

	// Возвращаемая копия не должна алиасить хранимое значение
	got[0] = 'x'
	again, _ := c.Get(ctx, "k")
	if string(again) != "v" {
		t.Error("stored value was mutated through the returned slice")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(nil)
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := c.Get(ctx, "k"); err != ErrKeyNotFound {
		t.Errorf("expired key Get = %v, want ErrKeyNotFound", err)
	}
}

func TestMemoryCacheEviction(t *testing.T) {
	c := NewMemoryCache(&Options{Backend: BackendMemory, DefaultTTL: time.Minute, MaxEntries: 2})
	defer c.Close()
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"), 0)
	time.Sleep(time.Millisecond)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	time.Sleep(time.Millisecond)
	_ = c.Set(ctx, "c", []byte("3"), 0) // выселяет "a"

	if _, err := c.Get(ctx, "a"); err != ErrKeyNotFound {
		t.Error("oldest entry should have been evicted")
	}
	if _, err := c.Get(ctx, "c"); err != nil {
		t.Error("newest entry should survive")
	}
}

func TestMemoryCacheClosed(t *testing.T) {
	c := NewMemoryCache(nil)
	_ = c.Close()
	if err := c.Set(context.Background(), "k", nil, 0); err != ErrCacheClosed {
		t.Errorf("Set on closed cache = %v, want ErrCacheClosed", err)
	}
}

func TestNewUnknownBackend(t *testing.T) {
	if _, err := New(&Options{Backend: "memcached"}); err == nil {
		t.Error("unknown backend should fail")
	}
}
