package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemorySlidingWindow(t *testing.T) {
	l, err := New(&Config{
		Requests: 3,
		Window:   time.Minute,
		Strategy: "sliding_window",
		Backend:  "memory",
	})
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "k")
		if err != nil || !ok {
			t.Fatalf("request %d should be allowed (err=%v)", i, err)
		}
	}

	if ok, _ := l.Allow(ctx, "k"); ok {
		t.Error("fourth request should be limited")
	}

	// Другой ключ не затронут
	if ok, _ := l.Allow(ctx, "other"); !ok {
		t.Error("unrelated key should be allowed")
	}

	if err := l.Reset(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := l.Allow(ctx, "k"); !ok {
		t.Error("request after reset should be allowed")
	}
}

func TestMemoryTokenBucket(t *testing.T) {
	l, err := New(&Config{
		Requests:  60,
		Window:    time.Minute,
		Strategy:  "token_bucket",
		Backend:   "memory",
		BurstSize: 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	ctx := context.Background()
	if ok, _ := l.Allow(ctx, "k"); !ok {
		t.Error("first request should drain a token")
	}
	if ok, _ := l.Allow(ctx, "k"); !ok {
		t.Error("burst should cover the second request")
	}
	if ok, _ := l.Allow(ctx, "k"); ok {
		t.Error("bucket should be empty")
	}
}

func TestClosedLimiter(t *testing.T) {
	l, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Allow(context.Background(), "k"); err != ErrLimiterClosed {
		t.Errorf("Allow on closed limiter = %v, want ErrLimiterClosed", err)
	}
}

func TestConfigValidation(t *testing.T) {
	if _, err := New(&Config{Requests: 0, Window: time.Minute}); err == nil {
		t.Error("zero requests should fail")
	}
	if _, err := New(&Config{Requests: 1, Window: 0}); err == nil {
		t.Error("zero window should fail")
	}
	if _, err := New(&Config{Requests: 1, Window: time.Minute, Backend: "etcd"}); err == nil {
		t.Error("unknown backend should fail")
	}
}
