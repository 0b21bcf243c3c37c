package ratelimit

import (
	"context"
	"strings"
	"sync"
	"time"
)

// memoryLimiter in-memory лимитер
type memoryLimiter struct {
	mu      sync.Mutex
	cfg     *Config
	strat   string
	windows map[string][]time.Time // sliding_window: отметки запросов
	buckets map[string]*bucket     // token_bucket

	closed bool
	stopCh chan struct{}
	wg     sync.WaitGroup
}

type bucket struct {
	tokens   float64
	lastFill time.Time
}

func newMemoryLimiter(cfg *Config) *memoryLimiter {
	l := &memoryLimiter{
		cfg:     cfg,
		strat:   strings.ToLower(cfg.Strategy),
		windows: make(map[string][]time.Time),
		buckets: make(map[string]*bucket),
		stopCh:  make(chan struct{}),
	}

	cleanup := cfg.CleanupInterval
	if cleanup <= 0 {
		cleanup = 5 * time.Minute
	}
	l.wg.Add(1)
	go l.cleanupLoop(cleanup)

	return l
}

// Allow проверяет лимит для ключа
func (l *memoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return false, ErrLimiterClosed
	}

	now := time.Now()
	if l.strat == "token_bucket" {
		return l.allowToken(key, now), nil
	}
	return l.allowSliding(key, now), nil
}

func (l *memoryLimiter) allowSliding(key string, now time.Time) bool {
	cutoff := now.Add(-l.cfg.Window)

	marks := l.windows[key]
	kept := marks[:0]
	for _, m := range marks {
		if m.After(cutoff) {
			kept = append(kept, m)
		}
	}

	if len(kept) >= l.cfg.Requests {
		l.windows[key] = kept
		return false
	}
	l.windows[key] = append(kept, now)
	return true
}

func (l *memoryLimiter) allowToken(key string, now time.Time) bool {
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(l.cfg.BurstSize), lastFill: now}
		l.buckets[key] = b
	}

	// Пополняем токены
	rate := float64(l.cfg.Requests) / l.cfg.Window.Seconds()
	b.tokens += now.Sub(b.lastFill).Seconds() * rate
	if maxTokens := float64(l.cfg.BurstSize); b.tokens > maxTokens {
		b.tokens = maxTokens
	}
	b.lastFill = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Reset сбрасывает лимит для ключа
func (l *memoryLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrLimiterClosed
	}
	delete(l.windows, key)
	delete(l.buckets, key)
	return nil
}

// Close останавливает фоновую очистку
func (l *memoryLimiter) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	close(l.stopCh)
	l.mu.Unlock()

	l.wg.Wait()
	return nil
}

func (l *memoryLimiter) cleanupLoop(interval time.Duration) {
	defer l.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			l.cleanup()
		}
	}
}

func (l *memoryLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-l.cfg.Window)
	for key, marks := range l.windows {
		kept := marks[:0]
		for _, m := range marks {
			if m.After(cutoff) {
				kept = append(kept, m)
			}
		}
		if len(kept) == 0 {
			delete(l.windows, key)
		} else {
			l.windows[key] = kept
		}
	}

	stale := time.Now().Add(-10 * l.cfg.Window)
	for key, b := range l.buckets {
		if b.lastFill.Before(stale) {
			delete(l.buckets, key)
		}
	}
}
