package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Стандартные ошибки
var (
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrLimiterClosed     = errors.New("limiter is closed")
)

// Limiter интерфейс ограничителя запросов
type Limiter interface {
	// Allow проверяет, разрешён ли запрос
	Allow(ctx context.Context, key string) (bool, error)

	// Reset сбрасывает лимит для ключа
	Reset(ctx context.Context, key string) error

	// Close закрывает лимитер
	Close() error
}

// Config конфигурация rate limiter
type Config struct {
	// Requests количество запросов в окне
	Requests int `koanf:"requests"`

	// Window временное окно
	Window time.Duration `koanf:"window"`

	// Strategy стратегия (sliding_window, token_bucket)
	Strategy string `koanf:"strategy"`

	// Backend хранилище (memory, redis)
	Backend string `koanf:"backend"`

	// BurstSize размер burst для token bucket
	BurstSize int `koanf:"burst_size"`

	// CleanupInterval интервал очистки для in-memory
	CleanupInterval time.Duration `koanf:"cleanup_interval"`

	// Redis настройки Redis
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		Requests:        100,
		Window:          time.Minute,
		Strategy:        "sliding_window",
		Backend:         "memory",
		BurstSize:       10,
		CleanupInterval: 5 * time.Minute,
	}
}

func (c *Config) validate() error {
	if c.Requests <= 0 {
		return fmt.Errorf("requests must be positive, got %d", c.Requests)
	}
	if c.Window <= 0 {
		return fmt.Errorf("window must be positive, got %s", c.Window)
	}
	return nil
}

// New создаёт лимитер по конфигурации
func New(cfg *Config) (Limiter, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	switch strings.ToLower(cfg.Backend) {
	case "", "memory":
		return newMemoryLimiter(cfg), nil
	case "redis":
		return newRedisLimiter(cfg)
	default:
		return nil, fmt.Errorf("unknown rate limit backend %q", cfg.Backend)
	}
}

// KeyExtractor извлекает ключ лимита из запроса
type KeyExtractor func(ctx context.Context, fullMethod string, md map[string]string) string

// DefaultKeyExtractor лимитирует по методу и адресу клиента
func DefaultKeyExtractor(_ context.Context, fullMethod string, md map[string]string) string {
	peer := md["x-forwarded-for"]
	if peer == "" {
		peer = "unknown"
	}
	return peer + ":" + fullMethod
}
