package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisLimiter лимитер на Redis (sliding window поверх sorted set)
type redisLimiter struct {
	client *redis.Client
	cfg    *Config
}

func newRedisLimiter(cfg *Config) (*redisLimiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &redisLimiter{client: client, cfg: cfg}, nil
}

func (l *redisLimiter) redisKey(key string) string {
	return "ratelimit:" + key
}

// Allow проверяет лимит для ключа
func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := time.Now()
	rkey := l.redisKey(key)
	cutoff := now.Add(-l.cfg.Window)

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, rkey, "0", fmt.Sprintf("%d", cutoff.UnixNano()))
	count := pipe.ZCard(ctx, rkey)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	if count.Val() >= int64(l.cfg.Requests) {
		return false, nil
	}

	pipe = l.client.TxPipeline()
	pipe.ZAdd(ctx, rkey, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: now.UnixNano(),
	})
	pipe.Expire(ctx, rkey, l.cfg.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return true, nil
}

// Reset сбрасывает лимит для ключа
func (l *redisLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.redisKey(key)).Err()
}

// Close закрывает соединение с Redis
func (l *redisLimiter) Close() error {
	return l.client.Close()
}
