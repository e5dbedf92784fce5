// Package daystatus caches business-day close flags in Redis in front of
// the database.
package daystatus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sangkips/pos-ledger/internal/config"
	"github.com/sangkips/pos-ledger/internal/domain/repository"
	"github.com/sangkips/pos-ledger/pkg/logger"
	"go.uber.org/zap"
)

const (
	keyPrefix = "pos:day-status:"

	closedValue = "1"
	openValue   = "0"
)

// RedisCache is a read-through DayStatusChecker. Redis failures fall back to
// the source so a cache outage never blocks sales. Read-through fills use
// SETNX, so a value published by a close or reopen is never overwritten by
// a read that started before it.
type RedisCache struct {
	client *redis.Client
	source repository.DayStatusChecker
	ttl    time.Duration
}

var (
	_ repository.DayStatusChecker   = (*RedisCache)(nil)
	_ repository.DayStatusPublisher = (*RedisCache)(nil)
)

// NewClient connects to Redis and pings it within cfg.ConnectTimeout.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// NewRedisCache creates a new day status cache in front of source
func NewRedisCache(client *redis.Client, source repository.DayStatusChecker, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, source: source, ttl: ttl}
}

// IsDayClosed answers from Redis and falls back to the source on a miss.
func (c *RedisCache) IsDayClosed(ctx context.Context, date string) (bool, error) {
	val, err := c.client.Get(ctx, keyPrefix+date).Result()
	switch {
	case err == nil:
		return val == closedValue, nil
	case !errors.Is(err, redis.Nil):
		logger.L().Warn("day status cache read failed",
			zap.String("date", date),
			zap.Error(err),
		)
	}

	closed, err := c.source.IsDayClosed(ctx, date)
	if err != nil {
		return false, err
	}

	if err := c.client.SetNX(ctx, keyPrefix+date, flag(closed), c.ttl).Err(); err != nil {
		logger.L().Warn("day status cache write failed",
			zap.String("date", date),
			zap.Error(err),
		)
	}
	return closed, nil
}

// Publish overwrites the cached flag with a committed status.
func (c *RedisCache) Publish(ctx context.Context, date string, closed bool) error {
	if err := c.client.Set(ctx, keyPrefix+date, flag(closed), c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func flag(closed bool) string {
	if closed {
		return closedValue
	}
	return openValue
}
