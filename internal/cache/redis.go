// Package cache provides Redis caching utilities for the application.
package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/1willcobb/myfilmfriends-server/internal/observability"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

type metricsHook struct{}

func (h metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (h metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// redisOptions accepts host:port or a redis:// URL.
func redisOptions(addr string) (*redis.Options, error) {
	if strings.Contains(addr, "://") {
		return redis.ParseURL(addr)
	}
	if addr == "" {
		return nil, errors.New("empty redis address")
	}
	return &redis.Options{Addr: addr}, nil
}

// InitRedis connects to addr. On failure the package client stays nil and
// callers run without Redis.
func InitRedis(addr string) *redis.Client {
	client = nil
	opts, err := redisOptions(addr)
	if err != nil {
		observability.Logger.Warn("invalid REDIS_URL, continuing without redis", "error", err)
		return nil
	}

	c := redis.NewClient(opts)
	c.AddHook(metricsHook{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		observability.Logger.Warn("redis unavailable, continuing without redis", "addr", opts.Addr, "error", err)
		_ = c.Close()
		return nil
	}

	observability.Logger.Info("redis connected", "addr", opts.Addr, "db", opts.DB)
	client = c
	return c
}

// SetClient replaces the package client. Passing nil disables caching.
func SetClient(c *redis.Client) {
	client = c
}

// GetClient returns the current Redis client instance.
func GetClient() *redis.Client {
	return client
}
