// Package redis builds the shared go-redis client used by the rate
// limiter.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"caseline/internal/platform/config"
)

// New connects a client from cfg and verifies it with a ping. An empty
// URL means Redis is not configured and returns (nil, nil); callers
// fall back to in-process counterparts.
func New(cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
