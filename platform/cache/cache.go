// Package cache provides a two-level cache: an in-process ccache layer in
// front of an optional shared Redis layer.
// This is part of the platform layer and contains no business logic.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"propscout_backend/platform/config"
	"propscout_backend/platform/logger"

	"github.com/karlseguin/ccache/v3"
	"github.com/redis/go-redis/v9"
)

const (
	defaultLocalSize = 5000
	localTTLCap      = 5 * time.Minute
)

// Cache stores JSON-serialisable values of type T under string keys.
type Cache[T any] struct {
	prefix string
	local  *ccache.Cache[T]
	remote redis.UniversalClient
	log    *logger.Logger
}

// New creates a cache namespaced by prefix. remote may be nil, in which case
// only the in-process layer is used.
func New[T any](prefix string, remote redis.UniversalClient, log *logger.Logger) *Cache[T] {
	return &Cache[T]{
		prefix: prefix,
		local:  ccache.New(ccache.Configure[T]().MaxSize(defaultLocalSize)),
		remote: remote,
		log:    log,
	}
}

// Get returns the cached value, checking the local layer first.
// Remote hits are copied into the local layer.
func (c *Cache[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T
	if item := c.local.Get(key); item != nil && !item.Expired() {
		return item.Value(), true
	}
	if c.remote == nil {
		return zero, false
	}

	raw, err := c.remote.Get(ctx, c.remoteKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.UpstreamError("redis", "get", err)
		}
		return zero, false
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		c.log.Warn("cache entry undecodable", "key", key, "error", err)
		return zero, false
	}

	ttl, err := c.remote.TTL(ctx, c.remoteKey(key)).Result()
	if err != nil || ttl <= 0 {
		ttl = localTTLCap
	}
	c.local.Set(key, value, minDuration(ttl, localTTLCap))
	return value, true
}

// Set stores value in both layers. Remote failures are logged and swallowed.
func (c *Cache[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) {
	c.local.Set(key, value, minDuration(ttl, localTTLCap))
	if c.remote == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("cache entry unencodable", "key", key, "error", err)
		return
	}
	if err := c.remote.Set(ctx, c.remoteKey(key), raw, ttl).Err(); err != nil {
		c.log.UpstreamError("redis", "set", err)
	}
}

// Delete removes key from both layers.
func (c *Cache[T]) Delete(ctx context.Context, key string) {
	c.local.Delete(key)
	if c.remote == nil {
		return
	}
	if err := c.remote.Del(ctx, c.remoteKey(key)).Err(); err != nil {
		c.log.UpstreamError("redis", "del", err)
	}
}

// Clear drops the local layer. Remote entries expire on their own.
func (c *Cache[T]) Clear() {
	c.local.Clear()
}

// Close stops the local layer's background worker.
func (c *Cache[T]) Close() {
	c.local.Stop()
}

func (c *Cache[T]) remoteKey(key string) string {
	return c.prefix + ":" + key
}

// NewRedisClient builds a Redis client from configuration and verifies it.
// Returns nil, nil when Redis is not configured.
func NewRedisClient(ctx context.Context, cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.IsRedisEnabled() {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
