package cache

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Cache is a JSON read-through store on Redis. Redis failures degrade to
// cache misses; callers always fall back to the database.
type Cache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

// New creates a cache; a nil client yields a cache that never hits.
func New(client *redis.Client, ttl time.Duration, logger *log.Logger) *Cache {
	if ttl < 0 {
		ttl = 0
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Cache{redis: client, ttl: ttl, logger: logger}
}

// Get decodes the value under key into dst and reports whether it was found.
func (c *Cache) Get(ctx context.Context, key string, dst any) bool {
	if c == nil || c.redis == nil {
		return false
	}
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WithError(err).WithField("key", key).Warn("cache read failed")
		}
		return false
	}
	if err := sonic.Unmarshal(data, dst); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("dropping undecodable cache entry")
		_ = c.redis.Del(ctx, key).Err()
		return false
	}
	return true
}

// Set stores v under key with the cache TTL. A zero TTL disables caching.
func (c *Cache) Set(ctx context.Context, key string, v any) {
	if c == nil || c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := sonic.Marshal(v)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Error("cache encode failed")
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("cache write failed")
	}
}

func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if c == nil || c.redis == nil || len(keys) == 0 {
		return
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		c.logger.WithError(err).WithField("keys", keys).Warn("cache delete failed")
	}
}

// InvalidatePattern removes every key matching a glob pattern.
func (c *Cache) InvalidatePattern(ctx context.Context, pattern string) {
	if c == nil || c.redis == nil {
		return
	}
	var keys []string
	iter := c.redis.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.WithError(err).WithField("pattern", pattern).Warn("cache scan failed")
		return
	}
	c.Delete(ctx, keys...)
}

// UserKey names a cached per-user value, e.g. the board list.
func UserKey(userID string, parts ...string) string {
	key := "user:" + userID
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

// BoardKey names a cached board view; parts narrow it, e.g. to one viewer.
func BoardKey(boardID string, parts ...string) string {
	key := "board:" + boardID
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

// BoardPattern matches every key of one board.
func BoardPattern(boardID string) string {
	return "board:" + boardID + "*"
}
