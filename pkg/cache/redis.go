package cache

import (
	"context"
	"encoding/json"
	"errors"
	"lot-intelligence/pkg/logger"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisCache struct {
	rdb     *redis.Client
	prefix  string
	timeout time.Duration
	log     *logger.Logger
}

// NewRedisCache returns a Cache backed by redis. Values are stored as JSON and
// come back from Get as []byte, which GetFromCache decodes.
func NewRedisCache(rdb *redis.Client, prefix string, timeout time.Duration, log *logger.Logger) Cache {
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	return &redisCache{rdb: rdb, prefix: prefix, timeout: timeout, log: log}
}

func (c *redisCache) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.timeout)
}

func (c *redisCache) Set(key string, value interface{}, duration time.Duration) {
	payload, err := json.Marshal(value)
	if err != nil {
		c.log.Debug("Failed to encode cache entry", logger.StringField("key", key), logger.ErrorField(err))
		return
	}
	ctx, cancel := c.ctx()
	defer cancel()
	if err := c.rdb.Set(ctx, c.prefix+key, payload, duration).Err(); err != nil {
		c.log.Debug("Failed to write cache entry", logger.StringField("key", key), logger.ErrorField(err))
	}
}

func (c *redisCache) Get(key string) (interface{}, bool) {
	ctx, cancel := c.ctx()
	defer cancel()
	val, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Debug("Failed to read cache entry", logger.StringField("key", key), logger.ErrorField(err))
		}
		return nil, false
	}
	return val, true
}

func (c *redisCache) Delete(key string) {
	ctx, cancel := c.ctx()
	defer cancel()
	if err := c.rdb.Del(ctx, c.prefix+key).Err(); err != nil {
		c.log.Debug("Failed to delete cache entry", logger.StringField("key", key), logger.ErrorField(err))
	}
}

// Flush removes only the keys owned by this cache's prefix.
func (c *redisCache) Flush() {
	ctx, cancel := c.ctx()
	defer cancel()

	iter := c.rdb.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			c.log.Debug("Failed to delete cache entry", logger.StringField("key", iter.Val()), logger.ErrorField(err))
		}
	}
	if err := iter.Err(); err != nil {
		c.log.Debug("Failed to scan cache keys", logger.StringField("prefix", c.prefix), logger.ErrorField(err))
	}
}
