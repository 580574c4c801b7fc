package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/patrickmn/go-cache"
)

// Cache is injected into the components that need it. Values handed to Set
// must be JSON serialisable so every backend can store them.
type Cache interface {
	Set(key string, value interface{}, duration time.Duration)
	Get(key string) (interface{}, bool)
	Delete(key string)
	Flush()
}

type goCache struct {
	internal *cache.Cache
}

// NewCache returns a new in-process Cache with default expiration and cleanup interval
func NewCache(defaultExpiration, cleanupInterval time.Duration) Cache {
	return &goCache{
		internal: cache.New(defaultExpiration, cleanupInterval),
	}
}

func (c *goCache) Set(key string, value interface{}, duration time.Duration) {
	c.internal.Set(key, value, duration)
}

func (c *goCache) Get(key string) (interface{}, bool) {
	return c.internal.Get(key)
}

func (c *goCache) Delete(key string) {
	c.internal.Delete(key)
}

func (c *goCache) Flush() {
	c.internal.Flush()
}

// GetFromCache returns the typed value stored under key. Backends that keep
// raw JSON (redis) are decoded into T.
func GetFromCache[T any](c Cache, key string) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}

	val, found := c.Get(key)
	if !found {
		return zero, false
	}

	switch v := val.(type) {
	case T:
		return v, true
	case []byte:
		var typed T
		if err := json.Unmarshal(v, &typed); err != nil {
			return zero, false
		}
		return typed, true
	default:
		return zero, false
	}
}

// Remember returns the cached value for key or loads, stores and returns it.
// Load errors are never cached.
func Remember[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	if val, found := GetFromCache[T](c, key); found {
		return val, nil
	}

	val, err := load(ctx)
	if err != nil {
		return val, err
	}

	if c != nil {
		c.Set(key, val, ttl)
	}
	return val, nil
}
