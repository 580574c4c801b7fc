package cache

import (
	"testing"
	"time"

	"lot-intelligence/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedisCache_LogsUnreachableServer(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	c := NewRedisCache(rdb, "test:", 200*time.Millisecond, &logger.Logger{Logger: zap.New(core)})

	c.Set("vin:ABC", []string{"a"}, time.Minute)
	c.Delete("vin:ABC")
	c.Flush()
	_, ok := c.Get("vin:ABC")
	assert.False(t, ok)

	assert.Equal(t, 1, logs.FilterMessage("Failed to write cache entry").Len())
	assert.Equal(t, 1, logs.FilterMessage("Failed to delete cache entry").Len())
	assert.Equal(t, 1, logs.FilterMessage("Failed to scan cache keys").Len())
	assert.Equal(t, 1, logs.FilterMessage("Failed to read cache entry").Len())
}
