package symbol

import (
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
)

// NewCache builds the property cache. rdb is optional; without it values
// only live in the in-process TinyLFU.
func NewCache(size int, ttl time.Duration, rdb *redis.Client) *cache.Cache {
	opts := &cache.Options{
		LocalCache: cache.NewTinyLFU(size, ttl),
	}
	if rdb != nil {
		opts.Redis = rdb
	}
	return cache.New(opts)
}

// NewRedisClient returns nil when addr is empty.
func NewRedisClient(addr string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
}
