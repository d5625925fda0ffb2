// README: Two-level report cache: in-process LRU in front of an optional shared Redis.
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/bluele/gcache"
	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "rideinsight:report:"

// Cache holds finished reports keyed by table fingerprint and query. Failures
// on the shared level are logged and treated as misses.
type Cache struct {
	local  gcache.Cache
	shared *redis.Client
	ttl    time.Duration
}

// NewCache builds the cache; shared may be nil.
func NewCache(size int, ttl time.Duration, shared *redis.Client) *Cache {
	if size <= 0 {
		size = 1
	}
	builder := gcache.New(size).LRU()
	if ttl > 0 {
		builder = builder.Expiration(ttl)
	}
	return &Cache{local: builder.Build(), shared: shared, ttl: ttl}
}

func cacheKey(fingerprint string, id QueryID) string {
	return cacheKeyPrefix + fingerprint + ":" + string(id)
}

func (c *Cache) Get(ctx context.Context, key string) (Report, bool) {
	if v, err := c.local.Get(key); err == nil {
		if r, ok := v.(Report); ok {
			return r, true
		}
	}
	if c.shared == nil {
		return Report{}, false
	}

	data, err := c.shared.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("report cache get %s: %v", key, err)
		}
		return Report{}, false
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		log.Printf("report cache decode %s: %v", key, err)
		return Report{}, false
	}
	_ = c.local.Set(key, r)
	return r, true
}

func (c *Cache) Set(ctx context.Context, key string, r Report) {
	_ = c.local.Set(key, r)
	if c.shared == nil {
		return
	}
	data, err := json.Marshal(r)
	if err != nil {
		log.Printf("report cache encode %s: %v", key, err)
		return
	}
	if err := c.shared.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("report cache set %s: %v", key, err)
	}
}
