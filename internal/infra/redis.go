// README: Redis client initialization for the shared report cache.
package infra

import "github.com/redis/go-redis/v9"

// NewRedis returns nil when addr is empty so callers can treat the cache as disabled.
func NewRedis(addr string) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: addr})
}
