package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"api/metrics"

	"github.com/redis/go-redis/v9"
)

// KeyCompetitionList caches the public competition listing
const KeyCompetitionList = "competitions:list"

// defaultTTL bounds staleness if an invalidation is ever missed
const defaultTTL = 5 * time.Minute

var rdb *redis.Client

// Init connects the cache client. An empty address leaves caching disabled;
// every operation then degrades to a no-op miss.
func Init(addr string) {
	if addr == "" {
		return
	}
	rdb = redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Printf("redis unreachable at %s, caching disabled: %v", addr, err)
		rdb = nil
	}
}

// Enabled reports whether a cache backend is configured
func Enabled() bool {
	return rdb != nil
}

// Get loads a cached JSON value into dest, reporting whether it was present
func Get(ctx context.Context, key string, dest interface{}) bool {
	if rdb == nil {
		return false
	}
	raw, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		metrics.CacheMisses.Inc()
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		metrics.CacheMisses.Inc()
		return false
	}
	metrics.CacheHits.Inc()
	return true
}

// Set stores a JSON-encoded value. Failures are logged and swallowed; the
// cache is never the primary error.
func Set(ctx context.Context, key string, value interface{}) {
	if rdb == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := rdb.Set(ctx, key, raw, defaultTTL).Err(); err != nil {
		log.Printf("failed to cache %s: %v", key, err)
	}
}

// Invalidate drops cached keys after a mutation
func Invalidate(ctx context.Context, keys ...string) {
	if rdb == nil {
		return
	}
	if err := rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("failed to invalidate cache: %v", err)
	}
}
