// Package httpcache is a Redis-backed cache for full compliance-check
// HTTP responses, keyed by the normalized request body. It is entirely
// separate from the resolver's in-process ingredient cache: that one
// memoizes external-API lookups per ingredient, this one stores whole
// responses per request. cmd/server opens and closes a Cache, but the
// compliance handlers do not read from or write to it.
package httpcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache wraps a Redis client for storing and retrieving serialized
// verdict responses. A nil *Cache (Redis not configured) is safe to
// call: every method becomes a no-op miss.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// New connects to addr and pings it once to fail fast on misconfigured
// deployments. If addr is empty, caching is disabled and New returns a
// nil *Cache with no error, letting callers treat "no Redis" the same
// way as "Redis up but empty".
func New(addr string, ttl time.Duration, log *zap.Logger) (*Cache, error) {
	if addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 0})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("httpcache: connect to redis: %w", err)
	}
	return &Cache{client: client, ttl: ttl, log: log}, nil
}

// Key derives a cache key from an arbitrary request payload, so callers
// don't need to agree on a key format beyond "marshal the request".
func Key(prefix string, payload interface{}) string {
	data, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:])[:32])
}

// Get looks up key and unmarshals the cached JSON into dest. It
// reports whether a usable entry was found.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.client == nil || key == "" {
		return false
	}
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		if c.log != nil {
			c.log.Warn("httpcache get failed", zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		if c.log != nil {
			c.log.Warn("httpcache unmarshal failed", zap.Error(err))
		}
		return false
	}
	return true
}

// Set stores value under key with the cache's configured TTL. Errors
// are logged, not returned: a failed cache write should never fail the
// request it was asked to speed up.
func (c *Cache) Set(ctx context.Context, key string, value interface{}) {
	if c == nil || c.client == nil || key == "" {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil && c.log != nil {
		c.log.Warn("httpcache set failed", zap.Error(err))
	}
}

// Close releases the underlying Redis connection pool.
func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
