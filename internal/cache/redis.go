package cache

import (
	"context"
	"encoding/json"
	"time"

	"servicedesk-backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

// Analytics keys share this prefix so writes can drop them in one pass.
const AnalyticsPrefix = "analytics:"

// AnalyticsTTL bounds how stale a dashboard number can be.
const AnalyticsTTL = 60 * time.Second

var client *redis.Client

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Init connects to Redis. On failure the client stays nil and every cache
// call below becomes a miss, so the API keeps working off Postgres alone.
func Init(opts Options) error {
	c := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		c.Close()
		client = nil
		return err
	}
	client = c
	return nil
}

// SetClient swaps the package client. Used by tests and shutdown.
func SetClient(c *redis.Client) {
	client = c
}

// GetClient returns the Redis client, or nil when caching is off.
func GetClient() *redis.Client {
	return client
}

// Close releases the connection pool.
func Close() error {
	if client == nil {
		return nil
	}
	err := client.Close()
	client = nil
	return err
}

// GetCached returns cached data for a key
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// GetJSON decodes a cached value into dst. A decode failure counts as a miss.
func GetJSON(ctx context.Context, key string, dst any) bool {
	data, ok := GetCached(ctx, key)
	if !ok {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

// SetJSON encodes v and caches it.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	if client == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	SetCached(ctx, key, data, ttl)
}

// InvalidatePattern removes all keys matching a glob pattern. SCAN keeps
// Redis responsive on large keyspaces.
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}

	var cursor uint64
	for {
		keys, next, err := client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			log := logger.WithComponent("cache")
			log.Warn().Err(err).Str("pattern", pattern).Msg("cache invalidation scan failed")
			return
		}
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		if next == 0 {
			return
		}
		cursor = next
	}
}

// InvalidateAnalytics clears every cached dashboard figure.
// Called when: a company or location is created or deleted, and on every
// payment or journal write. Invoices feed no dashboard figure.
func InvalidateAnalytics(ctx context.Context) {
	InvalidatePattern(ctx, AnalyticsPrefix+"*")
}

// IsHealthy returns true if Redis connection is working
func IsHealthy(ctx context.Context) bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}
