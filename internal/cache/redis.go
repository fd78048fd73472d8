package cache

import (
	"context"
	"errors"
	"time"

	gocache "github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Redis is a Store shared between processes through Redis
type Redis struct {
	cache  *gocache.Cache[string]
	prefix string
}

// NewRedis creates a Redis-backed store whose entries expire after ttl
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(ttl))

	return &Redis{
		cache:  gocache.New[string](redisStore),
		prefix: "subwayboard:",
	}
}

// Get returns the cached bytes for key. Misses and Redis errors both report
// false so callers fall through to the origin.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := r.cache.Get(ctx, r.prefix+key)
	if err != nil {
		if !errors.Is(err, store.NotFound{}) {
			log.Warn().Err(err).Str("key", key).Msg("Redis cache read failed")
		}
		return nil, false
	}
	return []byte(value), true
}

// Set stores value under key
func (r *Redis) Set(ctx context.Context, key string, value []byte) {
	if err := r.cache.Set(ctx, r.prefix+key, string(value)); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Redis cache write failed")
	}
}
