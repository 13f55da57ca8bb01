package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ViewCache caches rendered dashboard views keyed by view name and user.
// Mutations call Invalidate for every view they make stale, mirroring how the
// web frontend revalidates its dashboard pages after a write.
type ViewCache interface {
	Get(ctx context.Context, view string, userID int64) (string, bool)
	Set(ctx context.Context, view string, userID int64, payload string)
	Invalidate(ctx context.Context, userID int64, views ...string)
}

// Redis-backed implementation. Entries expire on their own as a safety net;
// explicit invalidation is the primary mechanism.
type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr, password string) ViewCache {
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	return &redisCache{client: c, ttl: 5 * time.Minute}
}

func key(view string, userID int64) string {
	return fmt.Sprintf("view:%s:user:%d", view, userID)
}

func (r *redisCache) Get(ctx context.Context, view string, userID int64) (string, bool) {
	v, err := r.client.Get(ctx, key(view, userID)).Result()
	if err != nil {
		return "", false
	}
	return v, true
}

func (r *redisCache) Set(ctx context.Context, view string, userID int64, payload string) {
	_ = r.client.Set(ctx, key(view, userID), payload, r.ttl).Err()
}

func (r *redisCache) Invalidate(ctx context.Context, userID int64, views ...string) {
	keys := make([]string, 0, len(views))
	for _, v := range views {
		keys = append(keys, key(v, userID))
	}
	if len(keys) > 0 {
		_ = r.client.Del(ctx, keys...).Err()
	}
}

// Noop is used in tests and when no redis address is configured.
type Noop struct{}

func (Noop) Get(context.Context, string, int64) (string, bool) { return "", false }
func (Noop) Set(context.Context, string, int64, string)        {}
func (Noop) Invalidate(context.Context, int64, ...string)      {}
