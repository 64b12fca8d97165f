package exam

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultStatusTTL = 2 * time.Second

// StatusCache holds polling views briefly so lobby polls stay off Postgres.
type StatusCache interface {
	Get(ctx context.Context, ref string) (*StatusView, error)
	Set(ctx context.Context, ref string, view StatusView) error
	Delete(ctx context.Context, refs ...string) error
}

// RedisStatusCache is the Redis StatusCache.
type RedisStatusCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ StatusCache = (*RedisStatusCache)(nil)

func NewRedisStatusCache(client *redis.Client, ttl time.Duration) *RedisStatusCache {
	if ttl <= 0 {
		ttl = defaultStatusTTL
	}
	return &RedisStatusCache{client: client, ttl: ttl}
}

func statusKey(ref string) string {
	return "exam:status:" + strings.ToUpper(strings.TrimSpace(ref))
}

// Get returns nil, nil on a miss.
func (c *RedisStatusCache) Get(ctx context.Context, ref string) (*StatusView, error) {
	data, err := c.client.Get(ctx, statusKey(ref)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var view StatusView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *RedisStatusCache) Set(ctx context.Context, ref string, view StatusView) error {
	data, err := json.Marshal(view)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statusKey(ref), data, c.ttl).Err()
}

func (c *RedisStatusCache) Delete(ctx context.Context, refs ...string) error {
	if len(refs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(refs))
	for _, ref := range refs {
		keys = append(keys, statusKey(ref))
	}
	return c.client.Del(ctx, keys...).Err()
}
