package question

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = 10 * time.Minute

// KeyCache stores answer keys so scoring doesn't hit Postgres on every submit.
type KeyCache interface {
	Get(ctx context.Context, quizID uuid.UUID) (AnswerKey, error)
	Set(ctx context.Context, quizID uuid.UUID, key AnswerKey) error
	Invalidate(ctx context.Context, quizID uuid.UUID) error
}

// Cache is the Redis KeyCache.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ KeyCache = (*Cache)(nil)

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) key(quizID uuid.UUID) string {
	return "quiz:" + quizID.String() + ":answer_key"
}

// Get returns nil, nil on a miss.
func (c *Cache) Get(ctx context.Context, quizID uuid.UUID) (AnswerKey, error) {
	data, err := c.client.Get(ctx, c.key(quizID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var key AnswerKey
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, err
	}
	return key, nil
}

func (c *Cache) Set(ctx context.Context, quizID uuid.UUID, key AnswerKey) error {
	data, err := json.Marshal(key)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(quizID), data, c.ttl).Err()
}

func (c *Cache) Invalidate(ctx context.Context, quizID uuid.UUID) error {
	return c.client.Del(ctx, c.key(quizID)).Err()
}
