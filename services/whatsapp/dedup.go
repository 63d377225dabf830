// File: services/whatsapp/dedup.go
package whatsapp

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const dedupPrefix = "wa:msg:"

// Deduper remembers provider message ids briefly so a redelivered webhook
// produces no second effect.
type Deduper interface {
	// Seen marks the id and reports whether it was already marked.
	Seen(ctx context.Context, messageID string) (bool, error)
	// Forget drops the mark, so the provider's redelivery of a message we
	// failed to hand off gets processed.
	Forget(ctx context.Context, messageID string) error
}

// RedisDeduper is a short-lived SETNX set.
type RedisDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDeduper(client *redis.Client, ttl time.Duration) *RedisDeduper {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &RedisDeduper{client: client, ttl: ttl}
}

func (d *RedisDeduper) Seen(ctx context.Context, messageID string) (bool, error) {
	if messageID == "" {
		return false, nil
	}
	fresh, err := d.client.SetNX(ctx, dedupPrefix+messageID, 1, d.ttl).Result()
	if err != nil {
		return false, err
	}
	return !fresh, nil
}

func (d *RedisDeduper) Forget(ctx context.Context, messageID string) error {
	if messageID == "" {
		return nil
	}
	return d.client.Del(ctx, dedupPrefix+messageID).Err()
}
