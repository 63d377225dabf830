// Package convo is the durable per-phone dialog state store. Writes are
// last-write-wins and non-transactional: losing a turn is survivable because
// the agent re-reads state every turn and the slot service, not this cache,
// is the source of booking truth.
package convo

import (
	"context"
	"encoding/json"
	"time"

	"bookwala/models"

	"github.com/go-redis/redis/v8"
)

const convoPrefix = "convo:"

// Store reads and writes conversation state keyed by phone alone.
type Store interface {
	// Get returns the conversation for a phone, or a fresh zero-state one.
	Get(ctx context.Context, phone string) (*models.Conversation, error)
	// Save persists the full conversation. Conversations are never expired.
	Save(ctx context.Context, c *models.Conversation) error
}

// RedisStore keeps conversations as JSON blobs with no TTL.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, phone string) (*models.Conversation, error) {
	data, err := s.client.Get(ctx, convoPrefix+phone).Result()
	if err == redis.Nil {
		return &models.Conversation{Phone: phone, StateLabel: "greeting"}, nil
	}
	if err != nil {
		return nil, err
	}
	var c models.Conversation
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *RedisStore) Save(ctx context.Context, c *models.Conversation) error {
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = time.Now()
	}
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, convoPrefix+c.Phone, b, 0).Err()
}
