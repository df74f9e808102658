package dedupe

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupeKeyPrefix = "webhook:event:"

// RedisStore deduplicates across instances. SET NX with a TTL makes the
// check-and-insert a single atomic operation, so two instances receiving the
// same delivery agree on which one is first.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Remember(ctx context.Context, eventID string, retention time.Duration) (bool, error) {
	first, err := s.client.SetNX(ctx, dedupeKeyPrefix+eventID, 1, retention).Result()
	if err != nil {
		return false, fmt.Errorf("failed to reserve event id: %w", err)
	}
	return first, nil
}

func (s *RedisStore) Forget(ctx context.Context, eventID string) error {
	if err := s.client.Del(ctx, dedupeKeyPrefix+eventID).Err(); err != nil {
		return fmt.Errorf("failed to release event id: %w", err)
	}
	return nil
}
