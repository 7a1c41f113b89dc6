package scheduler

import (
	"context"
	"encoding/json"

	"showcase-service/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const deadlineHashKey = "showcase:deadlines"

// RedisStore keeps pending deadlines in a single hash keyed by deadline id.
// HDEL's removed-count doubles as the atomic "was it still pending" answer.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, d Deadline) error {
	data, err := json.Marshal(d)
	if err != nil {
		return errs.Wrap(err, "failed to marshal deadline")
	}
	if err := s.client.HSet(ctx, deadlineHashKey, d.ID.String(), data).Err(); err != nil {
		return errs.Wrap(err, "failed to store deadline")
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, id uuid.UUID) (bool, error) {
	removed, err := s.client.HDel(ctx, deadlineHashKey, id.String()).Result()
	if err != nil {
		return false, errs.Wrap(err, "failed to remove deadline")
	}
	return removed > 0, nil
}

func (s *RedisStore) List(ctx context.Context) ([]Deadline, error) {
	entries, err := s.client.HGetAll(ctx, deadlineHashKey).Result()
	if err != nil {
		return nil, errs.Wrap(err, "failed to list deadlines")
	}
	deadlines := make([]Deadline, 0, len(entries))
	for _, raw := range entries {
		var d Deadline
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			return nil, errs.Wrap(err, "failed to unmarshal stored deadline")
		}
		deadlines = append(deadlines, d)
	}
	return deadlines, nil
}
