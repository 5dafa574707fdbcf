package saved

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rsilvagit/go-jobboard/internal/model"
)

// DefaultRedisKey matches the key the web client uses in local storage.
const DefaultRedisKey = "jobboard:saved"

// RedisStore keeps the list as one JSON value under Key.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore stores the list under key, or DefaultRedisKey when empty.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

func (r *RedisStore) Load(ctx context.Context) ([]model.SavedJob, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("saved: redis get: %w", err)
	}
	var items []model.SavedJob
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("saved: decoding %s: %w", r.key, err)
	}
	return items, nil
}

func (r *RedisStore) Save(ctx context.Context, items []model.SavedJob) error {
	if items == nil {
		items = []model.SavedJob{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("saved: encoding: %w", err)
	}
	return r.client.Set(ctx, r.key, data, 0).Err()
}
