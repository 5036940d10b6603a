package persist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mishwar/go-mishwar/internal/models"
)

const redisKeyPrefix = "mishwar:"

// RedisAdapter stores each collection as a single JSON string value.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (a *RedisAdapter) Load(ctx context.Context, key string) (map[string]*models.BookingRecord, error) {
	data, err := a.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return map[string]*models.BookingRecord{}, nil
	}
	if err != nil {
		return nil, err
	}

	collection := map[string]*models.BookingRecord{}
	if err := json.Unmarshal(data, &collection); err != nil {
		return nil, fmt.Errorf("corrupt collection %s: %w", key, err)
	}
	return collection, nil
}

func (a *RedisAdapter) Save(ctx context.Context, key string, collection map[string]*models.BookingRecord) error {
	data, err := json.Marshal(collection)
	if err != nil {
		return err
	}
	return a.client.Set(ctx, redisKeyPrefix+key, data, 0).Err()
}
