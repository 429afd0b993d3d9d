package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Lutefd/currency-converter/internal/model"
	"github.com/redis/go-redis/v9"
)

const DefaultHistoryKey = "conversion_history"

// RedisHistoryRepository stores one JSON encoded record per list element.
type RedisHistoryRepository struct {
	client *redis.Client
	key    string
}

func NewRedisHistoryRepository(addr, password, key string) (*RedisHistoryRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	_, err := client.Ping(context.Background()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	if key == "" {
		key = DefaultHistoryKey
	}

	return &RedisHistoryRepository{client: client, key: key}, nil
}

func (r *RedisHistoryRepository) Append(ctx context.Context, record model.ConversionRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	if err := r.client.RPush(ctx, r.key, payload).Err(); err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}
	return nil
}

func (r *RedisHistoryRepository) List(ctx context.Context, limit int) ([]model.ConversionRecord, error) {
	start := int64(0)
	if limit > 0 {
		start = -int64(limit)
	}
	values, err := r.client.LRange(ctx, r.key, start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	records := make([]model.ConversionRecord, 0, len(values))
	for _, v := range values {
		var record model.ConversionRecord
		if err := json.Unmarshal([]byte(v), &record); err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrHistoryCorrupt, err)
		}
		records = append(records, record)
	}
	return newestFirst(records, limit), nil
}

func (r *RedisHistoryRepository) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (r *RedisHistoryRepository) Close() error {
	return r.client.Close()
}
