package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on a dedicated Redis database. Records are
// stored as JSON blobs keyed by their close-approach date string. The caller
// owns the Redis client lifecycle.
type RedisStore struct {
	client redis.Cmdable
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a Redis-backed catalog store.
func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

// Keys enumerates every record key in the catalog.
func (s *RedisStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	var cursor uint64

	for {
		batch, next, err := s.client.Scan(ctx, cursor, "*", 500).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan catalog keys: %w", err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	return keys, nil
}

// Get fetches and decodes a single record.
func (s *RedisStore) Get(ctx context.Context, key string) (*Record, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to fetch record %q: %w", key, err)
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode record %q: %w", key, err)
	}

	return &record, nil
}

// Put stores a record as a JSON blob.
func (s *RedisStore) Put(ctx context.Context, key string, record *Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode record %q: %w", key, err)
	}

	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store record %q: %w", key, err)
	}

	return nil
}

// Flush removes every record from the catalog database.
func (s *RedisStore) Flush(ctx context.Context) error {
	if err := s.client.FlushDB(ctx).Err(); err != nil {
		return fmt.Errorf("failed to flush catalog: %w", err)
	}
	return nil
}
