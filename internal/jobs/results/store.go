// Package results stores job output artifacts as Redis blobs keyed by job id.
package results

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/avelarq/neo-tracker/internal/jobs"
)

// Store implements jobs.ResultStore on Redis. The caller owns the Redis
// client lifecycle.
type Store struct {
	client redis.Cmdable
}

var _ jobs.ResultStore = (*Store)(nil)

// NewStore creates a Redis-backed result store.
func NewStore(client redis.Cmdable) *Store {
	return &Store{client: client}
}

// Put stores the artifact bytes under the job id.
func (s *Store) Put(ctx context.Context, id string, data []byte) error {
	if err := s.client.Set(ctx, id, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store result for job %s: %w", id, err)
	}
	return nil
}

// Get fetches the artifact bytes for the job id, or jobs.ErrResultNotFound.
func (s *Store) Get(ctx context.Context, id string) ([]byte, error) {
	data, err := s.client.Get(ctx, id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, jobs.ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to fetch result for job %s: %w", id, err)
	}
	return data, nil
}
