package catalog

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrRecordNotFound is returned when a key is unknown to the catalog.
var ErrRecordNotFound = errors.New("catalog record not found")

// Store is the keyed catalog abstraction. Workers treat it as read-only;
// only ingestion writes to it.
type Store interface {
	Keys(ctx context.Context) ([]string, error)
	Get(ctx context.Context, key string) (*Record, error)
	Put(ctx context.Context, key string, record *Record) error
	Flush(ctx context.Context) error
}

// MemoryStore is an in-memory Store for tests and single-process runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

func (s *MemoryStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.records))
	for k := range s.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[key]
	if !ok {
		return nil, ErrRecordNotFound
	}
	cp := *record
	return &cp, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *record
	s.records[key] = &cp
	return nil
}

func (s *MemoryStore) Flush(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*Record)
	return nil
}
