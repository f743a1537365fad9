package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for tests and single-process runs. It
// enforces the same transition guards as the Postgres store.
type MemoryStore struct {
	mu   sync.Mutex
	byID map[string]*Job
	ids  []string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]*Job)}
}

func (s *MemoryStore) Create(_ context.Context, job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[job.ID]; ok {
		return fmt.Errorf("job %s already exists", job.ID)
	}
	cp := *job
	s.byID[job.ID] = &cp
	s.ids = append(s.ids, job.ID)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.byID[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	cp := *job
	return &cp, nil
}

func (s *MemoryStore) ListIDs(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, len(s.ids))
	copy(ids, s.ids)
	return ids, nil
}

func (s *MemoryStore) Claim(_ context.Context, id string) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.byID[id]
	if !ok || job.Status != StatusSubmitted {
		return nil, ErrJobAlreadyClaimed
	}
	job.Status = StatusInProgress
	job.UpdatedAt = time.Now().UTC()
	cp := *job
	return &cp, nil
}

func (s *MemoryStore) MarkComplete(_ context.Context, id string) error {
	return s.markTerminal(id, StatusComplete, "")
}

func (s *MemoryStore) MarkFailed(_ context.Context, id, reason string) error {
	return s.markTerminal(id, StatusFailed, reason)
}

func (s *MemoryStore) markTerminal(id string, status Status, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.byID[id]
	if !ok {
		return ErrJobNotFound
	}
	if job.Status != StatusInProgress {
		return fmt.Errorf("job %s is %s, not IN_PROGRESS", id, job.Status)
	}
	job.Status = status
	job.Error = reason
	job.UpdatedAt = time.Now().UTC()
	return nil
}

// MemoryResults is an in-memory ResultStore.
type MemoryResults struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryResults creates an empty MemoryResults.
func NewMemoryResults() *MemoryResults {
	return &MemoryResults{data: make(map[string][]byte)}
}

func (s *MemoryResults) Put(_ context.Context, id string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]byte, len(data))
	copy(cp, data)
	s.data[id] = cp
	return nil
}

func (s *MemoryResults) Get(_ context.Context, id string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.data[id]
	if !ok {
		return nil, ErrResultNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

var (
	_ Store       = (*MemoryStore)(nil)
	_ ResultStore = (*MemoryResults)(nil)
)
