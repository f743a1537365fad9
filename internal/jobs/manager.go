package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Manager owns job submission and read-side lookups. Status transitions after
// submission belong to the worker; the manager only ever writes SUBMITTED
// records.
type Manager struct {
	store   Store
	queue   Queue
	results ResultStore
	logger  *slog.Logger
}

// NewManager creates a Manager with its stores and queue injected.
func NewManager(store Store, queue Queue, results ResultStore, logger *slog.Logger) *Manager {
	return &Manager{
		store:   store,
		queue:   queue,
		results: results,
		logger:  logger,
	}
}

// Submit validates the parameters, persists a SUBMITTED record and enqueues
// the job id. On validation failure nothing is created or queued. A crash
// between the record write and the enqueue can orphan a SUBMITTED job; that
// gap is accepted here and left to operational cleanup.
func (m *Manager) Submit(ctx context.Context, start, end, kind string) (*Job, error) {
	k, err := ValidateParams(start, end, kind)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job := &Job{
		ID:        uuid.New().String(),
		Status:    StatusSubmitted,
		Start:     start,
		End:       end,
		Kind:      k,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := m.store.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job record: %w", err)
	}

	if err := m.queue.Enqueue(ctx, job.ID); err != nil {
		m.logger.Error("Job record created but enqueue failed",
			slog.String("job_id", job.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to enqueue job %s: %w", job.ID, err)
	}

	m.logger.Info("Job submitted",
		slog.String("job_id", job.ID),
		slog.String("kind", string(job.Kind)),
		slog.String("start", job.Start),
		slog.String("end", job.End),
	)

	return job, nil
}

// Get returns the job record for id, or ErrJobNotFound.
func (m *Manager) Get(ctx context.Context, id string) (*Job, error) {
	return m.store.Get(ctx, id)
}

// ListIDs enumerates all known job ids.
func (m *Manager) ListIDs(ctx context.Context) ([]string, error) {
	return m.store.ListIDs(ctx)
}

// Result returns the stored artifact for a completed job. It returns
// ErrJobNotFound for an unknown id and ErrResultNotReady while the job is in
// a non-COMPLETE state.
func (m *Manager) Result(ctx context.Context, id string) ([]byte, error) {
	job, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if job.Status != StatusComplete {
		return nil, fmt.Errorf("%w: status is %s", ErrResultNotReady, job.Status)
	}

	return m.results.Get(ctx, id)
}
