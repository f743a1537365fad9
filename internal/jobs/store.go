package jobs

import (
	"context"
	"errors"
)

var (
	// ErrJobNotFound is returned when a job id is unknown to the record store.
	ErrJobNotFound = errors.New("job not found")

	// ErrJobAlreadyClaimed is returned when a claim races with another worker
	// or targets a job that is no longer SUBMITTED.
	ErrJobAlreadyClaimed = errors.New("job already claimed or not in SUBMITTED status")

	// ErrResultNotFound is returned when no result exists for a job id.
	ErrResultNotFound = errors.New("result not found")

	// ErrResultNotReady is returned when a result is requested for a job that
	// has not reached COMPLETE.
	ErrResultNotReady = errors.New("job has not completed")

	// ErrNoUsableData is returned by the task body when zero catalog records
	// survive filtering.
	ErrNoUsableData = errors.New("no usable records in date range")

	// ErrUnknownKind is returned by the task body for a job kind it cannot
	// render.
	ErrUnknownKind = errors.New("unknown job kind")
)

// Store persists job records. Claim and the Mark methods must be atomic per
// key so that concurrent workers never regress a status: Claim succeeds for
// exactly one caller per job, and terminal writes apply only to jobs that
// are IN_PROGRESS.
type Store interface {
	Create(ctx context.Context, job *Job) error
	Get(ctx context.Context, id string) (*Job, error)
	ListIDs(ctx context.Context) ([]string, error)

	// Claim transitions SUBMITTED -> IN_PROGRESS and returns the claimed job,
	// or ErrJobAlreadyClaimed if the job is not SUBMITTED.
	Claim(ctx context.Context, id string) (*Job, error)

	// MarkComplete transitions IN_PROGRESS -> COMPLETE.
	MarkComplete(ctx context.Context, id string) error

	// MarkFailed transitions IN_PROGRESS -> FAILED and records the reason.
	MarkFailed(ctx context.Context, id, reason string) error
}

// Queue delivers job ids from submitters to workers in FIFO order,
// at-most-once per entry.
type Queue interface {
	Enqueue(ctx context.Context, id string) error
}

// ResultStore is a keyed blob store for job output artifacts. A result is
// written exactly once, by the worker that completed the job.
type ResultStore interface {
	Put(ctx context.Context, id string, data []byte) error
	Get(ctx context.Context, id string) ([]byte, error)
}
