package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/avelarq/neo-tracker/internal/catalog"
	"github.com/avelarq/neo-tracker/internal/jobs"
)

// processJob drives one job to a terminal state. The IN_PROGRESS write
// happens before any task work; after a successful claim every exit path
// settles the job to COMPLETE or FAILED, so no job is left IN_PROGRESS.
func (w *Worker) processJob(ctx context.Context, msg *jobMessage) error {
	// Once claimed, the job runs to completion even during shutdown: a
	// canceled dispatcher context must not abort the terminal write, or the
	// job would be stranded IN_PROGRESS with its delivery already consumed.
	ctx = context.WithoutCancel(ctx)

	job, err := w.store.Claim(ctx, msg.jobID)
	if err != nil {
		if errors.Is(err, jobs.ErrJobAlreadyClaimed) {
			// Another worker owns this id, or the record never existed.
			w.logger.Warn("Job already claimed, skipping",
				slog.String("job_id", msg.jobID),
			)
			return nil
		}
		return fmt.Errorf("failed to claim job %s: %w", msg.jobID, err)
	}

	artifact, err := w.runTask(ctx, job)
	if err != nil {
		w.fail(ctx, job.ID, err)
		return fmt.Errorf("job %s failed: %w", job.ID, err)
	}

	// Result before status: a COMPLETE job must always have a readable result.
	if err := w.results.Put(ctx, job.ID, artifact); err != nil {
		w.fail(ctx, job.ID, err)
		return fmt.Errorf("failed to store result for job %s: %w", job.ID, err)
	}

	if err := w.store.MarkComplete(ctx, job.ID); err != nil {
		return fmt.Errorf("failed to mark job %s complete: %w", job.ID, err)
	}

	w.logger.Info("Job completed",
		slog.String("job_id", job.ID),
		slog.String("kind", string(job.Kind)),
		slog.Int("artifact_bytes", len(artifact)),
	)

	return nil
}

// runTask executes the job body. Panics inside the task surface as errors so
// the caller's FAILED write still happens.
func (w *Worker) runTask(ctx context.Context, job *jobs.Job) (artifact []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()

	start, err := catalog.ParseDate(job.Start)
	if err != nil {
		return nil, fmt.Errorf("malformed start date: %w", err)
	}
	end, err := catalog.ParseDate(job.End)
	if err != nil {
		return nil, fmt.Errorf("malformed end date: %w", err)
	}

	series, err := w.buildSeries(ctx, start, end)
	if err != nil {
		return nil, err
	}

	w.logger.Info("Series built",
		slog.String("job_id", job.ID),
		slog.Int("records", series.Len()),
	)

	if series.Len() == 0 {
		return nil, jobs.ErrNoUsableData
	}

	return w.renderer.Render(job, series)
}

func (w *Worker) fail(ctx context.Context, id string, cause error) {
	if err := w.store.MarkFailed(ctx, id, cause.Error()); err != nil {
		w.logger.Error("Failed to mark job FAILED",
			slog.String("job_id", id),
			slog.String("error", err.Error()),
		)
	}
}
