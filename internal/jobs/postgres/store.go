// Package postgres implements the job record store on PostgreSQL. Status
// transitions are guarded in SQL so that concurrent workers cannot regress a
// job: a claim applies only to SUBMITTED rows and terminal writes only to
// IN_PROGRESS rows.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/avelarq/neo-tracker/internal/jobs"
)

// Store handles all database operations on the jobs table.
type Store struct {
	db     *sqlx.DB
	logger *slog.Logger
}

var _ jobs.Store = (*Store)(nil)

// NewStore creates a new Store instance.
func NewStore(db *sqlx.DB, logger *slog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
	}
}

type jobRow struct {
	JobID        string         `db:"job_id"`
	Status       string         `db:"status"`
	StartDate    string         `db:"start_date"`
	EndDate      string         `db:"end_date"`
	Kind         string         `db:"kind"`
	ErrorMessage sql.NullString `db:"error_message"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (r *jobRow) toJob() *jobs.Job {
	job := &jobs.Job{
		ID:        r.JobID,
		Status:    jobs.Status(r.Status),
		Start:     r.StartDate,
		End:       r.EndDate,
		Kind:      jobs.Kind(r.Kind),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.ErrorMessage.Valid {
		job.Error = r.ErrorMessage.String
	}
	return job
}

// Create inserts a new job record.
func (s *Store) Create(ctx context.Context, job *jobs.Job) error {
	query := `
		INSERT INTO jobs (
			job_id, status, start_date, end_date, kind, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		job.ID,
		job.Status,
		job.Start,
		job.End,
		job.Kind,
		job.CreatedAt,
		job.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// Get retrieves a job record by its id.
func (s *Store) Get(ctx context.Context, id string) (*jobs.Job, error) {
	query := `
		SELECT job_id, status, start_date, end_date, kind, error_message, created_at, updated_at
		FROM jobs
		WHERE job_id = $1
	`

	var row jobRow
	err := s.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, jobs.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return row.toJob(), nil
}

// ListIDs enumerates all job ids in submission order.
func (s *Store) ListIDs(ctx context.Context) ([]string, error) {
	query := `SELECT job_id FROM jobs ORDER BY created_at, job_id`

	var ids []string
	if err := s.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("failed to list job ids: %w", err)
	}

	return ids, nil
}

// Claim attempts to move a job from SUBMITTED to IN_PROGRESS. The status
// predicate makes the claim atomic across workers: exactly one UPDATE matches.
func (s *Store) Claim(ctx context.Context, id string) (*jobs.Job, error) {
	query := `
		UPDATE jobs
		SET status = $1,
		    updated_at = NOW()
		WHERE job_id = $2
		  AND status = $3
		RETURNING job_id, start_date, end_date, kind, created_at, updated_at
	`

	var row jobRow
	err := s.db.QueryRowContext(ctx, query, jobs.StatusInProgress, id, jobs.StatusSubmitted).Scan(
		&row.JobID,
		&row.StartDate,
		&row.EndDate,
		&row.Kind,
		&row.CreatedAt,
		&row.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("Failed to claim job - already claimed or not found",
				slog.String("job_id", id),
			)
			return nil, jobs.ErrJobAlreadyClaimed
		}
		return nil, fmt.Errorf("failed to claim job: %w", err)
	}

	row.Status = string(jobs.StatusInProgress)
	return row.toJob(), nil
}

// MarkComplete moves a job from IN_PROGRESS to COMPLETE.
func (s *Store) MarkComplete(ctx context.Context, id string) error {
	return s.markTerminal(ctx, id, jobs.StatusComplete, "")
}

// MarkFailed moves a job from IN_PROGRESS to FAILED and records the reason.
func (s *Store) MarkFailed(ctx context.Context, id, reason string) error {
	return s.markTerminal(ctx, id, jobs.StatusFailed, reason)
}

func (s *Store) markTerminal(ctx context.Context, id string, status jobs.Status, reason string) error {
	query := `
		UPDATE jobs
		SET status = $1,
		    error_message = NULLIF($2, ''),
		    completed_at = NOW(),
		    updated_at = NOW()
		WHERE job_id = $3
		  AND status = $4
	`

	result, err := s.db.ExecContext(ctx, query, status, reason, id, jobs.StatusInProgress)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("job %s is not IN_PROGRESS, refusing %s write", id, status)
	}

	s.logger.Info("Job status updated",
		slog.String("job_id", id),
		slog.String("status", string(status)),
	)

	return nil
}
