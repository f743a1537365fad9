// Package rabbit adapts the shared RabbitMQ client to the job queue
// abstraction. Messages are JSON envelopes carrying a single job id.
package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/avelarq/neo-tracker/internal/jobs"
	"github.com/avelarq/neo-tracker/shared/rabbitmq"
)

// Envelope is the wire format of a queue entry.
type Envelope struct {
	JobID string `json:"job_id"`
}

// Queue publishes job ids to the durable work queue.
type Queue struct {
	client *rabbitmq.Client
	logger *slog.Logger
}

var _ jobs.Queue = (*Queue)(nil)

// NewQueue creates a Queue backed by an established RabbitMQ client.
func NewQueue(client *rabbitmq.Client, logger *slog.Logger) *Queue {
	return &Queue{
		client: client,
		logger: logger,
	}
}

// Enqueue appends a job id to the work queue as a persistent message.
func (q *Queue) Enqueue(ctx context.Context, id string) error {
	body, err := json.Marshal(Envelope{JobID: id})
	if err != nil {
		return fmt.Errorf("failed to marshal queue envelope: %w", err)
	}

	if err := q.client.PublishWithRetry(ctx, body, "application/json"); err != nil {
		return fmt.Errorf("failed to publish job id: %w", err)
	}

	q.logger.Debug("Job id enqueued",
		slog.String("job_id", id),
	)

	return nil
}
