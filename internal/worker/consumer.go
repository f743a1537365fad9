package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// setupConsumer configures QoS and starts consuming from the work queue.
func (w *Worker) setupConsumer() (<-chan amqp.Delivery, error) {
	channel := w.rabbitClient.GetChannel()
	if channel == nil {
		return nil, fmt.Errorf("rabbitmq channel is nil")
	}

	// prefetch_count bounds unacknowledged deliveries per consumer so one
	// process cannot starve the others.
	if err := channel.Qos(w.prefetchCount, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	deliveries, err := w.rabbitClient.Consume(w.workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}

	w.logger.Info("Queue consumer started",
		slog.String("consumer_tag", w.workerID),
		slog.Int("prefetch_count", w.prefetchCount),
	)

	return deliveries, nil
}

// startMessageDispatcher reads queue deliveries and hands valid job ids to
// the worker pool. Malformed messages are rejected without requeue.
func (w *Worker) startMessageDispatcher(ctx context.Context, deliveries <-chan amqp.Delivery) {
	w.logger.Info("Message dispatcher started",
		slog.String("worker_id", w.workerID),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Message dispatcher stopped - context canceled")
			return

		case delivery, ok := <-deliveries:
			if !ok {
				w.logger.Warn("Queue delivery channel closed")
				return
			}

			var envelope struct {
				JobID string `json:"job_id"`
			}

			if err := json.Unmarshal(delivery.Body, &envelope); err != nil {
				w.logger.Error("Failed to parse queue message",
					slog.String("error", err.Error()),
					slog.String("body", string(delivery.Body)),
				)
				w.reject(delivery)
				continue
			}

			if _, err := uuid.Parse(envelope.JobID); err != nil {
				w.logger.Error("Queue message carries a malformed job id",
					slog.String("job_id", envelope.JobID),
					slog.String("error", err.Error()),
				)
				w.reject(delivery)
				continue
			}

			msg := &jobMessage{jobID: envelope.JobID, delivery: delivery}

			select {
			case w.jobsChan <- msg:
				w.logger.Debug("Job dispatched to worker pool",
					slog.String("job_id", msg.jobID),
				)
			case <-ctx.Done():
				w.logger.Info("Message dispatcher stopped while dispatching job")
				// Requeue: the job was never claimed, another worker may take it.
				if err := delivery.Nack(false, true); err != nil {
					w.logger.Error("Failed to NACK message on shutdown",
						slog.String("error", err.Error()),
					)
				}
				return
			}
		}
	}
}

// reject discards a delivery that can never be processed.
func (w *Worker) reject(delivery amqp.Delivery) {
	if err := delivery.Nack(false, false); err != nil {
		w.logger.Error("Failed to NACK malformed message",
			slog.String("error", err.Error()),
		)
	}
}
