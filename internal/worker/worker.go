// Package worker consumes the work queue and drives jobs to a terminal
// state. Concurrency comes from a pool of goroutines competing for queue
// deliveries; the claim guard in the job store arbitrates ownership, so
// multiple worker processes can run side by side.
package worker

import (
	"context"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/avelarq/neo-tracker/internal/catalog"
	"github.com/avelarq/neo-tracker/internal/jobs"
	"github.com/avelarq/neo-tracker/shared/rabbitmq"
)

// Config holds worker configuration and injected collaborators.
type Config struct {
	Logger        *slog.Logger
	JobStore      jobs.Store
	Results       jobs.ResultStore
	Catalog       catalog.Store
	RabbitClient  *rabbitmq.Client
	Renderer      Renderer
	WorkerID      string
	Concurrency   int
	PrefetchCount int
}

// Worker is the background job worker.
type Worker struct {
	logger        *slog.Logger
	store         jobs.Store
	results       jobs.ResultStore
	catalog       catalog.Store
	rabbitClient  *rabbitmq.Client
	renderer      Renderer
	workerID      string
	concurrency   int
	prefetchCount int

	jobsChan chan *jobMessage
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// jobMessage pairs a job id with the queue delivery it arrived on.
type jobMessage struct {
	jobID    string
	delivery amqp.Delivery
}

// NewWorker creates a new worker instance.
func NewWorker(cfg *Config) *Worker {
	renderer := cfg.Renderer
	if renderer == nil {
		renderer = PlotRenderer{}
	}

	return &Worker{
		logger:        cfg.Logger,
		store:         cfg.JobStore,
		results:       cfg.Results,
		catalog:       cfg.Catalog,
		rabbitClient:  cfg.RabbitClient,
		renderer:      renderer,
		workerID:      cfg.WorkerID,
		concurrency:   cfg.Concurrency,
		prefetchCount: cfg.PrefetchCount,
		jobsChan:      make(chan *jobMessage),
		stopChan:      make(chan struct{}),
	}
}

// Start subscribes to the work queue, spawns the pool and blocks dispatching
// deliveries until the context is canceled or the delivery channel closes.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
	)

	deliveries, err := w.setupConsumer()
	if err != nil {
		return err
	}

	w.spawnWorkerPool(ctx)
	w.startMessageDispatcher(ctx, deliveries)

	return nil
}

// Stop gracefully stops the worker pool. In-flight jobs run to completion;
// a worker never abandons a job mid-task.
func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("Worker stopped")
}
