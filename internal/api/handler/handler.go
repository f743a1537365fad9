package handler

import (
	"log/slog"

	"github.com/avelarq/neo-tracker/internal/catalog"
	"github.com/avelarq/neo-tracker/internal/ingest"
	"github.com/avelarq/neo-tracker/internal/jobs"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger   *slog.Logger
	Manager  *jobs.Manager
	Catalog  catalog.Store
	Ingestor *ingest.Ingestor
}

// JobHandler handles job submission, status and result requests.
type JobHandler struct {
	logger  *slog.Logger
	manager *jobs.Manager
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger:  deps.Logger,
		manager: deps.Manager,
	}
}

// DataHandler handles catalog ingestion and query requests.
type DataHandler struct {
	logger   *slog.Logger
	catalog  catalog.Store
	ingestor *ingest.Ingestor
}

// NewDataHandler creates a new DataHandler instance
func NewDataHandler(deps *Dependencies) *DataHandler {
	return &DataHandler{
		logger:   deps.Logger,
		catalog:  deps.Catalog,
		ingestor: deps.Ingestor,
	}
}
