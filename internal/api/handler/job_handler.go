package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/avelarq/neo-tracker/internal/api/dto"
	"github.com/avelarq/neo-tracker/internal/jobs"
)

// CreateJob handles POST /jobs
// Validates the parameters and submits a new visualization job.
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "start_date, end_date and kind are required",
		})
		return
	}

	job, err := h.manager.Submit(c.Request.Context(), req.StartDate, req.EndDate, req.Kind)
	if err != nil {
		var validationErr *jobs.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": validationErr.Error(),
			})
			return
		}

		h.logger.Error("Failed to submit job", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to submit job",
		})
		return
	}

	c.JSON(http.StatusCreated, job)
}

// GetJob handles GET /jobs/:job_id
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID := c.Param("job_id")

	if _, err := uuid.Parse(jobID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "job_id must be a valid UUID",
		})
		return
	}

	job, err := h.manager.Get(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, jobs.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Job not found",
			})
			return
		}

		h.logger.Error("Failed to get job",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get job",
		})
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListJobs handles GET /jobs
func (h *JobHandler) ListJobs(c *gin.Context) {
	ids, err := h.manager.ListIDs(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list jobs", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list jobs",
		})
		return
	}

	if ids == nil {
		ids = []string{}
	}

	c.JSON(http.StatusOK, dto.ListJobsResponse{JobIDs: ids})
}

// GetResult handles GET /results/:job_id
// Streams the PNG artifact of a completed job.
func (h *JobHandler) GetResult(c *gin.Context) {
	jobID := c.Param("job_id")

	if _, err := uuid.Parse(jobID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "job_id must be a valid UUID",
		})
		return
	}

	data, err := h.manager.Result(c.Request.Context(), jobID)
	if err != nil {
		switch {
		case errors.Is(err, jobs.ErrJobNotFound), errors.Is(err, jobs.ErrResultNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Result not found",
			})
		case errors.Is(err, jobs.ErrResultNotReady):
			c.JSON(http.StatusConflict, gin.H{
				"error": err.Error(),
			})
		default:
			h.logger.Error("Failed to fetch result",
				slog.String("job_id", jobID),
				slog.String("error", err.Error()),
			)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to fetch result",
			})
		}
		return
	}

	c.Data(http.StatusOK, "image/png", data)
}
