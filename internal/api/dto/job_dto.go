package dto

// CreateJobRequest is the submission payload for a visualization job.
type CreateJobRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Kind      string `json:"kind" binding:"required"`
}

// ListJobsResponse carries every known job id.
type ListJobsResponse struct {
	JobIDs []string `json:"job_ids"`
}

// RangeQueryRequest binds the optional min/max bounds of a numeric catalog
// query.
type RangeQueryRequest struct {
	Min *float64 `form:"min"`
	Max *float64 `form:"max"`
}
