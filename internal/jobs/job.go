package jobs

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a job. Transitions are monotonic:
// SUBMITTED -> IN_PROGRESS -> COMPLETE | FAILED.
type Status string

const (
	StatusSubmitted  Status = "SUBMITTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusComplete   Status = "COMPLETE"
	StatusFailed     Status = "FAILED"
)

// Terminal reports whether no further transitions are permitted.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusFailed
}

// Kind selects which visualization a job produces.
type Kind string

const (
	// KindDistanceVelocity plots close-approach distance against relative velocity.
	KindDistanceVelocity Kind = "1"
	// KindMonthly plots approaches across the days of a single calendar month.
	KindMonthly Kind = "2"
)

// DateLayout is the close-approach date format used for job parameters,
// e.g. "2025-Jan-01".
const DateLayout = "2006-Jan-02"

// Job is a unit of asynchronous work. ID is immutable once created; only
// Status, Error and UpdatedAt change after submission, and only the worker
// writes them.
type Job struct {
	ID        string    `json:"id"`
	Status    Status    `json:"status"`
	Start     string    `json:"start"`
	End       string    `json:"end"`
	Kind      Kind      `json:"kind"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidationError rejects a submission before any record is created.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ValidateParams checks submission parameters. Dates must use DateLayout,
// start must not be after end, and kind "2" is restricted to a single
// calendar month.
func ValidateParams(start, end, kind string) (Kind, error) {
	startDate, err := time.Parse(DateLayout, start)
	if err != nil {
		return "", &ValidationError{Field: "start_date", Reason: fmt.Sprintf("%q does not match YYYY-Mon-DD", start)}
	}

	endDate, err := time.Parse(DateLayout, end)
	if err != nil {
		return "", &ValidationError{Field: "end_date", Reason: fmt.Sprintf("%q does not match YYYY-Mon-DD", end)}
	}

	if startDate.After(endDate) {
		return "", &ValidationError{Field: "start_date", Reason: "start date must not be after end date"}
	}

	k := Kind(kind)
	switch k {
	case KindDistanceVelocity:
	case KindMonthly:
		if startDate.Year() != endDate.Year() || startDate.Month() != endDate.Month() {
			return "", &ValidationError{Field: "kind", Reason: "kind 2 requires start and end dates in the same calendar month"}
		}
	default:
		return "", &ValidationError{Field: "kind", Reason: fmt.Sprintf("%q is not a supported kind", kind)}
	}

	return k, nil
}
