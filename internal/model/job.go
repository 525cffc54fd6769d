package model

import "time"

// Rebuild job statuses. A job moves pending -> running -> completed|failed.
const (
	JobStatusPending   = "pending"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// RebuildJob tracks one background rebuild invocation so callers can submit a
// rebuild and poll for completion instead of blocking on it.
type RebuildJob struct {
	ID        string    `json:"id"`
	Fund      string    `json:"fund"`
	StartDate time.Time `json:"startDate"`
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsTerminal reports whether the job has finished, successfully or not.
func (j RebuildJob) IsTerminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}
