// Package jobs implements the training-job monitoring core: the job data
// model, status reconciliation for display, the cached job snapshot, and
// action dispatch (stop, delete, batch delete) against the platform API.
package jobs

import "time"

// Status is the backend-owned lifecycle tag of a training job.
//
// Transitions are monotonic and happen server-side only:
// pending -> running -> {completed, failed}, or pending|running -> stopped
// (user-initiated). The client never assigns a status itself; it requests a
// transition and re-fetches truth.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusStopped   Status = "stopped"
)

// Terminal reports whether no further backend-driven transition can occur.
// Only terminal jobs may be deleted.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusStopped:
		return true
	}
	return false
}

// Known reports whether s is one of the five defined statuses. Unknown
// values are displayed as-is and treated as non-terminal.
func (s Status) Known() bool {
	switch s {
	case StatusPending, StatusRunning, StatusCompleted, StatusFailed, StatusStopped:
		return true
	}
	return false
}

// CanStop reports whether a stop request is legal for a job in this status.
func (s Status) CanStop() bool {
	return s == StatusRunning
}

// CanDelete reports whether a delete request is legal for a job in this
// status. Matches the backend's own enforcement.
func (s Status) CanDelete() bool {
	return s.Terminal()
}

// TrainingJob is the client's read-mostly copy of a fine-tuning job owned by
// the backend registry. A fetched snapshot is replaced wholesale on every
// refresh; no record outlives a fetch cycle.
type TrainingJob struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ModelName string `json:"model_name"`
	Status    Status `json:"status"`

	// Step counters for progress derivation. TotalSteps may be zero while
	// the backend is still planning the run.
	CurrentStep int64 `json:"current_step"`
	TotalSteps  int64 `json:"total_steps"`

	// Telemetry populated incrementally while the job runs.
	CurrentEpoch *int     `json:"current_epoch,omitempty"`
	Epochs       *int     `json:"epochs,omitempty"`
	TrainLoss    *float64 `json:"train_loss,omitempty"`
	ValLoss      *float64 `json:"val_loss,omitempty"`
	ValAccuracy  *float64 `json:"val_accuracy,omitempty"`

	// ErrorMessage is set only when Status is failed.
	ErrorMessage *string `json:"error_message,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Duration returns the wall-clock runtime of the job, or zero if it has not
// started. Running jobs are measured against now.
func (j TrainingJob) Duration(now time.Time) time.Duration {
	if j.StartedAt == nil {
		return 0
	}
	end := now
	if j.CompletedAt != nil {
		end = *j.CompletedAt
	}
	if end.Before(*j.StartedAt) {
		return 0
	}
	return end.Sub(*j.StartedAt)
}
