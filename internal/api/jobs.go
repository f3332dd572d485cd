package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/avollmer/tunectl/internal/jobs"
)

// JobList is the response of GET /training-jobs.
type JobList struct {
	Jobs  []jobs.TrainingJob `json:"jobs"`
	Total int                `json:"total"`
}

// ListTrainingJobs fetches the full job list in registry order.
func (c *Client) ListTrainingJobs(ctx context.Context) ([]jobs.TrainingJob, int, error) {
	var list JobList
	if err := c.do(ctx, http.MethodGet, "/training-jobs", nil, nil, &list); err != nil {
		return nil, 0, fmt.Errorf("list training jobs: %w", err)
	}
	return list.Jobs, list.Total, nil
}

// StopTrainingJob asks the backend to stop a running job. The backend is
// authoritative: if the job already left the running state this fails with a
// domain error instead of succeeding silently.
func (c *Client) StopTrainingJob(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/training-jobs/%d/stop", id)
	if err := c.do(ctx, http.MethodPost, path, nil, nil, nil); err != nil {
		return fmt.Errorf("stop training job %d: %w", id, err)
	}
	return nil
}

// DeleteTrainingJob deletes a job. Only terminal jobs are deletable; the
// backend enforces the same precondition the client checks.
func (c *Client) DeleteTrainingJob(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/training-jobs/%d", id)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("delete training job %d: %w", id, err)
	}
	return nil
}

// batchDeleteRequest is the body of POST /training-jobs/batch-delete.
type batchDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

// BatchDeleteTrainingJobs deletes a set of jobs in one all-or-nothing
// request.
func (c *Client) BatchDeleteTrainingJobs(ctx context.Context, ids []int64) error {
	body := batchDeleteRequest{IDs: ids}
	if err := c.do(ctx, http.MethodPost, "/training-jobs/batch-delete", nil, body, nil); err != nil {
		return fmt.Errorf("batch delete training jobs: %w", err)
	}
	return nil
}

// LogEntry is one line of training output.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

// GetTrainingLogs fetches the most recent log lines of a job. tail <= 0
// requests the backend default window.
func (c *Client) GetTrainingLogs(ctx context.Context, id int64, tail int) ([]LogEntry, error) {
	query := url.Values{}
	if tail > 0 {
		query.Set("tail", strconv.Itoa(tail))
	}

	var result struct {
		Logs []LogEntry `json:"logs"`
	}
	path := fmt.Sprintf("/training-jobs/%d/logs", id)
	if err := c.do(ctx, http.MethodGet, path, query, nil, &result); err != nil {
		return nil, fmt.Errorf("get training logs for job %d: %w", id, err)
	}
	return result.Logs, nil
}
