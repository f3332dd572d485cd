package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Evaluation is one evaluation run of a fine-tuned model.
type Evaluation struct {
	ID             int64              `json:"id"`
	TrainingJobID  int64              `json:"training_job_id"`
	EvaluationType string             `json:"evaluation_type"`
	Status         string             `json:"status"`
	Metrics        map[string]float64 `json:"metrics,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}

// StartEvaluationInput is the body of POST /evaluations.
type StartEvaluationInput struct {
	TrainingJobID  int64  `json:"training_job_id"`
	EvaluationType string `json:"evaluation_type"`
	TestDatasetID  *int64 `json:"test_dataset_id,omitempty"`
}

// StartEvaluation starts an evaluation for a training job. Fire-and-forget:
// the backend queues the run and reports progress through ListEvaluations.
func (c *Client) StartEvaluation(ctx context.Context, input StartEvaluationInput) (*Evaluation, error) {
	var eval Evaluation
	if err := c.do(ctx, http.MethodPost, "/evaluations", nil, input, &eval); err != nil {
		return nil, fmt.Errorf("start evaluation for job %d: %w", input.TrainingJobID, err)
	}
	return &eval, nil
}

// ListEvaluations returns evaluation records, optionally filtered to one
// training job (jobID > 0).
func (c *Client) ListEvaluations(ctx context.Context, jobID int64) ([]Evaluation, error) {
	query := url.Values{}
	if jobID > 0 {
		query.Set("job_id", strconv.FormatInt(jobID, 10))
	}

	var result struct {
		Evaluations []Evaluation `json:"evaluations"`
	}
	if err := c.do(ctx, http.MethodGet, "/evaluations", query, nil, &result); err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	return result.Evaluations, nil
}
