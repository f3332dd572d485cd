package api

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Model is a base or fine-tuned model known to the platform.
type Model struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	BaseModel     string    `json:"base_model,omitempty"`
	Source        string    `json:"source"` // "base" or "finetuned"
	TrainingJobID *int64    `json:"training_job_id,omitempty"`
	SizeBytes     int64     `json:"size_bytes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListModels returns all models registered on the platform.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	var result struct {
		Models []Model `json:"models"`
	}
	if err := c.do(ctx, http.MethodGet, "/models", nil, nil, &result); err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	return result.Models, nil
}

// GPUMetrics is the utilization of a single accelerator.
type GPUMetrics struct {
	Index         int     `json:"index"`
	Name          string  `json:"name"`
	UtilPercent   float64 `json:"util_percent"`
	MemoryUsedMB  int64   `json:"memory_used_mb"`
	MemoryTotalMB int64   `json:"memory_total_mb"`
}

// SystemMetrics is a point-in-time snapshot of the training host.
type SystemMetrics struct {
	CPUPercent    float64      `json:"cpu_percent"`
	MemoryPercent float64      `json:"memory_percent"`
	MemoryUsedMB  int64        `json:"memory_used_mb"`
	MemoryTotalMB int64        `json:"memory_total_mb"`
	DiskPercent   float64      `json:"disk_percent"`
	GPUs          []GPUMetrics `json:"gpus,omitempty"`
	CollectedAt   time.Time    `json:"collected_at"`
}

// GetSystemMetrics fetches the current host utilization snapshot.
func (c *Client) GetSystemMetrics(ctx context.Context) (*SystemMetrics, error) {
	var metrics SystemMetrics
	if err := c.do(ctx, http.MethodGet, "/system/metrics", nil, nil, &metrics); err != nil {
		return nil, fmt.Errorf("get system metrics: %w", err)
	}
	return &metrics, nil
}
