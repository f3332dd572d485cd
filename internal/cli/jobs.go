package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/avollmer/tunectl/internal/jobs"
	"github.com/spf13/cobra"
)

var jobsJSON bool

var jobsCmd = &cobra.Command{
	Use:   "jobs [job-id]",
	Short: "List or inspect training jobs",
	Long: `List all training jobs or inspect a specific job by id.

Examples:
  tunectl jobs        # List all jobs
  tunectl jobs 42     # Show details for job 42`,
	Args: cobra.MaximumNArgs(1),
	RunE: runJobs,
}

func init() {
	jobsCmd.Flags().BoolVar(&jobsJSON, "json", false, "output as JSON")
}

func runJobs(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := monitor.Refresh(ctx); err != nil {
		return err
	}

	if len(args) == 1 {
		id, err := parseJobID(args[0])
		if err != nil {
			return err
		}
		return showJob(id)
	}

	return listJobs()
}

func listJobs() error {
	list := monitor.Jobs()

	if jobsJSON {
		return printJSON(list)
	}

	if len(list) == 0 {
		fmt.Println("No training jobs found")
		return nil
	}

	fmt.Printf("%-6s %-24s %-20s %-12s %-10s %s\n", "ID", "NAME", "MODEL", "STATUS", "PROGRESS", "CREATED")
	fmt.Println("--------------------------------------------------------------------------------------")

	for _, job := range list {
		d := jobs.Reconcile(job)
		progress := fmt.Sprintf("%d%%", d.ProgressPercent)
		created := job.CreatedAt.Format("Jan 02 15:04")
		// Plain labels keep the columns aligned; colors are for the detail
		// and watch views.
		fmt.Printf("%-6d %-24s %-20s %-12s %-10s %s\n",
			job.ID, truncate(job.Name, 24), truncate(job.ModelName, 20), d.StatusLabel, progress, created)
	}
	fmt.Printf("\n%d of %d jobs\n", len(list), monitor.Total())

	return nil
}

func showJob(id int64) error {
	job, ok := monitor.Job(id)
	if !ok {
		return fmt.Errorf("%w: %d", jobs.ErrJobNotFound, id)
	}

	if jobsJSON {
		return printJSON(job)
	}

	d := jobs.Reconcile(job)

	fmt.Printf("Job: %d\n", job.ID)
	fmt.Printf("  Name: %s\n", job.Name)
	fmt.Printf("  Model: %s\n", job.ModelName)
	fmt.Printf("  Status: %s\n", renderStatus(d))
	if job.TotalSteps > 0 {
		fmt.Printf("  Progress: %d/%d steps (%d%%)\n", job.CurrentStep, job.TotalSteps, d.ProgressPercent)
	}
	if job.CurrentEpoch != nil && job.Epochs != nil {
		fmt.Printf("  Epoch: %d/%d\n", *job.CurrentEpoch, *job.Epochs)
	}
	if job.TrainLoss != nil {
		fmt.Printf("  Train loss: %s\n", formatFloat(job.TrainLoss))
	}
	if job.ValLoss != nil {
		fmt.Printf("  Val loss: %s\n", formatFloat(job.ValLoss))
	}
	if job.ValAccuracy != nil {
		fmt.Printf("  Val accuracy: %s\n", formatFloat(job.ValAccuracy))
	}
	fmt.Printf("  Created: %s\n", job.CreatedAt.Format(time.RFC3339))
	if job.StartedAt != nil {
		fmt.Printf("  Started: %s\n", job.StartedAt.Format(time.RFC3339))
	}
	if job.CompletedAt != nil {
		fmt.Printf("  Completed: %s\n", job.CompletedAt.Format(time.RFC3339))
		fmt.Printf("  Duration: %s\n", job.Duration(time.Now()).Round(time.Second))
	}
	if job.ErrorMessage != nil && *job.ErrorMessage != "" {
		fmt.Printf("  Error: %s\n", *job.ErrorMessage)
	}

	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
