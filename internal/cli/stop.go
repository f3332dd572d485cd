package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop <job-id>",
	Short: "Stop a running training job",
	Long: `Stop a running training job.

Only jobs whose status is running can be stopped. The backend is
authoritative: if the job already finished, the rejection is reported
as-is.

Examples:
  tunectl stop 42`,
	Args: cobra.ExactArgs(1),
	RunE: runStop,
}

func runStop(cmd *cobra.Command, args []string) error {
	id, err := parseJobID(args[0])
	if err != nil {
		return err
	}
	ctx := context.Background()

	// The precondition checks against the last-known status, so fetch first.
	if err := monitor.Refresh(ctx); err != nil {
		return err
	}

	if err := dispatcher.Stop(ctx, id); err != nil {
		return err
	}

	job, ok := monitor.Job(id)
	if ok {
		fmt.Printf("Job %d is now %s\n", id, job.Status)
	} else {
		fmt.Printf("Stop requested for job %d\n", id)
	}
	return nil
}
