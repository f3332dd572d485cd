package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/avollmer/tunectl/internal/jobs"
	"github.com/spf13/cobra"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <job-id>...",
	Short: "Delete finished training jobs",
	Long: `Delete one or more training jobs and their artifacts.

Only jobs in a terminal state (completed, failed, stopped) can be
deleted. With multiple ids the deletion is all-or-nothing: if any
selected job is still pending or running, nothing is deleted.

Deletion is irreversible and requires confirmation unless --force is used.

Examples:
  tunectl delete 42
  tunectl delete 42 43 44 --force`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "skip confirmation")
}

func runDelete(cmd *cobra.Command, args []string) error {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseJobID(arg)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	ctx := context.Background()

	if err := monitor.Refresh(ctx); err != nil {
		return err
	}

	d := dispatcher
	if deleteForce {
		d = jobs.NewDispatcher(apiClient, monitor, jobs.AutoConfirm{}, jobs.SlogNotifier{})
	}

	if len(ids) == 1 {
		return d.Delete(ctx, ids[0])
	}
	return d.BatchDelete(ctx, ids)
}

// promptConfirmer asks on stdin before destructive actions. The prompt names
// the job id and model and warns that deletion cannot be undone.
type promptConfirmer struct{}

func (promptConfirmer) ConfirmDelete(job jobs.TrainingJob) (bool, error) {
	fmt.Printf("About to delete job %d (%s, model %s).\n", job.ID, job.Name, job.ModelName)
	fmt.Print("This removes the job and its artifacts permanently and cannot be undone.\n\nContinue? [y/N]: ")
	return readYesNo()
}

func (promptConfirmer) ConfirmBatchDelete(selected []jobs.TrainingJob) (bool, error) {
	fmt.Printf("About to delete %d jobs:\n", len(selected))
	for _, job := range selected {
		fmt.Printf("  %d  %s (model %s, %s)\n", job.ID, job.Name, job.ModelName, job.Status)
	}
	fmt.Print("This removes the jobs and their artifacts permanently and cannot be undone.\n\nContinue? [y/N]: ")
	return readYesNo()
}

func readYesNo() (bool, error) {
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("read input: %w", err)
	}
	response = strings.TrimSpace(strings.ToLower(response))
	if response != "y" && response != "yes" {
		fmt.Println("Cancelled.")
		return false, nil
	}
	return true, nil
}
