package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/avollmer/tunectl/internal/api"
	"github.com/avollmer/tunectl/internal/jobs"
	"github.com/spf13/cobra"
)

var (
	evalType    string
	evalDataset int64
	evalJobID   int64
	evalJSON    bool
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Trigger and list model evaluations",
}

var evalStartCmd = &cobra.Command{
	Use:   "start <job-id>",
	Short: "Start an evaluation for a completed training job",
	Long: `Start an evaluation run for a training job's fine-tuned model.

The run is queued on the platform; use 'tunectl eval list --job <id>' to
see its status and metrics.

Examples:
  tunectl eval start 42
  tunectl eval start 42 --type benchmark --dataset 7`,
	Args: cobra.ExactArgs(1),
	RunE: runEvalStart,
}

var evalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List evaluation runs",
	RunE:  runEvalList,
}

func init() {
	evalStartCmd.Flags().StringVarP(&evalType, "type", "t", "auto", "evaluation type (auto, benchmark, custom)")
	evalStartCmd.Flags().Int64VarP(&evalDataset, "dataset", "d", 0, "test dataset id (optional)")

	evalListCmd.Flags().Int64VarP(&evalJobID, "job", "j", 0, "filter by training job id")
	evalListCmd.Flags().BoolVar(&evalJSON, "json", false, "output as JSON")

	evalCmd.AddCommand(evalStartCmd)
	evalCmd.AddCommand(evalListCmd)
}

func runEvalStart(cmd *cobra.Command, args []string) error {
	id, err := parseJobID(args[0])
	if err != nil {
		return err
	}
	ctx := context.Background()

	// Evaluations only make sense against a finished model; check the
	// last-known status before dispatching.
	if err := monitor.Refresh(ctx); err != nil {
		return err
	}
	if job, ok := monitor.Job(id); ok && job.Status != jobs.StatusCompleted {
		return fmt.Errorf("job %d is %s, only completed jobs can be evaluated", id, job.Status)
	}

	input := api.StartEvaluationInput{
		TrainingJobID:  id,
		EvaluationType: evalType,
	}
	if evalDataset > 0 {
		input.TestDatasetID = &evalDataset
	}

	eval, err := apiClient.StartEvaluation(ctx, input)
	if err != nil {
		return err
	}

	fmt.Printf("Evaluation %d queued for job %d (%s)\n", eval.ID, id, eval.EvaluationType)
	return nil
}

func runEvalList(cmd *cobra.Command, args []string) error {
	evals, err := apiClient.ListEvaluations(context.Background(), evalJobID)
	if err != nil {
		return err
	}

	if evalJSON {
		return printJSON(evals)
	}

	if len(evals) == 0 {
		fmt.Println("No evaluations found")
		return nil
	}

	fmt.Printf("%-6s %-8s %-12s %-12s %-24s %s\n", "ID", "JOB", "TYPE", "STATUS", "METRICS", "CREATED")
	fmt.Println("---------------------------------------------------------------------------------")

	for _, eval := range evals {
		fmt.Printf("%-6d %-8d %-12s %-12s %-24s %s\n",
			eval.ID, eval.TrainingJobID, eval.EvaluationType, eval.Status,
			formatMetrics(eval.Metrics), eval.CreatedAt.Format("Jan 02 15:04"))
	}

	return nil
}

func formatMetrics(metrics map[string]float64) string {
	if len(metrics) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(metrics))
	for k := range metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := ""
	for i, k := range keys {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%s=%.3f", k, metrics[k])
	}
	return out
}
