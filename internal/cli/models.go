package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var modelsJSON bool

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List base and fine-tuned models",
	Long: `List all models registered on the platform.

Fine-tuned models reference the training job that produced them.

Examples:
  tunectl models
  tunectl models --json`,
	RunE: runModels,
}

func init() {
	modelsCmd.Flags().BoolVar(&modelsJSON, "json", false, "output as JSON")
}

func runModels(cmd *cobra.Command, args []string) error {
	models, err := apiClient.ListModels(context.Background())
	if err != nil {
		return err
	}

	if modelsJSON {
		return printJSON(models)
	}

	if len(models) == 0 {
		fmt.Println("No models found")
		return nil
	}

	fmt.Printf("%-6s %-28s %-20s %-10s %-8s %s\n", "ID", "NAME", "BASE", "SOURCE", "JOB", "CREATED")
	fmt.Println("------------------------------------------------------------------------------------")

	for _, m := range models {
		jobRef := "-"
		if m.TrainingJobID != nil {
			jobRef = fmt.Sprintf("%d", *m.TrainingJobID)
		}
		fmt.Printf("%-6d %-28s %-20s %-10s %-8s %s\n",
			m.ID, truncate(m.Name, 28), truncate(m.BaseModel, 20), m.Source, jobRef,
			m.CreatedAt.Format("Jan 02 15:04"))
	}

	return nil
}
