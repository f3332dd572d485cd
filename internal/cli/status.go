package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show training host utilization",
	Long: `Show the current CPU, memory, disk, and GPU utilization of the
training host as reported by the platform.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
}

func runStatus(cmd *cobra.Command, args []string) error {
	metrics, err := apiClient.GetSystemMetrics(context.Background())
	if err != nil {
		return err
	}

	if statusJSON {
		return printJSON(metrics)
	}

	fmt.Printf("Training host (as of %s)\n", metrics.CollectedAt.Format(time.RFC3339))
	fmt.Printf("  CPU:    %5.1f%%\n", metrics.CPUPercent)
	fmt.Printf("  Memory: %5.1f%%  (%d/%d MB)\n", metrics.MemoryPercent, metrics.MemoryUsedMB, metrics.MemoryTotalMB)
	fmt.Printf("  Disk:   %5.1f%%\n", metrics.DiskPercent)

	for _, gpu := range metrics.GPUs {
		fmt.Printf("  GPU %d (%s): %5.1f%%  (%d/%d MB)\n",
			gpu.Index, gpu.Name, gpu.UtilPercent, gpu.MemoryUsedMB, gpu.MemoryTotalMB)
	}

	return nil
}
