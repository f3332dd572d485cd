package cli

import (
	"fmt"

	"github.com/avollmer/tunectl/internal/api"
	"github.com/spf13/cobra"
)

var (
	logsFollow bool
	logsTail   int
)

var logsCmd = &cobra.Command{
	Use:   "logs <job-id>",
	Short: "Show or follow training logs",
	Long: `Show the training output of a job.

By default prints the most recent lines. With --follow, streams new lines
as the backend emits them until the job finishes or Ctrl+C.

Examples:
  tunectl logs 42
  tunectl logs 42 --tail 200
  tunectl logs 42 --follow`,
	Args: cobra.ExactArgs(1),
	RunE: runLogs,
}

func init() {
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "stream new log lines")
	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 100, "number of recent lines to show")
}

func runLogs(cmd *cobra.Command, args []string) error {
	id, err := parseJobID(args[0])
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if logsFollow {
		return apiClient.StreamTrainingLogs(ctx, id, func(entry api.LogEntry) error {
			printLogEntry(entry)
			return nil
		})
	}

	entries, err := apiClient.GetTrainingLogs(ctx, id, logsTail)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		printLogEntry(entry)
	}
	return nil
}

func printLogEntry(entry api.LogEntry) {
	ts := entry.Timestamp.Format("15:04:05")
	if entry.Level != "" {
		fmt.Printf("%s [%s] %s\n", ts, entry.Level, entry.Message)
		return
	}
	fmt.Printf("%s %s\n", ts, entry.Message)
}
