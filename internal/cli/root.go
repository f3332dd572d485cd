// Package cli provides the command-line interface for tunectl.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/avollmer/tunectl/internal/api"
	"github.com/avollmer/tunectl/internal/config"
	"github.com/avollmer/tunectl/internal/jobs"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	serverURL string
	verbose   bool

	// Shared state initialized by PersistentPreRunE
	cfg        config.Config
	apiClient  *api.Client
	monitor    *jobs.Monitor
	dispatcher *jobs.Dispatcher

	logCleanup func() error
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "tunectl",
	Short: "Admin client for the fine-tuning platform",
	Long: `Tunectl is the operator client for the fine-tuning platform's admin API.

Monitor and manage training jobs (list, watch, stop, delete), follow
training logs, trigger evaluations, and inspect registered models and
host utilization. All state lives in the platform backend; tunectl only
observes it and requests transitions.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if serverURL != "" {
			cfg.ServerURL = serverURL
		}

		level := cfg.LogLevel
		if verbose {
			level = slog.LevelDebug
		}
		logger, cleanup := config.SetupLogger(cfg.LogFile, level)
		slog.SetDefault(logger)
		logCleanup = cleanup

		apiClient = api.NewWithTimeout(cfg.ServerURL, cfg.RequestTimeout)
		notifier := jobs.SlogNotifier{Logger: logger}
		monitor = jobs.NewMonitor(apiClient, notifier)
		dispatcher = jobs.NewDispatcher(apiClient, monitor, promptConfirmer{}, notifier)

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCleanup != nil {
			if err := logCleanup(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "platform API base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(jobsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(statusCmd)
}
