package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	queuectl "github.com/Pavitra-A/queuectl"
	"github.com/Pavitra-A/queuectl/handlers"
)

// worker flag names
const (
	flagPollInterval = "poll-interval"
	flagBaseDelay    = "base-delay"
	flagConcurrency  = "concurrency"
)

func init() {
	workerCmd.Flags().DurationP(flagPollInterval, "i", 0, "How long to sleep when no job is ready (default from config)")
	workerCmd.Flags().DurationP(flagBaseDelay, "b", 0, "Base delay for exponential backoff (default from config)")
	workerCmd.Flags().IntP(flagConcurrency, "c", 0, "Number of worker goroutines (default from config)")
}

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run a worker that claims and executes jobs until interrupted",
	RunE: func(cmd *cobra.Command, _ []string) error {
		pollInterval, err := cmd.Flags().GetDuration(flagPollInterval)
		if err != nil {
			return fmt.Errorf("error getting poll-interval flag: %w", err)
		}
		baseDelay, err := cmd.Flags().GetDuration(flagBaseDelay)
		if err != nil {
			return fmt.Errorf("error getting base-delay flag: %w", err)
		}
		concurrency, err := cmd.Flags().GetInt(flagConcurrency)
		if err != nil {
			return fmt.Errorf("error getting concurrency flag: %w", err)
		}

		// Flags override environment configuration.
		if pollInterval > 0 {
			cfg.PollInterval = pollInterval
		}
		if baseDelay > 0 {
			cfg.BaseDelay = baseDelay
		}
		if concurrency > 0 {
			cfg.Concurrency = concurrency
		}

		engine, err := queuectl.FromConfig(cfg)
		if err != nil {
			return err
		}
		if err := handlers.RegisterBuiltins(engine.GetRegistry()); err != nil {
			return err
		}

		fmt.Printf("Starting worker (poll_interval=%s, base_delay=%s, concurrency=%d). Press Ctrl+C to stop.\n",
			cfg.PollInterval, cfg.BaseDelay, cfg.Concurrency)
		return engine.Run(context.Background())
	},
}

// GetWorkerCmd returns the worker command
func GetWorkerCmd() *cobra.Command {
	return workerCmd
}
