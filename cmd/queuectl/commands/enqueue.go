package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Pavitra-A/queuectl/core"
)

// enqueue flag names
const (
	flagJobType     = "type"
	flagPayload     = "payload"
	flagMaxAttempts = "max-attempts"
	flagDelay       = "delay"
)

func init() {
	enqueueCmd.Flags().StringP(flagJobType, "t", "", "Job type to enqueue")
	enqueueCmd.Flags().StringP(flagPayload, "p", "", "JSON object payload for the job")
	enqueueCmd.Flags().IntP(flagMaxAttempts, "m", core.DefaultMaxAttempts, "Maximum delivery attempts before dead lettering")
	enqueueCmd.Flags().Duration(flagDelay, 0, "Delay before the job becomes available (e.g. 30s, 5m)")
	_ = enqueueCmd.MarkFlagRequired(flagJobType)
	_ = enqueueCmd.MarkFlagRequired(flagPayload)
}

var enqueueCmd = &cobra.Command{
	Use:   "enqueue",
	Short: "Add a job to the queue",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobType, err := cmd.Flags().GetString(flagJobType)
		if err != nil {
			return fmt.Errorf("error getting type flag: %w", err)
		}
		payload, err := cmd.Flags().GetString(flagPayload)
		if err != nil {
			return fmt.Errorf("error getting payload flag: %w", err)
		}
		maxAttempts, err := cmd.Flags().GetInt(flagMaxAttempts)
		if err != nil {
			return fmt.Errorf("error getting max-attempts flag: %w", err)
		}
		delay, err := cmd.Flags().GetDuration(flagDelay)
		if err != nil {
			return fmt.Errorf("error getting delay flag: %w", err)
		}

		ctx := context.Background()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		opts := core.EnqueueOptions{MaxAttempts: maxAttempts}
		if delay > 0 {
			opts.AvailableAt = time.Now().UTC().Add(delay)
		}

		j, err := core.NewQueue(store, nil).Enqueue(ctx, jobType, payload, opts)
		if err != nil {
			return err
		}

		fmt.Printf("Enqueued job #%d (type=%s).\n", j.ID, j.Type)
		return nil
	},
}

// GetEnqueueCmd returns the enqueue command
func GetEnqueueCmd() *cobra.Command {
	return enqueueCmd
}
