package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Pavitra-A/queuectl/core"
	"github.com/Pavitra-A/queuectl/job"
)

func init() {
	dlqCmd.AddCommand(dlqListCmd)
	dlqCmd.AddCommand(dlqShowCmd)
	dlqCmd.AddCommand(dlqRetryCmd)
}

var dlqCmd = &cobra.Command{
	Use:   "dlq",
	Short: "Inspect and retry dead lettered jobs",
}

var dlqListCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs in the dead letter queue",
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx := context.Background()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		status := job.StatusDLQ
		jobs, err := store.List(ctx, &status)
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			fmt.Println("No jobs in DLQ.")
			return nil
		}
		for _, j := range jobs {
			fmt.Printf("#%d type=%s attempts=%d/%d last_error=%s\n",
				j.ID, j.Type, j.Attempts, j.MaxAttempts, j.LastErrorString())
		}
		return nil
	},
}

var dlqShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a dead lettered job as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid job ID %q", args[0])
		}

		ctx := context.Background()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		j, err := store.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("job #%d: %w", id, err)
		}
		if j.Status != job.StatusDLQ {
			return fmt.Errorf("job #%d is not in DLQ (status=%s)", id, j.Status)
		}

		prettyJSON, err := json.MarshalIndent(j, "", "  ")
		if err != nil {
			return fmt.Errorf("error formatting job: %w", err)
		}
		fmt.Println(string(prettyJSON))
		return nil
	},
}

var dlqRetryCmd = &cobra.Command{
	Use:   "retry ID",
	Short: "Move a dead lettered job back to pending with a clean slate",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid job ID %q", args[0])
		}

		ctx := context.Background()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := core.NewQueue(store, nil).RetryDLQ(ctx, id); err != nil {
			return fmt.Errorf("job #%d: %w", id, err)
		}

		fmt.Printf("Job #%d requeued from DLQ to pending.\n", id)
		return nil
	},
}

// GetDLQCmd returns the dlq command
func GetDLQCmd() *cobra.Command {
	return dlqCmd
}
