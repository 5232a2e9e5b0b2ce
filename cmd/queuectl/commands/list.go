package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Pavitra-A/queuectl/job"
)

const flagStatus = "status"

const timeFormat = "2006-01-02 15:04:05"

func init() {
	listCmd.Flags().StringP(flagStatus, "s", "", "Only show jobs with this status (pending, running, completed, dlq)")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		statusArg, err := cmd.Flags().GetString(flagStatus)
		if err != nil {
			return fmt.Errorf("error getting status flag: %w", err)
		}

		var filter *job.Status
		if statusArg != "" {
			status, err := job.ParseStatus(statusArg)
			if err != nil {
				return err
			}
			filter = &status
		}

		ctx := context.Background()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		jobs, err := store.List(ctx, filter)
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			fmt.Println("No jobs found.")
			return nil
		}
		for _, j := range jobs {
			fmt.Printf("#%d type=%s status=%s attempts=%d/%d available_at=%s\n",
				j.ID, j.Type, j.Status, j.Attempts, j.MaxAttempts,
				j.AvailableAt.Format(timeFormat))
		}
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Show one job as JSON",
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

		prettyJSON, err := json.MarshalIndent(j, "", "  ")
		if err != nil {
			return fmt.Errorf("error formatting job: %w", err)
		}
		fmt.Println(string(prettyJSON))
		return nil
	},
}

// GetListCmd returns the list command
func GetListCmd() *cobra.Command {
	return listCmd
}

// GetGetCmd returns the get command
func GetGetCmd() *cobra.Command {
	return getCmd
}
