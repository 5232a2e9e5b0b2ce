package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Pavitra-A/queuectl/config"
	"github.com/Pavitra-A/queuectl/core"
	"github.com/Pavitra-A/queuectl/stores/gormstore"
)

// cfg holds the loaded configuration shared by all subcommands.
// PersistentPreRunE populates it before any RunE fires.
var cfg config.Config

func init() {
	RootCmd.AddCommand(GetInitCmd())
	RootCmd.AddCommand(GetEnqueueCmd())
	RootCmd.AddCommand(GetListCmd())
	RootCmd.AddCommand(GetGetCmd())
	RootCmd.AddCommand(GetWorkerCmd())
	RootCmd.AddCommand(GetDLQCmd())
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "queuectl",
	Short: "queuectl - a durable background job queue",
	Long: `queuectl manages a persistent job queue backed by SQLite or PostgreSQL.
Jobs are enqueued with a type and JSON payload, claimed by workers,
retried with exponential backoff, and parked in a dead letter queue
after exhausting their attempts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		cfg = config.Load()
	},
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}

// openStore builds and connects the store configured by the environment.
// Callers must Close it.
func openStore(ctx context.Context) (core.Store, error) {
	var store *gormstore.Store
	switch cfg.DBDriver {
	case "sqlite":
		store = gormstore.NewSQLite(cfg.DBPath)
	case "postgres":
		store = gormstore.NewPostgres(cfg.DBDSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.DBDriver)
	}
	if err := store.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return store, nil
}
