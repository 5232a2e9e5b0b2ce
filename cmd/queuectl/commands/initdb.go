package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database and run migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := context.Background()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		switch cfg.DBDriver {
		case "sqlite":
			fmt.Printf("Database initialized (%s).\n", cfg.DBPath)
		default:
			fmt.Println("Database initialized.")
		}
		return nil
	},
}

// GetInitCmd returns the init command
func GetInitCmd() *cobra.Command {
	return initCmd
}
