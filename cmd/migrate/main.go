// Command migrate applies, rolls back or reports the embedded database
// migrations without starting the API.
package main

import (
	"fmt"
	"os"

	"magnetlab_backend/platform/config"
	"magnetlab_backend/platform/db"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Manage database schema migrations",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(
		directionCmd(db.MigrateUp, "Apply all pending migrations"),
		directionCmd(db.MigrateDown, "Roll back the most recent migration"),
		directionCmd(db.MigrateStatus, "Print the state of every migration"),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

func directionCmd(dir db.Direction, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(dir),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return db.Migrate(cmd.Context(), cfg, dir, cmd.OutOrStdout())
		},
	}
}
