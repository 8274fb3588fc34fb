// Package cli wires the daybook commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "daybook",
	Short: "Personal tasks, expenses and files",
	Long: `daybook is a single-operator web app with a to-do list, an expense ledger
that tracks four running balances, a file store and scheduled reminders.
Running it without a subcommand starts the web server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml",
		"Path to the YAML config file (DAYBOOK_* environment variables override it)")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
