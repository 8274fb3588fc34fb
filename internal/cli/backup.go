package cli

import (
	"fmt"

	"daybook/internal/database"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a copy of the database to the backup directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = a.cfg.Backup.Dir
		}
		path, err := database.Backup(cmd.Context(), a.db, dir, a.clock())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.Flags().String("dir", "", "Target directory (default backup.dir)")
}
