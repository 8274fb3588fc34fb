package cli

import (
	"fmt"

	"daybook/internal/database"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage the stored login (auth.mode=db)",
}

var userSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create the user or replace its password",
	Args:  cobra.NoArgs,
	RunE:  runUserSet,
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userSetCmd)

	userSetCmd.Flags().String("id", "", "User id")
	userSetCmd.Flags().String("password", "", "New password (at least 8 characters)")
	_ = userSetCmd.MarkFlagRequired("id")
	_ = userSetCmd.MarkFlagRequired("password")
}

func runUserSet(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetString("id")
	password, _ := cmd.Flags().GetString("password")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := database.AutoMigrate(a.db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	if err := a.auth.SetPassword(cmd.Context(), id, password); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "password set for %s\n", id)
	if a.cfg.Auth.Mode != "db" {
		fmt.Fprintln(cmd.OutOrStdout(), "note: auth.mode is not db, the stored user is ignored at login")
	}
	return nil
}
