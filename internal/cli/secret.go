package cli

import (
	"fmt"

	"daybook/internal/util"

	"github.com/spf13/cobra"
)

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Print a random value for session_secret, api_key or encryption_key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("length")
		s, err := util.RandomString(n)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), s)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(secretCmd)
	secretCmd.Flags().IntP("length", "n", 48, "Number of characters")
}
