package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// One-shot sends, for crontab or manual use.

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Send a notification now",
}

var notifyTaskCmd = &cobra.Command{
	Use:   "task-reminder",
	Short: "Email the list of pending tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNotify(cmd, func(a *app, ctx context.Context) (string, error) {
			return a.notifier.SendTaskReminder(ctx)
		})
	},
}

var notifyLoginCmd = &cobra.Command{
	Use:   "login-reminder",
	Short: "Push the bank login reminder",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNotify(cmd, func(a *app, ctx context.Context) (string, error) {
			return a.notifier.SendLoginReminder(ctx)
		})
	},
}

var notifyClearCmd = &cobra.Command{
	Use:   "clear-push",
	Short: "Delete all pushes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNotify(cmd, func(a *app, ctx context.Context) (string, error) {
			return a.notifier.ClearPushes(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(notifyCmd)
	notifyCmd.AddCommand(notifyTaskCmd, notifyLoginCmd, notifyClearCmd)
}

func runNotify(cmd *cobra.Command, send func(*app, context.Context) (string, error)) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	msg, err := send(a, cmd.Context())
	if err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}
