package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"daybook/internal/metrics"
	"daybook/internal/models"

	"go.uber.org/zap"
)

// PendingLister is the part of the task store the reminder needs.
type PendingLister interface {
	ListPending(ctx context.Context) ([]models.Task, error)
}

// Dispatcher formats and sends the periodic notifications. The scheduler and
// the HTTP triggers share one instance.
type Dispatcher struct {
	tasks PendingLister
	email EmailSender
	push  Pusher
	log   *zap.Logger
}

func NewDispatcher(tasks PendingLister, email EmailSender, push Pusher, log *zap.Logger) *Dispatcher {
	return &Dispatcher{tasks: tasks, email: email, push: push, log: log}
}

// FormatTaskReminder builds the reminder email for the given pending tasks.
func FormatTaskReminder(tasks []models.Task) (subject, body string) {
	if len(tasks) == 0 {
		return "No pending tasks", "You have no pending tasks. Nothing to do today!"
	}

	var b strings.Builder
	noun := "tasks"
	if len(tasks) == 1 {
		noun = "task"
	}
	fmt.Fprintf(&b, "You have %d pending %s:\n\n", len(tasks), noun)
	for i, t := range tasks {
		fmt.Fprintf(&b, "%d. %s", i+1, t.Text)
		if t.Date != "" {
			fmt.Fprintf(&b, " (added %s)", t.Date)
		}
		b.WriteString("\n")
	}
	return fmt.Sprintf("Pending tasks (%d)", len(tasks)), b.String()
}

// SendTaskReminder emails the list of pending tasks.
func (d *Dispatcher) SendTaskReminder(ctx context.Context) (string, error) {
	tasks, err := d.tasks.ListPending(ctx)
	if err != nil {
		d.record("email", err)
		d.log.Error("task reminder: list pending", zap.Error(err))
		return "", err
	}

	subject, body := FormatTaskReminder(tasks)
	err = d.email.SendEmail(ctx, subject, body)
	d.record("email", err)
	if err != nil {
		d.log.Error("task reminder: send email", zap.Error(err))
		return "", err
	}
	d.log.Info("task reminder sent", zap.Int("pending", len(tasks)))
	return "Email sent successfully!", nil
}

const (
	loginReminderTitle = "IPPB login reminder"
	loginReminderBody  = "Log in to your IPPB account today so it stays active."
)

// SendLoginReminder pushes the periodic bank login nudge.
func (d *Dispatcher) SendLoginReminder(ctx context.Context) (string, error) {
	err := d.push.Push(ctx, loginReminderTitle, loginReminderBody)
	d.record("push", err)
	if err != nil {
		d.log.Error("login reminder: push", zap.Error(err))
		return "", err
	}
	d.log.Info("login reminder sent")
	return "Push sent successfully!", nil
}

// ClearPushes removes old pushes from the push account.
func (d *Dispatcher) ClearPushes(ctx context.Context) (string, error) {
	err := d.push.Clear(ctx)
	d.record("push_clear", err)
	if err != nil {
		d.log.Error("clear pushes", zap.Error(err))
		return "", err
	}
	d.log.Info("pushes cleared")
	return "Pushes cleared!", nil
}

func (d *Dispatcher) record(channel string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrNotConfigured):
		result = "not_configured"
	default:
		result = "error"
	}
	metrics.Notifications.WithLabelValues(channel, result).Inc()
}
