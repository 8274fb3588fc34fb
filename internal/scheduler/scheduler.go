// Package scheduler runs the periodic notification and housekeeping jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"daybook/internal/config"
	"daybook/internal/metrics"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobFunc is one unit of scheduled work.
type JobFunc func(ctx context.Context) error

// Runner owns a cron instance located in the configured timezone.
type Runner struct {
	cron   *cron.Cron
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
	jobs   map[string]cron.EntryID
}

func New(loc *time.Location, log *zap.Logger) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cronLogger{log}), cron.SkipIfStillRunning(cronLogger{log})),
		),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(map[string]cron.EntryID),
	}
}

// Add registers fn under name. An empty spec leaves the job disabled.
func (r *Runner) Add(name, spec string, fn JobFunc) error {
	if spec == "" {
		r.log.Info("scheduled job disabled", zap.String("job", name))
		return nil
	}
	id, err := r.cron.AddFunc(spec, r.wrap(name, fn))
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	r.jobs[name] = id
	r.log.Info("scheduled job registered", zap.String("job", name), zap.String("spec", spec))
	return nil
}

// Jobs returns the names of the enabled jobs.
func (r *Runner) Jobs() []string {
	names := make([]string, 0, len(r.jobs))
	for name := range r.jobs {
		names = append(names, name)
	}
	return names
}

// Next reports when the named job fires next.
func (r *Runner) Next(name string) (time.Time, bool) {
	id, ok := r.jobs[name]
	if !ok {
		return time.Time{}, false
	}
	return r.cron.Entry(id).Next, true
}

func (r *Runner) wrap(name string, fn JobFunc) func() {
	return func() {
		start := time.Now()
		err := fn(r.ctx)
		result := "ok"
		if err != nil {
			result = "error"
			r.log.Error("scheduled job failed", zap.String("job", name), zap.Error(err))
		} else {
			r.log.Info("scheduled job finished", zap.String("job", name), zap.Duration("took", time.Since(start)))
		}
		metrics.SchedulerRuns.WithLabelValues(name, result).Inc()
	}
}

func (r *Runner) Start() {
	r.cron.Start()
}

// Stop halts the scheduler and waits for running jobs until ctx expires.
func (r *Runner) Stop(ctx context.Context) error {
	done := r.cron.Stop()
	select {
	case <-done.Done():
		r.cancel()
		return nil
	case <-ctx.Done():
		r.cancel()
		return ctx.Err()
	}
}

// Notifier is the dispatcher surface the jobs drive.
type Notifier interface {
	SendTaskReminder(ctx context.Context) (string, error)
	SendLoginReminder(ctx context.Context) (string, error)
	ClearPushes(ctx context.Context) (string, error)
}

// SessionPurger deletes dead sessions.
type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// Register adds the standard jobs with the specs from cfg.
func Register(r *Runner, cfg config.ScheduleConfig, n Notifier, sessions SessionPurger) error {
	jobs := []struct {
		name string
		spec string
		fn   JobFunc
	}{
		{"task_reminder", cfg.TaskReminder, discard(n.SendTaskReminder)},
		{"login_reminder", cfg.LoginReminder, discard(n.SendLoginReminder)},
		{"clear_push", cfg.ClearPush, discard(n.ClearPushes)},
		{"session_purge", cfg.SessionPurge, func(ctx context.Context) error {
			_, err := sessions.PurgeExpiredSessions(ctx)
			return err
		}},
	}
	for _, j := range jobs {
		if err := r.Add(j.name, j.spec, j.fn); err != nil {
			return err
		}
	}
	return nil
}

func discard(fn func(context.Context) (string, error)) JobFunc {
	return func(ctx context.Context) error {
		_, err := fn(ctx)
		return err
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
