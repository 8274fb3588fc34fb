package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"daybook/internal/database"
	"daybook/internal/router"
	"daybook/internal/scheduler"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

var noScheduler bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server and the reminder scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&noScheduler, "no-scheduler", false,
		"Do not run scheduled jobs (use the HTTP triggers instead)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := database.AutoMigrate(a.db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	engine, err := router.SetupRouter(a.cfg, a.db, a.services(), a.log.Named("http"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var sched *scheduler.Runner
	if !noScheduler {
		sched = scheduler.New(a.loc, a.log.Named("scheduler"))
		if err := scheduler.Register(sched, a.cfg.Schedule, a.notifier, a.auth); err != nil {
			return err
		}
		if err := sched.Add("backup", a.cfg.Schedule.Backup, func(ctx context.Context) error {
			path, err := database.Backup(ctx, a.db, a.cfg.Backup.Dir, a.clock())
			if err == nil {
				a.log.Info("database backed up", zap.String("path", path))
			}
			return err
		}); err != nil {
			return err
		}
		sched.Start()
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Address, a.cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("run server: %w", err)
		}
	case <-ctx.Done():
		a.log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if sched != nil {
		if err := sched.Stop(shutdownCtx); err != nil {
			a.log.Warn("scheduler stop", zap.Error(err))
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}
