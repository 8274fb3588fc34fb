package cli

import (
	"fmt"
	"time"

	"daybook/internal/config"
	"daybook/internal/database"
	"daybook/internal/logging"
	"daybook/internal/notify"
	"daybook/internal/router"
	"daybook/internal/service"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds the process-wide dependencies shared by the commands.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	db       *gorm.DB
	loc      *time.Location
	clock    service.Clock
	auth     *service.AuthService
	tasks    *service.TaskService
	ledger   *service.LedgerService
	files    *service.FileService
	activity *service.ActivityService
	notifier *notify.Dispatcher
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Schedule.Timezone, err)
	}

	db, err := database.Init(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	clock := service.ClockIn(loc)
	auth := service.NewAuthService(db, log.Named("auth"), cfg.Auth, cfg.Owner())
	tasks := service.NewTaskService(db, log.Named("tasks"), clock)

	a := &app{
		cfg:      cfg,
		log:      log,
		db:       db,
		loc:      loc,
		clock:    clock,
		auth:     auth,
		tasks:    tasks,
		ledger:   service.NewLedgerService(db, log.Named("ledger"), clock),
		files:    service.NewFileService(db, log.Named("files"), clock, auth.VerifyOwnerPassword),
		activity: service.NewActivityService(db, cfg.Security.EncryptionKey),
		notifier: notify.NewDispatcher(
			tasks,
			notify.NewBrevoClient(cfg.Notify.BrevoAPIKey, cfg.Notify.BrevoBaseURL, cfg.Notify.EmailFrom, cfg.Notify.EmailTo),
			notify.NewPushbulletClient(cfg.Notify.PushbulletToken, cfg.Notify.PushbulletBaseURL),
			log.Named("notify"),
		),
	}
	return a, nil
}

func (a *app) services() router.Services {
	return router.Services{
		Auth:     a.auth,
		Tasks:    a.tasks,
		Ledger:   a.ledger,
		Files:    a.files,
		Activity: a.activity,
		Notifier: a.notifier,
		Clock:    a.clock,
		Location: a.loc,
	}
}

func (a *app) close() {
	if err := database.Close(a.db); err != nil {
		a.log.Warn("close database", zap.Error(err))
	}
	_ = a.log.Sync()
}
