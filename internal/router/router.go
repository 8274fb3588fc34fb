package router

import (
	"time"

	"daybook/internal/config"
	"daybook/internal/handler"
	"daybook/internal/middleware"
	"daybook/internal/service"
	"daybook/web"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services bundles what the handlers need.
type Services struct {
	Auth     *service.AuthService
	Tasks    *service.TaskService
	Ledger   *service.LedgerService
	Files    *service.FileService
	Activity *service.ActivityService
	Notifier handler.Notifier
	Clock    service.Clock
	Location *time.Location
}

// SetupRouter configures the Gin engine, templates and routes.
func SetupRouter(cfg *config.Config, db *gorm.DB, svc Services, log *zap.Logger) (*gin.Engine, error) {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(log), gin.Recovery())
	r.MaxMultipartMemory = int64(cfg.Files.MaxUploadMB) << 20

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	r.GET("/healthz", handler.Health)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// error pages
	r.GET("/unauthorized", handler.Unauthorized)
	r.GET("/server-error", handler.ServerError)
	r.GET("/card-not-allow", handler.CardNotAllowed)
	r.GET("/error", handler.OtherError)

	authHandler := handler.NewAuthHandler(svc.Auth, log, cfg.Auth.CookieSecure)
	r.GET("/", authHandler.LoginPage)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)

	// notification triggers for external cron services
	notifyHandler := handler.NewNotifyHandler(svc.Notifier)
	triggers := r.Group("", middleware.RequireAPIKey(cfg.Notify.APIKey))
	triggers.GET("/pending_tasks", notifyHandler.TaskReminder)
	triggers.GET("/ippb_login_reminder", notifyHandler.LoginReminder)
	triggers.GET("/clear_push", notifyHandler.ClearPush)

	// everything below needs a session
	protected := r.Group("")
	protected.Use(
		middleware.RequireSession(svc.Auth),
		middleware.AuditMiddleware(db, cfg.Security.EncryptionKey, log),
	)
	owner := middleware.RequireOwner(svc.Auth)

	protected.GET("/home", authHandler.Home)

	accountHandler := handler.NewAccountHandler(svc.Auth, log, cfg.Auth.CookieSecure)
	protected.GET("/account", accountHandler.AccountPage)
	protected.POST("/account/password", accountHandler.ChangePassword)

	taskHandler := handler.NewTaskHandler(svc.Tasks, log)
	protected.GET("/tasks/pending", taskHandler.Pending)
	protected.POST("/tasks/pending", taskHandler.CompletePending)
	protected.GET("/tasks/add", taskHandler.AddPage)
	protected.POST("/tasks/add", taskHandler.Add)
	protected.GET("/tasks/completed", taskHandler.Completed)
	protected.POST("/tasks/completed/clear", taskHandler.ClearCompleted)

	entryHandler := handler.NewEntryHandler(svc.Ledger, svc.Auth, svc.Clock, log)
	protected.GET("/home/expenses", entryHandler.Expenses)
	protected.GET("/home/add_transaction", owner, entryHandler.AddTransactionPage)
	protected.POST("/home/add_transaction", owner, entryHandler.AddTransaction)
	protected.POST("/home/expenses/:id/visibility", owner, entryHandler.SetVisibility)

	importExportHandler := handler.NewImportExportHandler(svc.Ledger, svc.Clock, log)
	protected.GET("/home/expenses/export.csv", importExportHandler.ExportCSV)
	protected.GET("/home/expenses/export.xlsx", importExportHandler.ExportXLSX)

	logHandler := handler.NewLogHandler(svc.Activity, svc.Location, log)
	protected.GET("/home/activity", logHandler.Activity)

	fileHandler := handler.NewFileHandler(svc.Files, log)
	protected.GET("/upload_files", fileHandler.UploadPage)
	protected.POST("/upload_files", middleware.LimitBody(r.MaxMultipartMemory), fileHandler.Upload)
	protected.GET("/view_files", fileHandler.ViewFiles)
	protected.GET("/download/:id", fileHandler.Download)
	protected.POST("/truncket", fileHandler.Purge)

	return r, nil
}
