package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

// AuthConfig selects how the single operator logs in.
// Mode "env" compares against UserID/Password, mode "db" against the users table.
type AuthConfig struct {
	Mode          string `mapstructure:"mode"`
	UserID        string `mapstructure:"user_id"`
	Password      string `mapstructure:"password"`
	OwnerID       string `mapstructure:"owner_id"`
	SessionSecret string `mapstructure:"session_secret"`
	SessionHours  int    `mapstructure:"session_hours"`
	CookieSecure  bool   `mapstructure:"cookie_secure"`
}

type SecurityConfig struct {
	EncryptionKey string `mapstructure:"encryption_key"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

type FilesConfig struct {
	MaxUploadMB int `mapstructure:"max_upload_mb"`
}

type NotifyConfig struct {
	APIKey            string `mapstructure:"api_key"`
	BrevoAPIKey       string `mapstructure:"brevo_api_key"`
	BrevoBaseURL      string `mapstructure:"brevo_base_url"`
	EmailFrom         string `mapstructure:"email_from"`
	EmailTo           string `mapstructure:"email_to"`
	PushbulletToken   string `mapstructure:"pushbullet_token"`
	PushbulletBaseURL string `mapstructure:"pushbullet_base_url"`
}

// ScheduleConfig holds cron specs; an empty spec disables that job.
type ScheduleConfig struct {
	Timezone      string `mapstructure:"timezone"`
	TaskReminder  string `mapstructure:"task_reminder"`
	LoginReminder string `mapstructure:"login_reminder"`
	ClearPush     string `mapstructure:"clear_push"`
	SessionPurge  string `mapstructure:"session_purge"`
	Backup        string `mapstructure:"backup"`
}

type BackupConfig struct {
	Dir string `mapstructure:"dir"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Security SecurityConfig `mapstructure:"security"`
	Log      LogConfig      `mapstructure:"log"`
	Files    FilesConfig    `mapstructure:"files"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Backup   BackupConfig   `mapstructure:"backup"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

var (
	appConfig *Config
	loadErr   error
	once      sync.Once
)

// Load loads configuration from the given file path (e.g. "config.yaml") and
// the DAYBOOK_* environment. A missing config file is not an error; every key
// can come from the environment alone.
func Load(path string) (*Config, error) {
	once.Do(func() {
		appConfig, loadErr = load(path)
	})
	if loadErr != nil {
		return nil, loadErr
	}
	return appConfig, nil
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}

func load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	// environment overrides, e.g. DAYBOOK_SERVER_PORT=9000
	v.SetEnvPrefix("DAYBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 5005)
	v.SetDefault("server.mode", "release")

	v.SetDefault("database.path", "data/daybook.db")
	v.SetDefault("database.log_mode", false)

	v.SetDefault("auth.mode", "env")
	v.SetDefault("auth.user_id", "")
	v.SetDefault("auth.password", "")
	v.SetDefault("auth.owner_id", "")
	v.SetDefault("auth.session_secret", "")
	v.SetDefault("auth.session_hours", 24)
	v.SetDefault("auth.cookie_secure", false)

	v.SetDefault("security.encryption_key", "")

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")

	v.SetDefault("files.max_upload_mb", 32)

	v.SetDefault("notify.api_key", "")
	v.SetDefault("notify.brevo_api_key", "")
	v.SetDefault("notify.brevo_base_url", "https://api.brevo.com")
	v.SetDefault("notify.email_from", "")
	v.SetDefault("notify.email_to", "")
	v.SetDefault("notify.pushbullet_token", "")
	v.SetDefault("notify.pushbullet_base_url", "https://api.pushbullet.com")

	v.SetDefault("schedule.timezone", "Asia/Kolkata")
	v.SetDefault("schedule.task_reminder", "0 8 * * *")
	v.SetDefault("schedule.login_reminder", "0 10 1,15 * *")
	v.SetDefault("schedule.clear_push", "0 0 * * 0")
	v.SetDefault("schedule.session_purge", "@hourly")
	v.SetDefault("schedule.backup", "")

	v.SetDefault("backup.dir", "data/backups")

	v.SetDefault("metrics.enabled", true)
}

// Validate reports the startup-fatal settings that are missing.
func (c *Config) Validate() error {
	if c.Auth.SessionSecret == "" {
		return errors.New("auth.session_secret is required")
	}
	switch c.Auth.Mode {
	case "env":
		if c.Auth.UserID == "" || c.Auth.Password == "" {
			return errors.New("auth.user_id and auth.password are required in env mode")
		}
		// the env credential only ever logs in as user_id
		if c.Auth.OwnerID != "" && c.Auth.OwnerID != c.Auth.UserID {
			return fmt.Errorf("auth.owner_id %q must be empty or equal auth.user_id in env mode", c.Auth.OwnerID)
		}
	case "db":
		if c.Owner() == "" {
			return errors.New("auth.owner_id or auth.user_id is required in db mode")
		}
	default:
		return fmt.Errorf("auth.mode must be env or db, got %q", c.Auth.Mode)
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be positive, got %d", c.Server.Port)
	}
	return nil
}

// Owner returns the privileged identity, falling back to the configured login id.
func (c *Config) Owner() string {
	if c.Auth.OwnerID != "" {
		return c.Auth.OwnerID
	}
	return c.Auth.UserID
}
