package config

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// DBConfig Database config
type DBConfig struct {
	Type     string `yaml:"type"` // postgres or sqlite
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
	Debug    bool   `yaml:"debug"`
}

// SysConfig System config
type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
	SiteURL  string `yaml:"site_url"` // public storefront origin, used in shared product links
}

// WebConfig Web config
type WebConfig struct {
	Host          string   `yaml:"host"`
	Port          int      `yaml:"port"`
	Secret        string   `yaml:"secret"`
	TokenTTLHours int      `yaml:"token_ttl_hours"`
	CorsOrigins   []string `yaml:"cors_origins"`
}

// StorageConfig selects the persistence adapter
type StorageConfig struct {
	Driver       string `yaml:"driver"` // sql or snapshot
	SnapshotFile string `yaml:"snapshot_file"`
}

type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

// AdminConfig holds the static back office credentials
type AdminConfig struct {
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	MaxAttempts    int    `yaml:"max_attempts"`
	LockoutMinutes int    `yaml:"lockout_minutes"` // 0 keeps the lock until restart
}

type WhatsAppConfig struct {
	Phone          string `yaml:"phone"`
	ProductBaseURL string `yaml:"product_base_url"`
}

type TwilioConfig struct {
	AccountSid string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	From       string `yaml:"from"`
	To         string `yaml:"to"`
	ApiBase    string `yaml:"api_base"`
}

// Enabled reports whether every value needed to reach the messaging API is present
func (t TwilioConfig) Enabled() bool {
	return t.AccountSid != "" && t.AuthToken != "" && t.From != "" && t.To != ""
}

type AlertConfig struct {
	SmtpHost  string `yaml:"smtp_host"`
	SmtpPort  int    `yaml:"smtp_port"`
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	Recipient string `yaml:"recipient"`
}

func (a AlertConfig) Enabled() bool {
	return a.SmtpHost != "" && a.Email != "" && a.Recipient != ""
}

type BackupConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cron    string `yaml:"cron"`
	Dir     string `yaml:"dir"`
	Keep    int    `yaml:"keep"`
}

// CacheConfig controls the shopper response cache, redis is used when RedisURL is set
type CacheConfig struct {
	TTLSeconds int    `yaml:"ttl_seconds"`
	RedisURL   string `yaml:"redis_url"`
	// MaxEntries bounds the in-memory cache, the least recently used key is evicted first
	MaxEntries int `yaml:"max_entries"`
}

type AppConfig struct {
	System   SysConfig      `yaml:"system"`
	Web      WebConfig      `yaml:"web"`
	Database DBConfig       `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Logger   LogConfig      `yaml:"logger"`
	Admin    AdminConfig    `yaml:"admin"`
	WhatsApp WhatsAppConfig `yaml:"whatsapp"`
	Twilio   TwilioConfig   `yaml:"twilio"`
	Alert    AlertConfig    `yaml:"alert"`
	Backup   BackupConfig   `yaml:"backup"`
	Cache    CacheConfig    `yaml:"cache"`
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

func (c *AppConfig) GetUploadDir() string {
	return path.Join(c.System.Workdir, "uploads")
}

func (c *AppConfig) GetBackupDir() string {
	if c.Backup.Dir != "" {
		return c.Backup.Dir
	}
	return path.Join(c.System.Workdir, "backups")
}

// GetSqlitePath returns the sqlite database file, relative names live under the data dir
func (c *AppConfig) GetSqlitePath() string {
	name := c.Database.Name
	if name == "" {
		name = "sarees.db"
	}
	if name == ":memory:" || path.IsAbs(name) {
		return name
	}
	return path.Join(c.GetDataDir(), name)
}

func (c *AppConfig) GetSnapshotPath() string {
	name := c.Storage.SnapshotFile
	if name == "" {
		name = "storefront.snapshot.db"
	}
	if path.IsAbs(name) {
		return name
	}
	return path.Join(c.GetDataDir(), name)
}

func (c *AppConfig) InitDirs() {
	_ = os.MkdirAll(c.GetLogDir(), 0o755)
	_ = os.MkdirAll(c.GetDataDir(), 0o755)
	_ = os.MkdirAll(c.GetUploadDir(), 0o755)
	_ = os.MkdirAll(c.GetBackupDir(), 0o755)
}

// Validate rejects values the application cannot start with
func (c *AppConfig) Validate() error {
	switch strings.ToLower(c.Database.Type) {
	case "postgres", "postgresql", "sqlite", "sqlite3":
	default:
		return fmt.Errorf("unsupported database type %q", c.Database.Type)
	}
	switch strings.ToLower(c.Storage.Driver) {
	case "sql", "snapshot":
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}
	if c.Admin.MaxAttempts <= 0 {
		return fmt.Errorf("admin.max_attempts must be positive")
	}
	if c.Cache.TTLSeconds <= 0 || c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache.ttl_seconds and cache.max_entries must be positive")
	}
	if c.Web.Port <= 0 || c.Web.Port > 65535 {
		return fmt.Errorf("invalid web port %d", c.Web.Port)
	}
	return nil
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "SareeStore",
		Location: "Asia/Kolkata",
		Workdir:  "/var/storefront",
		Debug:    true,
		SiteURL:  "https://yourdomain.com",
	},
	Web: WebConfig{
		Host:          "0.0.0.0",
		Port:          3001,
		Secret:        "9b6de5cc-0731-4bf1-storefront-b0fd7ad81b92",
		TokenTTLHours: 12,
		CorsOrigins:   []string{"*"},
	},
	Database: DBConfig{
		Type:     "sqlite",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "sarees.db",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
		Debug:    false,
	},
	Storage: StorageConfig{
		Driver:       "sql",
		SnapshotFile: "storefront.snapshot.db",
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/storefront/logs/storefront.log",
	},
	Admin: AdminConfig{
		Username:    "admin",
		Password:    "",
		MaxAttempts: 3,
	},
	WhatsApp: WhatsAppConfig{
		Phone: "919688484344",
	},
	Twilio: TwilioConfig{
		ApiBase: "https://api.twilio.com/2010-04-01",
	},
	Alert: AlertConfig{
		SmtpHost: "smtp.gmail.com",
		SmtpPort: 587,
	},
	Backup: BackupConfig{
		Enabled: true,
		Cron:    "@daily",
		Keep:    7,
	},
	Cache: CacheConfig{
		TTLSeconds: 300,
		MaxEntries: 1000,
	},
}

func setEnvValue(name string, val *string) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		*val = evalue
	}
}

func setEnvBoolValue(name string, val *bool) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		if b, err := cast.ToBoolE(evalue); err == nil {
			*val = b
		}
	}
}

func setEnvIntValue(name string, val *int) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	if p, err := cast.ToIntE(evalue); err == nil {
		*val = p
	}
}

// LoadConfig reads the yaml file (when present) and applies environment overrides.
// A .env file in the working directory is loaded first.
func LoadConfig(cfile string) *AppConfig {
	_ = godotenv.Load()

	var cfg = new(AppConfig)
	*cfg = *DefaultAppConfig
	cfg.Web.CorsOrigins = append([]string(nil), DefaultAppConfig.Web.CorsOrigins...)

	if cfile == "" {
		cfile = "storefront.yml"
	}
	if data, err := os.ReadFile(cfile); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			panic(fmt.Errorf("parse config %s: %w", cfile, err))
		}
	} else if !os.IsNotExist(err) {
		panic(err)
	}

	applyEnv(cfg)
	return cfg
}

func applyEnv(cfg *AppConfig) {
	setEnvValue("STOREFRONT_SYSTEM_WORKER_DIR", &cfg.System.Workdir)
	setEnvValue("STOREFRONT_SYSTEM_SITE_URL", &cfg.System.SiteURL)
	setEnvBoolValue("STOREFRONT_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("STOREFRONT_WEB_HOST", &cfg.Web.Host)
	setEnvValue("STOREFRONT_WEB_SECRET", &cfg.Web.Secret)
	setEnvIntValue("STOREFRONT_WEB_PORT", &cfg.Web.Port)
	setEnvIntValue("PORT", &cfg.Web.Port)

	setEnvValue("STOREFRONT_DB_TYPE", &cfg.Database.Type)
	setEnvValue("STOREFRONT_DB_HOST", &cfg.Database.Host)
	setEnvValue("STOREFRONT_DB_NAME", &cfg.Database.Name)
	setEnvValue("STOREFRONT_DB_USER", &cfg.Database.User)
	setEnvValue("STOREFRONT_DB_PWD", &cfg.Database.Passwd)
	setEnvIntValue("STOREFRONT_DB_PORT", &cfg.Database.Port)
	setEnvBoolValue("STOREFRONT_DB_DEBUG", &cfg.Database.Debug)

	setEnvValue("STOREFRONT_STORAGE_DRIVER", &cfg.Storage.Driver)
	setEnvValue("REDIS_URL", &cfg.Cache.RedisURL)
	setEnvIntValue("STOREFRONT_CACHE_TTL", &cfg.Cache.TTLSeconds)
	setEnvIntValue("STOREFRONT_CACHE_MAX_ENTRIES", &cfg.Cache.MaxEntries)

	setEnvValue("STOREFRONT_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("STOREFRONT_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)

	setEnvValue("ADMIN_USER", &cfg.Admin.Username)
	setEnvValue("ADMIN_PASS", &cfg.Admin.Password)
	setEnvIntValue("STOREFRONT_ADMIN_MAX_ATTEMPTS", &cfg.Admin.MaxAttempts)

	setEnvValue("STOREFRONT_WHATSAPP_PHONE", &cfg.WhatsApp.Phone)

	setEnvValue("TWILIO_ACCOUNT_SID", &cfg.Twilio.AccountSid)
	setEnvValue("TWILIO_AUTH_TOKEN", &cfg.Twilio.AuthToken)
	setEnvValue("TWILIO_WHATSAPP_FROM", &cfg.Twilio.From)
	setEnvValue("TWILIO_WHATSAPP_TO", &cfg.Twilio.To)

	setEnvValue("ALERT_EMAIL", &cfg.Alert.Email)
	setEnvValue("ALERT_EMAIL_PASSWORD", &cfg.Alert.Password)
	setEnvValue("SECURITY_TEAM_EMAIL", &cfg.Alert.Recipient)
	setEnvValue("STOREFRONT_ALERT_SMTP_HOST", &cfg.Alert.SmtpHost)
	setEnvIntValue("STOREFRONT_ALERT_SMTP_PORT", &cfg.Alert.SmtpPort)
}
