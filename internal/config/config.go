package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Supported snapshot store backends.
const (
	BackendMongoDB = "mongodb"
	BackendRedis   = "redis"
	BackendFile    = "file"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Store     StoreConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	Sheets    SheetsConfig
	WhatsApp  WhatsAppConfig
	Reporting ReportingConfig
	Business  BusinessConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LogConfig holds logger options.
type LogConfig struct {
	Level string
}

// StoreConfig selects where the snapshot lives.
type StoreConfig struct {
	Backend       string
	Key           string
	FilePath      string
	FlushInterval time.Duration
	SeedDemoData  bool
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// RedisConfig holds settings for Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SheetsConfig contains configuration required to mirror the daybook to Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	DaybookRange    string
}

// Enabled reports whether the daybook mirror is configured.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// WhatsAppConfig contains credentials for owner alerts through the Meta WhatsApp Cloud API.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	OwnerPhone    string
}

// Enabled reports whether owner alerts are configured.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != ""
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// BusinessConfig holds bookkeeping conventions.
type BusinessConfig struct {
	Currency      string
	InvoicePrefix string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	flushInterval, err := time.ParseDuration(getenvWithDefault("SNAPSHOT_FLUSH_INTERVAL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("SNAPSHOT_FLUSH_INTERVAL: %w", err)
	}
	seed, err := strconv.ParseBool(getenvWithDefault("SEED_DEMO_DATA", "true"))
	if err != nil {
		return nil, fmt.Errorf("SEED_DEMO_DATA: %w", err)
	}
	redisDB, err := strconv.Atoi(getenvWithDefault("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			Backend:       strings.ToLower(getenvWithDefault("STORE_BACKEND", BackendMongoDB)),
			Key:           getenvWithDefault("SNAPSHOT_KEY", "tallypro_data_v11"),
			FilePath:      getenvWithDefault("SNAPSHOT_FILE", "data/tally.json"),
			FlushInterval: flushInterval,
			SeedDemoData:  seed,
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "tally"),
		},
		Redis: RedisConfig{
			Addr:     getenvWithDefault("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			DaybookRange:    getenvWithDefault("DAYBOOK_SHEET_RANGE", "Daybook!A:H"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			OwnerPhone:    os.Getenv("OWNER_PHONE"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "Asia/Kolkata"),
		},
		Business: BusinessConfig{
			Currency:      strings.ToUpper(getenvWithDefault("CURRENCY", money.INR)),
			InvoicePrefix: getenvWithDefault("INVOICE_PREFIX", "INV"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Store.Key == "" {
		return errors.New("SNAPSHOT_KEY must be provided")
	}

	switch c.Store.Backend {
	case BackendMongoDB:
		if c.MongoDB.URI == "" {
			return errors.New("MONGODB_URI must be provided")
		}
		if c.MongoDB.DBName == "" {
			return errors.New("MONGODB_DB_NAME must be provided")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("REDIS_ADDR must be provided")
		}
	case BackendFile:
		if c.Store.FilePath == "" {
			return errors.New("SNAPSHOT_FILE must be provided")
		}
	default:
		return fmt.Errorf("STORE_BACKEND %q is not one of mongodb, redis, file", c.Store.Backend)
	}

	if c.Store.FlushInterval <= 0 {
		return errors.New("SNAPSHOT_FLUSH_INTERVAL must be positive")
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must be provided together")
	}

	if c.WhatsApp.Enabled() {
		switch {
		case c.WhatsApp.PhoneNumberID == "":
			return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided")
		case c.WhatsApp.OwnerPhone == "":
			return errors.New("OWNER_PHONE must be provided")
		case c.WhatsApp.BaseURL == "":
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		case c.WhatsApp.APIVersion == "":
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
	}

	if _, err := cron.ParseStandard(c.Reporting.CronSchedule); err != nil {
		return fmt.Errorf("REPORT_CRON_SCHEDULE is invalid: %w", err)
	}

	if _, err := time.LoadLocation(c.Reporting.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}

	if money.GetCurrency(c.Business.Currency) == nil {
		return fmt.Errorf("CURRENCY %q is not a known currency code", c.Business.Currency)
	}

	if c.Business.InvoicePrefix == "" {
		return errors.New("INVOICE_PREFIX must not be empty")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
