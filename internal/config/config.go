package config

import (
	"log"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Ledger    LedgerConfig
	Redis     RedisConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Printer   PrinterConfig
}

type AppConfig struct {
	Name     string
	Env      string
	Port     string
	LogLevel string
}

type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	Name       string
	User       string
	Password   string
	SSLMode    string
	Timezone   string
	SQLitePath string
	LogLevel   string
}

// LedgerConfig drives the sale coordinator and its optimistic retry loop.
type LedgerConfig struct {
	Timezone     string
	NewItemStock int
	ReceiptTag   string
	MaxAttempts  int
	RetryBase    time.Duration
}

type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	DayStatusTTL   time.Duration
	ConnectTimeout time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// PrinterConfig addresses the till's receipt printer.
type PrinterConfig struct {
	Type      string
	USBPath   string
	Address   string
	Width     int
	StoreName string
	Footer    string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	setDefaults()

	return &Config{
		App: AppConfig{
			Name:     viper.GetString("APP_NAME"),
			Env:      viper.GetString("APP_ENV"),
			Port:     viper.GetString("APP_PORT"),
			LogLevel: viper.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Driver:     viper.GetString("DB_DRIVER"),
			Host:       viper.GetString("DB_HOST"),
			Port:       viper.GetString("DB_PORT"),
			Name:       viper.GetString("DB_NAME"),
			User:       viper.GetString("DB_USER"),
			Password:   viper.GetString("DB_PASSWORD"),
			SSLMode:    viper.GetString("DB_SSL_MODE"),
			Timezone:   viper.GetString("DB_TIMEZONE"),
			SQLitePath: viper.GetString("DB_SQLITE_PATH"),
			LogLevel:   viper.GetString("DB_LOG_LEVEL"),
		},
		Ledger: LedgerConfig{
			Timezone:     viper.GetString("LEDGER_TIMEZONE"),
			NewItemStock: viper.GetInt("LEDGER_NEW_ITEM_STOCK"),
			ReceiptTag:   viper.GetString("LEDGER_RECEIPT_TAG"),
			MaxAttempts:  viper.GetInt("LEDGER_MAX_ATTEMPTS"),
			RetryBase:    time.Duration(viper.GetInt("LEDGER_RETRY_BASE_MS")) * time.Millisecond,
		},
		Redis: RedisConfig{
			Addr:           viper.GetString("REDIS_ADDR"),
			Password:       viper.GetString("REDIS_PASSWORD"),
			DB:             viper.GetInt("REDIS_DB"),
			DayStatusTTL:   viper.GetDuration("DAY_STATUS_CACHE_TTL"),
			ConnectTimeout: viper.GetDuration("REDIS_CONNECT_TIMEOUT"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Printer: PrinterConfig{
			Type:      viper.GetString("PRINTER_TYPE"),
			USBPath:   viper.GetString("PRINTER_USB_PATH"),
			Address:   viper.GetString("PRINTER_ADDRESS"),
			Width:     viper.GetInt("PRINTER_WIDTH"),
			StoreName: viper.GetString("RECEIPT_STORE_NAME"),
			Footer:    viper.GetString("RECEIPT_FOOTER"),
		},
	}
}

func setDefaults() {
	viper.SetDefault("APP_NAME", "pos-ledger")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "")
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "pos_ledger")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Manila")
	viper.SetDefault("DB_SQLITE_PATH", "pos-ledger.db")
	viper.SetDefault("DB_LOG_LEVEL", "warn")
	viper.SetDefault("LEDGER_TIMEZONE", "Asia/Manila")
	viper.SetDefault("LEDGER_NEW_ITEM_STOCK", 100)
	viper.SetDefault("LEDGER_RECEIPT_TAG", "S")
	viper.SetDefault("LEDGER_MAX_ATTEMPTS", 5)
	viper.SetDefault("LEDGER_RETRY_BASE_MS", 10)
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("DAY_STATUS_CACHE_TTL", "30s")
	viper.SetDefault("REDIS_CONNECT_TIMEOUT", "3s")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_WIDTH", 32)
	viper.SetDefault("RECEIPT_STORE_NAME", "POS")
	viper.SetDefault("RECEIPT_FOOTER", "Thank you!")
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// Location resolves the trading-day timezone, falling back to UTC.
func (c *LedgerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
