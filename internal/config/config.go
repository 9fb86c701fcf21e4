package config

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Log       LogConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Email     EmailConfig
	Printer   PrinterConfig
	Store     StoreConfig
	Currency  CurrencyConfig
	Invoice   InvoiceConfig
	Admin     AdminConfig
	Redis     RedisConfig
	Session   SessionConfig
}

type AppConfig struct {
	Name        string
	Env         string
	Port        string
	Debug       bool
	FrontendURL string
}

type LogConfig struct {
	Level  string
	Format string
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
}

type JWTConfig struct {
	Secret             string
	ExpiryHours        time.Duration
	RefreshExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

type PrinterConfig struct {
	Type         string
	USBPath      string
	Address      string
	Width        int
	PollInterval time.Duration
}

// StoreConfig is printed in the receipt header.
type StoreConfig struct {
	Name    string
	Address string
	Phone   string
}

type CurrencyConfig struct {
	Code           string
	Locale         string
	Symbol         string
	FractionDigits int
}

type InvoiceConfig struct {
	AutoPrefix   string
	ManualPrefix string
}

// AdminConfig carries the admin capability secret and the seeded admin account.
type AdminConfig struct {
	Password     string
	SeedEmail    string
	SeedUsername string
	SeedPassword string
}

// RedisConfig is optional; an empty Addr keeps invoice counters in the database.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SessionConfig struct {
	IdleTimeout   time.Duration
	SweepInterval time.Duration
}

// Load reads .env from the working directory plus the environment.
func Load() *Config {
	return LoadFile(".env")
}

// LoadFile reads the given env file plus the environment. A missing file is
// not fatal.
func LoadFile(path string) *Config {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Err(err).Str("file", path).Msg("config file not found, using environment variables")
	}

	setDefaults(v)

	return &Config{
		App: AppConfig{
			Name:        v.GetString("APP_NAME"),
			Env:         v.GetString("APP_ENV"),
			Port:        v.GetString("APP_PORT"),
			Debug:       v.GetBool("APP_DEBUG"),
			FrontendURL: v.GetString("APP_FRONTEND_URL"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(v.GetString("DB_DRIVER")),
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			Name:       v.GetString("DB_NAME"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			SSLMode:    v.GetString("DB_SSL_MODE"),
			Timezone:   v.GetString("DB_TIMEZONE"),
			SQLitePath: v.GetString("DB_SQLITE_PATH"),
		},
		JWT: JWTConfig{
			Secret:             v.GetString("JWT_SECRET"),
			ExpiryHours:        time.Duration(v.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
			RefreshExpiryHours: time.Duration(v.GetInt("JWT_REFRESH_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			AllowedMethods: splitList(v.GetString("CORS_ALLOWED_METHODS")),
			AllowedHeaders: splitList(v.GetString("CORS_ALLOWED_HEADERS")),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: v.GetInt("RATE_LIMIT_DURATION"),
		},
		Email: EmailConfig{
			SMTPHost:     v.GetString("SMTP_HOST"),
			SMTPPort:     v.GetInt("SMTP_PORT"),
			SMTPUsername: v.GetString("SMTP_USERNAME"),
			SMTPPassword: v.GetString("SMTP_PASSWORD"),
			FromName:     v.GetString("MAIL_FROM_NAME"),
			FromEmail:    v.GetString("MAIL_FROM_EMAIL"),
		},
		Printer: PrinterConfig{
			Type:         strings.ToLower(v.GetString("PRINTER_TYPE")),
			USBPath:      v.GetString("PRINTER_USB_PATH"),
			Address:      v.GetString("PRINTER_ADDRESS"),
			Width:        v.GetInt("PRINTER_WIDTH"),
			PollInterval: v.GetDuration("PRINTER_POLL_INTERVAL"),
		},
		Store: StoreConfig{
			Name:    v.GetString("STORE_NAME"),
			Address: v.GetString("STORE_ADDRESS"),
			Phone:   v.GetString("STORE_PHONE"),
		},
		Currency: CurrencyConfig{
			Code:           v.GetString("CURRENCY_CODE"),
			Locale:         v.GetString("CURRENCY_LOCALE"),
			Symbol:         v.GetString("CURRENCY_SYMBOL"),
			FractionDigits: v.GetInt("CURRENCY_FRACTION_DIGITS"),
		},
		Invoice: InvoiceConfig{
			AutoPrefix:   v.GetString("INVOICE_AUTO_PREFIX"),
			ManualPrefix: v.GetString("INVOICE_MANUAL_PREFIX"),
		},
		Admin: AdminConfig{
			Password:     v.GetString("ADMIN_PASSWORD"),
			SeedEmail:    v.GetString("ADMIN_EMAIL"),
			SeedUsername: v.GetString("ADMIN_USERNAME"),
			SeedPassword: v.GetString("ADMIN_SEED_PASSWORD"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			IdleTimeout:   v.GetDuration("SESSION_IDLE_TIMEOUT"),
			SweepInterval: v.GetDuration("SESSION_SWEEP_INTERVAL"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "kasir-api")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("APP_FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "kasir")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "Asia/Jakarta")
	v.SetDefault("DB_SQLITE_PATH", "kasir.db")
	v.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("JWT_REFRESH_EXPIRY_HOURS", 168)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("CORS_ALLOWED_METHODS", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
	v.SetDefault("CORS_ALLOWED_HEADERS", "Origin,Content-Type,Accept,Authorization,X-Session-ID,Idempotency-Key")
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_DURATION", 60)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("MAIL_FROM_NAME", "Kasir")
	v.SetDefault("PRINTER_TYPE", "none")
	v.SetDefault("PRINTER_WIDTH", 32)
	v.SetDefault("PRINTER_POLL_INTERVAL", "2s")
	v.SetDefault("STORE_NAME", "Toko")
	v.SetDefault("CURRENCY_CODE", "IDR")
	v.SetDefault("CURRENCY_LOCALE", "id-ID")
	v.SetDefault("CURRENCY_SYMBOL", "Rp")
	v.SetDefault("CURRENCY_FRACTION_DIGITS", 0)
	v.SetDefault("INVOICE_AUTO_PREFIX", "INV")
	v.SetDefault("INVOICE_MANUAL_PREFIX", "MNL")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("SESSION_IDLE_TIMEOUT", "2h")
	v.SetDefault("SESSION_SWEEP_INTERVAL", "5m")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
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
