package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App           AppConfig
	Backend       BackendConfig
	Database      DatabaseConfig
	JWT           JWTConfig
	Session       SessionConfig
	CORS          CORSConfig
	RateLimit     RateLimitConfig
	Reports       ReportsConfig
	Notifications NotificationsConfig
	Printer       PrinterConfig
	Email         EmailConfig
}

type AppConfig struct {
	Name     string
	Env      string
	Port     string
	Debug    bool
	ShopName string
	Tagline  string
	Currency string
}

type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
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
	Secret      string
	ExpiryHours time.Duration
}

type SessionConfig struct {
	SealKey string
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

type ReportsConfig struct {
	RefreshMin time.Duration
	RefreshMax time.Duration
	TopBooks   int
	TrendDays  int
}

type NotificationsConfig struct {
	DefaultTTL   time.Duration
	ImportantTTL time.Duration
	BusBuffer    int
}

type PrinterConfig struct {
	Type      string
	USBPath   string
	Address   string
	CharWidth int
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "pahana-console")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8090")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("SHOP_NAME", "PAHANA BOOK SHOP")
	viper.SetDefault("SHOP_TAGLINE", "Professional Book Retailer")
	viper.SetDefault("SHOP_CURRENCY", "Rs.")
	viper.SetDefault("BACKEND_BASE_URL", "http://localhost:8080")
	viper.SetDefault("BACKEND_TIMEOUT_SECONDS", 15)
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "pahana_console")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Colombo")
	viper.SetDefault("SQLITE_PATH", "./console.db")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 12)
	viper.SetDefault("SESSION_SEAL_KEY", "change-this-seal-key-in-production")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("REPORTS_REFRESH_MIN_SECONDS", 45)
	viper.SetDefault("REPORTS_REFRESH_MAX_SECONDS", 90)
	viper.SetDefault("REPORTS_TOP_BOOKS", 5)
	viper.SetDefault("REPORTS_TREND_DAYS", 30)
	viper.SetDefault("NOTIFY_DEFAULT_SECONDS", 5)
	viper.SetDefault("NOTIFY_IMPORTANT_SECONDS", 20)
	viper.SetDefault("NOTIFY_BUS_BUFFER", 32)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_CHAR_WIDTH", 48)
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_FROM_NAME", "Pahana Book Shop")

	return &Config{
		App: AppConfig{
			Name:     viper.GetString("APP_NAME"),
			Env:      viper.GetString("APP_ENV"),
			Port:     viper.GetString("APP_PORT"),
			Debug:    viper.GetBool("APP_DEBUG"),
			ShopName: viper.GetString("SHOP_NAME"),
			Tagline:  viper.GetString("SHOP_TAGLINE"),
			Currency: viper.GetString("SHOP_CURRENCY"),
		},
		Backend: BackendConfig{
			BaseURL: viper.GetString("BACKEND_BASE_URL"),
			Timeout: time.Duration(viper.GetInt("BACKEND_TIMEOUT_SECONDS")) * time.Second,
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
			SQLitePath: viper.GetString("SQLITE_PATH"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		Session: SessionConfig{
			SealKey: viper.GetString("SESSION_SEAL_KEY"),
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
		Reports: ReportsConfig{
			RefreshMin: time.Duration(viper.GetInt("REPORTS_REFRESH_MIN_SECONDS")) * time.Second,
			RefreshMax: time.Duration(viper.GetInt("REPORTS_REFRESH_MAX_SECONDS")) * time.Second,
			TopBooks:   viper.GetInt("REPORTS_TOP_BOOKS"),
			TrendDays:  viper.GetInt("REPORTS_TREND_DAYS"),
		},
		Notifications: NotificationsConfig{
			DefaultTTL:   time.Duration(viper.GetInt("NOTIFY_DEFAULT_SECONDS")) * time.Second,
			ImportantTTL: time.Duration(viper.GetInt("NOTIFY_IMPORTANT_SECONDS")) * time.Second,
			BusBuffer:    viper.GetInt("NOTIFY_BUS_BUFFER"),
		},
		Printer: PrinterConfig{
			Type:      viper.GetString("PRINTER_TYPE"),
			USBPath:   viper.GetString("PRINTER_USB_PATH"),
			Address:   viper.GetString("PRINTER_ADDRESS"),
			CharWidth: viper.GetInt("PRINTER_CHAR_WIDTH"),
		},
		Email: EmailConfig{
			SMTPHost:     viper.GetString("SMTP_HOST"),
			SMTPPort:     viper.GetInt("SMTP_PORT"),
			SMTPUsername: viper.GetString("SMTP_USERNAME"),
			SMTPPassword: viper.GetString("SMTP_PASSWORD"),
			FromName:     viper.GetString("SMTP_FROM_NAME"),
			FromEmail:    viper.GetString("SMTP_FROM_EMAIL"),
		},
	}
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
