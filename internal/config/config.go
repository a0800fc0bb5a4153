package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Printer   PrinterConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
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

// PrinterConfig describes the shared print surface, the fallback output
// target and the delivery policy.
type PrinterConfig struct {
	Type    string
	USBPath string
	Address string

	FallbackType    string
	FallbackUSBPath string
	FallbackAddress string

	Width       int
	MaxAttempts int
	SettleDelay time.Duration
	RetryDelay  time.Duration
	Timezone    string
}

// Location returns the time zone receipts are rendered in.
func (c *PrinterConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Warning: unknown receipt timezone %q, using UTC: %v", c.Timezone, err)
		return time.UTC
	}
	return loc
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "investify-receipts")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "investify")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	v.SetDefault("RATE_LIMIT_REQUESTS", 30)
	v.SetDefault("RATE_LIMIT_DURATION", 60)
	v.SetDefault("PRINTER_TYPE", "none")
	v.SetDefault("PRINTER_USB_PATH", "/dev/usb/lp0")
	v.SetDefault("PRINTER_ADDRESS", "")
	v.SetDefault("PRINTER_FALLBACK_TYPE", "none")
	v.SetDefault("PRINTER_FALLBACK_USB_PATH", "")
	v.SetDefault("PRINTER_FALLBACK_ADDRESS", "")
	v.SetDefault("PRINTER_WIDTH", 48)
	v.SetDefault("PRINTER_MAX_ATTEMPTS", 3)
	v.SetDefault("PRINTER_SETTLE_DELAY_MS", 500)
	v.SetDefault("PRINTER_RETRY_DELAY_MS", 1000)
	v.SetDefault("RECEIPT_TIMEZONE", "UTC")
}

func Load() *Config {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	setDefaults(v)

	return &Config{
		App: AppConfig{
			Name:  v.GetString("APP_NAME"),
			Env:   v.GetString("APP_ENV"),
			Port:  v.GetString("APP_PORT"),
			Debug: v.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
			Timezone: v.GetString("DB_TIMEZONE"),
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: v.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: v.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: v.GetInt("RATE_LIMIT_DURATION"),
		},
		Printer: PrinterConfig{
			Type:            v.GetString("PRINTER_TYPE"),
			USBPath:         v.GetString("PRINTER_USB_PATH"),
			Address:         v.GetString("PRINTER_ADDRESS"),
			FallbackType:    v.GetString("PRINTER_FALLBACK_TYPE"),
			FallbackUSBPath: v.GetString("PRINTER_FALLBACK_USB_PATH"),
			FallbackAddress: v.GetString("PRINTER_FALLBACK_ADDRESS"),
			Width:           v.GetInt("PRINTER_WIDTH"),
			MaxAttempts:     v.GetInt("PRINTER_MAX_ATTEMPTS"),
			SettleDelay:     time.Duration(v.GetInt("PRINTER_SETTLE_DELAY_MS")) * time.Millisecond,
			RetryDelay:      time.Duration(v.GetInt("PRINTER_RETRY_DELAY_MS")) * time.Millisecond,
			Timezone:        v.GetString("RECEIPT_TIMEZONE"),
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
