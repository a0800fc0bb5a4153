package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg := fromViper(viper.New())

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "none", cfg.Printer.Type)
	assert.Equal(t, "none", cfg.Printer.FallbackType)
	assert.Equal(t, 48, cfg.Printer.Width)
	assert.Equal(t, 3, cfg.Printer.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Printer.SettleDelay)
	assert.Equal(t, time.Second, cfg.Printer.RetryDelay)
	assert.Equal(t, time.UTC, cfg.Printer.Location())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("PRINTER_TYPE", "network")
	v.Set("PRINTER_ADDRESS", "10.0.0.5:9100")
	v.Set("PRINTER_FALLBACK_TYPE", "usb")
	v.Set("PRINTER_FALLBACK_USB_PATH", "/dev/usb/lp1")
	v.Set("PRINTER_WIDTH", 32)
	v.Set("PRINTER_RETRY_DELAY_MS", 250)
	v.Set("RECEIPT_TIMEZONE", "Europe/Madrid")

	cfg := fromViper(v)

	assert.Equal(t, "network", cfg.Printer.Type)
	assert.Equal(t, "10.0.0.5:9100", cfg.Printer.Address)
	assert.Equal(t, "usb", cfg.Printer.FallbackType)
	assert.Equal(t, "/dev/usb/lp1", cfg.Printer.FallbackUSBPath)
	assert.Equal(t, 32, cfg.Printer.Width)
	assert.Equal(t, 250*time.Millisecond, cfg.Printer.RetryDelay)
	assert.Equal(t, "Europe/Madrid", cfg.Printer.Timezone)
}

func TestPrinterConfig_UnknownTimezoneFallsBackToUTC(t *testing.T) {
	cfg := PrinterConfig{Timezone: "Mars/Olympus"}

	assert.Equal(t, time.UTC, cfg.Location())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", User: "u", Password: "p", Name: "n", Port: "5432", SSLMode: "disable", Timezone: "UTC"}

	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", c.DSN())
}
