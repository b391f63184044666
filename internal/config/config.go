// Package config loads runtime settings from the environment and an optional
// config file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds runtime settings for the screenshot server.
type Config struct {
	AppPort         string
	StoreDriver     string
	DatabasePath    string
	DatabaseDSN     string
	UploadDir       string
	MaxUploadBytes  int
	MaxImagePixels  int
	OCRLanguage     string
	OCRTimeout      time.Duration
	FingerprintSize int
	RabbitMQURL     string
	LogLevel        string
	LogFormat       string
	BcryptCost      int
	CORSOrigins     string
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":3000")
	v.SetDefault("STORE_DRIVER", "json")
	v.SetDefault("DATABASE_PATH", "./database.json")
	v.SetDefault("DATABASE_DSN", "screenshots.db")
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("MAX_UPLOAD_BYTES", 20*1024*1024)
	v.SetDefault("MAX_IMAGE_PIXELS", 40_000_000)
	v.SetDefault("OCR_LANGUAGE", "eng")
	v.SetDefault("OCR_TIMEOUT", "60s")
	v.SetDefault("FINGERPRINT_SIZE", 64)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
}

// Load reads configuration from environment variables, overlaid on the file
// named by CONFIG_FILE when it is set.
func Load() (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}
	return FromViper(v)
}

// FromViper builds and validates a Config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:         v.GetString("APP_PORT"),
		StoreDriver:     strings.ToLower(v.GetString("STORE_DRIVER")),
		DatabasePath:    v.GetString("DATABASE_PATH"),
		DatabaseDSN:     v.GetString("DATABASE_DSN"),
		UploadDir:       v.GetString("UPLOAD_DIR"),
		MaxUploadBytes:  v.GetInt("MAX_UPLOAD_BYTES"),
		MaxImagePixels:  v.GetInt("MAX_IMAGE_PIXELS"),
		OCRLanguage:     v.GetString("OCR_LANGUAGE"),
		OCRTimeout:      v.GetDuration("OCR_TIMEOUT"),
		FingerprintSize: v.GetInt("FINGERPRINT_SIZE"),
		RabbitMQURL:     v.GetString("RABBITMQ_URL"),
		LogLevel:        strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:       strings.ToLower(v.GetString("LOG_FORMAT")),
		BcryptCost:      v.GetInt("BCRYPT_COST"),
		CORSOrigins:     v.GetString("CORS_ALLOW_ORIGINS"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case "json", "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q: want json, sqlite or postgres", c.StoreDriver)
	}
	if c.StoreDriver == "json" && c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required for the json store")
	}
	if c.StoreDriver != "json" && c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN is required for the %s store", c.StoreDriver)
	}
	if c.UploadDir == "" {
		return fmt.Errorf("UPLOAD_DIR is required")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if c.MaxImagePixels <= 0 {
		return fmt.Errorf("MAX_IMAGE_PIXELS must be positive, got %d", c.MaxImagePixels)
	}
	if c.FingerprintSize <= 0 {
		return fmt.Errorf("FINGERPRINT_SIZE must be positive, got %d", c.FingerprintSize)
	}
	if c.OCRTimeout < 0 {
		return fmt.Errorf("OCR_TIMEOUT must not be negative, got %s", c.OCRTimeout)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q", c.LogFormat)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	return nil
}
