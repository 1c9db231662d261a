// Package config reads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/dukerupert/wardbook/internal/backup"
)

// Config holds application configuration.
type Config struct {
	Port      string
	LogLevel  string
	LogFormat string

	DBDriver    string
	DBPath      string
	DatabaseURL string

	JWTSecret     string
	SessionTTL    time.Duration
	AdminEmail    string
	AdminPassword string

	AllowedOrigins []string

	Backup backup.Config
}

// LoadDotEnv seeds the environment from path when the file exists. Variables
// already set in the environment win.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	ttl, err := time.ParseDuration(getEnv("WARDBOOK_SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("parse WARDBOOK_SESSION_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("WARDBOOK_SESSION_TTL must be positive, got %s", ttl)
	}

	cfg := &Config{
		Port:          getEnv("WARDBOOK_PORT", "8080"),
		LogLevel:      getEnv("WARDBOOK_LOG_LEVEL", "info"),
		LogFormat:     getEnv("WARDBOOK_LOG_FORMAT", "text"),
		DBDriver:      strings.ToLower(getEnv("WARDBOOK_DB_DRIVER", "sqlite")),
		DBPath:        getEnv("WARDBOOK_DB_PATH", "wardbook.db"),
		DatabaseURL:   os.Getenv("WARDBOOK_DATABASE_URL"),
		JWTSecret:     os.Getenv("WARDBOOK_JWT_SECRET"),
		SessionTTL:    ttl,
		AdminEmail:    os.Getenv("WARDBOOK_ADMIN_EMAIL"),
		AdminPassword: os.Getenv("WARDBOOK_ADMIN_PASSWORD"),
		Backup: backup.Config{
			S3: backup.S3Config{
				Endpoint:  os.Getenv("WARDBOOK_S3_ENDPOINT"),
				Bucket:    os.Getenv("WARDBOOK_S3_BUCKET"),
				Region:    getEnv("WARDBOOK_S3_REGION", "us-east-1"),
				AccessKey: os.Getenv("WARDBOOK_S3_ACCESS_KEY"),
				SecretKey: os.Getenv("WARDBOOK_S3_SECRET_KEY"),
			},
			Passphrase: os.Getenv("WARDBOOK_BACKUP_PASSPHRASE"),
		},
	}
	if origins := os.Getenv("WARDBOOK_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	switch cfg.DBDriver {
	case "sqlite":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, errors.New("WARDBOOK_DATABASE_URL is required for the postgres driver")
		}
	default:
		return nil, fmt.Errorf("unknown WARDBOOK_DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("WARDBOOK_JWT_SECRET is required")
	}

	return cfg, nil
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
