package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WARDBOOK_JWT_SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.DBDriver != "sqlite" {
		t.Errorf("driver = %q, want sqlite", cfg.DBDriver)
	}
	if cfg.DBPath != "wardbook.db" {
		t.Errorf("db path = %q, want wardbook.db", cfg.DBPath)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("session ttl = %v, want 24h", cfg.SessionTTL)
	}
	if cfg.Backup.S3.Region != "us-east-1" {
		t.Errorf("region = %q", cfg.Backup.S3.Region)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("WARDBOOK_JWT_SECRET", "s3cret")
	t.Setenv("WARDBOOK_PORT", "9090")
	t.Setenv("WARDBOOK_DB_DRIVER", "Postgres")
	t.Setenv("WARDBOOK_DATABASE_URL", "postgres://localhost/ward")
	t.Setenv("WARDBOOK_SESSION_TTL", "90m")
	t.Setenv("WARDBOOK_S3_BUCKET", "ward-backups")
	t.Setenv("WARDBOOK_BACKUP_PASSPHRASE", "pass")
	t.Setenv("WARDBOOK_ALLOWED_ORIGINS", "ward.example.org, localhost:*,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("port = %q, want 9090", cfg.Port)
	}
	if cfg.DBDriver != "postgres" {
		t.Errorf("driver = %q, want postgres", cfg.DBDriver)
	}
	if cfg.SessionTTL != 90*time.Minute {
		t.Errorf("session ttl = %v, want 90m", cfg.SessionTTL)
	}
	if cfg.Backup.S3.Bucket != "ward-backups" || cfg.Backup.Passphrase != "pass" {
		t.Errorf("backup = %+v", cfg.Backup)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "localhost:*" {
		t.Errorf("origins = %v", cfg.AllowedOrigins)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"bad ttl", map[string]string{"WARDBOOK_JWT_SECRET": "x", "WARDBOOK_SESSION_TTL": "soon"}},
		{"negative ttl", map[string]string{"WARDBOOK_JWT_SECRET": "x", "WARDBOOK_SESSION_TTL": "-1h"}},
		{"unknown driver", map[string]string{"WARDBOOK_JWT_SECRET": "x", "WARDBOOK_DB_DRIVER": "mysql"}},
		{"postgres without url", map[string]string{"WARDBOOK_JWT_SECRET": "x", "WARDBOOK_DB_DRIVER": "postgres"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("WARDBOOK_JWT_SECRET", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing file: %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("WARDBOOK_TEST_DOTENV=from-file\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WARDBOOK_TEST_DOTENV", "")
	os.Unsetenv("WARDBOOK_TEST_DOTENV")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := os.Getenv("WARDBOOK_TEST_DOTENV"); got != "from-file" {
		t.Errorf("WARDBOOK_TEST_DOTENV = %q, want from-file", got)
	}
}
