package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_DSN", "host=localhost user=app dbname=fieldbook sslmode=disable")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBDriver != "postgres" {
		t.Fatalf("expected postgres driver, got %q", cfg.DBDriver)
	}
	if cfg.AccessTokenTTL != time.Hour {
		t.Fatalf("expected 1h token ttl, got %v", cfg.AccessTokenTTL)
	}
	if cfg.OTPTTL != 10*time.Minute || cfg.OTPResendInterval != time.Minute {
		t.Fatalf("unexpected otp defaults: %v %v", cfg.OTPTTL, cfg.OTPResendInterval)
	}
	if cfg.Addr() != ":8080" {
		t.Fatalf("expected :8080, got %q", cfg.Addr())
	}
	if !cfg.Local() {
		t.Fatalf("expected local env by default")
	}
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("JWT_SECRET", "secret")
	os.Unsetenv("DATABASE_DSN")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatalf("expected error when DATABASE_DSN is missing")
	}
}

func TestLoadEnvFile(t *testing.T) {
	setRequired(t)
	t.Setenv("OTP_TTL", "")
	os.Unsetenv("OTP_TTL")

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("OTP_TTL=3m\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("OTP_TTL") })

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OTPTTL != 3*time.Minute {
		t.Fatalf("expected 3m from env file, got %v", cfg.OTPTTL)
	}
}

func TestLoadNormalizesMySQLDSN(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("DATABASE_DSN", "app:pw@tcp(localhost:3306)/fieldbook")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBDriver != "mysql" {
		t.Fatalf("expected mysql, got %q", cfg.DBDriver)
	}
	if !strings.Contains(cfg.DatabaseDSN, "parseTime=true") {
		t.Fatalf("expected parseTime in dsn, got %q", cfg.DatabaseDSN)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_DRIVER", "oracle")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatalf("expected unsupported driver error")
	}
}
