package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.DBHost != "localhost" {
		t.Errorf("DBHost = %q, want localhost", cfg.DBHost)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.JWTExpiry != 24*time.Hour {
		t.Errorf("JWTExpiry = %v, want 24h", cfg.JWTExpiry)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_NAME", "expenses_test")
	t.Setenv("JWT_EXPIRY", "15m")

	cfg := Load()
	if cfg.DBName != "expenses_test" {
		t.Errorf("DBName = %q, want expenses_test", cfg.DBName)
	}
	if cfg.JWTExpiry != 15*time.Minute {
		t.Errorf("JWTExpiry = %v, want 15m", cfg.JWTExpiry)
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBHost:     "db",
		DBPort:     "5433",
		DBUser:     "app",
		DBPassword: "secret",
		DBName:     "expenses",
		DBSSLMode:  "require",
	}

	dsn := cfg.DSN()
	for _, part := range []string{"host=db", "port=5433", "user=app", "password=secret", "dbname=expenses", "sslmode=require"} {
		if !strings.Contains(dsn, part) {
			t.Errorf("DSN missing %q: %s", part, dsn)
		}
	}
}

func TestParseDurationFallback(t *testing.T) {
	if d := parseDuration("not-a-duration"); d != 24*time.Hour {
		t.Errorf("parseDuration fallback = %v, want 24h", d)
	}
}
