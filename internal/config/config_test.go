package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// envOrDefault treats empty as unset.
	t.Setenv("APP_ENV", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("QUOTE_NUMBER_SCHEME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.QuoteScheme != SchemeDaily {
		t.Errorf("QuoteScheme = %q, want daily", cfg.QuoteScheme)
	}
	if cfg.LoginRateLimit != 10 {
		t.Errorf("LoginRateLimit = %d, want 10", cfg.LoginRateLimit)
	}
}

func TestLoadQuoteScheme(t *testing.T) {
	t.Setenv("QUOTE_NUMBER_SCHEME", "yearly")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.QuoteScheme != SchemeYearly {
		t.Errorf("QuoteScheme = %q, want yearly", cfg.QuoteScheme)
	}

	t.Setenv("QUOTE_NUMBER_SCHEME", "monthly")
	if _, err := Load(); err == nil {
		t.Error("Load accepted invalid QUOTE_NUMBER_SCHEME")
	}
}

func TestLoadProductionGuards(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "POSTGRES_PASSWORD") {
		t.Errorf("Load in production without DB password: err = %v", err)
	}

	t.Setenv("POSTGRES_PASSWORD", "s3cret")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Errorf("Load in production without JWT secret: err = %v", err)
	}

	t.Setenv("JWT_SECRET", "prod-secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.JWTSecret != "prod-secret" {
		t.Errorf("JWTSecret = %q", cfg.JWTSecret)
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBHost: "db", DBPort: "5433",
		DBUser: "qd", DBPassword: "pw", DBName: "quotedesk",
	}
	want := "postgres://qd:pw@db:5433/quotedesk?sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}
