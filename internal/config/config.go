// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// NumberScheme selects how quotation numbers are minted.
type NumberScheme string

const (
	// SchemeDaily produces YYYYMMDD + a 3-digit counter that resets each day.
	SchemeDaily NumberScheme = "daily"
	// SchemeYearly produces QT-YYYY- + a 4-digit counter that resets each year.
	SchemeYearly NumberScheme = "yearly"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// Quotation numbering
	QuoteScheme NumberScheme

	// External PDF renderer
	PDFScript string // path to the renderer script
	PythonBin string // interpreter used to run it
	TempDir   string // scratch directory for renderer input/output

	// S3-compatible storage for template logos (optional)
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	// Login rate limiting
	LoginRateLimit  int
	LoginRateWindow time.Duration
}

// Load reads configuration from the environment, applying defaults for
// development where appropriate. A .env file is honoured when present.
// Returns an error if critical values are missing in production mode.
func Load() (*Config, error) {
	// Best effort; absence of a .env file is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "quotedesk"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "quotedesk"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		JWTSecret: envOrDefault("JWT_SECRET", "dev-secret"),

		PDFScript: envOrDefault("PDF_SCRIPT", "scripts/generate_quotation_pdf.py"),
		PythonBin: envOrDefault("PYTHON_BIN", "python3"),
		TempDir:   envOrDefault("PDF_TEMP_DIR", os.TempDir()),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "quotedesk-public"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		LoginRateLimit: 10,
	}

	ttl, err := time.ParseDuration(envOrDefault("TOKEN_TTL", "168h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	cfg.TokenTTL = ttl

	window, err := time.ParseDuration(envOrDefault("LOGIN_RATE_WINDOW", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOGIN_RATE_WINDOW: %w", err)
	}
	cfg.LoginRateWindow = window

	switch scheme := NumberScheme(envOrDefault("QUOTE_NUMBER_SCHEME", string(SchemeDaily))); scheme {
	case SchemeDaily, SchemeYearly:
		cfg.QuoteScheme = scheme
	default:
		return nil, fmt.Errorf("invalid QUOTE_NUMBER_SCHEME %q (want daily or yearly)", scheme)
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.JWTSecret == "dev-secret" {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
