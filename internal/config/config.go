// Package config loads and validates all environment variables at startup.
// Every other package receives typed values — nothing reads os.Getenv
// directly.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config is the fully-parsed application configuration.
type Config struct {
	// ── Server ────────────────────────────────────────────────────────────────
	Port    string // default "8080"
	Env     string // "development" | "staging" | "production"
	BaseURL string // e.g. "https://app.safepaws.ai"

	// ── Storage ───────────────────────────────────────────────────────────────
	DataDir      string // default "data" — one <collection>.json per key
	StoreBackend string // "file" (default) or "sqlite"
	SQLitePath   string // default "data/safepaws.db", used when backend=sqlite

	// ── Stripe (donations) ────────────────────────────────────────────────────
	StripeSecretKey     string
	StripeWebhookSecret string

	// ── SendGrid ──────────────────────────────────────────────────────────────
	SendGridAPIKey string
	EmailFromAddr  string // e.g. "alerts@safepaws.ai"
	EmailFromName  string // e.g. "SafePaws AI"

	// ── Twilio ────────────────────────────────────────────────────────────────
	// Optional. When unset, SMS delivery runs in demo mode (no-op sender).
	TwilioSID   string
	TwilioToken string
	TwilioPhone string

	// ── External services ─────────────────────────────────────────────────────
	NominatimURL  string // default "https://nominatim.openstreetmap.org"
	OSRMURL       string // default "https://router.project-osrm.org"
	ClassifierURL string // inference endpoint; empty disables detection

	// ── Shelter ───────────────────────────────────────────────────────────────
	// Base location for dispatch routing. Defaults to Chennai city centre.
	ShelterLat float64
	ShelterLon float64

	// ── Dispatch worker ───────────────────────────────────────────────────────
	WorkerCount  int           // default 3
	PollInterval time.Duration // default 30s
	JobTimeout   time.Duration // default 2m
	MaxRetries   int           // default 3
}

// Load reads all environment variables and returns a validated Config.
// It automatically loads a .env file from the working directory when
// present, so plain `go run ./cmd/api` works in development without any
// wrapper. Real environment variables always take precedence over .env.
func Load() (*Config, error) {
	loadDotEnv(".env")

	c := &Config{
		Port:                getEnv("PORT", "8080"),
		Env:                 getEnv("ENV", "development"),
		BaseURL:             getEnv("BASE_URL", "http://localhost:8080"),
		DataDir:             getEnv("DATA_DIR", "data"),
		StoreBackend:        getEnv("STORE_BACKEND", BackendFile),
		SQLitePath:          getEnv("SQLITE_PATH", "data/safepaws.db"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		SendGridAPIKey:      os.Getenv("SENDGRID_API_KEY"),
		EmailFromAddr:       getEnv("EMAIL_FROM_ADDR", "alerts@safepaws.ai"),
		EmailFromName:       getEnv("EMAIL_FROM_NAME", "SafePaws AI"),
		TwilioSID:           os.Getenv("TWILIO_SID"),
		TwilioToken:         os.Getenv("TWILIO_TOKEN"),
		TwilioPhone:         os.Getenv("TWILIO_PHONE"),
		NominatimURL:        getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		OSRMURL:             getEnv("OSRM_URL", "https://router.project-osrm.org"),
		ClassifierURL:       os.Getenv("CLASSIFIER_URL"),
		ShelterLat:          getEnvAsFloat("SHELTER_LAT", 13.0827),
		ShelterLon:          getEnvAsFloat("SHELTER_LON", 80.2707),
		WorkerCount:         getEnvAsInt("WORKER_COUNT", 3),
		PollInterval:        getEnvAsDuration("POLL_INTERVAL", 30*time.Second),
		JobTimeout:          getEnvAsDuration("JOB_TIMEOUT", 2*time.Minute),
		MaxRetries:          getEnvAsInt("MAX_RETRIES", 3),
	}

	return c, c.validate()
}

func (c *Config) validate() error {
	var errs []error

	if c.StoreBackend != BackendFile && c.StoreBackend != BackendSQLite {
		errs = append(errs, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q",
			BackendFile, BackendSQLite, c.StoreBackend))
	}

	// Stripe is required in production; in development the donations flow
	// degrades to recording pledges without payment confirmation.
	if c.Env == "production" {
		if c.StripeSecretKey == "" {
			errs = append(errs, errors.New("missing required env var: STRIPE_SECRET_KEY"))
		}
		if c.StripeWebhookSecret == "" {
			errs = append(errs, errors.New("missing required env var: STRIPE_WEBHOOK_SECRET"))
		}
		if c.SendGridAPIKey == "" {
			errs = append(errs, errors.New("missing required env var: SENDGRID_API_KEY"))
		}
	}

	return errors.Join(errs...)
}

// ─── DOT-ENV LOADER ──────────────────────────────────────────────────────────

// loadDotEnv reads key=value pairs from path and sets them in the
// environment, but only for keys that are not already set — real env vars
// always win over the file. Missing file, blank lines, and #-comments are
// silently ignored.
func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return // file absent — that's fine
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		// Strip optional surrounding quotes: KEY="value" or KEY='value'
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}
}

// ─── HELPERS ─────────────────────────────────────────────────────────────────

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	// A plain integer is treated as seconds.
	if value, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(value) * time.Second
	}
	// Fall back to Go duration syntax: "30s", "5m", "1h", etc.
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	return defaultValue
}
