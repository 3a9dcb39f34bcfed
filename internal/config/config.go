// Package config loads and validates all environment variables at startup.
// Other packages receive typed values instead of reading the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the fully-parsed application configuration.
type Config struct {
	// ── Server ────────────────────────────────────────────────────────────────
	Port       string        // default "8080"
	Env        string        // "development" | "staging" | "production"
	CORSOrigin string        // allowed browser origin in production; "*" when empty
	ReqTimeout time.Duration // per-request middleware timeout, default 30s

	// ── Survey ────────────────────────────────────────────────────────────────
	DefaultForm    string // SURVEY_FORM, form used by cmd/survey when -form is not given
	SurveyEndpoint string // SURVEY_ENDPOINT, where cmd/survey posts leads

	// ── Mail ──────────────────────────────────────────────────────────────────
	Mail Mail
}

// Mail holds the outbound email settings. They are deliberately NOT required
// at startup: a missing value is reported per request as a configuration
// error, so the health and scoring endpoints keep working while an operator
// fixes the deployment.
type Mail struct {
	ResendAPIKey  string // RESEND_API_KEY
	ResendBaseURL string // RESEND_BASE_URL, default https://api.resend.com
	From          string // EMAIL_FROM, e.g. "encuestas@grupoquokka.mx"
	FromName      string // EMAIL_FROM_NAME, optional display name
	To            string // EMAIL_TO, the sales inbox
}

// Missing returns the names of the required mail variables that are unset,
// in a stable order. An empty slice means delivery is possible.
func (m Mail) Missing() []string {
	var out []string
	if m.ResendAPIKey == "" {
		out = append(out, "RESEND_API_KEY")
	}
	if m.From == "" {
		out = append(out, "EMAIL_FROM")
	}
	if m.To == "" {
		out = append(out, "EMAIL_TO")
	}
	return out
}

// FromHeader formats the sender as "Name <addr>" when a display name is set.
func (m Mail) FromHeader() string {
	if m.FromName == "" || strings.Contains(m.From, "<") {
		return m.From
	}
	return fmt.Sprintf("%s <%s>", m.FromName, m.From)
}

// Recipients splits EMAIL_TO on commas so a team can share the inbox.
func (m Mail) Recipients() []string {
	var out []string
	for _, addr := range strings.Split(m.To, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// Load reads all environment variables and returns a validated Config.
// It automatically loads a .env file from the working directory when present,
// so plain `go run ./cmd/api` works in development without any wrapper.
// Real environment variables always take precedence over .env values.
func Load() (*Config, error) {
	// godotenv.Load never overrides variables that are already set; a missing
	// file is fine.
	_ = godotenv.Load()

	c := &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		CORSOrigin:     os.Getenv("CORS_ORIGIN"),
		ReqTimeout:     getEnvAsDuration("REQUEST_TIMEOUT", 30*time.Second),
		DefaultForm:    os.Getenv("SURVEY_FORM"),
		SurveyEndpoint: os.Getenv("SURVEY_ENDPOINT"),
		Mail: Mail{
			ResendAPIKey:  os.Getenv("RESEND_API_KEY"),
			ResendBaseURL: getEnv("RESEND_BASE_URL", "https://api.resend.com"),
			From:          os.Getenv("EMAIL_FROM"),
			FromName:      os.Getenv("EMAIL_FROM_NAME"),
			To:            os.Getenv("EMAIL_TO"),
		},
	}

	return c, c.validate()
}

// IsProduction reports whether ENV=production.
func (c *Config) IsProduction() bool { return c.Env == "production" }

func (c *Config) validate() error {
	var errs []error

	if p, err := strconv.Atoi(c.Port); err != nil || p <= 0 || p > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT %q", c.Port))
	}

	switch c.Env {
	case "development", "staging", "production":
	default:
		errs = append(errs, fmt.Errorf("invalid ENV %q: want development, staging or production", c.Env))
	}

	if c.ReqTimeout <= 0 {
		errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

// ─── HELPERS ─────────────────────────────────────────────────────────────────

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
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
