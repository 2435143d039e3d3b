// Package config provides environment-based configuration loading and
// validation for the service.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Config holds everything the service reads from the environment.
// Secrets stay out of files; a local .env is loaded by the CLI before
// this runs.
type Config struct {
	Port        int    `validate:"min=1,max=65535"`
	DatabaseURL string `validate:"required"`
	APIKey      string `validate:"required"`
	CronSecret  string `validate:"required"`
	AppURL      string `validate:"omitempty,url"`

	// SMTP is optional; when Host is empty, email is disabled and only
	// in-app notifications are recorded.
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	port := 8080
	if raw := os.Getenv("PORT"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
		port = parsed
	}

	cfg := &Config{
		Port:         port,
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		APIKey:       os.Getenv("GEMINI_API_KEY"),
		CronSecret:   os.Getenv("CRON_SECRET"),
		AppURL:       os.Getenv("APP_URL"),
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     os.Getenv("SMTP_PORT"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),
		SMTPFromName: os.Getenv("SMTP_FROM_NAME"),
	}

	if cfg.SMTPHost != "" && cfg.SMTPPort == "" {
		cfg.SMTPPort = "587"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return fmt.Errorf("config error: %s is %s", envName(errs[0].Field()), errs[0].Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}
	if c.SMTPHost != "" && c.SMTPFrom == "" {
		return fmt.Errorf("config error: SMTP_FROM is required when SMTP_HOST is set")
	}
	return nil
}

// envName maps a struct field back to the variable the operator sets.
func envName(field string) string {
	switch field {
	case "Port":
		return "PORT"
	case "DatabaseURL":
		return "DATABASE_URL"
	case "APIKey":
		return "GEMINI_API_KEY"
	case "CronSecret":
		return "CRON_SECRET"
	case "AppURL":
		return "APP_URL"
	default:
		return field
	}
}
