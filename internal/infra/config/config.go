package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	DatabaseURL       string
	NtfyBaseURL       string
	DefaultTimezone   string
	LogLevel          string
	Environment       string
	ListenAddr        string
	ReconcileInterval time.Duration
	DeliveryTimeout   time.Duration
	DeepseekAPIKey    string // optional; natural-language parsing is disabled without it
	TelegramToken     string // optional; telegram: topics fail delivery without it
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.NtfyBaseURL = os.Getenv("NTFY_BASE_URL")
	if cfg.NtfyBaseURL == "" {
		cfg.NtfyBaseURL = "https://ntfy.sh"
	}

	cfg.DefaultTimezone = os.Getenv("DEFAULT_TIMEZONE")
	if cfg.DefaultTimezone == "" {
		cfg.DefaultTimezone = "America/Vancouver"
	}
	if _, err := time.LoadLocation(cfg.DefaultTimezone); err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_TIMEZONE: %w", err)
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.ListenAddr = os.Getenv("LISTEN_ADDR")
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8000"
	}

	var err error
	cfg.ReconcileInterval, err = durationEnv("RECONCILE_INTERVAL", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.DeliveryTimeout, err = durationEnv("DELIVERY_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg.DeepseekAPIKey = os.Getenv("DEEPSEEK_API_KEY")
	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")

	return cfg, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
