package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	BaseURL         string
	FrontendURL     string
	StaticDir       string
	RedisURL        string
	BurstRate       string
	SMTPHost        string
	SMTPPort        int
	SMTPUsername    string
	SMTPPassword    string
	SMTPFrom        string
	MailTimeoutSecs int
	AuditLogPath    string
	PolicyFile      string
	EnableHSTS      bool
	ServerDebugMode bool
	OTELEnabled     bool
	OTELEndpoint    string

	Policy Policy
}

// Load loads configuration from environment variables. A local .env file is
// honored when present so development setups do not need exported variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		BaseURL:         getEnv("BASE_URL", "http://localhost:8080"),
		FrontendURL:     getEnv("FRONTEND_URL", ""),
		StaticDir:       getEnv("STATIC_DIR", ""),
		RedisURL:        getEnv("REDIS_URL", ""),
		BurstRate:       getEnv("BURST_RATE", "10-S"),
		SMTPHost:        getEnv("SMTP_HOST", ""),
		SMTPPort:        getEnvInt("SMTP_PORT", 587),
		SMTPUsername:    getEnv("SMTP_USERNAME", ""),
		SMTPPassword:    getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:        getEnv("SMTP_FROM", ""),
		MailTimeoutSecs: getEnvInt("MAIL_TIMEOUT_SECONDS", 10),
		AuditLogPath:    getEnv("AUDIT_LOG_PATH", ""),
		PolicyFile:      getEnv("POLICY_FILE", ""),
		EnableHSTS:      getEnvBool("ENABLE_HSTS", false),
		ServerDebugMode: getEnvBool("SERVER_DEBUG_MODE", false),
		OTELEnabled:     getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	policy, err := LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load relay policy: %w", err)
	}
	cfg.Policy = *policy

	if cfg.Policy.RecipientEmail == "" {
		return nil, fmt.Errorf("CONTACT_RECIPIENT is required (or recipient_email in the policy file)")
	}

	if cfg.SMTPHost != "" && cfg.SMTPFrom == "" {
		return nil, fmt.Errorf("SMTP_FROM is required when SMTP_HOST is set")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
