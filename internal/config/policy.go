package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSpamPatterns are the message patterns rejected as spam. Patterns are
// applied case-insensitively against the sanitized message body.
var DefaultSpamPatterns = []string{
	`(?i)\b(?:viagra|cialis|casino|poker|lottery|winner|congratulations)\b`,
	`(?i)\b(?:click here|free money|make money fast|work from home)\b`,
	`(?i)https?://[^\s]{10,}`,
}

// RateLimitPolicy configures the per-client sliding window on the contact
// endpoint.
type RateLimitPolicy struct {
	Enabled     bool `yaml:"enabled"`
	MaxRequests int  `yaml:"max_requests"`
	// TimeWindow is the window length in seconds.
	TimeWindow int `yaml:"time_window"`
}

// Window returns the configured window as a duration.
func (p RateLimitPolicy) Window() time.Duration {
	return time.Duration(p.TimeWindow) * time.Second
}

// Policy is the explicit relay policy: who receives the mail, how large a
// message may be, how aggressively clients are throttled, and which patterns
// mark a message as spam. Defaults come from environment variables and can be
// overridden by a YAML policy file.
type Policy struct {
	RecipientEmail   string          `yaml:"recipient_email"`
	RecipientName    string          `yaml:"recipient_name"`
	SubjectPrefix    string          `yaml:"subject_prefix"`
	MaxMessageLength int             `yaml:"max_message_length"`
	RateLimit        RateLimitPolicy `yaml:"rate_limit"`
	SpamPatterns     []string        `yaml:"spam_patterns"`
}

// DefaultPolicy returns the relay policy populated from environment variables.
func DefaultPolicy() Policy {
	return Policy{
		RecipientEmail:   getEnv("CONTACT_RECIPIENT", ""),
		RecipientName:    getEnv("CONTACT_RECIPIENT_NAME", ""),
		SubjectPrefix:    getEnv("SUBJECT_PREFIX", "[Portfolio Contact] "),
		MaxMessageLength: getEnvInt("MAX_MESSAGE_LENGTH", 5000),
		RateLimit: RateLimitPolicy{
			Enabled:     getEnvBool("RATE_LIMIT_ENABLED", true),
			MaxRequests: getEnvInt("RATE_LIMIT_MAX_REQUESTS", 5),
			TimeWindow:  getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 3600),
		},
		SpamPatterns: DefaultSpamPatterns,
	}
}

// LoadPolicy returns the effective relay policy. When path is non-empty the
// YAML file at that path is unmarshalled over the environment defaults, so a
// policy file only needs to state the fields it changes. The merged policy is
// validated whichever source it came from.
func LoadPolicy(path string) (*Policy, error) {
	policy := DefaultPolicy()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read policy file %s: %w", path, err)
		}

		if err := yaml.Unmarshal(data, &policy); err != nil {
			return nil, fmt.Errorf("failed to parse policy file %s: %w", path, err)
		}
	}

	if policy.MaxMessageLength <= 0 {
		return nil, fmt.Errorf("max_message_length must be positive, got %d", policy.MaxMessageLength)
	}
	if policy.RateLimit.Enabled && (policy.RateLimit.MaxRequests <= 0 || policy.RateLimit.TimeWindow <= 0) {
		return nil, fmt.Errorf("rate_limit requires positive max_requests and time_window")
	}

	return &policy, nil
}
