package validation

import (
	"strings"
	"testing"

	"github.com/riztech/portfolio-api/internal/config"
	"github.com/riztech/portfolio-api/internal/models"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := New(5000, config.DefaultSpamPatterns)
	if err != nil {
		t.Fatalf("Failed to build validator: %v", err)
	}
	return v
}

func TestValidateFieldErrors(t *testing.T) {
	t.Parallel()

	v := newTestValidator(t)

	tests := []struct {
		name     string
		sub      models.Submission
		expected []string
	}{
		{
			name: "valid submission",
			sub: models.Submission{
				Name:    "Al",
				Email:   "al@example.com",
				Message: "Hello, this is a test message.",
			},
			expected: nil,
		},
		{
			name: "all fields invalid accumulates in order",
			sub: models.Submission{
				Name:    "",
				Email:   "bad",
				Message: "short",
			},
			expected: []string{
				"Name is required.",
				"Please enter a valid email address.",
				"Message must be at least 10 characters long.",
			},
		},
		{
			name: "name too short",
			sub: models.Submission{
				Name:    "A",
				Email:   "al@example.com",
				Message: "Hello, this is a test message.",
			},
			expected: []string{"Name must be at least 2 characters long."},
		},
		{
			name: "name too long",
			sub: models.Submission{
				Name:    strings.Repeat("a", 101),
				Email:   "al@example.com",
				Message: "Hello, this is a test message.",
			},
			expected: []string{"Name must be less than 100 characters."},
		},
		{
			name: "multi-byte name meets byte minimum",
			sub: models.Submission{
				Name:    "é",
				Email:   "al@example.com",
				Message: "Hello, this is a test message.",
			},
			expected: nil,
		},
		{
			name: "multi-byte name exceeds byte maximum",
			sub: models.Submission{
				Name:    strings.Repeat("é", 51),
				Email:   "al@example.com",
				Message: "Hello, this is a test message.",
			},
			expected: []string{"Name must be less than 100 characters."},
		},
		{
			name: "multi-byte message meets byte minimum",
			sub: models.Submission{
				Name:    "Al",
				Email:   "al@example.com",
				Message: "ééééé",
			},
			expected: nil,
		},
		{
			name: "email missing",
			sub: models.Submission{
				Name:    "Al",
				Email:   "",
				Message: "Hello, this is a test message.",
			},
			expected: []string{"Email is required."},
		},
		{
			name: "email too long",
			sub: models.Submission{
				Name:    "Al",
				Email:   strings.Repeat("a", 250) + "@example.com",
				Message: "Hello, this is a test message.",
			},
			expected: []string{"Email address is too long."},
		},
		{
			name: "message missing",
			sub: models.Submission{
				Name:  "Al",
				Email: "al@example.com",
			},
			expected: []string{"Message is required."},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := v.Validate(&tt.sub)
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %d errors %v, got %d: %v", len(tt.expected), tt.expected, len(got), got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Error %d: expected '%s', got '%s'", i, tt.expected[i], got[i])
				}
			}
		})
	}
}

func TestValidateMessageTooLong(t *testing.T) {
	t.Parallel()

	v, err := New(50, config.DefaultSpamPatterns)
	if err != nil {
		t.Fatalf("Failed to build validator: %v", err)
	}

	sub := models.Submission{
		Name:    "Al",
		Email:   "al@example.com",
		Message: strings.Repeat("a", 51),
	}

	got := v.Validate(&sub)
	if len(got) != 1 || got[0] != "Message is too long. Maximum 50 characters allowed." {
		t.Errorf("Expected max-length error, got %v", got)
	}
}

func TestValidateSpamHeuristics(t *testing.T) {
	t.Parallel()

	v := newTestValidator(t)

	tests := []struct {
		name     string
		message  string
		expected []string
	}{
		{
			name:     "spam keyword",
			message:  "Congratulations you are a lottery winner today",
			expected: []string{"Message appears to be spam and was rejected."},
		},
		{
			name:     "spam phrase",
			message:  "Please click here for free money right now",
			expected: []string{"Message appears to be spam and was rejected."},
		},
		{
			name:     "long url",
			message:  "check this out https://example.com/some/very/long/path",
			expected: []string{"Message appears to be spam and was rejected."},
		},
		{
			name:    "multiple patterns still one spam error",
			message: "Congratulations, click here for free money: https://example.com/offer/claim",
			expected: []string{
				"Message appears to be spam and was rejected.",
			},
		},
		{
			name:    "too many links",
			message: "see http://a.io and http://b.io and http://c.io thanks",
			expected: []string{
				"Too many links in message.",
			},
		},
		{
			name:    "spam keyword plus too many links",
			message: "winner! see http://a.io and http://b.io and http://c.io",
			expected: []string{
				"Message appears to be spam and was rejected.",
				"Too many links in message.",
			},
		},
		{
			name:     "short urls without keywords pass",
			message:  "my site is http://a.io have a look",
			expected: nil,
		},
		{
			name:     "case insensitive keywords",
			message:  "VIAGRA available in bulk quantities now",
			expected: []string{"Message appears to be spam and was rejected."},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sub := models.Submission{
				Name:    "Al",
				Email:   "al@example.com",
				Message: tt.message,
			}

			got := v.Validate(&sub)
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %v, got %v", tt.expected, got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Error %d: expected '%s', got '%s'", i, tt.expected[i], got[i])
				}
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "trims whitespace",
			input:    "  hello  ",
			expected: "hello",
		},
		{
			name:     "escapes markup",
			input:    `<script>alert("x")</script>`,
			expected: "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;",
		},
		{
			name:     "strips control characters keeps newlines",
			input:    "line one\x00\x07\nline two",
			expected: "line one\nline two",
		},
		{
			name:     "escapes quotes",
			input:    `it's "quoted"`,
			expected: "it&#39;s &#34;quoted&#34;",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Sanitize(tt.input); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}
