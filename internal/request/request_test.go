package request

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		expected   string
	}{
		{
			name:       "remote addr with port",
			remoteAddr: "203.0.113.7:51234",
			expected:   "203.0.113.7",
		},
		{
			name:       "x-forwarded-for single",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.2"},
			expected:   "198.51.100.2",
		},
		{
			name:       "x-forwarded-for chain uses first",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.2, 10.0.0.5"},
			expected:   "198.51.100.2",
		},
		{
			name:       "x-real-ip fallback",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Real-IP": " 198.51.100.9 "},
			expected:   "198.51.100.9",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest("POST", "/contact.php", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			if got := ClientIP(req); got != tt.expected {
				t.Errorf("Expected IP '%s', got '%s'", tt.expected, got)
			}
		})
	}
}

func TestUserAgent(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("POST", "/contact.php", nil)
	if got := UserAgent(req); got != "unknown" {
		t.Errorf("Expected 'unknown' for missing header, got '%s'", got)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0")
	if got := UserAgent(req); got != "Mozilla/5.0" {
		t.Errorf("Expected 'Mozilla/5.0', got '%s'", got)
	}
}
