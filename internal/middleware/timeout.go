package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/riztech/portfolio-api/internal/models"
)

const (
	// DefaultRequestTimeout is the default request timeout. It covers form
	// parsing, the rate-limit store round trip and the mail send.
	DefaultRequestTimeout = 30 * time.Second

	msgRequestTimeout = "Request timed out. Please try again later."
)

// timeoutBody is the envelope written for timed-out requests. Clients parse
// every outcome as the envelope, including this one.
var timeoutBody = func() string {
	body, err := json.Marshal(models.ResponseEnvelope{
		Success: false,
		Message: msgRequestTimeout,
	})
	if err != nil {
		panic(err)
	}
	return string(body)
}()

// Timeout creates a middleware that enforces a timeout on request handlers
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			r = r.WithContext(ctx)

			handler := http.TimeoutHandler(next, timeout, timeoutBody)
			handler.ServeHTTP(w, r)
		})
	}
}
