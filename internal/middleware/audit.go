package middleware

import (
	"net/http"

	logpkg "github.com/riztech/portfolio-api/internal/logger"
	"github.com/riztech/portfolio-api/internal/request"
	"go.uber.org/zap"
)

// Audit creates middleware that emits security-relevant events to the server
// log. It complements the submission audit trail, which only covers requests
// that reach the contact handler.
func Audit(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			switch wrapped.statusCode {
			case http.StatusTooManyRequests:
				logger.Warn("rate_limit_violation",
					zap.String("client_ip", request.ClientIP(r)),
					zap.String("path", logpkg.SanitizePath(r.URL.Path)),
					zap.String("user_agent", logpkg.SanitizeUserAgent(r.UserAgent())),
				)
			case http.StatusMethodNotAllowed:
				logger.Warn("method_not_allowed",
					zap.String("client_ip", request.ClientIP(r)),
					zap.String("method", r.Method),
					zap.String("path", logpkg.SanitizePath(r.URL.Path)),
				)
			}
		})
	}
}
