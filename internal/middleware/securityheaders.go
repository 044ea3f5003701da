package middleware

import (
	"net/http"
)

// SecurityHeaders sets security headers on all responses. The relay serves
// the portfolio pages too, so the CSP must allow the site's own assets rather
// than the lock-everything policy a pure API would use.
func SecurityHeaders(enableHSTS bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent MIME type sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// Prevent clickjacking
			w.Header().Set("X-Frame-Options", "DENY")

			// Control referrer information sharing
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			// Disable unused browser features
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

			// HSTS only over TLS and only when explicitly enabled, so local
			// development is not pinned to HTTPS.
			if enableHSTS && r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
			}

			next.ServeHTTP(w, r)
		})
	}
}
