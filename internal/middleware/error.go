package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/riztech/portfolio-api/internal/models"
	"go.uber.org/zap"
)

// msgInternalFault is what the client sees for any unhandled panic. Detail
// stays in the server log.
const msgInternalFault = "An unexpected error occurred. Please try again later."

// ErrorHandler creates error handling middleware that converts panics into
// the standard response envelope.
func ErrorHandler(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic_recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					envelope := models.ResponseEnvelope{
						Success: false,
						Message: msgInternalFault,
					}
					if encErr := json.NewEncoder(w).Encode(envelope); encErr != nil {
						logger.Error("failed_to_encode_error_response",
							zap.Error(encErr),
							zap.String("path", r.URL.Path),
						)
					}
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
