package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
)

// CORS builds the cross-origin middleware for the contact endpoint. The
// frontendURL value is a comma-separated origin list; empty means the form is
// posted cross-origin from anywhere, which is the default for a public
// contact form.
func CORS(frontendURL string) func(http.Handler) http.Handler {
	origins := parseOrigins(frontendURL)

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         86400,
	})

	return c.Handler
}

func parseOrigins(frontendURL string) []string {
	if strings.TrimSpace(frontendURL) == "" {
		return []string{"*"}
	}

	var origins []string
	for _, origin := range strings.Split(frontendURL, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
