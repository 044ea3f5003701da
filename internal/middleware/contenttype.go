package middleware

import (
	"net/http"
	"strings"
)

// allowedPostTypes are the media types the contact form submits with.
var allowedPostTypes = []string{
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// ContentType validates Content-Type headers for requests with bodies. The
// contact form posts form-encoded or multipart data; anything else is
// rejected before the handler touches the body.
func ContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPatch || r.Method == http.MethodPut {
			contentType := strings.ToLower(r.Header.Get("Content-Type"))

			if contentType == "" {
				http.Error(w, "Content-Type header is required", http.StatusBadRequest)
				return
			}

			allowed := false
			for _, t := range allowedPostTypes {
				if strings.HasPrefix(contentType, t) {
					allowed = true
					break
				}
			}

			if !allowed {
				http.Error(w, "Content-Type must be form-encoded or multipart", http.StatusUnsupportedMediaType)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}
