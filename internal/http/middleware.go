package http

import (
	"net/http"
	"strings"
)

// Paths serving the HTML pages opened from approval emails.
var approvalPages = []string{"/auth/approve-user/", "/auth/reject-user/"}

// SecurityHeaders adds security-related headers to all responses.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", contentSecurityPolicy(r.URL.Path))

		next.ServeHTTP(w, r)
	})
}

func contentSecurityPolicy(path string) string {
	// Swagger UI needs scripts, styles, and images to render
	if strings.HasPrefix(path, "/swagger/") {
		return "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:"
	}
	for _, prefix := range approvalPages {
		if strings.HasPrefix(path, prefix) {
			return "default-src 'none'; style-src 'unsafe-inline'"
		}
	}
	return "default-src 'none'"
}
