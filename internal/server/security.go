// security.go - Security headers applied to every response.
package server

import "net/http"

// securityHeadersMiddleware adds baseline hardening headers. The service
// serves JSON and binary uploads only, so the set is small: no cookies, no
// HTML, no CSRF surface.
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent MIME sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Prevent clickjacking
		w.Header().Set("X-Frame-Options", "DENY")

		// Don't leak URLs
		w.Header().Set("Referrer-Policy", "no-referrer")

		next.ServeHTTP(w, r)
	})
}
