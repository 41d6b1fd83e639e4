// auth.go - Bearer token authentication for protected routes.
//
// A single shared secret guards the whole API. The check is stateless:
// no sessions, no rate limiting, no lockout.
package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// AuthConfig holds the expected bearer credential. The token is read from
// configuration once at startup and is immutable for the process lifetime.
type AuthConfig struct {
	Token string
}

// parseBearer splits an Authorization header value into scheme and
// credentials. The second return is empty when the header has no payload.
func parseBearer(header string) (scheme, token string) {
	scheme, token, _ = strings.Cut(header, " ")
	return scheme, strings.TrimSpace(token)
}

// authorize reports whether the presented header carries a valid bearer
// credential. The scheme matches case-insensitively; the token must be
// byte-equal to the expected secret (constant-time compare).
func (a AuthConfig) authorize(header string) (scheme string, ok bool) {
	scheme, token := parseBearer(header)
	if !strings.EqualFold(scheme, "bearer") {
		return scheme, false
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(a.Token)) != 1 {
		return scheme, false
	}
	return scheme, true
}

// requireAuth wraps a protected handler. Requests failing the bearer check
// get 401 with a WWW-Authenticate challenge and never reach the handler.
// Both outcomes produce an audit entry; the presented token is never logged,
// only the scheme.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scheme, ok := s.auth.authorize(r.Header.Get("Authorization"))
		if !ok {
			s.audit(r, auditEvent{
				Action: auditActionAuthFailure,
				Scheme: scheme,
				Detail: "bearer check failed",
			})
			writeError(w, errUnauthorized, "Invalid or missing bearer token")
			return
		}
		s.audit(r, auditEvent{Action: auditActionAuthSuccess, Scheme: scheme})
		next.ServeHTTP(w, r)
	})
}
