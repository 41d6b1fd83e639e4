package server

import (
	"net/http"
	"strings"
)

// debugHandler handles GET /debug requests, echoing the inbound request
// headers for connectivity troubleshooting. Deliberately unauthenticated;
// it must never become load-bearing or expose anything requiring
// authorization.
func (s *Server) debugHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		headers := make(map[string]string, len(r.Header))
		for name, values := range r.Header {
			headers[name] = strings.Join(values, ", ")
		}

		writeJSON(w, http.StatusOK, map[string]any{"headers": headers})
	}
}
