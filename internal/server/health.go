package server

import (
	"net/http"
	"os"
	"time"
)

// healthResp is the liveness response. Components currently covers the one
// stateful dependency this service has: the upload root.
type healthResp struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

// healthHandler reports process liveness and whether the upload root is
// still a directory we can read. Unauthenticated, intended for probes.
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		root := "up"
		code := http.StatusOK

		if fi, err := os.Stat(s.uploadDir); err != nil || !fi.IsDir() {
			status = "degraded"
			root = "down"
			code = http.StatusServiceUnavailable
		}

		writeJSON(w, code, healthResp{
			Status:     status,
			Timestamp:  time.Now().UTC(),
			Components: map[string]string{"upload_root": root},
		})
	}
}
