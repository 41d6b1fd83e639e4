package server

import (
	"net/http"
	"os"
)

// uploadsResp lists stored file names. Order is filesystem-dependent and
// not part of the contract.
type uploadsResp struct {
	UploadedFiles []string `json:"uploaded_files"`
}

// statsResp reports derived statistics over the upload root. Size
// aggregates (min/max/avg) are a known extension point and deliberately
// absent from the wire format for now.
type statsResp struct {
	FileCount int `json:"file_count"`
}

// listFiles enumerates direct entries of dir that are regular files.
// Subdirectories and other non-file entries are skipped. There is no cached
// index; every call re-scans the directory.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// listUploadsHandler handles GET /uploads requests.
// Authentication: required (requireAuth middleware).
func (s *Server) listUploadsHandler() http.Handler {
	return s.requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		s.metrics.RecordListRequest()

		names, err := listFiles(s.uploadDir)
		if err != nil {
			s.log.Error("list uploads failed", map[string]any{
				"request_id": RequestIDFromContext(r.Context()),
			}, err)
			writeError(w, errInternal, "listing failed")
			return
		}

		writeJSON(w, http.StatusOK, uploadsResp{UploadedFiles: names})
	}))
}

// statsHandler handles GET /stats requests, the statistics companion to
// /uploads.
// Authentication: required (requireAuth middleware).
func (s *Server) statsHandler() http.Handler {
	return s.requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		s.metrics.RecordListRequest()

		names, err := listFiles(s.uploadDir)
		if err != nil {
			s.log.Error("stats scan failed", map[string]any{
				"request_id": RequestIDFromContext(r.Context()),
			}, err)
			writeError(w, errInternal, "listing failed")
			return
		}

		writeJSON(w, http.StatusOK, statsResp{FileCount: len(names)})
	}))
}
