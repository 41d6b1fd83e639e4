// prometheus.go - Prometheus text exposition for the metrics registry
package server

import (
	"fmt"
	"net/http"
	"strings"
)

// metricsHandler renders every registry sample in the Prometheus text
// exposition format. The endpoint is unauthenticated so collectors can
// scrape without credentials.
func (s *Server) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		snap := s.metrics.Snapshot()

		var out strings.Builder

		out.WriteString("# HELP upload_requests_total Upload attempts by outcome\n")
		out.WriteString("# TYPE upload_requests_total counter\n")
		fmt.Fprintf(&out, "upload_requests_total{status=\"success\"} %d\n", snap.UploadSuccess)
		fmt.Fprintf(&out, "upload_requests_total{status=\"invalid_format\"} %d\n", snap.UploadInvalidFormat)
		fmt.Fprintf(&out, "upload_requests_total{status=\"error\"} %d\n\n", snap.UploadError)

		out.WriteString("# HELP upload_bytes_total Cumulative bytes successfully persisted\n")
		out.WriteString("# TYPE upload_bytes_total counter\n")
		fmt.Fprintf(&out, "upload_bytes_total %d\n\n", snap.UploadBytesTotal)

		out.WriteString("# HELP upload_duration_seconds Upload request handling latency\n")
		out.WriteString("# TYPE upload_duration_seconds histogram\n")
		var cumulative int64
		for i, ub := range durationBuckets {
			cumulative += snap.DurationBucketCount[i]
			fmt.Fprintf(&out, "upload_duration_seconds_bucket{le=\"%g\"} %d\n", ub, cumulative)
		}
		cumulative += snap.DurationBucketCount[len(durationBuckets)]
		fmt.Fprintf(&out, "upload_duration_seconds_bucket{le=\"+Inf\"} %d\n", cumulative)
		fmt.Fprintf(&out, "upload_duration_seconds_sum %g\n", snap.DurationSum)
		fmt.Fprintf(&out, "upload_duration_seconds_count %d\n\n", snap.DurationCount)

		out.WriteString("# HELP upload_file_size_bytes Distribution of uploaded file sizes\n")
		out.WriteString("# TYPE upload_file_size_bytes summary\n")
		fmt.Fprintf(&out, "upload_file_size_bytes_sum %d\n", snap.SizeSum)
		fmt.Fprintf(&out, "upload_file_size_bytes_count %d\n", snap.SizeCount)
		fmt.Fprintf(&out, "upload_file_size_bytes_min %d\n", snap.SizeMin)
		fmt.Fprintf(&out, "upload_file_size_bytes_max %d\n\n", snap.SizeMax)

		out.WriteString("# HELP upload_list_requests_total Listing endpoint invocations\n")
		out.WriteString("# TYPE upload_list_requests_total counter\n")
		fmt.Fprintf(&out, "upload_list_requests_total %d\n\n", snap.ListRequestsTotal)

		out.WriteString("# HELP upload_files_total Files currently in the upload root\n")
		out.WriteString("# TYPE upload_files_total gauge\n")
		fmt.Fprintf(&out, "upload_files_total %d\n\n", snap.FilesTotal)

		out.WriteString("# HELP process_uptime_seconds Time since the process started\n")
		out.WriteString("# TYPE process_uptime_seconds counter\n")
		fmt.Fprintf(&out, "process_uptime_seconds %.0f\n", s.metrics.Uptime().Seconds())

		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(out.String()))
	}
}
