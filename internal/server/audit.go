package server

import "net/http"

// auditAction names the lifecycle transitions worth an audit entry.
type auditAction string

const (
	auditActionAuthSuccess    auditAction = "auth_success"
	auditActionAuthFailure    auditAction = "auth_failure"
	auditActionUploadReceived auditAction = "upload_received"
	auditActionUploadRejected auditAction = "upload_rejected"
	auditActionUploadStored   auditAction = "upload_stored"
	auditActionUploadFailed   auditAction = "upload_failed"
)

// auditEvent carries the per-event fields. Scheme is the presented auth
// scheme on auth events; the credential itself is never recorded.
type auditEvent struct {
	Action   auditAction
	Scheme   string
	Filename string
	Size     int64
	Detail   string
	Err      error
}

// audit writes one structured entry for the event, enriched with the
// request id and client IP. Failures log at warn/error, the rest at info.
func (s *Server) audit(r *http.Request, ev auditEvent) {
	fields := map[string]any{
		"action":     string(ev.Action),
		"request_id": RequestIDFromContext(r.Context()),
		"ip":         clientIP(r),
	}
	if ev.Scheme != "" {
		fields["scheme"] = ev.Scheme
	}
	if ev.Filename != "" {
		fields["filename"] = ev.Filename
	}
	if ev.Size > 0 {
		fields["size"] = ev.Size
	}
	if ev.Detail != "" {
		fields["detail"] = ev.Detail
	}

	switch ev.Action {
	case auditActionAuthFailure, auditActionUploadRejected:
		s.log.Warn("audit", fields)
	case auditActionUploadFailed:
		s.log.Error("audit", fields, ev.Err)
	default:
		s.log.Info("audit", fields)
	}
}
