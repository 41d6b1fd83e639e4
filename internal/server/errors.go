// errors.go - Error kinds and the single boundary that maps them to HTTP.
package server

import (
	"encoding/json"
	"net/http"
)

// errorKind classifies handler failures. Handlers signal a kind plus a short
// human string; writeError is the only place status codes are chosen.
type errorKind int

const (
	errUnauthorized errorKind = iota
	errInvalidFormat
	errInternal
)

// errorResp is the machine-readable error body. Mirrors the wire shape
// clients already consume: a single "detail" string.
type errorResp struct {
	Detail string `json:"detail"`
}

func (k errorKind) status() int {
	switch k {
	case errUnauthorized:
		return http.StatusUnauthorized
	case errInvalidFormat:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError translates an error kind into an HTTP response. Unauthorized
// responses carry the bearer challenge header. The detail string must never
// contain internal causes, paths or credentials.
func writeError(w http.ResponseWriter, kind errorKind, detail string) {
	if kind == errUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	writeJSON(w, kind.status(), errorResp{Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
