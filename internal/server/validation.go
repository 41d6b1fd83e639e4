// validation.go - Optional filename sanitization.
//
// The upload destination is derived from the client-supplied filename. By
// default the name is used as-is (minus any directory component, which Go's
// multipart reader already strips via filepath.Base), preserving the
// service's historically permissive behavior: a client can still collide
// with or overwrite any file in the upload root. Operators who want
// stricter names opt in with ZD_SANITIZE_FILENAMES=true.
package server

import (
	"path/filepath"
	"strings"
)

// SanitizeFilename removes potentially dangerous characters from filenames.
func SanitizeFilename(filename string) string {
	// Remove path separators
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")

	// Remove null bytes
	filename = strings.ReplaceAll(filename, "\x00", "")

	// Trim spaces and dots from start/end
	filename = strings.Trim(filename, " .")

	// Limit length, keeping the extension intact
	if len(filename) > 255 {
		ext := filepath.Ext(filename)
		filename = filename[:255-len(ext)] + ext
	}

	if filename == "" {
		filename = "unnamed"
	}

	return filename
}
