package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadRejectsNonZipNames(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name     string
		filename string
	}{
		{"plain text", "pkg.txt"},
		{"no extension", "pkg"},
		{"uppercase suffix", "pkg.ZIP"}, // suffix match is case-sensitive
		{"zip in the middle", "pkg.zip.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doUpload(t, s, testToken, tt.filename, []byte("data"))
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), "Only .zip files are allowed")
		})
	}

	// The upload root's file set is unchanged.
	entries, err := os.ReadDir(s.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	snap := s.metrics.Snapshot()
	assert.Equal(t, int64(len(tests)), snap.UploadInvalidFormat)
	assert.Zero(t, snap.UploadSuccess)
}

func TestUploadSizeIsReadBackFromDisk(t *testing.T) {
	s := newTestServer(t, nil)

	content := make([]byte, 4096)
	rr := doUpload(t, s, testToken, "big.zip", content)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp uploadResp
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, int64(4096), resp.Size)

	fi, err := os.Stat(filepath.Join(s.uploadDir, "big.zip"))
	require.NoError(t, err)
	assert.Equal(t, fi.Size(), resp.Size)
}

func TestUploadOverwritesSameName(t *testing.T) {
	s := newTestServer(t, nil)

	rr := doUpload(t, s, testToken, "pkg.zip", []byte("first version"))
	require.Equal(t, http.StatusOK, rr.Code)
	rr = doUpload(t, s, testToken, "pkg.zip", []byte("second"))
	require.Equal(t, http.StatusOK, rr.Code)

	entries, err := os.ReadDir(s.uploadDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got, err := os.ReadFile(filepath.Join(s.uploadDir, "pkg.zip"))
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
}

func TestUploadMissingFilePart(t *testing.T) {
	s := newTestServer(t, nil)

	body, contentType := multipartBody(t, "attachment", "pkg.zip", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "missing file part")
}

func TestUploadMetricsAccounting(t *testing.T) {
	s := newTestServer(t, nil)

	rr := doUpload(t, s, testToken, "a.zip", []byte("12345"))
	require.Equal(t, http.StatusOK, rr.Code)
	rr = doUpload(t, s, testToken, "nope.txt", []byte("12345"))
	require.Equal(t, http.StatusBadRequest, rr.Code)

	snap := s.metrics.Snapshot()
	assert.Equal(t, int64(1), snap.UploadSuccess)
	assert.Equal(t, int64(1), snap.UploadInvalidFormat)
	assert.Equal(t, int64(5), snap.UploadBytesTotal)
	assert.Equal(t, int64(1), snap.FilesTotal)
	assert.Equal(t, int64(1), snap.SizeCount)
	assert.Equal(t, int64(5), snap.SizeMin)
	assert.Equal(t, int64(5), snap.SizeMax)

	// Duration is observed on every exit path: success and rejection both.
	assert.Equal(t, int64(2), snap.DurationCount)
}

func TestUploadInternalErrorPath(t *testing.T) {
	s := newTestServer(t, nil)

	// Destroy the upload root so the write fails after validation.
	require.NoError(t, os.RemoveAll(s.uploadDir))

	rr := doUpload(t, s, testToken, "pkg.zip", []byte("data"))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	// The cause stays server-side.
	assert.Contains(t, rr.Body.String(), "upload failed")
	assert.NotContains(t, rr.Body.String(), s.uploadDir)

	snap := s.metrics.Snapshot()
	assert.Equal(t, int64(1), snap.UploadError)
	assert.Equal(t, int64(1), snap.DurationCount)
}

// The destination name is taken from the client as-is by default. Go's
// multipart reader strips directory components via filepath.Base, so a
// traversal-shaped filename degrades to its base name; same-name collisions
// remain possible and are documented behavior.
func TestUploadClientNamedDestination(t *testing.T) {
	s := newTestServer(t, nil)

	rr := doUpload(t, s, testToken, "../escape.zip", []byte("data"))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp uploadResp
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "escape.zip", resp.Filename)

	_, err := os.Stat(filepath.Join(s.uploadDir, "escape.zip"))
	assert.NoError(t, err)
}

func TestUploadSanitizeOptIn(t *testing.T) {
	s := newTestServer(t, func(cfg *Config) {
		cfg.SanitizeNames = true
	})

	rr := doUpload(t, s, testToken, "  spaced.zip", []byte("data"))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp uploadResp
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "spaced.zip", resp.Filename)
}

func TestUploadRejectsNonPost(t *testing.T) {
	s := newTestServer(t, nil)

	rr := doGet(t, s, "/upload", testToken)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
