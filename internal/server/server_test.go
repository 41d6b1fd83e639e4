package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "secret1"

// newTestServer builds a fully wired server over a throwaway upload root.
func newTestServer(t *testing.T, mutate func(*Config)) *Server {
	t.Helper()

	cfg := Config{
		Addr:      ":0",
		UploadDir: t.TempDir(),
		Auth:      AuthConfig{Token: testToken},
		Metrics:   NewMetrics(),
		Logger:    NewLogger(io.Discard, LogLevelError, false),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return New(cfg)
}

// multipartBody builds a multipart form with a single file part.
func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func doUpload(t *testing.T, s *Server, token, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, "file", filename, content)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func doGet(t *testing.T, s *Server, path, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func TestUploadThenListScenario(t *testing.T) {
	s := newTestServer(t, nil)

	// POST /upload with a 12 byte pkg.zip
	content := []byte("zip contents") // 12 bytes
	rr := doUpload(t, s, testToken, "pkg.zip", content)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp uploadResp
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "pkg.zip", resp.Filename)
	assert.Equal(t, int64(12), resp.Size)

	// The file is readable from the upload root with exactly those bytes.
	got, err := os.ReadFile(filepath.Join(s.uploadDir, "pkg.zip"))
	require.NoError(t, err)
	assert.Equal(t, content, got)

	// GET /uploads returns it
	rr = doGet(t, s, "/uploads", testToken)
	require.Equal(t, http.StatusOK, rr.Code)

	var listing uploadsResp
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listing))
	assert.Equal(t, []string{"pkg.zip"}, listing.UploadedFiles)
}

func TestListingIsSetEqual(t *testing.T) {
	s := newTestServer(t, nil)

	for _, name := range []string{"a.zip", "b.zip"} {
		rr := doUpload(t, s, testToken, name, []byte("payload"))
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr := doGet(t, s, "/uploads", testToken)
	require.Equal(t, http.StatusOK, rr.Code)

	var listing uploadsResp
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listing))
	// Ordering is filesystem-dependent; compare as sets.
	assert.ElementsMatch(t, []string{"a.zip", "b.zip"}, listing.UploadedFiles)
}

func TestProtectedRoutesRejectBadAuth(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name   string
		do     func() *httptest.ResponseRecorder
	}{
		{"upload", func() *httptest.ResponseRecorder { return doUpload(t, s, "wrong", "pkg.zip", []byte("x")) }},
		{"uploads", func() *httptest.ResponseRecorder { return doGet(t, s, "/uploads", "wrong") }},
		{"stats", func() *httptest.ResponseRecorder { return doGet(t, s, "/stats", "wrong") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := tt.do()
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
		})
	}

	// No side effects: nothing written, no success counter movement.
	entries, err := os.ReadDir(s.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Zero(t, s.metrics.Snapshot().UploadSuccess)
}

func TestDebugEchoesHeadersWithoutAuth(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/debug", nil)
	req.Header.Set("X-Probe", "hello")
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Headers map[string]string `json:"headers"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "hello", resp.Headers["X-Probe"])
}

func TestHealthReportsUploadRoot(t *testing.T) {
	s := newTestServer(t, nil)

	rr := doGet(t, s, "/health", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"ok"`)

	// Losing the upload root degrades the service.
	require.NoError(t, os.RemoveAll(s.uploadDir))
	rr = doGet(t, s, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestSecurityHeadersOnEveryResponse(t *testing.T) {
	s := newTestServer(t, nil)

	rr := doGet(t, s, "/health", "")
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
}
