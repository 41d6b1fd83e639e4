package server

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// uploadResp is the JSON response returned after a successful upload.
// Size is the byte count read back from disk, not the stream length.
type uploadResp struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// uploadHandler handles POST /upload requests carrying a multipart "file"
// part. The client-supplied filename must end in ".zip"; anything else is
// rejected before the filesystem is touched. The part body is streamed to
// uploadRoot/<filename>, overwriting any existing file of that name, and
// the size is read back from disk afterwards.
//
// Concurrent uploads to the same filename race on the destination; the last
// writer wins. That is accepted behavior, not a bug to lock around.
//
// The duration histogram is observed exactly once on every exit path.
// Authentication: required (requireAuth middleware).
func (s *Server) uploadHandler() http.Handler {
	return s.requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		defer func() {
			s.metrics.ObserveUploadDuration(time.Since(start))
		}()

		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		mr, err := r.MultipartReader()
		if err != nil {
			s.metrics.RecordUploadAttempt(UploadStatusInvalidFormat)
			writeError(w, errInvalidFormat, "bad multipart body")
			return
		}

		var filePart io.Reader
		var filename string

		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				s.metrics.RecordUploadAttempt(UploadStatusInvalidFormat)
				writeError(w, errInvalidFormat, "bad multipart body")
				return
			}
			defer func() { _ = part.Close() }()

			if part.FormName() != "file" {
				continue
			}

			filePart = part
			filename = part.FileName()
			break
		}

		if filePart == nil {
			s.metrics.RecordUploadAttempt(UploadStatusInvalidFormat)
			writeError(w, errInvalidFormat, "missing file part")
			return
		}

		if s.sanitizeNames {
			filename = SanitizeFilename(filename)
		}

		s.audit(r, auditEvent{Action: auditActionUploadReceived, Filename: filename})

		// Case-sensitive, exact suffix. No content sniffing, no magic bytes.
		if !strings.HasSuffix(filename, ".zip") {
			s.metrics.RecordUploadAttempt(UploadStatusInvalidFormat)
			s.audit(r, auditEvent{
				Action:   auditActionUploadRejected,
				Filename: filename,
				Detail:   "filename does not end in .zip",
			})
			writeError(w, errInvalidFormat, "Only .zip files are allowed")
			return
		}

		dest := filepath.Join(s.uploadDir, filename)

		size, err := s.persist(dest, filePart)
		if err != nil {
			s.metrics.RecordUploadAttempt(UploadStatusError)
			s.audit(r, auditEvent{Action: auditActionUploadFailed, Filename: filename, Err: err})
			writeError(w, errInternal, "upload failed")
			return
		}

		s.metrics.RecordUploadAttempt(UploadStatusSuccess)
		s.metrics.RecordUploadBytes(size)
		s.metrics.ObserveFileSize(size)
		s.refreshFileGauge()

		s.audit(r, auditEvent{Action: auditActionUploadStored, Filename: filename, Size: size})

		writeJSON(w, http.StatusOK, uploadResp{Filename: filename, Size: size})
	}))
}

// persist streams src to dest and returns the size read back from the
// filesystem. The stat after the write is deliberate: recorded size must
// reflect what actually landed on disk, even after a partial write.
func (s *Server) persist(dest string, src io.Reader) (int64, error) {
	f, err := os.Create(dest)
	if err != nil {
		return 0, err
	}

	if _, err := io.Copy(f, src); err != nil {
		_ = f.Close()
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, err
	}

	fi, err := os.Stat(dest)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// refreshFileGauge opportunistically updates the files-in-root gauge.
// Errors are swallowed: the gauge is best-effort and a scrape may observe a
// stale value between uploads.
func (s *Server) refreshFileGauge() {
	names, err := listFiles(s.uploadDir)
	if err != nil {
		return
	}
	s.metrics.SetFilesTotal(int64(len(names)))
}
