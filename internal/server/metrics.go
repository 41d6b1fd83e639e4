package server

import (
	"sync"
	"sync/atomic"
	"time"
)

// Outcome labels for the upload attempt counter.
const (
	UploadStatusSuccess       = "success"
	UploadStatusInvalidFormat = "invalid_format"
	UploadStatusError         = "error"
)

// durationBuckets are the fixed upper bounds, in seconds, of the upload
// latency histogram.
var durationBuckets = [5]float64{0.1, 0.3, 1.0, 3.0, 10.0}

// Metrics holds process-wide counters, gauges and distributions for the
// service. Counters use atomic increments so concurrently handled requests
// never lose updates; the distributions take a small mutex because they
// update several fields together. State lives for the process lifetime and
// is never reset.
type Metrics struct {
	uploadSuccess       atomic.Int64
	uploadInvalidFormat atomic.Int64
	uploadError         atomic.Int64
	uploadBytes         atomic.Int64
	listRequests        atomic.Int64
	filesTotal          atomic.Int64 // gauge, refreshed after successful uploads

	histMu        sync.Mutex
	durationCount [6]int64 // one slot per bucket plus +Inf
	durationSum   float64
	durationTotal int64

	sizeMu    sync.Mutex
	sizeCount int64
	sizeSum   int64
	sizeMin   int64
	sizeMax   int64

	startTime time.Time
}

// NewMetrics creates an empty registry.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordUploadAttempt increments the upload attempt counter for the given
// outcome label.
func (m *Metrics) RecordUploadAttempt(status string) {
	switch status {
	case UploadStatusSuccess:
		m.uploadSuccess.Add(1)
	case UploadStatusInvalidFormat:
		m.uploadInvalidFormat.Add(1)
	case UploadStatusError:
		m.uploadError.Add(1)
	}
}

// RecordUploadBytes adds to the cumulative count of persisted bytes.
func (m *Metrics) RecordUploadBytes(n int64) {
	m.uploadBytes.Add(n)
}

// ObserveUploadDuration records one whole-request handling latency into the
// fixed-bucket histogram.
func (m *Metrics) ObserveUploadDuration(d time.Duration) {
	secs := d.Seconds()

	m.histMu.Lock()
	defer m.histMu.Unlock()

	slot := len(durationBuckets) // +Inf
	for i, ub := range durationBuckets {
		if secs <= ub {
			slot = i
			break
		}
	}
	m.durationCount[slot]++
	m.durationSum += secs
	m.durationTotal++
}

// ObserveFileSize records one uploaded file's on-disk byte size.
func (m *Metrics) ObserveFileSize(n int64) {
	m.sizeMu.Lock()
	defer m.sizeMu.Unlock()

	if m.sizeCount == 0 || n < m.sizeMin {
		m.sizeMin = n
	}
	if n > m.sizeMax {
		m.sizeMax = n
	}
	m.sizeCount++
	m.sizeSum += n
}

// RecordListRequest increments the listing-endpoint counter.
func (m *Metrics) RecordListRequest() {
	m.listRequests.Add(1)
}

// SetFilesTotal sets the point-in-time count of files in the upload root.
// Refreshed opportunistically, so scrapes may see a stale value.
func (m *Metrics) SetFilesTotal(n int64) {
	m.filesTotal.Store(n)
}

// Uptime reports how long this registry (and so the process) has been alive.
func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.startTime)
}

// MetricsSnapshot is a point-in-time copy of every registry sample.
type MetricsSnapshot struct {
	UploadSuccess       int64   `json:"upload_success_total"`
	UploadInvalidFormat int64   `json:"upload_invalid_format_total"`
	UploadError         int64   `json:"upload_error_total"`
	UploadBytesTotal    int64   `json:"upload_bytes_total"`
	ListRequestsTotal   int64   `json:"upload_list_requests_total"`
	FilesTotal          int64   `json:"upload_files_total"`
	DurationBucketCount [6]int64 `json:"-"`
	DurationSum         float64 `json:"upload_duration_seconds_sum"`
	DurationCount       int64   `json:"upload_duration_seconds_count"`
	SizeCount           int64   `json:"upload_file_size_bytes_count"`
	SizeSum             int64   `json:"upload_file_size_bytes_sum"`
	SizeMin             int64   `json:"upload_file_size_bytes_min"`
	SizeMax             int64   `json:"upload_file_size_bytes_max"`
}

// Snapshot returns a consistent copy of the current samples.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		UploadSuccess:       m.uploadSuccess.Load(),
		UploadInvalidFormat: m.uploadInvalidFormat.Load(),
		UploadError:         m.uploadError.Load(),
		UploadBytesTotal:    m.uploadBytes.Load(),
		ListRequestsTotal:   m.listRequests.Load(),
		FilesTotal:          m.filesTotal.Load(),
	}

	m.histMu.Lock()
	snap.DurationBucketCount = m.durationCount
	snap.DurationSum = m.durationSum
	snap.DurationCount = m.durationTotal
	m.histMu.Unlock()

	m.sizeMu.Lock()
	snap.SizeCount = m.sizeCount
	snap.SizeSum = m.sizeSum
	snap.SizeMin = m.sizeMin
	snap.SizeMax = m.sizeMax
	m.sizeMu.Unlock()

	return snap
}
