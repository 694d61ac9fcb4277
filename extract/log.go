package extract

import (
	"sync"

	"github.com/awalczyk/qbank"
)

// DefaultLogCapacity bounds the in-memory capture log.
const DefaultLogCapacity = 256

// captureLog is a bounded ring buffer of recently received captures.
// Indexes are absolute zero-based submission counts, so index 0 is the
// first capture ever received; once the buffer wraps, old indexes report
// not found.
type captureLog struct {
	mu    sync.Mutex
	buf   []*qbank.Capture
	cap   int
	total int
}

func newCaptureLog(capacity int) *captureLog {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &captureLog{cap: capacity}
}

// Add appends a capture and returns its zero-based submission index and
// the running total.
func (l *captureLog) Add(c *qbank.Capture) (index, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.buf) == l.cap {
		l.buf = append(l.buf[1:], c)
	} else {
		l.buf = append(l.buf, c)
	}
	l.total++
	return l.total - 1, l.total
}

// Get returns the capture at the given absolute zero-based index.
func (l *captureLog) Get(index int) (*qbank.Capture, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	oldest := l.total - len(l.buf)
	if index < oldest || index >= l.total {
		return nil, qbank.Errorf(qbank.ENOTFOUND, "capture %d not found", index)
	}
	return l.buf[index-oldest], nil
}

// Summaries returns summaries of the retained captures, oldest first.
func (l *captureLog) Summaries() []qbank.CaptureSummary {
	l.mu.Lock()
	defer l.mu.Unlock()

	summaries := make([]qbank.CaptureSummary, 0, len(l.buf))
	for _, c := range l.buf {
		summaries = append(summaries, c.Summary())
	}
	return summaries
}

// Clear empties the log and resets the submission counter.
func (l *captureLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.buf = nil
	l.total = 0
}
