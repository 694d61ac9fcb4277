package qbank

import "context"

// Capture is one payload submitted by the browser-side collector: the
// page HTML, metadata, and image references for one viewed page. Field
// names mirror the userscript's JSON.
type Capture struct {
	Timestamp    string           `json:"timestamp,omitempty"`
	URL          string           `json:"url"`
	Hostname     string           `json:"hostname,omitempty"`
	SiteName     string           `json:"siteName,omitempty"`
	ElementCount int              `json:"elementCount,omitempty"`
	ImageCount   int              `json:"imageCount,omitempty"`
	PageHTML     string           `json:"pageHTML,omitempty"`
	BodyText     string           `json:"bodyText,omitempty"`
	Elements     []map[string]any `json:"elements,omitempty"`
	Images       []ImageRef       `json:"images,omitempty"`
}

// Validate returns an error if the capture contains invalid fields.
func (c *Capture) Validate() error {
	if c.URL == "" {
		return Errorf(EINVALID, "capture URL required")
	}
	return nil
}

// Summary returns the reduced listing shape used by the capture log
// accessors.
func (c *Capture) Summary() CaptureSummary {
	return CaptureSummary{
		Timestamp:    c.Timestamp,
		URL:          c.URL,
		SiteName:     c.SiteName,
		ElementCount: c.ElementCount,
	}
}

// CaptureSummary holds the fields exposed when listing received captures.
type CaptureSummary struct {
	Timestamp    string `json:"timestamp"`
	URL          string `json:"url"`
	SiteName     string `json:"siteName"`
	ElementCount int    `json:"elementCount"`
}

// ImageRef describes one image referenced by a capture.
type ImageRef struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
	Type  string `json:"type,omitempty"`
}

// ImageResult is the per-image outcome of a fetch. Results are returned
// in input order, one per reference: either LocalPath/Filename are set,
// or Error carries the failure. One image failing never aborts the rest.
type ImageResult struct {
	Index     int    `json:"index"`
	URL       string `json:"url"`
	LocalPath string `json:"local_path,omitempty"`
	Filename  string `json:"filename,omitempty"`
	Title     string `json:"title,omitempty"`
	Type      string `json:"type,omitempty"`
	Error     string `json:"error,omitempty"`
}

// OK reports whether the image was downloaded successfully.
func (r ImageResult) OK() bool { return r.Error == "" }

// ImageFetcher downloads capture images into a directory, naming each
// file <base>_img<index><ext>.
type ImageFetcher interface {
	FetchImages(ctx context.Context, refs []ImageRef, dir, base string) []ImageResult
}

// ArtifactMetadata is the JSON sidecar written next to the captured HTML.
// It carries everything from the capture except the HTML itself, plus the
// image fetch results.
type ArtifactMetadata struct {
	Timestamp    string           `json:"timestamp"`
	URL          string           `json:"url"`
	Hostname     string           `json:"hostname"`
	SiteName     string           `json:"siteName"`
	ElementCount int              `json:"elementCount"`
	ImageCount   int              `json:"imageCount"`
	BodyText     string           `json:"bodyText"`
	Elements     []map[string]any `json:"elements"`
	Images       []ImageResult    `json:"images"`
}

// ArtifactWriter persists capture artifacts. The caller decides the
// directory layout; the writer only creates it if absent. The HTML is
// written before images are fetched, the sidecar after, so WriteHTML and
// WriteMetadata are separate operations.
type ArtifactWriter interface {
	WriteHTML(ctx context.Context, dir, base, html string) (path string, err error)
	WriteMetadata(ctx context.Context, dir, base string, meta *ArtifactMetadata) (path string, err error)
}

// PageAnalysis holds fields derived from raw page HTML for captures that
// omit them.
type PageAnalysis struct {
	BodyText     string
	ElementCount int
	Images       []ImageRef
}

// PageAnalyzer derives capture metadata from raw HTML.
type PageAnalyzer interface {
	Analyze(html string) (*PageAnalysis, error)
}

// Converter transforms HTML content into Markdown.
type Converter interface {
	Convert(html string) (string, error)
}

// NoteService manages markdown note stubs for stored questions.
// EnsureNote is idempotent: an existing note is returned, not rewritten.
type NoteService interface {
	EnsureNote(ctx context.Context, q *Question, sourceName string) (path string, err error)
}

// Outcome reports the result of one capture submission. Disk artifacts
// are written before the database transaction and are never rolled back,
// so the database sub-result is reported separately: callers can tell
// "saved to disk only" from "fully persisted".
type Outcome struct {
	Status       string   `json:"status"`
	Message      string   `json:"message"`
	CaptureCount int      `json:"extraction_count"`
	Files        FileSet  `json:"files"`
	Database     DBResult `json:"database"`
}

// FileSet lists the artifact paths written for a capture.
type FileSet struct {
	HTML   string   `json:"html"`
	JSON   string   `json:"json_file"`
	Images []string `json:"images"`
}

// DBResult is the database sub-result of a capture submission.
type DBResult struct {
	Persisted bool   `json:"persisted"`
	Error     string `json:"error,omitempty"`
}

// CaptureService is the primary operation the intake layer calls, plus
// the in-memory debug accessors over recently received captures.
type CaptureService interface {
	// Submit runs one capture end to end: artifacts, images, database.
	// Persistence failures are reported inside the outcome, not returned;
	// the error return is reserved for invalid payloads and artifact
	// write failures.
	Submit(ctx context.Context, c *Capture) (*Outcome, error)

	// Captures lists summaries of recently received captures.
	Captures() []CaptureSummary

	// Capture returns one recently received capture by its submission
	// index. Returns ENOTFOUND for unknown or evicted indexes.
	Capture(index int) (*Capture, error)

	// ClearCaptures empties the in-memory capture log.
	ClearCaptures()
}
