// Package extract provides capture intake orchestration. It coordinates
// artifact writing, image fetching, and database persistence for
// captures submitted by the browser-side collector.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/awalczyk/qbank"
	"github.com/awalczyk/qbank/bloom"
)

// Bloom filter sizing for the per-source dedup fast path.
const (
	filterCapacity = 100000
	filterFPRate   = 0.001
)

// Ensure Pipeline implements qbank.CaptureService at compile time.
var _ qbank.CaptureService = (*Pipeline)(nil)

// Pipeline orchestrates capture intake. Disk artifacts are written
// first and never rolled back; database persistence happens last inside
// a single transaction, and its failure is reported in the outcome
// rather than returned.
type Pipeline struct {
	Store     qbank.QuestionStore
	Images    qbank.ImageFetcher
	Artifacts qbank.ArtifactWriter
	Analyzer  qbank.PageAnalyzer
	Notes     qbank.NoteService

	// ExtractionRoot holds HTML and JSON artifacts, MediaRoot the
	// per-source copies of downloaded images.
	ExtractionRoot string
	MediaRoot      string

	// LogCapacity bounds the in-memory capture log; zero means
	// DefaultLogCapacity.
	LogCapacity int

	initOnce sync.Once
	capLog   *captureLog

	mu      sync.Mutex
	filters map[string]*bloom.Filter
}

func (p *Pipeline) init() {
	p.initOnce.Do(func() {
		p.capLog = newCaptureLog(p.LogCapacity)
		p.filters = make(map[string]*bloom.Filter)
	})
}

// Submit runs one capture end to end. The returned error covers invalid
// payloads and artifact write failures only; persistence failures are
// reported in the outcome's database sub-result.
func (p *Pipeline) Submit(ctx context.Context, c *qbank.Capture) (*qbank.Outcome, error) {
	p.init()

	if err := c.Validate(); err != nil {
		return nil, err
	}

	p.analyze(c)

	index, total := p.capLog.Add(c)

	site := qbank.SanitizeName(c.SiteName)
	if site == "" {
		site = "unknown"
	}
	year, month := qbank.YearMonth(c.Timestamp)
	dir := filepath.Join(p.ExtractionRoot, site, year, month)

	// The base filename uses the processing time, not the payload's
	// reported timestamp: captures re-reporting the same timestamp must
	// not collide on disk.
	base := fmt.Sprintf("%s_%s_%d", time.Now().Format("20060102_150405"), site, index)

	htmlPath, err := p.Artifacts.WriteHTML(ctx, dir, base, c.PageHTML)
	if err != nil {
		return nil, err
	}

	var imageResults []qbank.ImageResult
	if p.Images != nil && len(c.Images) > 0 {
		imageResults = p.Images.FetchImages(ctx, c.Images, dir, base)
	}

	meta := metadataFor(c, imageResults)
	jsonPath, err := p.Artifacts.WriteMetadata(ctx, dir, base, meta)
	if err != nil {
		return nil, err
	}

	outcome := &qbank.Outcome{
		Status:       "success",
		Message:      fmt.Sprintf("extraction #%d saved", total),
		CaptureCount: total,
		Files: qbank.FileSet{
			HTML:   htmlPath,
			JSON:   jsonPath,
			Images: localPaths(imageResults),
		},
	}

	if p.Store != nil {
		duplicate, err := p.persist(ctx, c, index, htmlPath, meta, imageResults)
		switch {
		case err != nil:
			outcome.Database.Error = err.Error()
		case duplicate:
			outcome.Database.Persisted = true
			outcome.Message = fmt.Sprintf("extraction #%d saved, duplicate question skipped", total)
		default:
			outcome.Database.Persisted = true
		}
	}

	return outcome, nil
}

// analyze fills derived fields the collector omitted from the raw HTML.
func (p *Pipeline) analyze(c *qbank.Capture) {
	if p.Analyzer == nil || c.PageHTML == "" {
		return
	}
	if c.BodyText != "" && c.ElementCount > 0 && len(c.Images) > 0 {
		return
	}

	analysis, err := p.Analyzer.Analyze(c.PageHTML)
	if err != nil {
		return
	}

	if c.BodyText == "" {
		c.BodyText = analysis.BodyText
	}
	if c.ElementCount == 0 {
		c.ElementCount = analysis.ElementCount
	}
	if len(c.Images) == 0 {
		c.Images = analysis.Images
	}
	if c.ImageCount == 0 {
		c.ImageCount = len(c.Images)
	}
}

// persist stores the capture's question row, media records, and note
// inside one transaction. It reports duplicate=true when the source
// already holds a question with identical body text or the same
// URL-derived key, in which case nothing is written.
func (p *Pipeline) persist(ctx context.Context, c *qbank.Capture, index int, htmlPath string, meta *qbank.ArtifactMetadata, images []qbank.ImageResult) (duplicate bool, err error) {
	sourceName, key := qbank.SourceAndKey(c.SiteName, c.URL, index)

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return false, err
	}

	tx, err := p.Store.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	source, err := tx.GetOrCreateSource(ctx, sourceName, "Autodetected source: "+sourceName)
	if err != nil {
		return false, err
	}

	var hash string
	if c.BodyText != "" {
		hash = bloom.Fingerprint(c.BodyText)

		filter, err := p.filterFor(ctx, tx, source.ID)
		if err != nil {
			return false, err
		}

		// A negative filter answer proves the body text is new; a
		// positive one still needs the stored rows checked.
		if filter.Test(hash) {
			_, err := tx.QuestionByBodyText(ctx, source.ID, c.BodyText)
			if err == nil {
				return true, tx.Commit()
			}
			if qbank.ErrorCode(err) != qbank.ENOTFOUND {
				return false, err
			}
		}
	}

	// Second dedup tier: a question stored under the same URL-derived
	// key makes resubmission an idempotent no-op.
	if _, err := tx.QuestionBySourceKey(ctx, source.ID, key); err == nil {
		return true, tx.Commit()
	} else if qbank.ErrorCode(err) != qbank.ENOTFOUND {
		return false, err
	}

	q := &qbank.Question{
		SourceID:       source.ID,
		SourceKey:      key,
		RawHTML:        c.PageHTML,
		RawMetadata:    string(metaJSON),
		ExtractionPath: htmlPath,
		BodyHash:       hash,
	}
	if err := tx.UpsertQuestion(ctx, q); err != nil {
		return false, err
	}

	for _, r := range images {
		if !r.OK() {
			continue
		}
		rel := filepath.Join(sourceName, fmt.Sprintf("%s_img%d%s", key, r.Index, filepath.Ext(r.Filename)))
		if err := copyFile(r.LocalPath, filepath.Join(p.MediaRoot, rel)); err != nil {
			return false, err
		}
		m := &qbank.Media{
			Role:         qbank.MediaRoleImage,
			Type:         r.Type,
			MimeType:     qbank.MimeTypeForPath(rel),
			RelativePath: rel,
		}
		if err := tx.AddMedia(ctx, q.ID, m); err != nil {
			return false, err
		}
	}

	if p.Notes != nil {
		notePath, err := p.Notes.EnsureNote(ctx, q, sourceName)
		if err != nil {
			return false, err
		}
		if notePath != q.NotePath {
			if _, err := tx.UpdateQuestion(ctx, q.ID, qbank.QuestionUpdate{NotePath: &notePath}); err != nil {
				return false, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}

	if hash != "" {
		p.mu.Lock()
		if filter, ok := p.filters[source.ID]; ok {
			filter.Add(hash)
		}
		p.mu.Unlock()
	}
	return false, nil
}

// filterFor returns the source's dedup filter, warming it from the
// stored body hashes on first use. Warming is required for correctness:
// an unwarmed filter would answer "new" for already-stored questions.
func (p *Pipeline) filterFor(ctx context.Context, tx qbank.Tx, sourceID string) (*bloom.Filter, error) {
	p.mu.Lock()
	filter, ok := p.filters[sourceID]
	p.mu.Unlock()
	if ok {
		return filter, nil
	}

	hashes, err := tx.QuestionBodyHashes(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	filter = bloom.NewFilter(filterCapacity, filterFPRate)
	for _, h := range hashes {
		filter.Add(h)
	}

	p.mu.Lock()
	p.filters[sourceID] = filter
	p.mu.Unlock()
	return filter, nil
}

// Captures lists summaries of recently received captures.
func (p *Pipeline) Captures() []qbank.CaptureSummary {
	p.init()
	return p.capLog.Summaries()
}

// Capture returns one recently received capture by submission index.
func (p *Pipeline) Capture(index int) (*qbank.Capture, error) {
	p.init()
	return p.capLog.Get(index)
}

// ClearCaptures empties the in-memory capture log.
func (p *Pipeline) ClearCaptures() {
	p.init()
	p.capLog.Clear()
}

// metadataFor builds the JSON sidecar payload: the capture minus its
// HTML, plus the image fetch results.
func metadataFor(c *qbank.Capture, images []qbank.ImageResult) *qbank.ArtifactMetadata {
	return &qbank.ArtifactMetadata{
		Timestamp:    c.Timestamp,
		URL:          c.URL,
		Hostname:     c.Hostname,
		SiteName:     c.SiteName,
		ElementCount: c.ElementCount,
		ImageCount:   c.ImageCount,
		BodyText:     c.BodyText,
		Elements:     c.Elements,
		Images:       images,
	}
}

func localPaths(images []qbank.ImageResult) []string {
	var paths []string
	for _, r := range images {
		if r.OK() {
			paths = append(paths, r.LocalPath)
		}
	}
	return paths
}

func copyFile(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	return out.Close()
}
