package mock

import (
	"context"

	"github.com/awalczyk/qbank"
)

var _ qbank.CaptureService = (*CaptureService)(nil)

// CaptureService is a mock implementation of qbank.CaptureService.
type CaptureService struct {
	SubmitFn        func(ctx context.Context, c *qbank.Capture) (*qbank.Outcome, error)
	CapturesFn      func() []qbank.CaptureSummary
	CaptureFn       func(index int) (*qbank.Capture, error)
	ClearCapturesFn func()
}

func (s *CaptureService) Submit(ctx context.Context, c *qbank.Capture) (*qbank.Outcome, error) {
	return s.SubmitFn(ctx, c)
}

func (s *CaptureService) Captures() []qbank.CaptureSummary {
	return s.CapturesFn()
}

func (s *CaptureService) Capture(index int) (*qbank.Capture, error) {
	return s.CaptureFn(index)
}

func (s *CaptureService) ClearCaptures() {
	s.ClearCapturesFn()
}

var _ qbank.ImageFetcher = (*ImageFetcher)(nil)

// ImageFetcher is a mock implementation of qbank.ImageFetcher.
type ImageFetcher struct {
	FetchImagesFn func(ctx context.Context, refs []qbank.ImageRef, dir, base string) []qbank.ImageResult
}

func (f *ImageFetcher) FetchImages(ctx context.Context, refs []qbank.ImageRef, dir, base string) []qbank.ImageResult {
	return f.FetchImagesFn(ctx, refs, dir, base)
}

var _ qbank.ArtifactWriter = (*ArtifactWriter)(nil)

// ArtifactWriter is a mock implementation of qbank.ArtifactWriter.
type ArtifactWriter struct {
	WriteHTMLFn     func(ctx context.Context, dir, base, html string) (string, error)
	WriteMetadataFn func(ctx context.Context, dir, base string, meta *qbank.ArtifactMetadata) (string, error)
}

func (w *ArtifactWriter) WriteHTML(ctx context.Context, dir, base, html string) (string, error) {
	return w.WriteHTMLFn(ctx, dir, base, html)
}

func (w *ArtifactWriter) WriteMetadata(ctx context.Context, dir, base string, meta *qbank.ArtifactMetadata) (string, error) {
	return w.WriteMetadataFn(ctx, dir, base, meta)
}

var _ qbank.PageAnalyzer = (*PageAnalyzer)(nil)

// PageAnalyzer is a mock implementation of qbank.PageAnalyzer.
type PageAnalyzer struct {
	AnalyzeFn func(html string) (*qbank.PageAnalysis, error)
}

func (a *PageAnalyzer) Analyze(html string) (*qbank.PageAnalysis, error) {
	return a.AnalyzeFn(html)
}

var _ qbank.Converter = (*Converter)(nil)

// Converter is a mock implementation of qbank.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ qbank.NoteService = (*NoteService)(nil)

// NoteService is a mock implementation of qbank.NoteService.
type NoteService struct {
	EnsureNoteFn func(ctx context.Context, q *qbank.Question, sourceName string) (string, error)
}

func (s *NoteService) EnsureNote(ctx context.Context, q *qbank.Question, sourceName string) (string, error) {
	return s.EnsureNoteFn(ctx, q, sourceName)
}
