package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/awalczyk/qbank"
)

// Ensure LoggingImageFetcher implements qbank.ImageFetcher.
var _ qbank.ImageFetcher = (*LoggingImageFetcher)(nil)

// LoggingImageFetcher wraps an ImageFetcher with per-batch logging.
type LoggingImageFetcher struct {
	next   qbank.ImageFetcher
	logger *slog.Logger
}

// NewLoggingImageFetcher creates a new LoggingImageFetcher.
func NewLoggingImageFetcher(next qbank.ImageFetcher, logger *slog.Logger) *LoggingImageFetcher {
	return &LoggingImageFetcher{next: next, logger: logger}
}

// FetchImages delegates to the wrapped fetcher, logging the batch result
// and each individual failure.
func (f *LoggingImageFetcher) FetchImages(ctx context.Context, refs []qbank.ImageRef, dir, base string) []qbank.ImageResult {
	begin := time.Now()
	results := f.next.FetchImages(ctx, refs, dir, base)

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
			f.logger.Warn("image download failed",
				"url", r.URL,
				"index", r.Index,
				"error", r.Error,
			)
		}
	}

	f.logger.Info("image batch",
		"requested", len(refs),
		"failed", failed,
		"dir", dir,
		"duration", time.Since(begin),
	)
	return results
}
