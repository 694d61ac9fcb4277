// Package slog provides logging decorators for qbank services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/awalczyk/qbank"
)

// Ensure LoggingCaptureService implements qbank.CaptureService.
var _ qbank.CaptureService = (*LoggingCaptureService)(nil)

// LoggingCaptureService wraps a CaptureService with submission logging.
type LoggingCaptureService struct {
	next   qbank.CaptureService
	logger *slog.Logger
}

// NewLoggingCaptureService creates a new LoggingCaptureService.
func NewLoggingCaptureService(next qbank.CaptureService, logger *slog.Logger) *LoggingCaptureService {
	return &LoggingCaptureService{next: next, logger: logger}
}

// Submit delegates to the wrapped service, logging the outcome.
func (s *LoggingCaptureService) Submit(ctx context.Context, c *qbank.Capture) (*qbank.Outcome, error) {
	begin := time.Now()
	outcome, err := s.next.Submit(ctx, c)
	if err != nil {
		s.logger.Error("capture rejected",
			"url", c.URL,
			"site", c.SiteName,
			"error", err,
			"duration", time.Since(begin),
		)
		return nil, err
	}

	if outcome.Database.Error != "" {
		s.logger.Warn("capture saved without database row",
			"url", c.URL,
			"site", c.SiteName,
			"html", outcome.Files.HTML,
			"db_error", outcome.Database.Error,
			"duration", time.Since(begin),
		)
		return outcome, nil
	}

	s.logger.Info("capture processed",
		"url", c.URL,
		"site", c.SiteName,
		"images", len(outcome.Files.Images),
		"persisted", outcome.Database.Persisted,
		"duration", time.Since(begin),
	)
	return outcome, nil
}

// Captures delegates to the wrapped service.
func (s *LoggingCaptureService) Captures() []qbank.CaptureSummary {
	return s.next.Captures()
}

// Capture delegates to the wrapped service.
func (s *LoggingCaptureService) Capture(index int) (*qbank.Capture, error) {
	return s.next.Capture(index)
}

// ClearCaptures delegates to the wrapped service, logging the reset.
func (s *LoggingCaptureService) ClearCaptures() {
	s.next.ClearCaptures()
	s.logger.Info("capture log cleared")
}
