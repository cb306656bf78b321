package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/webextract"
)

// Ensure LoggingProcessor implements webextract.ArticleProcessor.
var _ webextract.ArticleProcessor = (*LoggingProcessor)(nil)

// LoggingProcessor wraps an ArticleProcessor and logs each outcome.
// Failures are logged at warn level.
type LoggingProcessor struct {
	next   webextract.ArticleProcessor
	logger *slog.Logger
}

// NewLoggingProcessor creates a new LoggingProcessor.
func NewLoggingProcessor(next webextract.ArticleProcessor, logger *slog.Logger) *LoggingProcessor {
	return &LoggingProcessor{next: next, logger: logger}
}

// Process delegates to the wrapped processor and logs the result.
func (p *LoggingProcessor) Process(ctx context.Context, req webextract.ArticleRequest, position int) *webextract.Article {
	begin := time.Now()
	a := p.next.Process(ctx, req, position)

	attrs := []any{
		"position", position,
		"title", a.Title,
		"url", a.URL,
		"stage", a.Stage,
		"images", len(a.Downloaded()),
		"duration", time.Since(begin),
	}
	if !a.Success {
		p.logger.Warn("article failed", append(attrs, "err", a.Err)...)
		return a
	}
	p.logger.Info("article", append(attrs, "path", a.Path)...)
	return a
}
