package slog

import (
	"context"
	"log/slog"

	"github.com/fwojciec/webextract"
)

// Ensure LoggingArticleStore implements webextract.ArticleStore.
var _ webextract.ArticleStore = (*LoggingArticleStore)(nil)

// LoggingArticleStore wraps an ArticleStore with logging.
type LoggingArticleStore struct {
	next   webextract.ArticleStore
	logger *slog.Logger
}

// NewLoggingArticleStore creates a new LoggingArticleStore.
func NewLoggingArticleStore(next webextract.ArticleStore, logger *slog.Logger) *LoggingArticleStore {
	return &LoggingArticleStore{next: next, logger: logger}
}

// SaveImage delegates to the wrapped store and logs the written image.
func (s *LoggingArticleStore) SaveImage(ctx context.Context, article string, filename string, data []byte) (err error) {
	defer func() {
		s.logger.Info("save image",
			"article", article,
			"file", filename,
			"bytes", len(data),
			"err", err,
		)
	}()
	return s.next.SaveImage(ctx, article, filename, data)
}

// SaveArticle delegates to the wrapped store and logs the written path.
func (s *LoggingArticleStore) SaveArticle(ctx context.Context, a *webextract.Article) (err error) {
	defer func() {
		s.logger.Info("save article",
			"title", a.Title,
			"path", a.Path,
			"err", err,
		)
	}()
	return s.next.SaveArticle(ctx, a)
}
