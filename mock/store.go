package mock

import (
	"context"

	"github.com/fwojciec/webextract"
)

var _ webextract.ImageSink = (*ImageSink)(nil)

// ImageSink is a mock implementation of webextract.ImageSink.
type ImageSink struct {
	SaveImageFn func(ctx context.Context, article string, filename string, data []byte) error
}

func (s *ImageSink) SaveImage(ctx context.Context, article string, filename string, data []byte) error {
	return s.SaveImageFn(ctx, article, filename, data)
}

var _ webextract.ArticleStore = (*ArticleStore)(nil)

// ArticleStore is a mock implementation of webextract.ArticleStore.
type ArticleStore struct {
	SaveImageFn   func(ctx context.Context, article string, filename string, data []byte) error
	SaveArticleFn func(ctx context.Context, a *webextract.Article) error
}

func (s *ArticleStore) SaveImage(ctx context.Context, article string, filename string, data []byte) error {
	return s.SaveImageFn(ctx, article, filename, data)
}

func (s *ArticleStore) SaveArticle(ctx context.Context, a *webextract.Article) error {
	return s.SaveArticleFn(ctx, a)
}

var _ webextract.ReportWriter = (*ReportWriter)(nil)

// ReportWriter is a mock implementation of webextract.ReportWriter.
type ReportWriter struct {
	WriteFailedURLsFn func(ctx context.Context, failed []webextract.FailedURL) error
	WriteIndexFn      func(ctx context.Context) error
}

func (w *ReportWriter) WriteFailedURLs(ctx context.Context, failed []webextract.FailedURL) error {
	return w.WriteFailedURLsFn(ctx, failed)
}

func (w *ReportWriter) WriteIndex(ctx context.Context) error {
	return w.WriteIndexFn(ctx)
}
