package mock

import (
	"context"

	"github.com/fwojciec/webextract"
)

var _ webextract.HistoryService = (*HistoryService)(nil)

// HistoryService is a mock implementation of webextract.HistoryService.
type HistoryService struct {
	CreateRunFn     func(ctx context.Context, run *webextract.Run) error
	FinishRunFn     func(ctx context.Context, id string, report *webextract.BatchReport) error
	RecordArticleFn func(ctx context.Context, rec *webextract.ArticleRecord) error
	FindRunsFn      func(ctx context.Context, limit int) ([]*webextract.Run, error)
	FindArticlesFn  func(ctx context.Context, filter webextract.ArticleFilter) ([]*webextract.ArticleRecord, error)
	ExtractedFn     func(ctx context.Context, url string) (bool, error)
}

func (s *HistoryService) CreateRun(ctx context.Context, run *webextract.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *HistoryService) FinishRun(ctx context.Context, id string, report *webextract.BatchReport) error {
	return s.FinishRunFn(ctx, id, report)
}

func (s *HistoryService) RecordArticle(ctx context.Context, rec *webextract.ArticleRecord) error {
	return s.RecordArticleFn(ctx, rec)
}

func (s *HistoryService) FindRuns(ctx context.Context, limit int) ([]*webextract.Run, error) {
	return s.FindRunsFn(ctx, limit)
}

func (s *HistoryService) FindArticles(ctx context.Context, filter webextract.ArticleFilter) ([]*webextract.ArticleRecord, error) {
	return s.FindArticlesFn(ctx, filter)
}

func (s *HistoryService) Extracted(ctx context.Context, url string) (bool, error) {
	return s.ExtractedFn(ctx, url)
}

var _ webextract.ArticleProcessor = (*ArticleProcessor)(nil)

// ArticleProcessor is a mock implementation of webextract.ArticleProcessor.
type ArticleProcessor struct {
	ProcessFn func(ctx context.Context, req webextract.ArticleRequest, position int) *webextract.Article
}

func (p *ArticleProcessor) Process(ctx context.Context, req webextract.ArticleRequest, position int) *webextract.Article {
	return p.ProcessFn(ctx, req, position)
}
