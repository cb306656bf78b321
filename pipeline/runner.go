package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fwojciec/webextract"
)

// ProgressFunc is called after each article of a batch is processed.
type ProgressFunc func(a *webextract.Article, completed, total int)

// SkipFunc reports whether req should not be processed, for example because
// an earlier run already extracted it.
type SkipFunc func(ctx context.Context, req webextract.ArticleRequest) (bool, error)

// Runner processes a batch of articles one at a time with a delay between
// consecutive articles. One article's failure never stops the batch.
type Runner struct {
	processor webextract.ArticleProcessor
	reports   webextract.ReportWriter
	sleeper   webextract.Sleeper
	history   webextract.HistoryService
	logger    *slog.Logger

	delay       time.Duration
	saveFailed  bool
	createIndex bool

	skip     SkipFunc
	progress ProgressFunc
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithSleeper replaces the sleeper used between articles.
func WithSleeper(s webextract.Sleeper) RunnerOption {
	return func(r *Runner) {
		r.sleeper = s
	}
}

// WithSkip registers a predicate for requests that should not be processed.
func WithSkip(fn SkipFunc) RunnerOption {
	return func(r *Runner) {
		r.skip = fn
	}
}

// WithProgress registers a per-article progress callback.
func WithProgress(fn ProgressFunc) RunnerOption {
	return func(r *Runner) {
		r.progress = fn
	}
}

// WithHistory records the run and every article outcome in h. History
// failures are logged and do not affect the batch.
func WithHistory(h webextract.HistoryService) RunnerOption {
	return func(r *Runner) {
		r.history = h
	}
}

// WithLogger sets the logger for non-fatal problems.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = l
	}
}

// NewRunner creates a Runner. reports may be nil, in which case no batch
// level files are written.
func NewRunner(processor webextract.ArticleProcessor, reports webextract.ReportWriter, cfg webextract.Config, opts ...RunnerOption) *Runner {
	r := &Runner{
		processor:   processor,
		reports:     reports,
		sleeper:     webextract.SleeperFunc(Sleep),
		logger:      slog.New(slog.DiscardHandler),
		delay:       cfg.Delay,
		saveFailed:  cfg.SaveFailedURLs,
		createIndex: cfg.CreateIndex,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes reqs in order and returns the aggregate report. When ctx is
// canceled the remaining requests are not attempted; the partial report is
// still finalized and returned together with ctx.Err().
func (r *Runner) Run(ctx context.Context, reqs []webextract.ArticleRequest) (*webextract.BatchReport, error) {
	report := &webextract.BatchReport{}
	run := r.startRun(ctx, len(reqs))

	var interrupted error
	processed := false
	for i, req := range reqs {
		if err := ctx.Err(); err != nil {
			interrupted = err
			break
		}

		if r.skip != nil {
			skip, err := r.skip(ctx, req)
			if err != nil {
				r.logger.Warn("skip check failed", "url", req.URL, "err", err)
			}
			if skip {
				report.SkipCount++
				continue
			}
		}

		if processed && r.delay > 0 {
			if err := r.sleeper.Sleep(ctx, r.delay); err != nil {
				interrupted = err
				break
			}
		}

		a := r.process(ctx, req, i+1)
		processed = true
		report.Add(a)
		r.recordArticle(ctx, run, a)
		if r.progress != nil {
			r.progress(a, i+1, len(reqs))
		}
	}

	// Batch outputs are written even after cancellation.
	finishCtx := context.WithoutCancel(ctx)
	r.finishRun(finishCtx, run, report)
	if err := r.writeReports(finishCtx, report); err != nil {
		return report, errors.Join(interrupted, err)
	}
	return report, interrupted
}

// process runs one article, converting a panic into a failed Article.
func (r *Runner) process(ctx context.Context, req webextract.ArticleRequest, position int) (a *webextract.Article) {
	defer func() {
		if v := recover(); v != nil {
			a = &webextract.Article{
				Title: req.Title,
				URL:   req.URL,
				Stage: webextract.StageErrored,
				Err:   webextract.Errorf(webextract.EINTERNAL, "panic while processing article: %v", v),
			}
		}
	}()
	return r.processor.Process(ctx, req, position)
}

func (r *Runner) writeReports(ctx context.Context, report *webextract.BatchReport) error {
	if r.reports == nil {
		return nil
	}
	var errs []error
	if r.saveFailed && len(report.Failed) > 0 {
		if err := r.reports.WriteFailedURLs(ctx, report.Failed); err != nil {
			errs = append(errs, err)
		}
	}
	if r.createIndex {
		if err := r.reports.WriteIndex(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// startRun creates the history run. It returns nil when history is
// disabled or unavailable.
func (r *Runner) startRun(ctx context.Context, total int) *webextract.Run {
	if r.history == nil {
		return nil
	}
	run := &webextract.Run{Total: total}
	if err := r.history.CreateRun(ctx, run); err != nil {
		r.logger.Warn("history unavailable", "err", err)
		return nil
	}
	return run
}

func (r *Runner) recordArticle(ctx context.Context, run *webextract.Run, a *webextract.Article) {
	if run == nil {
		return
	}
	rec := &webextract.ArticleRecord{
		RunID:   run.ID,
		Title:   a.Title,
		URL:     a.URL,
		Success: a.Success,
		Stage:   a.Stage,
		Path:    a.Path,
		Images:  len(a.Downloaded()),
		Content: a.Markdown,
	}
	if a.Err != nil {
		rec.Error = webextract.ErrorMessage(a.Err)
	}
	if err := r.history.RecordArticle(ctx, rec); err != nil {
		r.logger.Warn("record article failed", "url", a.URL, "err", err)
	}
}

func (r *Runner) finishRun(ctx context.Context, run *webextract.Run, report *webextract.BatchReport) {
	if run == nil {
		return
	}
	if err := r.history.FinishRun(ctx, run.ID, report); err != nil {
		r.logger.Warn("finish run failed", "run", run.ID, "err", err)
	}
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// SkipExtracted returns a SkipFunc that skips URLs history records as
// successfully extracted.
func SkipExtracted(h webextract.HistoryService) SkipFunc {
	return func(ctx context.Context, req webextract.ArticleRequest) (bool, error) {
		if req.URL == "" {
			return false, nil
		}
		return h.Extracted(ctx, req.URL)
	}
}
