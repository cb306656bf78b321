package webextract

import "context"

// FailedURL is one failed article in a batch.
type FailedURL struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Error string `json:"error,omitempty"`
}

// BatchReport aggregates the outcome of one batch.
type BatchReport struct {
	SuccessCount int         `json:"success_count"`
	FailCount    int         `json:"fail_count"`
	SkipCount    int         `json:"skip_count,omitempty"`
	Failed       []FailedURL `json:"failed_urls"`

	// Articles holds every processed article in input order.
	Articles []*Article `json:"-"`
}

// Add records an article outcome.
func (r *BatchReport) Add(a *Article) {
	r.Articles = append(r.Articles, a)
	if a.Success {
		r.SuccessCount++
		return
	}
	r.FailCount++
	failed := FailedURL{Title: a.Title, URL: a.URL}
	if a.Err != nil {
		failed.Error = ErrorMessage(a.Err)
	}
	r.Failed = append(r.Failed, failed)
}

// Total returns the number of articles attempted.
func (r *BatchReport) Total() int {
	return r.SuccessCount + r.FailCount
}

// ArticleStore persists extracted articles.
type ArticleStore interface {
	ImageSink

	// SaveArticle writes the article's Markdown into its directory and sets
	// a.Path. Returns EWRITE on filesystem failure.
	SaveArticle(ctx context.Context, a *Article) error
}

// ReportWriter persists batch-level output.
type ReportWriter interface {
	// WriteFailedURLs writes the failed entries of a batch.
	WriteFailedURLs(ctx context.Context, failed []FailedURL) error

	// WriteIndex writes an index of every article in the output directory.
	WriteIndex(ctx context.Context) error
}
