package webextract

import (
	"context"
	"time"
)

// Run is one recorded batch invocation.
type Run struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"startedAt"`
	FinishedAt   time.Time `json:"finishedAt"`
	Total        int       `json:"total"`
	SuccessCount int       `json:"successCount"`
	FailCount    int       `json:"failCount"`
}

// ArticleRecord is the persisted outcome of one article in a run.
type ArticleRecord struct {
	ID          string    `json:"id"`
	RunID       string    `json:"runId"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Success     bool      `json:"success"`
	Stage       Stage     `json:"stage"`
	Error       string    `json:"error"`
	Path        string    `json:"path"`
	Images      int       `json:"images"`
	ContentHash string    `json:"contentHash"`
	RecordedAt  time.Time `json:"recordedAt"`

	// Content is the article Markdown. It is hashed into ContentHash and
	// not stored.
	Content string `json:"-"`
}

// Validate returns an error if the record contains invalid fields.
func (r *ArticleRecord) Validate() error {
	if r.RunID == "" {
		return Errorf(EINVALID, "article record run ID required")
	}
	if r.URL == "" {
		return Errorf(EINVALID, "article record URL required")
	}
	return nil
}

// ArticleFilter represents a filter for FindArticles. Nil fields match
// any value.
type ArticleFilter struct {
	RunID   *string
	URL     *string
	Success *bool

	Limit  int
	Offset int
}

// HistoryService records batch runs so an interrupted batch can be resumed.
type HistoryService interface {
	// CreateRun starts a new run and assigns its ID and start time.
	CreateRun(ctx context.Context, run *Run) error

	// FinishRun stores the final counts of a run.
	// Returns ENOTFOUND if the run does not exist.
	FinishRun(ctx context.Context, id string, report *BatchReport) error

	// RecordArticle stores the outcome of one article.
	RecordArticle(ctx context.Context, rec *ArticleRecord) error

	// FindRuns returns the most recent runs first.
	FindRuns(ctx context.Context, limit int) ([]*Run, error)

	// FindArticles returns article records matching the filter, most
	// recent first.
	FindArticles(ctx context.Context, filter ArticleFilter) ([]*ArticleRecord, error)

	// Extracted reports whether url was successfully extracted in any run.
	Extracted(ctx context.Context, url string) (bool, error)
}
