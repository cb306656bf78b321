package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/webextract"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ webextract.HistoryService = (*HistoryService)(nil)

// HistoryService implements webextract.HistoryService using SQLite.
type HistoryService struct {
	db *DB

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(db *DB) *HistoryService {
	return &HistoryService{db: db, Now: time.Now}
}

// hashContent computes the xxHash of content as a 16 digit hex string.
func hashContent(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// CreateRun creates a new run with a generated ID and start time.
func (s *HistoryService) CreateRun(ctx context.Context, run *webextract.Run) error {
	run.ID = uuid.New().String()
	run.StartedAt = s.Now().UTC()
	run.FinishedAt = time.Time{}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, total)
		VALUES (?, ?, ?)
	`, run.ID, formatTime(run.StartedAt), run.Total)

	return err
}

// FinishRun stores the final counts of a run.
func (s *HistoryService) FinishRun(ctx context.Context, id string, report *webextract.BatchReport) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, success_count = ?, fail_count = ?
		WHERE id = ?
	`, formatTime(s.Now()), report.SuccessCount, report.FailCount, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return webextract.Errorf(webextract.ENOTFOUND, "run not found")
	}
	return nil
}

// RecordArticle stores the outcome of one article. The record's Content is
// hashed, not stored.
func (s *HistoryService) RecordArticle(ctx context.Context, rec *webextract.ArticleRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	rec.ID = uuid.New().String()
	rec.RecordedAt = s.Now().UTC()
	if rec.Content != "" {
		rec.ContentHash = hashContent(rec.Content)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO articles (id, run_id, title, url, success, stage, error, path, images, content_hash, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.RunID, rec.Title, rec.URL, rec.Success, string(rec.Stage), rec.Error, rec.Path,
		rec.Images, rec.ContentHash, formatTime(rec.RecordedAt))
	if err != nil && strings.Contains(err.Error(), "FOREIGN KEY") {
		return webextract.Errorf(webextract.ENOTFOUND, "run not found")
	}

	return err
}

// FindRuns returns up to limit runs, most recent first. A limit of zero
// returns every run.
func (s *HistoryService) FindRuns(ctx context.Context, limit int) ([]*webextract.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, started_at, finished_at, total, success_count, fail_count FROM runs ORDER BY started_at DESC")
	appendPagination(&query, &args, limit, 0)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*webextract.Run
	for rows.Next() {
		var run webextract.Run
		var startedAt, finishedAt string

		if err := rows.Scan(&run.ID, &startedAt, &finishedAt, &run.Total, &run.SuccessCount, &run.FailCount); err != nil {
			return nil, err
		}
		if run.StartedAt, err = parseTime(startedAt, "started_at"); err != nil {
			return nil, err
		}
		if run.FinishedAt, err = parseTime(finishedAt, "finished_at"); err != nil {
			return nil, err
		}

		runs = append(runs, &run)
	}

	return runs, rows.Err()
}

// FindArticles retrieves article records matching the filter.
func (s *HistoryService) FindArticles(ctx context.Context, filter webextract.ArticleFilter) ([]*webextract.ArticleRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, run_id, title, url, success, stage, error, path, images, content_hash, recorded_at FROM articles WHERE 1=1")

	if filter.RunID != nil {
		query.WriteString(" AND run_id = ?")
		args = append(args, *filter.RunID)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if filter.Success != nil {
		query.WriteString(" AND success = ?")
		args = append(args, *filter.Success)
	}

	query.WriteString(" ORDER BY recorded_at DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*webextract.ArticleRecord
	for rows.Next() {
		var rec webextract.ArticleRecord
		var stage, recordedAt string

		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Title, &rec.URL, &rec.Success, &stage,
			&rec.Error, &rec.Path, &rec.Images, &rec.ContentHash, &recordedAt); err != nil {
			return nil, err
		}
		rec.Stage = webextract.Stage(stage)
		if rec.RecordedAt, err = parseTime(recordedAt, "recorded_at"); err != nil {
			return nil, err
		}

		recs = append(recs, &rec)
	}

	return recs, rows.Err()
}

// Extracted reports whether url has a successful record in any run.
func (s *HistoryService) Extracted(ctx context.Context, url string) (bool, error) {
	var found int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM articles WHERE url = ? AND success = 1 LIMIT 1
	`, url).Scan(&found)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
