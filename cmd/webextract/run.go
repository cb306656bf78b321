package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/webextract"
	"github.com/fwojciec/webextract/pipeline"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	reqs, err := LoadArticles(c.Articles)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webextract.ErrorMessage(err))
		return err
	}

	opts := []pipeline.RunnerOption{
		pipeline.WithProgress(func(a *webextract.Article, completed, total int) {
			printProgress(deps.Stdout, a, completed, total)
		}),
	}
	if deps.Logger != nil {
		opts = append(opts, pipeline.WithLogger(deps.Logger))
	}
	if deps.Sleeper != nil {
		opts = append(opts, pipeline.WithSleeper(deps.Sleeper))
	}
	if deps.History != nil {
		opts = append(opts, pipeline.WithHistory(deps.History))
	}
	if c.Resume {
		if deps.History == nil {
			return webextract.Errorf(webextract.EINVALID, "--resume needs run history")
		}
		opts = append(opts, pipeline.WithSkip(pipeline.SkipExtracted(deps.History)))
	}

	runner := pipeline.NewRunner(deps.Processor, deps.Reports, deps.Config, opts...)
	report, err := runner.Run(deps.Ctx, reqs)
	printSummary(deps.Stdout, report)
	if err != nil {
		return fmt.Errorf("batch stopped: %w", err)
	}
	return nil
}

// LoadArticles reads a JSON array of {title, url} objects.
func LoadArticles(path string) ([]webextract.ArticleRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, webextract.Errorf(webextract.EINVALID, "read articles file: %v", err)
	}
	var reqs []webextract.ArticleRequest
	if err := json.Unmarshal(data, &reqs); err != nil {
		return nil, webextract.Errorf(webextract.EINVALID, "parse articles file: %v", err)
	}
	if len(reqs) == 0 {
		return nil, webextract.Errorf(webextract.EINVALID, "articles file %s lists no articles", path)
	}
	return reqs, nil
}

func printProgress(w io.Writer, a *webextract.Article, completed, total int) {
	if a.Success {
		fmt.Fprintf(w, "[%d/%d] ok    %s (%d images)\n", completed, total, a.Title, len(a.Downloaded()))
		return
	}
	fmt.Fprintf(w, "[%d/%d] fail  %s: %s\n", completed, total, a.Title, webextract.ErrorMessage(a.Err))
}

func printSummary(w io.Writer, report *webextract.BatchReport) {
	fmt.Fprintf(w, "\nDone: %d succeeded, %d failed", report.SuccessCount, report.FailCount)
	if report.SkipCount > 0 {
		fmt.Fprintf(w, ", %d skipped", report.SkipCount)
	}
	fmt.Fprintln(w)
	for _, f := range report.Failed {
		fmt.Fprintf(w, "  - %s <%s>: %s\n", f.Title, f.URL, f.Error)
	}
}
