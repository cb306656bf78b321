package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/webextract"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	if c.RunID != "" {
		return c.showRun(deps)
	}

	runs, err := deps.History.FindRuns(deps.Ctx, c.Limit)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webextract.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs recorded. Use 'webextract run' to start one.")
		return nil
	}

	for _, r := range runs {
		status := "unfinished"
		if !r.FinishedAt.IsZero() {
			status = fmt.Sprintf("%d ok, %d failed", r.SuccessCount, r.FailCount)
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %d articles  %s\n",
			r.ID, r.StartedAt.UTC().Format(time.DateTime), r.Total, status)
	}
	return nil
}

func (c *HistoryCmd) showRun(deps *Dependencies) error {
	recs, err := deps.History.FindArticles(deps.Ctx, webextract.ArticleFilter{RunID: &c.RunID})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webextract.ErrorMessage(err))
		return err
	}

	if len(recs) == 0 {
		fmt.Fprintf(deps.Stdout, "No articles recorded for run %s.\n", c.RunID)
		return nil
	}

	for _, rec := range recs {
		if rec.Success {
			fmt.Fprintf(deps.Stdout, "ok    %s  %s\n", rec.URL, rec.Path)
			continue
		}
		fmt.Fprintf(deps.Stdout, "fail  %s  %s: %s\n", rec.URL, rec.Stage, rec.Error)
	}
	return nil
}

// Run executes the presets command.
func (c *PresetsCmd) Run(deps *Dependencies) error {
	for _, name := range webextract.PresetNames() {
		fmt.Fprintln(deps.Stdout, name)
	}
	return nil
}
