package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/webextract"
)

// Run executes the preview command.
func (c *PreviewCmd) Run(deps *Dependencies) error {
	a := deps.Processor.Process(deps.Ctx, webextract.ArticleRequest{Title: c.Title, URL: c.URL}, 1)
	if !a.Success {
		fmt.Fprintf(deps.Stderr, "error: %s failed: %s\n", a.Stage, webextract.ErrorMessage(a.Err))
		return a.Err
	}
	fmt.Fprintln(deps.Stdout, a.Markdown)
	return nil
}

// discardStore accepts articles without writing them.
type discardStore struct{}

var _ webextract.ArticleStore = discardStore{}

func (discardStore) SaveImage(context.Context, string, string, []byte) error {
	return webextract.Errorf(webextract.EWRITE, "preview does not save images")
}

func (discardStore) SaveArticle(context.Context, *webextract.Article) error {
	return nil
}
