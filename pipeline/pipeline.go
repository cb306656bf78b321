// Package pipeline runs article extraction: one Pipeline per article and a
// Runner that drives a batch of them sequentially.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/webextract"
)

// Ensure Pipeline implements webextract.ArticleProcessor at compile time.
var _ webextract.ArticleProcessor = (*Pipeline)(nil)

// Pipeline extracts a single article by moving it through the fetching,
// selecting, converting, harvesting and writing stages. Fetch and select
// failures leave nothing on disk.
type Pipeline struct {
	fetcher   webextract.Fetcher
	selector  webextract.ContentSelector
	converter webextract.Converter
	harvester webextract.ImageHarvester
	store     webextract.ArticleStore
	cfg       webextract.Config
	onStage   func(a *webextract.Article)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithStageFunc registers fn to be called each time an article enters a
// new stage.
func WithStageFunc(fn func(a *webextract.Article)) Option {
	return func(p *Pipeline) {
		p.onStage = fn
	}
}

// New creates a Pipeline from its collaborators. cfg is read, never written.
func New(
	fetcher webextract.Fetcher,
	selector webextract.ContentSelector,
	converter webextract.Converter,
	harvester webextract.ImageHarvester,
	store webextract.ArticleStore,
	cfg webextract.Config,
	opts ...Option,
) *Pipeline {
	p := &Pipeline{
		fetcher:   fetcher,
		selector:  selector,
		converter: converter,
		harvester: harvester,
		store:     store,
		cfg:       cfg,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process extracts req. position is the 1-based index of req in its batch
// and names untitled articles.
func (p *Pipeline) Process(ctx context.Context, req webextract.ArticleRequest, position int) *webextract.Article {
	a := &webextract.Article{
		Title: strings.TrimSpace(req.Title),
		URL:   strings.TrimSpace(req.URL),
	}

	p.enter(a, webextract.StageFetching)
	if a.URL == "" {
		return fail(a, webextract.Errorf(webextract.EINVALID, "article URL required"))
	}
	html, err := p.fetcher.Fetch(ctx, a.URL)
	if err != nil {
		return fail(a, err)
	}

	p.enter(a, webextract.StageSelecting)
	content, err := p.selector.Select(html)
	if err != nil {
		return fail(a, err)
	}
	if a.Title == "" {
		a.Title = content.Title
	}
	if a.Title == "" {
		a.Title = fmt.Sprintf("Article_%d", position)
	}

	base := p.cfg.ResolveBase(a.URL)

	p.enter(a, webextract.StageConverting)
	draft, err := p.converter.Convert(content.HTML, base)
	if err != nil {
		return fail(a, err)
	}

	p.enter(a, webextract.StageHarvestingImages)
	harvested := p.harvester.Harvest(ctx, a.Title, base, draft)
	a.Markdown = harvested.Markdown
	a.Images = harvested.Images
	if webextract.HasPlaceholders(a.Markdown) {
		return fail(a, webextract.Errorf(webextract.EINTERNAL, "unresolved image placeholders"))
	}

	p.enter(a, webextract.StageWriting)
	if err := p.store.SaveArticle(ctx, a); err != nil {
		return fail(a, err)
	}

	p.enter(a, webextract.StageDone)
	a.Success = true
	return a
}

func (p *Pipeline) enter(a *webextract.Article, stage webextract.Stage) {
	a.Stage = stage
	if p.onStage != nil {
		p.onStage(a)
	}
}

// fail records err on a. The article keeps the stage it failed in.
func fail(a *webextract.Article, err error) *webextract.Article {
	a.Err = err
	a.Success = false
	return a
}
