// Package goquery implements webextract.ContentSelector with goquery and
// cascadia.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/webextract"
)

// Ensure Selector implements webextract.ContentSelector at compile time.
var _ webextract.ContentSelector = (*Selector)(nil)

// Selector locates the main content and the title of a page and prunes
// skipped subtrees from the content.
type Selector struct {
	content *Locator
	title   *Locator
	skip    []*Locator
}

// NewSelector compiles the content, title, and skip selectors.
func NewSelector(content, title string, skip []string) (*Selector, error) {
	s := &Selector{}

	var err error
	if s.content, err = ParseLocator(content); err != nil {
		return nil, webextract.Errorf(webextract.EINVALID, "main content selector: %s", webextract.ErrorMessage(err))
	}
	if s.title, err = ParseLocator(title); err != nil {
		return nil, webextract.Errorf(webextract.EINVALID, "title selector: %s", webextract.ErrorMessage(err))
	}
	for _, raw := range skip {
		l, err := ParseLocator(raw)
		if err != nil {
			return nil, webextract.Errorf(webextract.EINVALID, "skip selector: %s", webextract.ErrorMessage(err))
		}
		s.skip = append(s.skip, l)
	}

	return s, nil
}

// NewSelectorFromConfig builds a Selector from the configured selectors.
func NewSelectorFromConfig(cfg webextract.Config) (*Selector, error) {
	return NewSelector(cfg.MainContentSelector, cfg.TitleSelector, cfg.SkipSelectors)
}

// Select parses html, locates the main content and title, removes skipped
// nodes from the content subtree, and returns the content as HTML.
func (s *Selector) Select(html string) (*webextract.Content, error) {
	if strings.TrimSpace(html) == "" {
		return nil, webextract.Errorf(webextract.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, webextract.Errorf(webextract.EINVALID, "failed to parse HTML: %v", err)
	}

	content, ok := s.content.First(doc.Selection)
	if !ok {
		return nil, webextract.Errorf(webextract.ENOTFOUND, "main content selector %q matched nothing", s.content)
	}

	title := ""
	if t, ok := s.title.First(doc.Selection); ok {
		title = collapseSpace(t.Text())
	}
	if title == "" {
		title = collapseSpace(doc.Find("head title").First().Text())
	}

	Prune(content, s.skip)

	out, err := goquery.OuterHtml(content)
	if err != nil {
		return nil, webextract.Errorf(webextract.ECONVERT, "failed to serialize content: %v", err)
	}

	return &webextract.Content{Title: title, HTML: out}, nil
}

// Prune removes every descendant of content matched by any of the skip
// locators. Nodes outside content are left alone.
func Prune(content *goquery.Selection, skip []*Locator) {
	for _, l := range skip {
		l.All(content).Remove()
	}
}

// collapseSpace trims s and collapses internal whitespace runs to one space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
