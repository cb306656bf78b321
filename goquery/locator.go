package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/webextract"
)

// Locator finds nodes for a configured selector string. The string is
// interpreted as a CSS selector first and as a bare tag name second; the
// first interpretation that matches anything wins.
type Locator struct {
	raw   string
	rules []rule
}

// rule is one interpretation of a selector string.
type rule interface {
	find(sel *goquery.Selection) *goquery.Selection
}

// cssRule matches with a compiled CSS selector (tag, .class, #id and
// compound forms).
type cssRule struct {
	matcher cascadia.Selector
}

func (r cssRule) find(sel *goquery.Selection) *goquery.Selection {
	return sel.FindMatcher(r.matcher)
}

// tagRule matches elements whose tag name equals name.
type tagRule struct {
	name string
}

func (r tagRule) find(sel *goquery.Selection) *goquery.Selection {
	return sel.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return goquery.NodeName(s) == r.name
	})
}

// ParseLocator compiles a selector string. Strings that are not valid CSS
// still yield a Locator that matches by tag name.
func ParseLocator(s string) (*Locator, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return nil, webextract.Errorf(webextract.EINVALID, "empty selector")
	}

	l := &Locator{raw: raw}
	if m, err := cascadia.Compile(raw); err == nil {
		l.rules = append(l.rules, cssRule{matcher: m})
	}
	l.rules = append(l.rules, tagRule{name: strings.ToLower(raw)})
	return l, nil
}

// MustParseLocator is like ParseLocator but panics on error.
func MustParseLocator(s string) *Locator {
	l, err := ParseLocator(s)
	if err != nil {
		panic(err)
	}
	return l
}

// String returns the selector string the Locator was parsed from.
func (l *Locator) String() string {
	return l.raw
}

// All returns every descendant of sel matched by the first rule that
// matches anything. The result is empty when no rule matches.
func (l *Locator) All(sel *goquery.Selection) *goquery.Selection {
	var found *goquery.Selection
	for _, r := range l.rules {
		found = r.find(sel)
		if found.Length() > 0 {
			return found
		}
	}
	return found
}

// First returns the first node matched under sel, reporting whether any
// rule matched.
func (l *Locator) First(sel *goquery.Selection) (*goquery.Selection, bool) {
	found := l.All(sel)
	if found.Length() == 0 {
		return nil, false
	}
	return found.First(), true
}
