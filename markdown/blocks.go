package markdown

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blocks accumulates finished Markdown blocks plus the inline run of the
// block currently being built.
type blocks struct {
	done   []string
	inline strings.Builder
}

// text appends a text node with its whitespace runs collapsed. A leading
// space is dropped when the run already ends in whitespace.
func (b *blocks) text(s string) {
	s = collapseWhitespace(s)
	if s == "" {
		return
	}
	if s[0] == ' ' && b.endsInSpace() {
		s = s[1:]
	}
	b.inline.WriteString(s)
}

// raw appends inline markup as is.
func (b *blocks) raw(s string) {
	b.inline.WriteString(s)
}

func (b *blocks) endsInSpace() bool {
	s := b.inline.String()
	if s == "" {
		return true
	}
	last := s[len(s)-1]
	return last == ' ' || last == '\n'
}

// flush closes the current inline run as a block.
func (b *blocks) flush() {
	s := b.inline.String()
	b.inline.Reset()

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Trim(strings.Join(lines, "\n"), "\n")
	if s != "" {
		b.done = append(b.done, s)
	}
}

// block appends a pre-rendered block.
func (b *blocks) block(s string) {
	b.flush()
	s = strings.Trim(s, "\n")
	if strings.TrimSpace(s) == "" {
		return
	}
	b.done = append(b.done, s)
}

func (b *blocks) all() []string {
	b.flush()
	return b.done
}

// String returns the blocks separated by blank lines.
func (b *blocks) String() string {
	return strings.Join(b.all(), "\n\n")
}

// wrap writes inner between open and close, keeping whitespace that
// surrounded the source element's text outside the markers.
func wrap(b *blocks, n *html.Node, open, inner, close string) {
	text := textContent(n)
	if text != "" && isSpace(text[0]) {
		b.text(" ")
	}
	if inner != "" {
		b.raw(open + inner + close)
	}
	if text != "" && isSpace(text[len(text)-1]) {
		b.text(" ")
	}
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

func collapseWhitespace(s string) string {
	var sb strings.Builder
	space := false
	for i := 0; i < len(s); i++ {
		if isSpace(s[i]) {
			space = true
			continue
		}
		if space {
			sb.WriteByte(' ')
			space = false
		}
		sb.WriteByte(s[i])
	}
	if space {
		sb.WriteByte(' ')
	}
	return sb.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// textContent returns the concatenated text under n, with <br> as a
// newline.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			sb.WriteString(n.Data)
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			sb.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// codeLanguage reads a language-* or lang-* class from a <pre> or its
// first <code> child.
func codeLanguage(pre *html.Node) string {
	candidates := []*html.Node{pre}
	for c := pre.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Code {
			candidates = append(candidates, c)
			break
		}
	}
	for _, n := range candidates {
		for _, class := range strings.Fields(attr(n, "class")) {
			for _, prefix := range []string{"language-", "lang-"} {
				if lang, ok := strings.CutPrefix(class, prefix); ok && lang != "" {
					return lang
				}
			}
		}
	}
	return ""
}

func quote(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = ">"
			continue
		}
		lines[i] = "> " + line
	}
	return strings.Join(lines, "\n")
}

func indent(s, pad string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}

// indentRest indents every line of s but the first.
func indentRest(s, pad string) string {
	first, rest, ok := strings.Cut(s, "\n")
	if !ok {
		return s
	}
	return first + "\n" + indent(rest, pad)
}
