// Package markdown implements webextract.Converter with a single
// depth-first walk over an x/net/html tree.
package markdown

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/fwojciec/webextract"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MaxDepth is the deepest element nesting the converter will walk.
const MaxDepth = 512

// Ensure Converter implements webextract.Converter at compile time.
var _ webextract.Converter = (*Converter)(nil)

// Converter renders content HTML as Markdown. Each construct enabled in the
// format options is rendered with its Markdown markers; disabled constructs
// keep their inner text only. Unknown elements are walked as transparent
// containers.
type Converter struct {
	format webextract.FormatOptions
}

// NewConverter creates a new Converter with the given format options.
func NewConverter(format webextract.FormatOptions) *Converter {
	return &Converter{format: format}
}

// Convert transforms content HTML into a Draft.
func (c *Converter) Convert(content string, baseURL string) (*webextract.Draft, error) {
	if strings.TrimSpace(content) == "" {
		return nil, webextract.Errorf(webextract.EINVALID, "empty HTML input")
	}

	var base *url.URL
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, webextract.Errorf(webextract.EINVALID, "invalid base URL %q", baseURL)
		}
		base = u
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, webextract.Errorf(webextract.ECONVERT, "failed to parse content: %v", err)
	}

	w := &walker{format: c.format, base: base}
	out := &blocks{}
	for _, n := range nodes {
		if err := w.node(n, out, 0); err != nil {
			return nil, err
		}
	}

	return &webextract.Draft{
		Markdown: out.String(),
		Images:   w.images,
	}, nil
}

// walker holds the state of one conversion.
type walker struct {
	format webextract.FormatOptions
	base   *url.URL
	images []webextract.ImageRef

	// bold and italic count open wrappers so nested tags collapse.
	bold   int
	italic int
}

func (w *walker) children(n *html.Node, b *blocks, depth int) error {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := w.node(c, b, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) node(n *html.Node, b *blocks, depth int) error {
	if depth > MaxDepth {
		return webextract.Errorf(webextract.ECONVERT, "element nesting exceeds %d levels", MaxDepth)
	}

	switch n.Type {
	case html.TextNode:
		b.text(n.Data)
		return nil
	case html.ElementNode:
	case html.DocumentNode:
		return w.children(n, b, depth)
	default:
		return nil
	}

	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Noscript, atom.Template, atom.Head,
		atom.Svg, atom.Iframe, atom.Object, atom.Embed:
		return nil

	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		inner, err := w.inline(n, depth)
		if err != nil {
			return err
		}
		if inner != "" {
			level := int(n.Data[1] - '0')
			b.block(strings.Repeat("#", level) + " " + strings.Join(strings.Fields(inner), " "))
		}
		return nil

	case atom.P, atom.Div, atom.Section, atom.Article, atom.Main, atom.Header,
		atom.Footer, atom.Aside, atom.Nav, atom.Figure, atom.Figcaption,
		atom.Details, atom.Summary, atom.Address, atom.Dl, atom.Dt, atom.Dd,
		atom.Form, atom.Fieldset, atom.Center, atom.Li, atom.Body, atom.Html:
		b.flush()
		if err := w.children(n, b, depth); err != nil {
			return err
		}
		b.flush()
		return nil

	case atom.Ul, atom.Ol:
		list, err := w.list(n, depth)
		if err != nil {
			return err
		}
		b.block(list)
		return nil

	case atom.Blockquote:
		sub := &blocks{}
		if err := w.children(n, sub, depth); err != nil {
			return err
		}
		b.block(quote(sub.String()))
		return nil

	case atom.Pre:
		b.block(w.pre(n))
		return nil

	case atom.Table:
		table, err := w.table(n, depth)
		if err != nil {
			return err
		}
		b.block(table)
		return nil

	case atom.Hr:
		b.block("---")
		return nil

	case atom.Br:
		b.raw("\n")
		return nil

	case atom.B, atom.Strong:
		if !w.format.Bold || w.bold > 0 {
			return w.children(n, b, depth)
		}
		w.bold++
		inner, err := w.inline(n, depth)
		w.bold--
		if err != nil {
			return err
		}
		wrap(b, n, "**", inner, "**")
		return nil

	case atom.I, atom.Em:
		if !w.format.Italic || w.italic > 0 {
			return w.children(n, b, depth)
		}
		w.italic++
		inner, err := w.inline(n, depth)
		w.italic--
		if err != nil {
			return err
		}
		wrap(b, n, "*", inner, "*")
		return nil

	case atom.Code, atom.Kbd, atom.Samp, atom.Tt:
		text := textContent(n)
		if !w.format.Code {
			b.text(text)
			return nil
		}
		code := strings.Join(strings.Fields(text), " ")
		if code == "" {
			return nil
		}
		fence := "`"
		if strings.Contains(code, "`") {
			fence = "`` "
			wrap(b, n, fence, code, " ``")
			return nil
		}
		wrap(b, n, fence, code, fence)
		return nil

	case atom.A:
		if !w.format.Links {
			return w.children(n, b, depth)
		}
		return w.link(n, b, depth)

	case atom.Img:
		w.image(n, b)
		return nil
	}

	return w.children(n, b, depth)
}

// inline renders the children of n as a single line of inline Markdown.
func (w *walker) inline(n *html.Node, depth int) (string, error) {
	sub := &blocks{}
	if err := w.children(n, sub, depth); err != nil {
		return "", err
	}
	return strings.Join(sub.all(), " "), nil
}

func (w *walker) link(n *html.Node, b *blocks, depth int) error {
	inner, err := w.inline(n, depth)
	if err != nil {
		return err
	}

	href := strings.TrimSpace(attr(n, "href"))
	if href == "" {
		wrap(b, n, "", inner, "")
		return nil
	}

	target := href
	if w.base != nil {
		if resolved, err := webextract.ResolveURL(w.base.String(), href); err == nil {
			target = resolved
		}
	}
	target = strings.ReplaceAll(target, " ", "%20")

	if inner == "" {
		inner = target
	}
	wrap(b, n, "[", inner, "]("+target+")")
	return nil
}

func (w *walker) image(n *html.Node, b *blocks) {
	src := strings.TrimSpace(attr(n, "src"))
	if src == "" {
		src = strings.TrimSpace(attr(n, "data-src"))
	}
	if src == "" {
		return
	}

	ref := webextract.ImageRef{
		Index:       len(w.images) + 1,
		Src:         src,
		Alt:         strings.Join(strings.Fields(attr(n, "alt")), " "),
		Placeholder: webextract.Placeholder(len(w.images) + 1),
	}
	w.images = append(w.images, ref)
	b.raw(ref.Placeholder)
}

// pre renders a code container. Text is kept verbatim; with code
// preservation enabled it is fenced and tagged with its language class.
func (w *walker) pre(n *html.Node) string {
	text := strings.TrimRight(textContent(n), "\n")
	if !w.format.Code {
		return text
	}

	fence := "```"
	for strings.Contains(text, fence) {
		fence += "`"
	}
	return fence + codeLanguage(n) + "\n" + text + "\n" + fence
}

func (w *walker) list(n *html.Node, depth int) (string, error) {
	ordered := n.DataAtom == atom.Ol
	num := 1
	if ordered {
		if start, err := strconv.Atoi(attr(n, "start")); err == nil {
			num = start
		}
	}

	var items []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}

		sub := &blocks{}
		var err error
		if c.DataAtom == atom.Li {
			err = w.children(c, sub, depth+1)
		} else {
			err = w.node(c, sub, depth+1)
		}
		if err != nil {
			return "", err
		}
		parts := sub.all()
		if len(parts) == 0 {
			continue
		}

		if c.DataAtom != atom.Li {
			// Stray children such as a nested list directly inside <ul>
			// belong to the previous item.
			for _, p := range parts {
				items = append(items, indent(p, "  "))
			}
			continue
		}

		marker := "- "
		if ordered {
			marker = strconv.Itoa(num) + ". "
			num++
		}
		pad := strings.Repeat(" ", len(marker))
		item := marker + indentRest(parts[0], pad)
		for _, p := range parts[1:] {
			item += "\n" + indent(p, pad)
		}
		items = append(items, item)
	}

	return strings.Join(items, "\n"), nil
}

func (w *walker) table(n *html.Node, depth int) (string, error) {
	var rows [][]string
	var collect func(*html.Node) error
	collect = func(p *html.Node) error {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Table:
				continue
			case atom.Tr:
				var cells []string
				for cell := c.FirstChild; cell != nil; cell = cell.NextSibling {
					if cell.Type != html.ElementNode || (cell.DataAtom != atom.Td && cell.DataAtom != atom.Th) {
						continue
					}
					text, err := w.inline(cell, depth+1)
					if err != nil {
						return err
					}
					text = strings.ReplaceAll(text, "\n", " ")
					cells = append(cells, strings.ReplaceAll(text, "|", `\|`))
				}
				if len(cells) > 0 {
					rows = append(rows, cells)
				}
			default:
				if err := collect(c); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := collect(n); err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", nil
	}

	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		sb.WriteString("|")
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			sb.WriteString(" " + cell + " |")
		}
		sb.WriteString("\n")
	}
	writeRow(rows[0])
	sb.WriteString("|" + strings.Repeat(" --- |", cols) + "\n")
	for _, r := range rows[1:] {
		writeRow(r)
	}
	return strings.TrimSuffix(sb.String(), "\n"), nil
}
