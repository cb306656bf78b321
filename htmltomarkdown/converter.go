// Package htmltomarkdown implements webextract.Converter on top of the
// html-to-markdown CommonMark engine.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/dom"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/webextract"
	"golang.org/x/net/html"
)

// Ensure Converter implements webextract.Converter at compile time.
var _ webextract.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	format webextract.FormatOptions
}

// NewConverter creates a new Converter.
func NewConverter(format webextract.FormatOptions) *Converter {
	return &Converter{format: format}
}

// Convert transforms HTML content into a Draft. Constructs disabled in the
// format options are unwrapped to their text before conversion.
func (c *Converter) Convert(content string, baseURL string) (*webextract.Draft, error) {
	if strings.TrimSpace(content) == "" {
		return nil, webextract.Errorf(webextract.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, webextract.Errorf(webextract.ECONVERT, "failed to parse content: %v", err)
	}
	doc.Find("script, style, noscript, template").Remove()
	for _, sel := range c.unwrapSelectors() {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			s.ReplaceWithSelection(s.Contents())
		})
	}
	if c.format.Links {
		fillEmptyLinks(doc, baseURL)
	}
	prepared, err := doc.Html()
	if err != nil {
		return nil, webextract.Errorf(webextract.ECONVERT, "failed to serialize content: %v", err)
	}

	var images []webextract.ImageRef
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	// Images become placeholders; the harvester decides what they point to.
	conv.Register.RendererFor("img", converter.TagTypeInline,
		func(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
			src := strings.TrimSpace(dom.GetAttributeOr(n, "src", ""))
			if src == "" {
				src = strings.TrimSpace(dom.GetAttributeOr(n, "data-src", ""))
			}
			if src == "" {
				return converter.RenderSuccess
			}
			ref := webextract.ImageRef{
				Index:       len(images) + 1,
				Src:         src,
				Alt:         strings.Join(strings.Fields(dom.GetAttributeOr(n, "alt", "")), " "),
				Placeholder: webextract.Placeholder(len(images) + 1),
			}
			images = append(images, ref)
			w.WriteString(ref.Placeholder)
			return converter.RenderSuccess
		},
		converter.PriorityEarly,
	)

	var md string
	if baseURL != "" {
		md, err = conv.ConvertString(prepared, converter.WithDomain(baseURL))
	} else {
		md, err = conv.ConvertString(prepared)
	}
	if err != nil {
		return nil, webextract.Errorf(webextract.ECONVERT, "markdown conversion: %v", err)
	}

	return &webextract.Draft{
		Markdown: strings.TrimSpace(md),
		Images:   images,
	}, nil
}

// fillEmptyLinks gives anchors without text or images their resolved
// target as text.
func fillEmptyLinks(doc *goquery.Document, baseURL string) {
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" || strings.TrimSpace(s.Text()) != "" || s.Find("img").Length() > 0 {
			return
		}
		if baseURL != "" {
			if resolved, err := webextract.ResolveURL(baseURL, href); err == nil {
				href = resolved
			}
		}
		s.SetText(href)
	})
}

// unwrapSelectors lists the elements to replace by their contents: disabled
// constructs, and emphasis nested in the same kind of emphasis.
func (c *Converter) unwrapSelectors() []string {
	var sels []string
	if c.format.Bold {
		sels = append(sels, "b b, b strong, strong b, strong strong")
	} else {
		sels = append(sels, "b, strong")
	}
	if c.format.Italic {
		sels = append(sels, "i i, i em, em i, em em")
	} else {
		sels = append(sels, "i, em")
	}
	if !c.format.Code {
		sels = append(sels, "pre, code, kbd, samp")
	}
	if !c.format.Links {
		sels = append(sels, "a")
	}
	return sels
}
