package webextract

import (
	"strconv"
	"strings"
)

// ImageRef is an image found by a Converter, in first-appearance order.
type ImageRef struct {
	Index int
	// Src is the reference exactly as written in the document.
	Src string
	Alt string
	// Placeholder is the token standing in for the image in Draft.Markdown.
	Placeholder string
}

// Draft is converter output: Markdown with image placeholders still in it.
type Draft struct {
	Markdown string
	Images   []ImageRef
}

// Placeholder delimiters come from the Unicode private use area so they
// cannot collide with document text.
const (
	placeholderOpen  = "\uE000img:"
	placeholderClose = "\uE001"
)

// Placeholder returns the token for the image with the given index.
func Placeholder(index int) string {
	return placeholderOpen + strconv.Itoa(index) + placeholderClose
}

// HasPlaceholders reports whether s still contains image placeholders.
func HasPlaceholders(s string) bool {
	return strings.Contains(s, placeholderOpen)
}

// ImageMarkdown renders an image reference.
func ImageMarkdown(alt, target string) string {
	return "![" + alt + "](" + target + ")"
}

// Converter converts selected content HTML to Markdown.
type Converter interface {
	// Convert transforms content HTML into a Draft. Relative link targets
	// are resolved against baseURL; image sources are left untouched and
	// emitted as placeholders.
	// Returns ECONVERT if the document cannot be walked.
	Convert(html string, baseURL string) (*Draft, error)
}
