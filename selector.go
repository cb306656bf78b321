package webextract

// Content holds the selected main content of a page.
type Content struct {
	// Title is the text of the title node, or the document <title> when the
	// title selector matched nothing. May be empty.
	Title string

	// HTML is the main content subtree with skipped nodes removed.
	HTML string
}

// ContentSelector locates the main content and title in a page.
type ContentSelector interface {
	// Select parses html and returns the pruned main content.
	// Returns ENOTFOUND if the main content selector matches nothing.
	Select(html string) (*Content, error)
}
