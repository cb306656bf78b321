package webextract

import (
	"context"
	"time"
)

// Fetcher retrieves article HTML from URLs.
type Fetcher interface {
	// Fetch retrieves the document at url, decoded to UTF-8.
	// The context controls timeout and cancellation.
	// Returns EFETCH on network failure or non-2xx status.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases transport resources.
	Close() error
}

// Resource is a downloaded binary resource.
type Resource struct {
	URL         string
	ContentType string
	Data        []byte
}

// Downloader retrieves binary resources such as images.
type Downloader interface {
	// Download retrieves the resource at url.
	// Returns EFETCH on network failure or non-2xx status.
	Download(ctx context.Context, url string) (*Resource, error)
}

// Sleeper pauses between articles.
type Sleeper interface {
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in the
	// latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a function to the Sleeper interface.
type SleeperFunc func(ctx context.Context, d time.Duration) error

// Sleep calls f(ctx, d).
func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}
