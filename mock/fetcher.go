package mock

import (
	"context"
	"time"

	"github.com/fwojciec/webextract"
)

var _ webextract.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of webextract.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ webextract.Downloader = (*Downloader)(nil)

// Downloader is a mock implementation of webextract.Downloader.
type Downloader struct {
	DownloadFn func(ctx context.Context, url string) (*webextract.Resource, error)
}

func (d *Downloader) Download(ctx context.Context, url string) (*webextract.Resource, error) {
	return d.DownloadFn(ctx, url)
}

var _ webextract.Sleeper = (*Sleeper)(nil)

// Sleeper is a mock implementation of webextract.Sleeper.
type Sleeper struct {
	SleepFn func(ctx context.Context, d time.Duration) error
}

func (s *Sleeper) Sleep(ctx context.Context, d time.Duration) error {
	return s.SleepFn(ctx, d)
}
