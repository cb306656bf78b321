package http

import (
	"context"
	"strings"

	"github.com/fwojciec/webextract"
)

// Ensure Downloader implements webextract.Downloader at compile time.
var _ webextract.Downloader = (*Downloader)(nil)

// Downloader retrieves binary resources such as images.
type Downloader struct {
	client *client
}

// NewDownloader creates a new HTTP-based Downloader.
func NewDownloader(opts ...Option) *Downloader {
	return &Downloader{client: newClient(opts...)}
}

// Download retrieves the raw bytes at url together with the declared media
// type. Returns EFETCH for transport errors and non-2xx responses.
func (d *Downloader) Download(ctx context.Context, url string) (*webextract.Resource, error) {
	resp, err := d.client.get(ctx, url, "image/avif,image/webp,image/apng,image/*,*/*;q=0.8")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := readLimited(resp.Body, d.client.maxBytes)
	if err != nil {
		return nil, webextract.Errorf(webextract.EFETCH, "reading %s: %v", url, err)
	}

	mediaType, _, _ := strings.Cut(resp.Header.Get("Content-Type"), ";")
	return &webextract.Resource{
		URL:         url,
		ContentType: strings.ToLower(strings.TrimSpace(mediaType)),
		Data:        data,
	}, nil
}
