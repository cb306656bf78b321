// Package http provides HTTP implementations of webextract.Fetcher and
// webextract.Downloader.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/webextract"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// DefaultMaxBytes caps response bodies at 32 MiB.
const DefaultMaxBytes = 32 << 20

// Ensure Fetcher implements webextract.Fetcher at compile time.
var _ webextract.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML pages and decodes them to UTF-8 using the declared
// or sniffed charset.
type Fetcher struct {
	client *client
}

// Option configures a Fetcher or a Downloader.
type Option func(*client)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		c.timeout = d
	}
}

// WithHeaders sets request headers sent with every request. Names are
// canonicalized, so "user-agent" replaces the default User-Agent.
func WithHeaders(headers map[string]string) Option {
	return func(c *client) {
		for k, v := range headers {
			c.headers[http.CanonicalHeaderKey(k)] = v
		}
	}
}

// WithMaxBytes limits the size of response bodies. Zero disables the limit.
func WithMaxBytes(n int64) Option {
	return func(c *client) {
		c.maxBytes = n
	}
}

// WithHTTPClient replaces the underlying http.Client. Its timeout takes
// precedence over WithTimeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.http = hc
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	return &Fetcher{client: newClient(opts...)}
}

// Fetch retrieves the page at url and returns its body as UTF-8 text.
// Returns EFETCH for transport errors and non-2xx responses.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	resp, err := f.client.get(ctx, url, "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := readLimited(resp.Body, f.client.maxBytes)
	if err != nil {
		return "", webextract.Errorf(webextract.EFETCH, "reading %s: %v", url, err)
	}

	return decode(body, resp.Header.Get("Content-Type")), nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

type client struct {
	http     *http.Client
	timeout  time.Duration
	headers  map[string]string
	maxBytes int64
}

func newClient(opts ...Option) *client {
	c := &client{
		timeout:  DefaultFetchTimeout,
		headers:  map[string]string{"User-Agent": webextract.DefaultUserAgent},
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	return c
}

// get issues a GET request and returns the response of a 2xx status. The
// caller closes the body.
func (c *client) get(ctx context.Context, url string, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, webextract.Errorf(webextract.EFETCH, "invalid request for %s: %v", url, err)
	}
	req.Header.Set("Accept", accept)
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, webextract.Errorf(webextract.EFETCH, "fetch %s: %v", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, webextract.Errorf(webextract.EFETCH, "HTTP %d for %s", resp.StatusCode, url)
	}

	return resp, nil
}

// readLimited reads up to limit bytes from r, failing when the body is
// larger. A limit of zero reads everything.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("response body exceeds %d bytes", limit)
	}
	return data, nil
}

// decode converts body to UTF-8 using the Content-Type charset, a <meta>
// declaration, or content sniffing, in that order.
func decode(body []byte, contentType string) string {
	enc, _, _ := charset.DetermineEncoding(body, contentType)
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return string(body)
	}
	return string(out)
}
