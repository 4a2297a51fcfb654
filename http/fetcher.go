// Package http provides the lightweight fetch tier: plain HTTP GET requests
// without JavaScript execution, plus raw downloads for PDF documents.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/yomu"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 15 * time.Second

// DefaultUserAgent identifies yomu to the servers it fetches from.
const DefaultUserAgent = "Mozilla/5.0 (compatible; yomu/1.0; +https://github.com/fwojciec/yomu)"

// Body size caps.
const (
	DefaultMaxBodySize     = 10 << 20
	DefaultMaxDownloadSize = 50 << 20
)

// Ensure Fetcher implements yomu.Fetcher and yomu.Downloader at compile time.
var (
	_ yomu.Fetcher    = (*Fetcher)(nil)
	_ yomu.Downloader = (*Fetcher)(nil)
)

// Fetcher retrieves HTML content from URLs using HTTP requests.
// Unlike rod.Fetcher, this does not execute JavaScript.
// Fetcher is safe for concurrent use.
type Fetcher struct {
	client          *http.Client
	timeout         time.Duration
	userAgent       string
	maxBodySize     int64
	maxDownloadSize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (15s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodySize caps the bytes read from an HTML response. Longer bodies
// are truncated.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// WithMaxDownloadSize caps the bytes of a download. Larger payloads fail.
func WithMaxDownloadSize(n int64) Option {
	return func(f *Fetcher) {
		f.maxDownloadSize = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:         DefaultFetchTimeout,
		userAgent:       DefaultUserAgent,
		maxBodySize:     DefaultMaxBodySize,
		maxDownloadSize: DefaultMaxDownloadSize,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML content from the given URL, decoded to UTF-8
// according to the Content-Type header and meta tags.
// Non-2xx responses fail with EHTTP.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	resp, err := f.get(ctx, url, "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body := io.LimitReader(resp.Body, f.maxBodySize)
	r, err := charset.NewReader(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", url, err)
	}

	html, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", url, err)
	}

	return string(html), nil
}

// Download retrieves the raw response body. The Content-Type is not
// consulted. Non-2xx responses fail with EHTTP.
func (f *Fetcher) Download(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.get(ctx, url, "*/*")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxDownloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if int64(len(data)) > f.maxDownloadSize {
		return nil, yomu.Errorf(yomu.EHTTP, "download of %s exceeds %d bytes", url, f.maxDownloadSize)
	}

	return data, nil
}

// get issues a GET request and checks the status code. The caller closes
// the body of a successful response.
func (f *Fetcher) get(ctx context.Context, url, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, yomu.WrapError(yomu.EINVALID, err, "invalid request URL %s", url)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "ja,en-US;q=0.8,en;q=0.6")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		resp.Body.Close()
		return nil, yomu.Errorf(yomu.EHTTP, "HTTP %d for %s", resp.StatusCode, url)
	}

	return resp, nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
