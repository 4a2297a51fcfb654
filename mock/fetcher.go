package mock

import (
	"context"

	"github.com/fwojciec/yomu"
)

var (
	_ yomu.Fetcher        = (*Fetcher)(nil)
	_ yomu.Downloader     = (*Downloader)(nil)
	_ yomu.ArticleFetcher = (*ArticleFetcher)(nil)
)

// Fetcher is a mock implementation of yomu.Fetcher.
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

// Downloader is a mock implementation of yomu.Downloader.
type Downloader struct {
	DownloadFn func(ctx context.Context, url string) ([]byte, error)
}

func (d *Downloader) Download(ctx context.Context, url string) ([]byte, error) {
	return d.DownloadFn(ctx, url)
}

// ArticleFetcher is a mock implementation of yomu.ArticleFetcher.
type ArticleFetcher struct {
	FetchArticleFn func(ctx context.Context, url string) (*yomu.FetchResult, error)
}

func (f *ArticleFetcher) FetchArticle(ctx context.Context, url string) (*yomu.FetchResult, error) {
	return f.FetchArticleFn(ctx, url)
}
