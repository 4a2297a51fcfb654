// Package slog provides logging decorators for yomu services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/yomu"
)

// Ensure LoggingFetcher implements yomu.Fetcher.
var _ yomu.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   yomu.Fetcher
	logger *slog.Logger
	tier   string
}

// NewLoggingFetcher creates a new LoggingFetcher. tier names the wrapped
// fetcher in log records, e.g. "http" or "browser".
func NewLoggingFetcher(next yomu.Fetcher, logger *slog.Logger, tier string) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger, tier: tier}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Debug("fetch",
			"tier", f.tier,
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// Ensure LoggingDownloader implements yomu.Downloader.
var _ yomu.Downloader = (*LoggingDownloader)(nil)

// LoggingDownloader wraps a Downloader with debug logging.
type LoggingDownloader struct {
	next   yomu.Downloader
	logger *slog.Logger
}

// NewLoggingDownloader creates a new LoggingDownloader.
func NewLoggingDownloader(next yomu.Downloader, logger *slog.Logger) *LoggingDownloader {
	return &LoggingDownloader{next: next, logger: logger}
}

// Download delegates to the wrapped downloader and logs the operation.
func (d *LoggingDownloader) Download(ctx context.Context, url string) (data []byte, err error) {
	defer func(begin time.Time) {
		d.logger.Debug("download",
			"url", url,
			"bytes", len(data),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.Download(ctx, url)
}
