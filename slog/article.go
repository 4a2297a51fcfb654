package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/yomu"
)

// Ensure LoggingArticleFetcher implements yomu.ArticleFetcher.
var _ yomu.ArticleFetcher = (*LoggingArticleFetcher)(nil)

// LoggingArticleFetcher wraps an ArticleFetcher with logging.
type LoggingArticleFetcher struct {
	next   yomu.ArticleFetcher
	logger *slog.Logger
}

// NewLoggingArticleFetcher creates a new LoggingArticleFetcher.
func NewLoggingArticleFetcher(next yomu.ArticleFetcher, logger *slog.Logger) *LoggingArticleFetcher {
	return &LoggingArticleFetcher{next: next, logger: logger}
}

// FetchArticle delegates to the wrapped fetcher and logs the outcome.
func (f *LoggingArticleFetcher) FetchArticle(ctx context.Context, url string) (result *yomu.FetchResult, err error) {
	defer func(begin time.Time) {
		if err != nil {
			f.logger.Error("fetch article",
				"url", url,
				"code", yomu.ErrorCode(err),
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		f.logger.Info("fetch article",
			"url", result.CanonicalURL,
			"source", string(result.Source),
			"title", result.Title,
			"chars", yomu.TextLength(result.PlainText),
			"thumbnail", result.ThumbnailURL != "",
			"duration", time.Since(begin),
		)
	}(time.Now())
	return f.next.FetchArticle(ctx, url)
}
