package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/yomu"
)

// Ensure LoggingSummarizer implements yomu.Summarizer.
var _ yomu.Summarizer = (*LoggingSummarizer)(nil)

// LoggingSummarizer wraps a Summarizer with logging.
type LoggingSummarizer struct {
	next   yomu.Summarizer
	logger *slog.Logger
}

// NewLoggingSummarizer creates a new LoggingSummarizer.
func NewLoggingSummarizer(next yomu.Summarizer, logger *slog.Logger) *LoggingSummarizer {
	return &LoggingSummarizer{next: next, logger: logger}
}

// Summarize delegates to the wrapped summarizer and logs the operation.
func (s *LoggingSummarizer) Summarize(ctx context.Context, article *yomu.FetchResult) (summary *yomu.Summary, err error) {
	var url string
	if article != nil {
		url = article.CanonicalURL
	}
	defer func(begin time.Time) {
		attrs := []any{
			"url", url,
			"duration", time.Since(begin),
		}
		if summary != nil {
			attrs = append(attrs, "tags", len(summary.Tags))
		}
		attrs = append(attrs, "err", err)
		s.logger.Info("summarize", attrs...)
	}(time.Now())
	return s.next.Summarize(ctx, article)
}
