package main

import (
	"context"
	"time"

	"github.com/fwojciec/yomu"
	"github.com/fwojciec/yomu/fetch"
	"github.com/fwojciec/yomu/sqlite"
)

// MaxConcurrency bounds the number of articles processed at once.
const MaxConcurrency = 5

// Outcome describes what happened to a single URL.
type Outcome struct {
	URL      string
	Title    string
	Filename string
	Source   yomu.FetchSource

	// Skipped is set when the URL was found in the history.
	Skipped bool
}

// Pipeline fetches, summarizes and writes one article at a time. It holds
// no per-call state, so one Pipeline serves concurrent calls.
type Pipeline struct {
	Fetcher    yomu.ArticleFetcher
	Summarizer yomu.Summarizer
	Writer     yomu.SummaryWriter

	// History is optional. When set, processed URLs are recorded and
	// skipped on later runs.
	History yomu.ArticleService

	// Timeout bounds each Process call. Zero means no limit.
	Timeout time.Duration
}

// Process runs one URL through the pipeline. With force, a URL already in
// the history is processed again and its record replaced once the new
// summary is written; a failed run leaves the old record in place.
func (p *Pipeline) Process(ctx context.Context, rawURL string, force bool) (*Outcome, error) {
	u, err := fetch.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	canonical := u.String()

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	if p.History != nil {
		rec, err := p.History.FindArticleByURL(ctx, canonical)
		switch {
		case err == nil && !force:
			return &Outcome{URL: canonical, Title: rec.Title, Filename: rec.Filename, Source: rec.Source, Skipped: true}, nil
		case err != nil && yomu.ErrorCode(err) != yomu.ENOTFOUND:
			return nil, err
		}
	}

	article, err := p.Fetcher.FetchArticle(ctx, canonical)
	if err != nil {
		return nil, err
	}

	summary, err := p.Summarizer.Summarize(ctx, article)
	if err != nil {
		return nil, err
	}

	filename, err := p.Writer.WriteSummary(ctx, summary, article.CanonicalURL)
	if err != nil {
		return nil, err
	}

	if p.History != nil {
		if force {
			if err := p.forget(ctx, canonical, article.CanonicalURL); err != nil {
				return nil, err
			}
		}
		err := p.History.CreateArticle(ctx, &yomu.ArticleRecord{
			URL:         article.CanonicalURL,
			Title:       article.Title,
			Filename:    filename,
			ContentHash: sqlite.HashContent(article.PlainText),
			Source:      article.Source,
		})
		// A concurrent run recorded the same URL first.
		if err != nil && yomu.ErrorCode(err) != yomu.ECONFLICT {
			return nil, err
		}
	}

	return &Outcome{
		URL:      article.CanonicalURL,
		Title:    article.Title,
		Filename: filename,
		Source:   article.Source,
	}, nil
}

// forget deletes the history records of urls, ignoring ones not recorded.
func (p *Pipeline) forget(ctx context.Context, urls ...string) error {
	seen := make(map[string]bool, len(urls))
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true
		if err := p.History.DeleteArticle(ctx, u); err != nil && yomu.ErrorCode(err) != yomu.ENOTFOUND {
			return err
		}
	}
	return nil
}
