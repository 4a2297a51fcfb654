package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/yomu"
	main "github.com/fwojciec/yomu/cmd/yomu"
	"github.com/fwojciec/yomu/mock"
	"github.com/fwojciec/yomu/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleURL = "https://example.com/news/story"

func testArticle() *yomu.FetchResult {
	return &yomu.FetchResult{
		Title:        "Budget vote delayed",
		PlainText:    "The council postponed the budget vote until next month.",
		CanonicalURL: articleURL,
		Source:       yomu.FetchSourceHTTP,
	}
}

func testSummary() *yomu.Summary {
	return &yomu.Summary{
		Summary:         "予算採決が延期された。\n議会は来月に再審議する。\n市民の反応は分かれている。",
		Details:         "詳細",
		TranslatedTitle: "予算採決が延期",
	}
}

// emptyHistory reports every URL as unprocessed and records creations.
func emptyHistory(created *[]*yomu.ArticleRecord) *mock.ArticleService {
	return &mock.ArticleService{
		FindArticleByURLFn: func(_ context.Context, url string) (*yomu.ArticleRecord, error) {
			return nil, yomu.Errorf(yomu.ENOTFOUND, "article %q not found", url)
		},
		CreateArticleFn: func(_ context.Context, r *yomu.ArticleRecord) error {
			if created != nil {
				*created = append(*created, r)
			}
			return nil
		},
	}
}

func okFetcher() *mock.ArticleFetcher {
	return &mock.ArticleFetcher{
		FetchArticleFn: func(_ context.Context, _ string) (*yomu.FetchResult, error) {
			return testArticle(), nil
		},
	}
}

func okSummarizer() *mock.Summarizer {
	return &mock.Summarizer{
		SummarizeFn: func(_ context.Context, _ *yomu.FetchResult) (*yomu.Summary, error) {
			return testSummary(), nil
		},
	}
}

func okWriter() *mock.SummaryWriter {
	return &mock.SummaryWriter{
		WriteSummaryFn: func(_ context.Context, _ *yomu.Summary, _ string) (string, error) {
			return "out/2026-01-02-story.md", nil
		},
	}
}

func TestPipeline_Process(t *testing.T) {
	t.Parallel()

	t.Run("fetches summarizes writes and records", func(t *testing.T) {
		t.Parallel()

		var fetchedURL, writtenURL string
		var summarized *yomu.FetchResult
		var created []*yomu.ArticleRecord

		p := &main.Pipeline{
			Fetcher: &mock.ArticleFetcher{
				FetchArticleFn: func(_ context.Context, url string) (*yomu.FetchResult, error) {
					fetchedURL = url
					return testArticle(), nil
				},
			},
			Summarizer: &mock.Summarizer{
				SummarizeFn: func(_ context.Context, a *yomu.FetchResult) (*yomu.Summary, error) {
					summarized = a
					return testSummary(), nil
				},
			},
			Writer: &mock.SummaryWriter{
				WriteSummaryFn: func(_ context.Context, _ *yomu.Summary, url string) (string, error) {
					writtenURL = url
					return "out/2026-01-02-story.md", nil
				},
			},
			History: emptyHistory(&created),
		}

		outcome, err := p.Process(context.Background(), "  HTTPS://Example.COM/news/story#comments ", false)

		require.NoError(t, err)
		assert.Equal(t, articleURL, fetchedURL)
		assert.Equal(t, articleURL, writtenURL)
		require.NotNil(t, summarized)
		assert.Equal(t, "Budget vote delayed", summarized.Title)

		assert.False(t, outcome.Skipped)
		assert.Equal(t, articleURL, outcome.URL)
		assert.Equal(t, "out/2026-01-02-story.md", outcome.Filename)
		assert.Equal(t, yomu.FetchSourceHTTP, outcome.Source)

		require.Len(t, created, 1)
		assert.Equal(t, articleURL, created[0].URL)
		assert.Equal(t, "out/2026-01-02-story.md", created[0].Filename)
		assert.Equal(t, sqlite.HashContent(testArticle().PlainText), created[0].ContentHash)
		assert.Equal(t, yomu.FetchSourceHTTP, created[0].Source)
	})

	t.Run("skips URLs already in the history", func(t *testing.T) {
		t.Parallel()

		p := &main.Pipeline{
			Fetcher: &mock.ArticleFetcher{
				FetchArticleFn: func(_ context.Context, _ string) (*yomu.FetchResult, error) {
					t.Error("fetcher should not be called")
					return nil, nil
				},
			},
			History: &mock.ArticleService{
				FindArticleByURLFn: func(_ context.Context, url string) (*yomu.ArticleRecord, error) {
					return &yomu.ArticleRecord{URL: url, Title: "Old", Filename: "old.md", Source: yomu.FetchSourcePDF}, nil
				},
			},
		}

		outcome, err := p.Process(context.Background(), articleURL, false)

		require.NoError(t, err)
		assert.True(t, outcome.Skipped)
		assert.Equal(t, "old.md", outcome.Filename)
		assert.Equal(t, yomu.FetchSourcePDF, outcome.Source)
	})

	t.Run("force replaces the history record after writing", func(t *testing.T) {
		t.Parallel()

		var steps []string
		var created []*yomu.ArticleRecord
		history := emptyHistory(&created)
		history.FindArticleByURLFn = func(_ context.Context, url string) (*yomu.ArticleRecord, error) {
			return &yomu.ArticleRecord{URL: url, Filename: "old.md"}, nil
		}
		history.DeleteArticleFn = func(_ context.Context, url string) error {
			steps = append(steps, "delete "+url)
			return nil
		}

		p := &main.Pipeline{
			Fetcher:    okFetcher(),
			Summarizer: okSummarizer(),
			Writer: &mock.SummaryWriter{
				WriteSummaryFn: func(_ context.Context, _ *yomu.Summary, _ string) (string, error) {
					steps = append(steps, "write")
					return "out/2026-01-02-story.md", nil
				},
			},
			History: history,
		}

		outcome, err := p.Process(context.Background(), articleURL, true)

		require.NoError(t, err)
		assert.False(t, outcome.Skipped)
		assert.Equal(t, []string{"write", "delete " + articleURL}, steps)
		require.Len(t, created, 1)
		assert.Equal(t, "out/2026-01-02-story.md", created[0].Filename)
	})

	t.Run("force keeps the history record when the run fails", func(t *testing.T) {
		t.Parallel()

		var created []*yomu.ArticleRecord
		history := emptyHistory(&created)
		history.FindArticleByURLFn = func(_ context.Context, url string) (*yomu.ArticleRecord, error) {
			return &yomu.ArticleRecord{URL: url, Filename: "old.md"}, nil
		}
		history.DeleteArticleFn = func(_ context.Context, _ string) error {
			t.Error("DeleteArticle should not be called")
			return nil
		}

		p := &main.Pipeline{
			Fetcher: &mock.ArticleFetcher{
				FetchArticleFn: func(_ context.Context, url string) (*yomu.FetchResult, error) {
					return nil, yomu.Errorf(yomu.EHTTP, "HTTP 503 fetching %s", url)
				},
			},
			Summarizer: okSummarizer(),
			Writer:     okWriter(),
			History:    history,
		}

		_, err := p.Process(context.Background(), articleURL, true)

		assert.Equal(t, yomu.EHTTP, yomu.ErrorCode(err))
		assert.Empty(t, created)
	})

	t.Run("force replaces the record under the resolved URL too", func(t *testing.T) {
		t.Parallel()

		var deleted []string
		history := emptyHistory(nil)
		history.FindArticleByURLFn = func(_ context.Context, url string) (*yomu.ArticleRecord, error) {
			return &yomu.ArticleRecord{URL: url}, nil
		}
		history.DeleteArticleFn = func(_ context.Context, url string) error {
			deleted = append(deleted, url)
			if url == articleURL {
				return yomu.Errorf(yomu.ENOTFOUND, "article %q not found", url)
			}
			return nil
		}

		p := &main.Pipeline{
			Fetcher: &mock.ArticleFetcher{
				FetchArticleFn: func(_ context.Context, _ string) (*yomu.FetchResult, error) {
					a := testArticle()
					a.CanonicalURL = "https://example.com/news/story-amp"
					return a, nil
				},
			},
			Summarizer: okSummarizer(),
			Writer:     okWriter(),
			History:    history,
		}

		_, err := p.Process(context.Background(), articleURL, true)

		require.NoError(t, err)
		assert.Equal(t, []string{articleURL, "https://example.com/news/story-amp"}, deleted)
	})

	t.Run("fetch error stops the pipeline", func(t *testing.T) {
		t.Parallel()

		var created []*yomu.ArticleRecord
		p := &main.Pipeline{
			Fetcher: &mock.ArticleFetcher{
				FetchArticleFn: func(_ context.Context, url string) (*yomu.FetchResult, error) {
					return nil, yomu.Errorf(yomu.EEXTRACT, "too little text at %s", url)
				},
			},
			Summarizer: &mock.Summarizer{
				SummarizeFn: func(_ context.Context, _ *yomu.FetchResult) (*yomu.Summary, error) {
					t.Error("summarizer should not be called")
					return nil, nil
				},
			},
			History: emptyHistory(&created),
		}

		_, err := p.Process(context.Background(), articleURL, false)

		assert.Equal(t, yomu.EEXTRACT, yomu.ErrorCode(err))
		assert.Empty(t, created)
	})

	t.Run("summarizer error is returned as is", func(t *testing.T) {
		t.Parallel()

		p := &main.Pipeline{
			Fetcher: okFetcher(),
			Summarizer: &mock.Summarizer{
				SummarizeFn: func(_ context.Context, _ *yomu.FetchResult) (*yomu.Summary, error) {
					return nil, yomu.Errorf(yomu.EINTERNAL, "malformed summary response")
				},
			},
			Writer: &mock.SummaryWriter{
				WriteSummaryFn: func(_ context.Context, _ *yomu.Summary, _ string) (string, error) {
					t.Error("writer should not be called")
					return "", nil
				},
			},
		}

		_, err := p.Process(context.Background(), articleURL, false)

		assert.Equal(t, yomu.EINTERNAL, yomu.ErrorCode(err))
		assert.Equal(t, "malformed summary response", yomu.ErrorMessage(err))
	})

	t.Run("ignores a record created concurrently", func(t *testing.T) {
		t.Parallel()

		history := emptyHistory(nil)
		history.CreateArticleFn = func(_ context.Context, r *yomu.ArticleRecord) error {
			return yomu.Errorf(yomu.ECONFLICT, "article %q already recorded", r.URL)
		}

		p := &main.Pipeline{
			Fetcher:    okFetcher(),
			Summarizer: okSummarizer(),
			Writer:     okWriter(),
			History:    history,
		}

		outcome, err := p.Process(context.Background(), articleURL, false)

		require.NoError(t, err)
		assert.Equal(t, "out/2026-01-02-story.md", outcome.Filename)
	})

	t.Run("history lookup failure is returned", func(t *testing.T) {
		t.Parallel()

		p := &main.Pipeline{
			History: &mock.ArticleService{
				FindArticleByURLFn: func(_ context.Context, _ string) (*yomu.ArticleRecord, error) {
					return nil, yomu.Errorf(yomu.EINTERNAL, "database is locked")
				},
			},
		}

		_, err := p.Process(context.Background(), articleURL, false)

		assert.Equal(t, yomu.EINTERNAL, yomu.ErrorCode(err))
	})

	t.Run("works without history", func(t *testing.T) {
		t.Parallel()

		p := &main.Pipeline{
			Fetcher:    okFetcher(),
			Summarizer: okSummarizer(),
			Writer:     okWriter(),
		}

		outcome, err := p.Process(context.Background(), articleURL, false)

		require.NoError(t, err)
		assert.Equal(t, articleURL, outcome.URL)
	})

	t.Run("invalid URL", func(t *testing.T) {
		t.Parallel()

		p := &main.Pipeline{}

		_, err := p.Process(context.Background(), "ftp://example.com/file", false)

		assert.Equal(t, yomu.EINVALID, yomu.ErrorCode(err))
	})

	t.Run("timeout bounds each article", func(t *testing.T) {
		t.Parallel()

		p := &main.Pipeline{
			Fetcher: &mock.ArticleFetcher{
				FetchArticleFn: func(ctx context.Context, _ string) (*yomu.FetchResult, error) {
					_, ok := ctx.Deadline()
					assert.True(t, ok, "fetch context should carry a deadline")
					<-ctx.Done()
					return nil, ctx.Err()
				},
			},
			Timeout: 10 * time.Millisecond,
		}

		_, err := p.Process(context.Background(), articleURL, false)

		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
