package yomu

import (
	"context"
	"unicode/utf8"
)

// DefaultMinContentLength is the number of characters extracted text must
// exceed to count as a successful extraction.
const DefaultMinContentLength = 100

// Placeholder titles.
const (
	UntitledTitle = "Untitled"
	UntitledPDF   = "Untitled PDF"
)

// FetchSource identifies which tier produced a FetchResult.
type FetchSource string

// FetchSource values.
const (
	FetchSourceHTTP    FetchSource = "http"
	FetchSourceBrowser FetchSource = "browser"
	FetchSourcePDF     FetchSource = "pdf"
)

// FetchResult is the readable content of an article.
// PlainText, ArticleHTML and ThumbnailURL always come from the same fetch attempt.
type FetchResult struct {
	Title        string      `json:"title"`
	PlainText    string      `json:"plainText"`
	CanonicalURL string      `json:"canonicalUrl"`
	ArticleHTML  string      `json:"articleHtml"`
	ThumbnailURL string      `json:"thumbnailUrl,omitempty"`
	Source       FetchSource `json:"source"`
}

// ArticleFetcher fetches and extracts a single article.
type ArticleFetcher interface {
	// FetchArticle returns EINVALID for malformed URLs, EHTTP when a PDF
	// download fails, EPDF for unreadable PDFs and EEXTRACT when no tier
	// produced enough text.
	FetchArticle(ctx context.Context, url string) (*FetchResult, error)
}

// ProgressFunc receives human-readable status messages. It is optional
// and not required for correctness.
type ProgressFunc func(msg string)

// Report calls fn when it is set.
func (fn ProgressFunc) Report(msg string) {
	if fn != nil {
		fn(msg)
	}
}

// TextLength returns the length of s in characters.
func TextLength(s string) int {
	return utf8.RuneCountInString(s)
}
