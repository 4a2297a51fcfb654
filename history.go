package yomu

import (
	"context"
	"time"
)

// ArticleRecord is a processed article kept in the history store.
type ArticleRecord struct {
	ID string `json:"id"`

	// URL is the canonical URL the article was fetched from. Unique.
	URL string `json:"url"`

	Title    string `json:"title"`
	Filename string `json:"filename"`

	// ContentHash is the hex xxhash of the article's plain text.
	ContentHash string `json:"contentHash"`

	Source    FetchSource `json:"source"`
	CreatedAt time.Time   `json:"createdAt"`
}

// ArticleFilter narrows FindArticles. Zero values match everything.
type ArticleFilter struct {
	Source *FetchSource
	Since  *time.Time

	// Limit caps the number of records; 0 means no limit.
	Limit int
}

// ArticleService records processed articles so repeated runs can skip them.
type ArticleService interface {
	// CreateArticle stores a record, assigning ID and CreatedAt.
	// Returns ECONFLICT when the URL is already recorded.
	CreateArticle(ctx context.Context, record *ArticleRecord) error

	// FindArticleByURL returns ENOTFOUND when the URL has not been processed.
	FindArticleByURL(ctx context.Context, url string) (*ArticleRecord, error)

	// FindArticles returns records, newest first.
	FindArticles(ctx context.Context, filter ArticleFilter) ([]*ArticleRecord, error)

	// DeleteArticle removes the record for url. Returns ENOTFOUND if absent.
	DeleteArticle(ctx context.Context, url string) error
}
