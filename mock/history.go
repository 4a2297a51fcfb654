package mock

import (
	"context"

	"github.com/fwojciec/yomu"
)

var _ yomu.ArticleService = (*ArticleService)(nil)

// ArticleService is a mock implementation of yomu.ArticleService.
type ArticleService struct {
	CreateArticleFn    func(ctx context.Context, record *yomu.ArticleRecord) error
	FindArticleByURLFn func(ctx context.Context, url string) (*yomu.ArticleRecord, error)
	FindArticlesFn     func(ctx context.Context, filter yomu.ArticleFilter) ([]*yomu.ArticleRecord, error)
	DeleteArticleFn    func(ctx context.Context, url string) error
}

func (s *ArticleService) CreateArticle(ctx context.Context, record *yomu.ArticleRecord) error {
	return s.CreateArticleFn(ctx, record)
}

func (s *ArticleService) FindArticleByURL(ctx context.Context, url string) (*yomu.ArticleRecord, error) {
	return s.FindArticleByURLFn(ctx, url)
}

func (s *ArticleService) FindArticles(ctx context.Context, filter yomu.ArticleFilter) ([]*yomu.ArticleRecord, error) {
	return s.FindArticlesFn(ctx, filter)
}

func (s *ArticleService) DeleteArticle(ctx context.Context, url string) error {
	return s.DeleteArticleFn(ctx, url)
}
