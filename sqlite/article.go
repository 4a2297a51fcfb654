package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/yomu"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ yomu.ArticleService = (*ArticleService)(nil)

// ArticleService implements yomu.ArticleService using SQLite.
type ArticleService struct {
	db  *DB
	now func() time.Time
}

// NewArticleService creates a new ArticleService.
func NewArticleService(db *DB) *ArticleService {
	return &ArticleService{db: db, now: time.Now}
}

const articleColumns = "id, url, title, filename, content_hash, source, created_at"

// CreateArticle records a processed article.
func (s *ArticleService) CreateArticle(ctx context.Context, record *yomu.ArticleRecord) error {
	if record == nil || strings.TrimSpace(record.URL) == "" {
		return yomu.Errorf(yomu.EINVALID, "article URL required")
	}

	id := uuid.New().String()
	createdAt := s.now().UTC()

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO articles (`+articleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO NOTHING
	`, id, record.URL, record.Title, record.Filename, record.ContentHash,
		string(record.Source), formatTime(createdAt))
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return yomu.Errorf(yomu.ECONFLICT, "article %s already recorded", record.URL)
	}

	record.ID = id
	record.CreatedAt = createdAt
	return nil
}

// FindArticleByURL retrieves the record for url.
func (s *ArticleService) FindArticleByURL(ctx context.Context, url string) (*yomu.ArticleRecord, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+articleColumns+" FROM articles WHERE url = ?", url)

	record, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, yomu.Errorf(yomu.ENOTFOUND, "article %s not found", url)
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// FindArticles retrieves records matching the filter, newest first.
func (s *ArticleService) FindArticles(ctx context.Context, filter yomu.ArticleFilter) ([]*yomu.ArticleRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + articleColumns + " FROM articles WHERE 1=1")

	if filter.Source != nil {
		query.WriteString(" AND source = ?")
		args = append(args, string(*filter.Source))
	}
	if filter.Since != nil {
		query.WriteString(" AND created_at >= ?")
		args = append(args, formatTime(*filter.Since))
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendLimit(&query, &args, filter.Limit)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*yomu.ArticleRecord
	for rows.Next() {
		record, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// DeleteArticle removes the record for url.
func (s *ArticleService) DeleteArticle(ctx context.Context, url string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM articles WHERE url = ?", url)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return yomu.Errorf(yomu.ENOTFOUND, "article %s not found", url)
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(row scanner) (*yomu.ArticleRecord, error) {
	var record yomu.ArticleRecord
	var source, createdAt string

	if err := row.Scan(&record.ID, &record.URL, &record.Title, &record.Filename,
		&record.ContentHash, &source, &createdAt); err != nil {
		return nil, err
	}

	record.Source = yomu.FetchSource(source)

	var err error
	record.CreatedAt, err = parseTime(createdAt, "created_at")
	if err != nil {
		return nil, err
	}
	return &record, nil
}
