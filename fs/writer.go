// Package fs writes summaries as Markdown files.
package fs

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/fwojciec/yomu"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// maxSlugLength caps the slug part of a filename.
const maxSlugLength = 60

// pageExtensions are dropped from the slug.
var pageExtensions = map[string]bool{
	".html": true, ".htm": true, ".php": true, ".asp": true, ".aspx": true, ".pdf": true,
}

// Ensure Writer implements yomu.SummaryWriter at compile time.
var _ yomu.SummaryWriter = (*Writer)(nil)

// Writer writes summaries as <dir>/<YYYY-MM-DD>-<slug>.md. Files are written
// to a temporary file first and linked into place, so readers never see a
// partial file and an existing file is never overwritten.
type Writer struct {
	dir string
	now func() time.Time
}

// Option configures a Writer.
type Option func(*Writer)

// WithClock sets the time source for the date prefix and frontmatter.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) {
		w.now = now
	}
}

// NewWriter creates a new Writer that writes to dir.
func NewWriter(dir string, opts ...Option) *Writer {
	w := &Writer{dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteSummary writes summary and returns the path of the new file. When
// the name is taken, an 8-character random suffix is appended.
func (w *Writer) WriteSummary(ctx context.Context, summary *yomu.Summary, canonicalURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if summary == nil {
		return "", yomu.Errorf(yomu.EINVALID, "summary required")
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", err
	}

	now := w.now()
	content, err := FormatSummary(summary, canonicalURL, now)
	if err != nil {
		return "", err
	}

	tmp, err := w.writeTemp(content)
	if err != nil {
		return "", err
	}
	defer func() { _ = os.Remove(tmp) }()

	base := now.Format("2006-01-02") + "-" + Slug(canonicalURL)
	name := filepath.Join(w.dir, base+".md")
	if err := claim(tmp, name); err == nil {
		return name, nil
	} else if !errors.Is(err, os.ErrExist) {
		return "", err
	}

	name = filepath.Join(w.dir, base+"-"+uuid.NewString()[:8]+".md")
	if err := claim(tmp, name); err != nil {
		return "", err
	}
	return name, nil
}

func (w *Writer) writeTemp(content string) (string, error) {
	f, err := os.CreateTemp(w.dir, ".yomu-*.md.tmp")
	if err != nil {
		return "", err
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := os.Chmod(f.Name(), 0o644); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// claim links tmp to name, failing with os.ErrExist when name is taken.
func claim(tmp, name string) error {
	err := os.Link(tmp, name)
	if err == nil || errors.Is(err, os.ErrExist) {
		return err
	}

	// Filesystems without hard links.
	if _, statErr := os.Stat(name); statErr == nil {
		return os.ErrExist
	}
	return os.Rename(tmp, name)
}

type frontmatter struct {
	Title     string   `yaml:"title"`
	Source    string   `yaml:"source"`
	Date      string   `yaml:"date"`
	Tags      []string `yaml:"tags,omitempty"`
	Thumbnail string   `yaml:"thumbnail,omitempty"`
}

// FormatSummary renders summary as Markdown with YAML frontmatter.
func FormatSummary(summary *yomu.Summary, canonicalURL string, date time.Time) (string, error) {
	title := strings.TrimSpace(summary.TranslatedTitle)
	if title == "" {
		title = canonicalURL
	}

	fm, err := yaml.Marshal(frontmatter{
		Title:     title,
		Source:    canonicalURL,
		Date:      date.Format("2006-01-02"),
		Tags:      summary.Tags,
		Thumbnail: summary.ThumbnailURL,
	})
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n")
	b.WriteString("# ")
	b.WriteString(title)
	b.WriteString("\n\n")
	if summary.ThumbnailURL != "" {
		fmt.Fprintf(&b, "![](%s)\n\n", summary.ThumbnailURL)
	}
	b.WriteString("## 要約\n\n")
	b.WriteString(strings.TrimSpace(summary.Summary))
	b.WriteString("\n\n## 詳細\n\n")
	b.WriteString(strings.TrimSpace(summary.Details))
	b.WriteString("\n")
	return b.String(), nil
}

// Slug derives a lower-case ASCII filename slug from the last meaningful
// path segment of rawURL, falling back to the host.
// Example: https://example.com/news/Budget_Vote.html → budget-vote
func Slug(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "article"
	}

	segment := path.Base(strings.TrimRight(u.Path, "/"))
	if ext := strings.ToLower(path.Ext(segment)); pageExtensions[ext] {
		segment = strings.TrimSuffix(segment, path.Ext(segment))
	}
	if s := slugify(segment); s != "" {
		return s
	}
	if s := slugify(u.Hostname()); s != "" {
		return s
	}
	return "article"
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}

	out := strings.TrimRight(b.String(), "-")
	if len(out) > maxSlugLength {
		out = strings.TrimRight(out[:maxSlugLength], "-")
	}
	return out
}
