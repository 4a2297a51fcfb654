// Package fetch implements the two-tier article fetcher: PDF downloads,
// lightweight HTTP fetches and escalation to a headless browser.
package fetch

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/fwojciec/yomu"
)

// Ensure ContentFetcher implements yomu.ArticleFetcher at compile time.
var _ yomu.ArticleFetcher = (*ContentFetcher)(nil)

// ContentFetcher implements yomu.ArticleFetcher by classifying the URL and
// orchestrating the fetch tiers and extractors through injected
// dependencies. It holds no per-call state and is safe for concurrent use
// when its dependencies are.
type ContentFetcher struct {
	light      yomu.Fetcher
	browser    yomu.Fetcher
	downloader yomu.Downloader
	extractor  yomu.HTMLExtractor
	pdf        yomu.PDFExtractor
	cleaner    *yomu.Cleaner
	limiter    yomu.DomainLimiter
	pdfRules   []PDFRule
	minLength  int
	progress   yomu.ProgressFunc
}

// Option configures a ContentFetcher.
type Option func(*ContentFetcher)

// WithMinContentLength sets the number of characters the cleaned text must
// exceed. Defaults to yomu.DefaultMinContentLength.
func WithMinContentLength(n int) Option {
	return func(cf *ContentFetcher) {
		if n > 0 {
			cf.minLength = n
		}
	}
}

// WithPDFRules replaces the PDF classification rules.
func WithPDFRules(rules []PDFRule) Option {
	return func(cf *ContentFetcher) {
		cf.pdfRules = rules
	}
}

// WithCleaner sets the cleaner applied to PDF text.
func WithCleaner(c *yomu.Cleaner) Option {
	return func(cf *ContentFetcher) {
		cf.cleaner = c
	}
}

// WithLimiter delays each fetch until the URL's host is allowed a request.
func WithLimiter(l yomu.DomainLimiter) Option {
	return func(cf *ContentFetcher) {
		cf.limiter = l
	}
}

// WithProgress sets the sink for human-readable status messages.
func WithProgress(fn yomu.ProgressFunc) Option {
	return func(cf *ContentFetcher) {
		cf.progress = fn
	}
}

// NewContentFetcher creates a ContentFetcher. light is the lightweight
// HTTP tier, browser the rendering tier, downloader serves PDF payloads.
func NewContentFetcher(
	light yomu.Fetcher,
	browser yomu.Fetcher,
	downloader yomu.Downloader,
	extractor yomu.HTMLExtractor,
	pdf yomu.PDFExtractor,
	opts ...Option,
) *ContentFetcher {
	cf := &ContentFetcher{
		light:      light,
		browser:    browser,
		downloader: downloader,
		extractor:  extractor,
		pdf:        pdf,
		cleaner:    yomu.NewCleaner(yomu.DefaultCleanerConfig(), nil),
		pdfRules:   DefaultPDFRules(),
		minLength:  yomu.DefaultMinContentLength,
	}
	for _, opt := range opts {
		opt(cf)
	}
	return cf
}

// FetchArticle fetches rawURL and extracts its readable content.
func (cf *ContentFetcher) FetchArticle(ctx context.Context, rawURL string) (*yomu.FetchResult, error) {
	u, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	canonical := u.String()

	if cf.limiter != nil {
		if err := cf.limiter.Wait(ctx, u.Hostname()); err != nil {
			return nil, err
		}
	}

	if IsPDF(u, cf.pdfRules) {
		return cf.fetchPDF(ctx, canonical)
	}
	return cf.fetchHTML(ctx, canonical)
}

func (cf *ContentFetcher) fetchPDF(ctx context.Context, canonical string) (*yomu.FetchResult, error) {
	cf.progress.Report("Downloading PDF: " + canonical)

	data, err := cf.downloader.Download(ctx, canonical)
	if err != nil {
		return nil, err
	}

	doc, err := cf.pdf.ExtractPDF(data)
	if err != nil {
		return nil, err
	}

	text := cf.cleaner.Clean(doc.PlainText)
	if n := yomu.TextLength(text); n <= cf.minLength {
		return nil, yomu.Errorf(yomu.EEXTRACT, "PDF %s has too little text (%d characters)", canonical, n)
	}

	title := doc.Title
	if title == "" {
		title = yomu.UntitledPDF
	}

	return &yomu.FetchResult{
		Title:        title,
		PlainText:    text,
		CanonicalURL: canonical,
		ArticleHTML:  pdfHTML(title, text),
		Source:       yomu.FetchSourcePDF,
	}, nil
}

func (cf *ContentFetcher) fetchHTML(ctx context.Context, canonical string) (*yomu.FetchResult, error) {
	cf.progress.Report("Fetching: " + canonical)

	html, err := cf.light.Fetch(ctx, canonical)
	if err == nil {
		extraction := cf.extractor.ExtractHTML(html, canonical)
		n := yomu.TextLength(extraction.PlainText)
		if n > cf.minLength {
			return result(extraction, canonical, yomu.FetchSourceHTTP), nil
		}
		cf.progress.Report(fmt.Sprintf("Content too short (%d characters), rendering in browser", n))
	} else {
		cf.progress.Report("Lightweight fetch failed, rendering in browser")
	}

	html, err = cf.browser.Fetch(ctx, canonical)
	if err != nil {
		return nil, yomu.WrapError(yomu.EEXTRACT, err, "browser rendering of %s failed", canonical)
	}

	extraction := cf.extractor.ExtractHTML(html, canonical)
	if n := yomu.TextLength(extraction.PlainText); n <= cf.minLength {
		return nil, yomu.Errorf(yomu.EEXTRACT, "too little text at %s (%d characters)", canonical, n)
	}
	return result(extraction, canonical, yomu.FetchSourceBrowser), nil
}

func result(e *yomu.Extraction, canonical string, source yomu.FetchSource) *yomu.FetchResult {
	return &yomu.FetchResult{
		Title:        e.Title,
		PlainText:    e.PlainText,
		CanonicalURL: canonical,
		ArticleHTML:  e.ArticleHTML,
		ThumbnailURL: e.ThumbnailURL,
		Source:       source,
	}
}

// ParseURL validates rawURL as an absolute http or https URL and returns
// it normalized: surrounding space trimmed, scheme and host lower-cased,
// fragment removed. Invalid input fails with EINVALID.
func ParseURL(rawURL string) (*url.URL, error) {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return nil, yomu.Errorf(yomu.EINVALID, "empty URL")
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, yomu.WrapError(yomu.EINVALID, err, "invalid URL %q", s)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, yomu.Errorf(yomu.EINVALID, "invalid URL %q: scheme must be http or https", s)
	}
	if u.Hostname() == "" {
		return nil, yomu.Errorf(yomu.EINVALID, "invalid URL %q: missing host", s)
	}

	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	return u, nil
}
