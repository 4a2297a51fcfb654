package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/dyatlov/go-opengraph/opengraph"
	"github.com/fwojciec/yomu"
)

// Ensure HTMLExtractor implements yomu.HTMLExtractor at compile time.
var _ yomu.HTMLExtractor = (*HTMLExtractor)(nil)

// minParagraphLength is the number of characters a paragraph must exceed
// to be kept by the paragraph strategy.
const minParagraphLength = 20

// HTMLExtractor extracts title, plain text, article HTML and thumbnail from
// a raw HTML document. Plain text comes from the first strategy whose
// cleaned output exceeds the minimum content length: the library
// extractors in order, then the content region, the long paragraphs, and
// finally the whole body.
type HTMLExtractor struct {
	strategies []yomu.Extractor
	cleaner    *yomu.Cleaner
	thumbnails yomu.ThumbnailSelector
	minLength  int
}

// Option configures an HTMLExtractor.
type Option func(*HTMLExtractor)

// WithCleaner sets the cleaner applied to extracted text.
func WithCleaner(c *yomu.Cleaner) Option {
	return func(e *HTMLExtractor) {
		e.cleaner = c
	}
}

// WithThumbnailSelector sets the thumbnail selector.
func WithThumbnailSelector(s yomu.ThumbnailSelector) Option {
	return func(e *HTMLExtractor) {
		e.thumbnails = s
	}
}

// WithMinContentLength sets the number of characters text must exceed to
// be accepted.
func WithMinContentLength(n int) Option {
	return func(e *HTMLExtractor) {
		if n > 0 {
			e.minLength = n
		}
	}
}

// NewHTMLExtractor creates an HTMLExtractor that tries strategies in order
// before the DOM heuristics.
func NewHTMLExtractor(strategies []yomu.Extractor, opts ...Option) *HTMLExtractor {
	e := &HTMLExtractor{
		strategies: strategies,
		cleaner:    yomu.NewCleaner(yomu.DefaultCleanerConfig(), nil),
		thumbnails: NewThumbnailSelector(),
		minLength:  yomu.DefaultMinContentLength,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractHTML never fails. When nothing qualifies it degrades to the best
// available text, the raw input as article HTML, and the placeholder title.
func (e *HTMLExtractor) ExtractHTML(rawHTML, pageURL string) *yomu.Extraction {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return &yomu.Extraction{
			Title:       yomu.UntitledTitle,
			ArticleHTML: rawHTML,
		}
	}

	result := &yomu.Extraction{
		Title: e.title(doc, rawHTML),
	}
	result.PlainText = e.plainText(doc, rawHTML)
	result.ArticleHTML = e.articleHTML(doc, rawHTML)
	if pageURL != "" && e.thumbnails != nil {
		result.ThumbnailURL = e.thumbnails.SelectThumbnail(rawHTML, pageURL)
	}
	return result
}

// accepted reports whether cleaned text is long enough to stop the pipeline.
func (e *HTMLExtractor) accepted(cleaned string) bool {
	return yomu.TextLength(cleaned) > e.minLength
}

// plainText runs the text strategies in order. It removes non-content
// elements from doc.
func (e *HTMLExtractor) plainText(doc *goquery.Document, rawHTML string) string {
	var fallback string
	remember := func(cleaned string) {
		if fallback == "" {
			fallback = cleaned
		}
	}

	for _, s := range e.strategies {
		text := strategyText(s, rawHTML)
		cleaned := e.cleaner.Clean(text)
		if yomu.TextLength(strings.TrimSpace(text)) > e.minLength && e.accepted(cleaned) {
			return cleaned
		}
		remember(cleaned)
	}

	doc.Find(nonContentSelector).Remove()

	for _, tier := range []func(*goquery.Document) string{
		e.regionText,
		paragraphText,
		bodyText,
	} {
		cleaned := e.cleaner.Clean(tier(doc))
		if e.accepted(cleaned) {
			return cleaned
		}
		remember(cleaned)
	}

	return fallback
}

// strategyText returns the text rendering of a library extractor's content.
// A failing or panicking strategy yields no text.
func strategyText(s yomu.Extractor, rawHTML string) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	result, err := s.Extract(rawHTML)
	if err != nil || result == nil {
		return ""
	}
	return htmlText(result.ContentHTML)
}

// regionText returns the text of the first content region longer than the
// minimum length, or of the first non-empty region.
func (e *HTMLExtractor) regionText(doc *goquery.Document) string {
	var first string
	for _, sel := range regionSelectors {
		if text, ok := e.firstRegion(doc, sel, func(s *goquery.Selection) string {
			return renderText(s.Nodes)
		}); ok {
			return text
		} else if first == "" {
			first = text
		}
	}
	return first
}

// firstRegion returns render(s) for the first element matching sel whose
// text exceeds the minimum length. When none does, it returns the rendering
// of the first non-empty match and false.
func (e *HTMLExtractor) firstRegion(doc *goquery.Document, sel cascadia.Selector, render func(*goquery.Selection) string) (string, bool) {
	var found, first string
	doc.FindMatcher(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(renderText(s.Nodes))
		if text == "" {
			return true
		}
		if yomu.TextLength(text) > e.minLength {
			found = render(s)
			return false
		}
		if first == "" {
			first = render(s)
		}
		return true
	})
	if found != "" {
		return found, true
	}
	return first, false
}

// paragraphText joins every paragraph longer than minParagraphLength.
func paragraphText(doc *goquery.Document) string {
	var paragraphs []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		text := normalizeSpace(renderText(s.Nodes))
		if yomu.TextLength(text) > minParagraphLength {
			paragraphs = append(paragraphs, text)
		}
	})
	return strings.Join(paragraphs, "\n\n")
}

func bodyText(doc *goquery.Document) string {
	body := doc.Find("body")
	if body.Length() == 0 {
		return renderText(doc.Nodes)
	}
	return renderText(body.Nodes)
}

// title returns the document title, the first h1, or og:title, falling
// back to the placeholder.
func (e *HTMLExtractor) title(doc *goquery.Document, rawHTML string) string {
	if t := normalizeSpace(doc.Find("head title").First().Text()); t != "" {
		return t
	}
	if t := normalizeSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	if t := normalizeSpace(doc.Find("h1").First().Text()); t != "" {
		return t
	}

	og := opengraph.NewOpenGraph()
	// Partial results are usable even when tokenizing stops early.
	_ = og.ProcessHTML(strings.NewReader(rawHTML))
	if t := normalizeSpace(og.Title); t != "" {
		return t
	}
	return yomu.UntitledTitle
}

// articleHTML removes page chrome from doc and returns the inner HTML of the
// first article region with enough text, then the body, then rawHTML.
func (e *HTMLExtractor) articleHTML(doc *goquery.Document, rawHTML string) string {
	doc.Find(boilerplateSelector).Remove()

	inner := func(s *goquery.Selection) string {
		h, err := s.Html()
		if err != nil {
			return ""
		}
		return strings.TrimSpace(h)
	}

	for _, sel := range articleSelectors {
		if h, ok := e.firstRegion(doc, sel, inner); ok && h != "" {
			return h
		}
	}

	if h := inner(doc.Find("body")); h != "" {
		return h
	}
	return rawHTML
}
