// Package unipdf implements yomu.PDFExtractor with unipdf.
package unipdf

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/fwojciec/yomu"
	"github.com/unidoc/unipdf/v3/common"
	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// Ensure Extractor implements yomu.PDFExtractor at compile time.
var _ yomu.PDFExtractor = (*Extractor)(nil)

// Title candidate bounds, in characters.
const (
	titleScanLines = 10
	minTitleLength = 10
	maxTitleLength = 200
)

// DefaultMaxPages bounds the pages read from one document.
const DefaultMaxPages = 200

var pageNumberLine = regexp.MustCompile(`(?i)^(p(age|\.)?\s*)?\d+(\s*(/|of|-)\s*\d+)?$`)

// Extractor extracts text from PDF documents.
type Extractor struct {
	maxPages int
	debug    bool
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMaxPages limits the number of pages read.
func WithMaxPages(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxPages = n
		}
	}
}

// WithDebug routes unipdf's log output to the console.
func WithDebug(debug bool) Option {
	return func(e *Extractor) {
		e.debug = debug
	}
}

// NewExtractor creates a new Extractor. unipdf logs through a process-wide
// logger, which is configured here: silent unless WithDebug is set.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(e)
	}

	if e.debug {
		common.SetLogger(common.NewConsoleLogger(common.LogLevelDebug))
	} else {
		common.SetLogger(common.DummyLogger{})
	}
	return e
}

// SetLicense applies a metered unipdf license key.
func SetLicense(key string) error {
	if err := license.SetMeteredKey(key); err != nil {
		return fmt.Errorf("set unipdf license: %w", err)
	}
	return nil
}

// ExtractPDF returns the text of every readable page, one page per line
// group, and a title derived from the first lines or the document info.
// Malformed documents, and documents where every page failed to extract,
// fail with EPDF. Unreadable pages are skipped when others succeed.
func (e *Extractor) ExtractPDF(data []byte) (result *yomu.PDFResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = yomu.Errorf(yomu.EPDF, "malformed PDF: %v", r)
		}
	}()

	reader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return nil, yomu.WrapError(yomu.EPDF, err, "malformed PDF")
	}

	encrypted, err := reader.IsEncrypted()
	if err != nil {
		return nil, yomu.WrapError(yomu.EPDF, err, "malformed PDF")
	}
	if encrypted {
		ok, err := reader.Decrypt([]byte(""))
		if err != nil || !ok {
			return nil, yomu.Errorf(yomu.EPDF, "encrypted PDF")
		}
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return nil, yomu.WrapError(yomu.EPDF, err, "read page count")
	}
	if numPages > e.maxPages {
		numPages = e.maxPages
	}

	pages := make([]string, 0, numPages)
	var firstErr error
	for i := 1; i <= numPages; i++ {
		text, err := readPage(reader, i)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("page %d: %w", i, err)
			}
			continue
		}
		pages = append(pages, text)
	}
	if firstErr != nil && strings.TrimSpace(strings.Join(pages, "")) == "" {
		return nil, yomu.WrapError(yomu.EPDF, firstErr,
			"no readable page (unipdf refuses text extraction without a license key)")
	}
	text := strings.Join(pages, "\n")

	title := DeriveTitle(text)
	if title == "" {
		title = infoTitle(reader)
	}
	if title == "" {
		title = yomu.UntitledPDF
	}

	return &yomu.PDFResult{
		Title:     title,
		PlainText: text,
	}, nil
}

func readPage(reader *model.PdfReader, n int) (string, error) {
	page, err := reader.GetPage(n)
	if err != nil {
		return "", err
	}
	return pageText(page)
}

func pageText(page *model.PdfPage) (string, error) {
	ex, err := extractor.New(page)
	if err != nil {
		return "", err
	}
	return ex.ExtractText()
}

func infoTitle(reader *model.PdfReader) string {
	info, err := reader.GetPdfInfo()
	if err != nil || info == nil || info.Title == nil {
		return ""
	}
	return strings.TrimSpace(info.Title.Decoded())
}

// DeriveTitle returns the first of the leading non-empty lines of text that
// looks like a title: 10 to 200 characters, not a page number, and neither
// a page label nor a copyright line. It returns "" when no line qualifies.
func DeriveTitle(text string) string {
	scanned := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if scanned == titleScanLines {
			break
		}
		scanned++

		n := yomu.TextLength(line)
		if n < minTitleLength || n > maxTitleLength {
			continue
		}
		if pageNumberLine.MatchString(line) || strings.Contains(line, "Page ") {
			continue
		}
		if strings.Contains(line, "©") || strings.Contains(strings.ToLower(line), "(c)") {
			continue
		}
		return line
	}
	return ""
}
