package mock

import "github.com/fwojciec/yomu"

var (
	_ yomu.Extractor         = (*Extractor)(nil)
	_ yomu.HTMLExtractor     = (*HTMLExtractor)(nil)
	_ yomu.PDFExtractor      = (*PDFExtractor)(nil)
	_ yomu.ThumbnailSelector = (*ThumbnailSelector)(nil)
)

// Extractor is a mock implementation of yomu.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*yomu.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*yomu.ExtractResult, error) {
	return e.ExtractFn(html)
}

// HTMLExtractor is a mock implementation of yomu.HTMLExtractor.
type HTMLExtractor struct {
	ExtractHTMLFn func(html, pageURL string) *yomu.Extraction
}

func (e *HTMLExtractor) ExtractHTML(html, pageURL string) *yomu.Extraction {
	return e.ExtractHTMLFn(html, pageURL)
}

// PDFExtractor is a mock implementation of yomu.PDFExtractor.
type PDFExtractor struct {
	ExtractPDFFn func(data []byte) (*yomu.PDFResult, error)
}

func (e *PDFExtractor) ExtractPDF(data []byte) (*yomu.PDFResult, error) {
	return e.ExtractPDFFn(data)
}

// ThumbnailSelector is a mock implementation of yomu.ThumbnailSelector.
type ThumbnailSelector struct {
	SelectThumbnailFn func(html, baseURL string) string
}

func (s *ThumbnailSelector) SelectThumbnail(html, baseURL string) string {
	return s.SelectThumbnailFn(html, baseURL)
}
