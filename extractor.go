package yomu

// ExtractResult holds the output of a library-grade content extractor.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
// Implementations wrap readability-style libraries and are used as the
// first strategies of an HTMLExtractor.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	Extract(html string) (*ExtractResult, error)
}

// Extraction is the readable content of a single HTML document.
type Extraction struct {
	// Title is never empty; it falls back to UntitledTitle.
	Title string

	// PlainText is the cleaned body text.
	PlainText string

	// ArticleHTML is the reduced article fragment, the document body, or
	// the raw input when nothing better was found.
	ArticleHTML string

	// ThumbnailURL is the selected thumbnail, empty when none qualified.
	ThumbnailURL string
}

// HTMLExtractor turns raw HTML into readable content.
type HTMLExtractor interface {
	// ExtractHTML never fails. pageURL is used to resolve image URLs and
	// may be empty, in which case no thumbnail is selected.
	ExtractHTML(html, pageURL string) *Extraction
}

// PDFResult is the text content of a PDF document.
type PDFResult struct {
	Title     string
	PlainText string
}

// PDFExtractor extracts text from PDF documents.
type PDFExtractor interface {
	// ExtractPDF returns EPDF when the payload is not a readable PDF.
	ExtractPDF(data []byte) (*PDFResult, error)
}

// ImageSource is the tier an image candidate was collected from.
// Lower values win.
type ImageSource int

// ImageSource values in priority order.
const (
	ImageSourceMeta ImageSource = iota
	ImageSourceArticle
	ImageSourceGeneral
)

// String returns the source label.
func (s ImageSource) String() string {
	switch s {
	case ImageSourceMeta:
		return "meta"
	case ImageSourceArticle:
		return "article-region"
	case ImageSourceGeneral:
		return "general"
	}
	return "unknown"
}

// ImageCandidate is an image considered for the thumbnail.
// Width and Height are zero when unknown.
type ImageCandidate struct {
	URL    string
	Width  int
	Height int
	Alt    string
	Class  string
	Source ImageSource
}

// ThumbnailSelector picks one representative image from a document.
type ThumbnailSelector interface {
	// SelectThumbnail returns an absolute image URL, or "" if no image qualifies.
	SelectThumbnail(html, baseURL string) string
}
