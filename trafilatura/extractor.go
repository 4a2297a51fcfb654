// Package trafilatura implements yomu.Extractor with go-trafilatura.
package trafilatura

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fwojciec/yomu"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements yomu.Extractor at compile time.
var _ yomu.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura. It runs after readability in the HTML
// extraction pipeline.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor with trafilatura's own fallback
// extractors enabled.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{
			EnableFallback: true,
			ExcludeTables:  false,
		},
	}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*yomu.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, yomu.Errorf(yomu.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, fmt.Errorf("trafilatura: %w", err)
	}

	var contentHTML string
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, fmt.Errorf("render content: %w", err)
		}
		contentHTML = buf.String()
	}

	return &yomu.ExtractResult{
		Title:       strings.TrimSpace(result.Metadata.Title),
		ContentHTML: contentHTML,
	}, nil
}
