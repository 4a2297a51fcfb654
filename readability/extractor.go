// Package readability implements yomu.Extractor with go-readability.
package readability

import (
	"fmt"
	"strings"

	"github.com/fwojciec/yomu"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements yomu.Extractor at compile time.
var _ yomu.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract the main article content.
// It is the primary library strategy of the HTML extraction pipeline.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*yomu.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, yomu.Errorf(yomu.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, fmt.Errorf("readability: %w", err)
	}

	return &yomu.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		ContentHTML: article.Content,
	}, nil
}
