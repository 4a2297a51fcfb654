// Package htmltomarkdown implements yomu.Converter with html-to-markdown.
package htmltomarkdown

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/yomu"
)

// Ensure Converter implements yomu.Converter at compile time.
var _ yomu.Converter = (*Converter)(nil)

// mediaTags carry no text worth sending to a summarizer.
var mediaTags = []string{"img", "picture", "svg", "video", "audio", "canvas"}

// Converter wraps html-to-markdown to turn article HTML into Markdown
// prompt input.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter that drops media elements.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	for _, tag := range mediaTags {
		conv.Register.TagType(tag, converter.TagTypeRemove, converter.PriorityStandard)
	}
	return &Converter{conv: conv}
}

// Convert transforms an article HTML fragment into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", yomu.Errorf(yomu.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("html-to-markdown: %w", err)
	}

	return strings.TrimSpace(result), nil
}
