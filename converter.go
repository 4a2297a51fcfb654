package yomu

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an article HTML fragment into Markdown.
	Convert(html string) (string, error)
}
