// Package gemini implements yomu.Summarizer using Google Gemini.
package gemini

import (
	"context"

	"github.com/fwojciec/yomu"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Summarizer implements yomu.Summarizer at compile time.
var _ yomu.Summarizer = (*Summarizer)(nil)

// Summarizer implements yomu.Summarizer using Google Gemini.
type Summarizer struct {
	client   *genai.Client
	conv     yomu.Converter
	model    string
	maxRunes int
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithModel sets the model name.
func WithModel(model string) Option {
	return func(s *Summarizer) {
		if model != "" {
			s.model = model
		}
	}
}

// WithMaxPromptRunes bounds the article text sent to the model.
func WithMaxPromptRunes(n int) Option {
	return func(s *Summarizer) {
		if n > 0 {
			s.maxRunes = n
		}
	}
}

// NewSummarizer creates a new Summarizer. conv converts article HTML to
// Markdown for the prompt; nil sends plain text.
func NewSummarizer(client *genai.Client, conv yomu.Converter, opts ...Option) *Summarizer {
	s := &Summarizer{
		client:   client,
		conv:     conv,
		model:    DefaultModel,
		maxRunes: yomu.DefaultMaxPromptRunes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize asks Gemini for a JSON summary of article.
func (s *Summarizer) Summarize(ctx context.Context, article *yomu.FetchResult) (*yomu.Summary, error) {
	if article == nil || article.PlainText == "" {
		return nil, yomu.Errorf(yomu.EINVALID, "article content required")
	}

	prompt := BuildUserPrompt(s.conv, article, s.maxRunes)

	result, err := s.client.Models.GenerateContent(ctx, s.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		BuildConfig(),
	)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, yomu.Errorf(yomu.EINTERNAL, "gemini returned nil result")
	}

	summary, err := yomu.ParseSummary(result.Text())
	if err != nil {
		return nil, err
	}
	summary.ThumbnailURL = article.ThumbnailURL
	return summary, nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
// Responses are constrained to the summary JSON schema.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.3)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: yomu.SummarySystemPrompt()}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema:   summarySchema(),
	}
}

func summarySchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"translated_title": {Type: genai.TypeString},
			"summary":          {Type: genai.TypeString},
			"details":          {Type: genai.TypeString},
			"tags": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
		},
		Required:         []string{"translated_title", "summary", "details", "tags"},
		PropertyOrdering: []string{"translated_title", "summary", "details", "tags"},
	}
}

// BuildUserPrompt builds the user prompt containing the article.
func BuildUserPrompt(conv yomu.Converter, article *yomu.FetchResult, maxRunes int) string {
	return yomu.BuildSummaryPrompt(article, yomu.SummaryBody(conv, article), maxRunes)
}
