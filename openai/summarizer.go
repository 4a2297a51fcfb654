// Package openai implements yomu.Summarizer against OpenAI-compatible chat
// completion APIs.
package openai

import (
	"context"

	"github.com/fwojciec/yomu"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = "gpt-4o-mini"

// Ensure Summarizer implements yomu.Summarizer at compile time.
var _ yomu.Summarizer = (*Summarizer)(nil)

// Summarizer implements yomu.Summarizer with chat completions in JSON mode.
type Summarizer struct {
	client      openai.Client
	conv        yomu.Converter
	model       string
	maxRunes    int
	temperature float64
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

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(s *Summarizer) {
		s.temperature = t
	}
}

// NewClient creates an API client. An empty baseURL uses the OpenAI endpoint.
func NewClient(apiKey, baseURL string, opts ...option.RequestOption) openai.Client {
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}
	return openai.NewClient(append(reqOpts, opts...)...)
}

// NewSummarizer creates a new Summarizer. conv converts article HTML to
// Markdown for the prompt; nil sends plain text.
func NewSummarizer(client openai.Client, conv yomu.Converter, opts ...Option) *Summarizer {
	s := &Summarizer{
		client:      client,
		conv:        conv,
		model:       DefaultModel,
		maxRunes:    yomu.DefaultMaxPromptRunes,
		temperature: 0.3,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize asks the model for a JSON summary of article.
func (s *Summarizer) Summarize(ctx context.Context, article *yomu.FetchResult) (*yomu.Summary, error) {
	if article == nil || article.PlainText == "" {
		return nil, yomu.Errorf(yomu.EINVALID, "article content required")
	}

	params := BuildParams(s.model, s.temperature,
		yomu.BuildSummaryPrompt(article, yomu.SummaryBody(s.conv, article), s.maxRunes))

	resp, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, yomu.Errorf(yomu.EINTERNAL, "empty response from model %s", s.model)
	}

	summary, err := yomu.ParseSummary(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	summary.ThumbnailURL = article.ThumbnailURL
	return summary, nil
}

// BuildParams returns the chat completion request for a user prompt.
func BuildParams(model string, temperature float64, prompt string) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model: shared.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(yomu.SummarySystemPrompt()),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}
}
