package yomu

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultMaxPromptRunes bounds the article text sent to the LLM.
const DefaultMaxPromptRunes = 60000

// Summary is the LLM rendition of an article.
type Summary struct {
	// Summary is the three-line Japanese summary.
	Summary string `json:"summary"`

	// Details is the detailed Japanese rendition in Markdown.
	Details string `json:"details"`

	// TranslatedTitle is the title in Japanese.
	TranslatedTitle string `json:"translated_title"`

	Tags []string `json:"tags"`

	// ThumbnailURL is copied from the FetchResult, not produced by the LLM.
	ThumbnailURL string `json:"-"`
}

// Summarizer produces a Summary from fetched article content.
// Provider errors are returned as-is; implementations do not retry.
type Summarizer interface {
	Summarize(ctx context.Context, article *FetchResult) (*Summary, error)
}

// SummaryWriter persists a summary and returns the chosen filename.
type SummaryWriter interface {
	WriteSummary(ctx context.Context, summary *Summary, canonicalURL string) (string, error)
}

// CredentialStore exposes the LLM API credential.
type CredentialStore interface {
	HasCredential() bool

	// Credential returns ENOTFOUND when no credential is configured.
	Credential() (string, error)
}

// summarySystemPrompt is shared by all LLM backends.
const summarySystemPrompt = `あなたは海外や国内のWeb記事を日本語で要約する編集者です。
与えられた記事だけを根拠に、次のJSONオブジェクトのみを出力してください。
{
  "translated_title": "記事タイトルの自然な日本語訳",
  "summary": "記事の要点をちょうど3行で。各行は改行で区切る",
  "details": "記事全体の詳細な日本語訳または解説。Markdownで見出しや箇条書きを使ってよい",
  "tags": ["記事内容を表す短いタグを3〜5個"]
}
記事にない情報を付け加えないでください。`

// SummarySystemPrompt returns the system instruction for summarization.
func SummarySystemPrompt() string {
	return summarySystemPrompt
}

// BuildSummaryPrompt builds the user prompt for an article. body is the
// article content (Markdown when available, otherwise plain text) and is
// truncated to maxRunes characters.
func BuildSummaryPrompt(article *FetchResult, body string, maxRunes int) string {
	if maxRunes <= 0 {
		maxRunes = DefaultMaxPromptRunes
	}
	if runes := []rune(body); len(runes) > maxRunes {
		body = string(runes[:maxRunes]) + "\n...(truncated)"
	}

	var sb strings.Builder
	sb.WriteString("<article>\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", article.Title)
	fmt.Fprintf(&sb, "<source>%s</source>\n", article.CanonicalURL)
	sb.WriteString("<content>\n")
	sb.WriteString(body)
	sb.WriteString("\n</content>\n")
	sb.WriteString("</article>\n")
	return sb.String()
}

// SummaryBody returns the content to summarize: ArticleHTML converted to
// Markdown when that yields more than DefaultMinContentLength characters,
// otherwise PlainText. PDFs always use PlainText.
func SummaryBody(conv Converter, article *FetchResult) string {
	if conv == nil || article.Source == FetchSourcePDF || strings.TrimSpace(article.ArticleHTML) == "" {
		return article.PlainText
	}
	md, err := conv.Convert(article.ArticleHTML)
	if err != nil {
		return article.PlainText
	}
	md = strings.TrimSpace(md)
	if TextLength(md) <= DefaultMinContentLength {
		return article.PlainText
	}
	return md
}

// ParseSummary decodes an LLM response into a Summary. Markdown code
// fences around the JSON object are tolerated.
func ParseSummary(text string) (*Summary, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		text = text[start : end+1]
	}

	var s Summary
	if err := json.Unmarshal([]byte(text), &s); err != nil {
		return nil, WrapError(EINTERNAL, err, "malformed summary response")
	}
	if strings.TrimSpace(s.Summary) == "" {
		return nil, Errorf(EINTERNAL, "summary response has no summary")
	}

	s.Summary = strings.TrimSpace(s.Summary)
	s.Details = strings.TrimSpace(s.Details)
	s.TranslatedTitle = strings.TrimSpace(s.TranslatedTitle)
	tags := s.Tags[:0]
	for _, tag := range s.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	s.Tags = tags
	return &s, nil
}
