package mock

import (
	"context"

	"github.com/fwojciec/yomu"
)

var (
	_ yomu.Summarizer      = (*Summarizer)(nil)
	_ yomu.SummaryWriter   = (*SummaryWriter)(nil)
	_ yomu.CredentialStore = (*CredentialStore)(nil)
	_ yomu.Converter       = (*Converter)(nil)
)

// Summarizer is a mock implementation of yomu.Summarizer.
type Summarizer struct {
	SummarizeFn func(ctx context.Context, article *yomu.FetchResult) (*yomu.Summary, error)
}

func (s *Summarizer) Summarize(ctx context.Context, article *yomu.FetchResult) (*yomu.Summary, error) {
	return s.SummarizeFn(ctx, article)
}

// SummaryWriter is a mock implementation of yomu.SummaryWriter.
type SummaryWriter struct {
	WriteSummaryFn func(ctx context.Context, summary *yomu.Summary, canonicalURL string) (string, error)
}

func (w *SummaryWriter) WriteSummary(ctx context.Context, summary *yomu.Summary, canonicalURL string) (string, error) {
	return w.WriteSummaryFn(ctx, summary, canonicalURL)
}

// CredentialStore is a mock implementation of yomu.CredentialStore.
type CredentialStore struct {
	HasCredentialFn func() bool
	CredentialFn    func() (string, error)
}

func (s *CredentialStore) HasCredential() bool {
	return s.HasCredentialFn()
}

func (s *CredentialStore) Credential() (string, error) {
	return s.CredentialFn()
}

// Converter is a mock implementation of yomu.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
