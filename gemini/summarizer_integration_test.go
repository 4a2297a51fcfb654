//go:build integration

package gemini_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fwojciec/yomu"
	"github.com/fwojciec/yomu/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestSummarizer_Integration_ReturnsJapaneseSummary(t *testing.T) {
	t.Parallel()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	require.NoError(t, err)

	s := gemini.NewSummarizer(client, nil)

	got, err := s.Summarize(ctx, &yomu.FetchResult{
		Title:        "Council Approves Budget",
		CanonicalURL: "https://example.com/budget",
		PlainText: "The city council approved the new budget on Tuesday evening after a long debate about transit funding. " +
			"Officials said the plan adds three new bus routes and extends service hours on weekends across the region.",
		Source: yomu.FetchSourceHTTP,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, got.Summary)
	assert.NotEmpty(t, got.TranslatedTitle)
}
