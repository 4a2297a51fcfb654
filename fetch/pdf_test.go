package fetch_test

import (
	"net/url"
	"testing"

	"github.com/fwojciec/yomu"
	"github.com/fwojciec/yomu/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPDF(t *testing.T) {
	t.Parallel()

	custom := append(fetch.DefaultPDFRules(), fetch.PDFRule{Host: "papers.example.org", PathPrefix: "/download/"})

	tests := []struct {
		name  string
		url   string
		rules []fetch.PDFRule
		want  bool
	}{
		{name: "pdf suffix", url: "https://example.com/report.pdf", rules: fetch.DefaultPDFRules(), want: true},
		{name: "upper-case suffix", url: "https://example.com/REPORT.PDF", rules: fetch.DefaultPDFRules(), want: true},
		{name: "query does not count", url: "https://example.com/view?file=a.pdf", rules: fetch.DefaultPDFRules(), want: false},
		{name: "arxiv pdf path", url: "https://arxiv.org/pdf/1706.03762", rules: fetch.DefaultPDFRules(), want: true},
		{name: "arxiv www host", url: "https://www.arxiv.org/pdf/1706.03762v7", rules: fetch.DefaultPDFRules(), want: true},
		{name: "arxiv abstract page", url: "https://arxiv.org/abs/1706.03762", rules: fetch.DefaultPDFRules(), want: false},
		{name: "html article", url: "https://example.com/news/story", rules: fetch.DefaultPDFRules(), want: false},
		{name: "custom host rule", url: "https://papers.example.org/download/42", rules: custom, want: true},
		{name: "custom host other path", url: "https://papers.example.org/view/42", rules: custom, want: false},
		{name: "no rules", url: "https://example.com/report.pdf", rules: nil, want: false},
		{name: "empty rule matches nothing", url: "https://example.com/report", rules: []fetch.PDFRule{{}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			u, err := url.Parse(tt.url)
			require.NoError(t, err)

			assert.Equal(t, tt.want, fetch.IsPDF(u, tt.rules))
		})
	}
}

func TestParseURL(t *testing.T) {
	t.Parallel()

	t.Run("normalizes", func(t *testing.T) {
		t.Parallel()

		u, err := fetch.ParseURL("  HTTPS://News.Example.COM/Story?id=1#top ")

		require.NoError(t, err)
		assert.Equal(t, "https://news.example.com/Story?id=1", u.String())
	})

	t.Run("rejects non-http schemes", func(t *testing.T) {
		t.Parallel()

		_, err := fetch.ParseURL("mailto:someone@example.com")

		assert.Equal(t, yomu.EINVALID, yomu.ErrorCode(err))
	})

	t.Run("rejects missing host", func(t *testing.T) {
		t.Parallel()

		_, err := fetch.ParseURL("http:///path")

		assert.Equal(t, yomu.EINVALID, yomu.ErrorCode(err))
	})
}
