package fetch

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// PDFRule classifies a URL as a PDF document. A rule with a Host matches
// that exact host (case-insensitive) and requires PathPrefix; a rule with
// only a Suffix matches any host whose path ends with it (case-insensitive).
type PDFRule struct {
	Host       string `yaml:"host"`
	PathPrefix string `yaml:"path_prefix"`
	Suffix     string `yaml:"suffix"`
}

// Match reports whether u is served as a PDF according to r.
func (r PDFRule) Match(u *url.URL) bool {
	if r.Host != "" && !strings.EqualFold(u.Hostname(), r.Host) {
		return false
	}
	if r.PathPrefix != "" && !strings.HasPrefix(u.Path, r.PathPrefix) {
		return false
	}
	if r.Suffix != "" && !strings.HasSuffix(strings.ToLower(u.Path), strings.ToLower(r.Suffix)) {
		return false
	}
	return r.Host != "" || r.PathPrefix != "" || r.Suffix != ""
}

// DefaultPDFRules match .pdf paths and arXiv PDF links.
func DefaultPDFRules() []PDFRule {
	return []PDFRule{
		{Suffix: ".pdf"},
		{Host: "arxiv.org", PathPrefix: "/pdf/"},
		{Host: "www.arxiv.org", PathPrefix: "/pdf/"},
	}
}

// IsPDF reports whether any rule matches u.
func IsPDF(u *url.URL, rules []PDFRule) bool {
	for _, r := range rules {
		if r.Match(u) {
			return true
		}
	}
	return false
}

// pdfHTML wraps extracted PDF text in a minimal HTML document.
func pdfHTML(title, text string) string {
	t := html.EscapeString(title)
	var sb strings.Builder
	sb.WriteString("<html><head><title>")
	sb.WriteString(t)
	sb.WriteString("</title></head><body><h1>")
	sb.WriteString(t)
	sb.WriteString("</h1><pre>")
	sb.WriteString(html.EscapeString(text))
	sb.WriteString("</pre></body></html>")
	return sb.String()
}
